// SPDX-License-Identifier: GPL-3.0-or-later
package domain

// RawMessage is one message cut out of an archive. Only single-line header values
// are kept and the body is capped by the parser.
type RawMessage struct {
	From    string
	To      string
	Cc      string
	Subject string
	Date    string
	Body    []string
}

func (m *RawMessage) HasHeaders() bool {
	return m.From != "" || m.To != "" || m.Cc != "" || m.Subject != "" || m.Date != ""
}
