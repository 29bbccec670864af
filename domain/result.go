// SPDX-License-Identifier: GPL-3.0-or-later
package domain

type Evidence struct {
	Subjects   []string `json:"subjects,omitempty"`
	Credential string   `json:"credential,omitempty"`
	Sent       int      `json:"sent"`
	Received   int      `json:"received"`
}

type ClassificationResult struct {
	Address    string         `json:"address"`
	Name       string         `json:"name,omitempty"`
	Category   string         `json:"category"`
	Confidence int            `json:"confidence"`
	Scores     map[string]int `json:"scores"`
	Evidence   Evidence       `json:"evidence"`
}
