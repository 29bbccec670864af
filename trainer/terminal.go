// SPDX-License-Identifier: GPL-3.0-or-later
package trainer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/CrawX/go-contact-classifier/domain"
	"github.com/CrawX/go-contact-classifier/log"
	"github.com/CrawX/go-contact-classifier/mail"

	"github.com/charmbracelet/lipgloss"
)

const (
	previewLines    = 6
	previewSubjects = 5
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	guess    lipgloss.Style
	menu     lipgloss.Style
	warning  lipgloss.Style
	bordered lipgloss.Style
}

func newStyles(out io.Writer) *styles {
	r := lipgloss.NewRenderer(out)
	return &styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		guess:   r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		menu:    r.NewStyle().Foreground(lipgloss.Color("252")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		bordered: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

// Run drives a session from a line based terminal until the operator quits or the
// input ends. Both paths end with a final save.
func Run(s *Session, in io.Reader, out io.Writer) error {
	l := log.Logger(log.LOG_TRAINER)
	st := newStyles(out)
	lines := bufio.NewScanner(in)

	for s.State() != Done {
		c, ok := s.Current()
		if !ok {
			break
		}

		if err := render(out, st, s, c); err != nil {
			l.WithError(err).WithField("address", c.address()).Warn("Could not render correspondent, skipping")
			if err := s.Skip(); err != nil {
				return err
			}
			continue
		}

		if !lines.Scan() {
			break
		}

		outcome, err := s.Handle(lines.Text())
		if err != nil && !errors.Is(err, ErrSessionDone) {
			return err
		}
		if outcome == Ignored {
			fmt.Fprintln(out, st.warning.Render(fmt.Sprintf("Unknown choice %q", strings.TrimSpace(lines.Text()))))
		}
	}

	if err := lines.Err(); err != nil {
		l.WithError(err).Warn("Could not read input")
	}

	if err := s.Finish(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, st.muted.Render(fmt.Sprintf("Classified %d correspondents", s.Accepted())))
	return err
}

func render(out io.Writer, st *styles, s *Session, c Candidate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not render: %v", r)
		}
	}()

	_, err = io.WriteString(out, renderCandidate(st, s, c)+"\n")
	return err
}

func renderCandidate(st *styles, s *Session, c Candidate) string {
	rec, result := c.Record, c.Result
	pos, total := s.Position()

	name := result.Name
	if name == "" {
		name = mail.DisplayNameFromAddress(rec.Address)
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "%s %s\n", st.title.Render(name), st.muted.Render(fmt.Sprintf("<%s>  [%d/%d]", rec.Address, pos, total)))
	fmt.Fprintf(b, "%s sent %d, received %d\n", st.label.Render("Exchanges:"), rec.Sent, rec.Received)
	if rec.CredentialValue != "" {
		fmt.Fprintf(b, "%s %s\n", st.label.Render("Credential:"), rec.CredentialValue)
	}

	if len(rec.SampleSubjects) > 0 {
		b.WriteString(st.label.Render("Subjects:") + "\n")
		for i, subject := range rec.SampleSubjects {
			if i == previewSubjects {
				break
			}
			fmt.Fprintf(b, "  - %s\n", subject)
		}
	}

	if preview := bodyPreview(rec); preview != "" {
		b.WriteString(st.label.Render("Preview:") + "\n")
		b.WriteString(st.muted.Render(preview) + "\n")
	}

	fmt.Fprintf(b, "%s %s (%d%%)\n", st.label.Render("Guess:"), st.guess.Render(result.Category), result.Confidence)

	menu := []string{}
	for i := 0; i < s.Categories().Len(); i++ {
		def := s.Categories().At(i)
		menu = append(menu, fmt.Sprintf("[%d] %s", i+1, def.Label))
	}
	menu = append(menu, "[s] skip", "[q] quit")
	b.WriteString(st.menu.Render(strings.Join(menu, "  ")))

	return st.bordered.Render(b.String())
}

func bodyPreview(rec *domain.CorrespondentRecord) string {
	if len(rec.BodySamples) == 0 {
		return ""
	}
	lines := []string{}
	for _, line := range strings.Split(rec.BodySamples[0], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ">") {
			continue
		}
		if len(line) > 100 {
			line = strings.ToValidUTF8(line[:100], "") + "..."
		}
		lines = append(lines, "  "+line)
		if len(lines) == previewLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}
