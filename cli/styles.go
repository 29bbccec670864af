// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	box    lipgloss.Style
}

func newStyles(out io.Writer) *styles {
	r := lipgloss.NewRenderer(out)
	return &styles{
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:  r.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Width(20),
		value:  r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		muted:  r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		box: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

func (s *styles) row(label string, value interface{}) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.value.Render(fmt.Sprint(value)))
}
