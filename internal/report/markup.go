package report

import (
	"html"

	"github.com/charmbracelet/lipgloss"
)

// markup decorates spans of the text report.
type markup interface {
	Bold(s string) string
	Underline(s string) string
	Italic(s string) string
	Escape(s string) string
}

// htmlMarkup emits the tag subset Telegram accepts in HTML parse mode.
type htmlMarkup struct{}

func (htmlMarkup) Bold(s string) string      { return "<b>" + s + "</b>" }
func (htmlMarkup) Underline(s string) string { return "<u>" + s + "</u>" }
func (htmlMarkup) Italic(s string) string    { return "<i>" + s + "</i>" }
func (htmlMarkup) Escape(s string) string    { return html.EscapeString(s) }

type terminalMarkup struct {
	bold      lipgloss.Style
	underline lipgloss.Style
	italic    lipgloss.Style
}

func newTerminalMarkup() terminalMarkup {
	return terminalMarkup{
		bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")),
		underline: lipgloss.NewStyle().
			Underline(true),
		italic: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6B7280")),
	}
}

func (t terminalMarkup) Bold(s string) string      { return t.bold.Render(s) }
func (t terminalMarkup) Underline(s string) string { return t.underline.Render(s) }
func (t terminalMarkup) Italic(s string) string    { return t.italic.Render(s) }
func (terminalMarkup) Escape(s string) string      { return s }
