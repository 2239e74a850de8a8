package logx

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusOK       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	statusRedirect = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusClient   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	statusServer   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

// ColorizeStatusWith renders an HTTP status, coloured by class when color
// is set.
func ColorizeStatusWith(status int, color bool) string {
	s := strconv.Itoa(status)
	if !color {
		return s
	}
	switch {
	case status >= 500:
		return statusServer.Render(s)
	case status >= 400:
		return statusClient.Render(s)
	case status >= 300:
		return statusRedirect.Render(s)
	default:
		return statusOK.Render(s)
	}
}
