package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/benjamintian2005/AITripPlanner/internal/model"
	"github.com/benjamintian2005/AITripPlanner/internal/tui/styles"
)

// renderNotice draws a blocking notice. Views swallow every key but the
// dismiss keys while one is shown.
func renderNotice(n model.Notice) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.Warning).Render(n.Title))
	b.WriteString("\n\n")
	b.WriteString(styles.Value.Render(n.Message))
	b.WriteString("\n\n")
	b.WriteString(styles.Hint.Render("enter ok"))
	return styles.Notice.Render(b.String())
}

func isDismissKey(key string) bool {
	switch key {
	case "enter", "esc", " ":
		return true
	}
	return false
}
