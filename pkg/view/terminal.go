package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 34

// RenderTerminal draws the comparison as cards next to each other.
func RenderTerminal(w io.Writer, c Comparison) error {
	r := lipgloss.NewRenderer(w)

	if c.Empty() {
		msg := r.NewStyle().Faint(true).Render("No cars to compare. Add some with 'carlot compare add ID'.")
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	cardStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#2563eb")).
		Padding(0, 1).
		Width(cardWidth)
	titleStyle := r.NewStyle().Bold(true)
	priceStyle := r.NewStyle().Foreground(lipgloss.Color("#10b981")).Bold(true)
	labelStyle := r.NewStyle().Faint(true)

	rendered := make([]string, 0, len(c.Cards))
	for _, card := range c.Cards {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n%s\n\n", titleStyle.Render(card.Title), priceStyle.Render(card.Price))
		for _, row := range card.Rows {
			fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(row.Label+":"), row.Value)
		}
		fmt.Fprintf(&b, "\n#%d", card.CarID)
		rendered = append(rendered, cardStyle.Render(b.String()))
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	return err
}
