package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable lays rows out in left-aligned columns under a header line.
// Widths are measured on rendered text so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	b.WriteString(renderRow(headers, widths, true))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(renderRow(row, widths, false))
	}
	return b.String()
}

func renderRow(cells []string, widths []int, header bool) string {
	parts := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if header {
			cell = BoldStyle.Render(cell)
		}
		parts[i] = cell + pad
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}
