package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bigGlyphs are 5x5 block glyphs for readouts and the workout clock
var bigGlyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
	'.': {"  ", "  ", "  ", "  ", "█ "},
	'-': {"     ", "     ", "█████", "     ", "     "},
}

// canRenderBig reports whether every rune of text has a big glyph
func canRenderBig(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if _, ok := bigGlyphs[r]; !ok {
			return false
		}
	}
	return true
}

// renderBig renders text with block glyphs, one style for every line.
// Text with runes that have no glyph is rendered as is.
func renderBig(text string, style lipgloss.Style) string {
	if !canRenderBig(text) {
		return style.Render(text)
	}

	var lines [5]strings.Builder
	for _, r := range text {
		glyph := bigGlyphs[r]
		for i := 0; i < 5; i++ {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ") // Space between glyphs
		}
	}

	var result strings.Builder
	for i := 0; i < 5; i++ {
		result.WriteString(style.Render(lines[i].String()))
		if i < 4 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// centerLines centers each line of a multi-line block within width
func centerLines(block string, width int) string {
	lineStyle := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = lineStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}
