package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphRows describes each character on a 3x5 grid; '#' is a filled cell.
var glyphRows = map[rune][5]string{
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", "###", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", "..#", ".#.", ".#."},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	':': {".", "#", ".", "#", "."},
}

// minBigWidth is the narrowest terminal that gets the large digits.
const minBigWidth = 40

// glyphLine expands one grid row, drawing each cell two columns wide so
// digits look square in a terminal.
func glyphLine(row string) string {
	var b strings.Builder
	for _, c := range row {
		if c == '#' {
			b.WriteString("██")
		} else {
			b.WriteString("  ")
		}
	}
	return b.String()
}

// renderBigTime renders a "MM:SS" string in large block digits, or as a
// single bold line when the terminal is narrower than minBigWidth.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigWidth {
		return style.Render(timeStr)
	}

	var lines [5][]string
	for _, ch := range timeStr {
		glyph, ok := glyphRows[ch]
		if !ok {
			continue
		}
		for i, row := range glyph {
			lines[i] = append(lines[i], glyphLine(row))
		}
	}

	styled := make([]string, len(lines))
	for i, parts := range lines {
		styled[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(styled, "\n")
}
