package tui

import (
	"os"
	"strings"
)

// Glyphs fall back to ASCII when requested (or when the terminal cannot be
// trusted with unicode, e.g. over some SSH setups).

func asciiGlyphs() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("TASKDECK_GLYPHS")))
	return v == "ascii"
}

func glyphDone() string {
	if asciiGlyphs() {
		return "[x]"
	}
	return "✓"
}

func glyphTodo() string {
	if asciiGlyphs() {
		return "[ ]"
	}
	return "○"
}

func glyphBullet() string {
	if asciiGlyphs() {
		return "*"
	}
	return "•"
}
