// Package ui holds the color themes shared by the CLI: ANSI escape codes for
// inline text and lipgloss colors for the bordered results box. NO_COLOR and
// --no-color select a theme whose codes are all empty.
package ui
