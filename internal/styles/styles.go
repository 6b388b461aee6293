// Package styles provides shared lipgloss styles and the huh form theme.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner ASCII art for the header.
const Banner = `
 ╦ ╦╦╔═╗╦ ╦╦  ╦╔═╗╔╦╗
 ║║║║╚═╗╠═╣║  ║╚═╗ ║
 ╚╩╝╩╚═╝╩ ╩╩═╝╩╚═╝ ╩ `

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// HeaderStyle styles the wishlist name above an item page.
var HeaderStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// ItemTitleStyle styles an item's title.
var ItemTitleStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Bold(true)

// ItemDetailStyle styles an item's URL and image lines.
var ItemDetailStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	PaddingLeft(4)

// IndexStyle styles the position number in front of an item.
var IndexStyle = lipgloss.NewStyle().
	Foreground(ColorYellow).
	Width(4)

// SelectedStyle marks the selected wishlist.
var SelectedStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Bold(true)

// DividerStyle styles horizontal dividers and the page footer.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FormTheme returns the theme for interactive prompts.
func FormTheme() *huh.Theme {
	t := huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue)
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorGray)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorYellow)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorGreen)
	return t
}
