package components

import "github.com/charmbracelet/bubbles/key"

// CarouselKeyMap defines key bindings for scrolling a listing carousel
type CarouselKeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Escape key.Binding
	Enter  key.Binding
}

// DefaultCarouselKeyMap returns the default carousel key bindings
func DefaultCarouselKeyMap() CarouselKeyMap {
	return CarouselKeyMap{
		Prev: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept filter"),
		),
	}
}

// OmnibarKeyMap defines key bindings for the omnibar
type OmnibarKeyMap struct {
	Escape key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
}

// DefaultOmnibarKeyMap returns the default omnibar key bindings
func DefaultOmnibarKeyMap() OmnibarKeyMap {
	return OmnibarKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select / look up"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑/C-p", "previous"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓/C-n", "next"),
		),
	}
}

// DetailKeyMap defines key bindings for the detail panel
type DetailKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Trailer key.Binding
	Close   key.Binding
}

// DefaultDetailKeyMap returns the default detail panel key bindings
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Trailer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "play trailer"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "enter", "backspace"),
			key.WithHelp("esc", "close"),
		),
	}
}

// TrailerKeyMap defines key bindings for the trailer modal
type TrailerKeyMap struct {
	Open  key.Binding
	Close key.Binding
}

// DefaultTrailerKeyMap returns the default trailer modal key bindings
func DefaultTrailerKeyMap() TrailerKeyMap {
	return TrailerKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter/o", "open in player"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Package-level key map instances
var (
	CarouselKeys = DefaultCarouselKeyMap()
	OmnibarKeys  = DefaultOmnibarKeyMap()
	DetailKeys   = DefaultDetailKeyMap()
	TrailerKeys  = DefaultTrailerKeyMap()
)
