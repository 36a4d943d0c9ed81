package ui

import "github.com/gdamore/tcell/v2"

// MenuColors defines the Nord-inspired palette for buttons and dialogs.
var MenuColors = struct {
	Border     tcell.Color // Muted blue-gray for borders
	ModalBG    tcell.Color // Dark gray dialog background
	ButtonBG   tcell.Color // Button background
	ButtonText tcell.Color // Button text
}{
	Border:     tcell.PaletteColor(60),
	ModalBG:    tcell.PaletteColor(236),
	ButtonBG:   tcell.PaletteColor(60),
	ButtonText: tcell.PaletteColor(255),
}
