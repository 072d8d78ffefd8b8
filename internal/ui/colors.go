package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Base styles - will be initialized based on terminal support
	successStyle  lipgloss.Style
	errorStyle    lipgloss.Style
	warningStyle  lipgloss.Style
	infoStyle     lipgloss.Style
	dimStyle      lipgloss.Style
	dedupedStyle  lipgloss.Style
	insertedStyle lipgloss.Style
	trackStyle    lipgloss.Style
	playlistStyle lipgloss.Style
	actionStyle   lipgloss.Style
	pathStyle     lipgloss.Style
)

func init() {
	initStyles()
}

func initStyles() {
	if !IsTerminal() {
		// Plain styles for non-terminal
		successStyle = lipgloss.NewStyle()
		errorStyle = lipgloss.NewStyle()
		warningStyle = lipgloss.NewStyle()
		infoStyle = lipgloss.NewStyle()
		dimStyle = lipgloss.NewStyle()
		dedupedStyle = lipgloss.NewStyle()
		insertedStyle = lipgloss.NewStyle()
		trackStyle = lipgloss.NewStyle()
		playlistStyle = lipgloss.NewStyle()
		actionStyle = lipgloss.NewStyle()
		pathStyle = lipgloss.NewStyle()
		return
	}

	// Colored styles for terminal
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dedupedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	insertedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	trackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	playlistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
}

// Success returns text rendered in the success style
func Success(text string) string {
	return successStyle.Render(text)
}

// Error returns text rendered in the error style
func Error(text string) string {
	return errorStyle.Render(text)
}

// Warning returns text rendered in the warning style
func Warning(text string) string {
	return warningStyle.Render(text)
}

// Info returns text rendered in the info style
func Info(text string) string {
	return infoStyle.Render(text)
}

// Dim returns text rendered in the dim style
func Dim(text string) string {
	return dimStyle.Render(text)
}

// Deduped marks a row that matched an existing master/content row and was reused
func Deduped(text string) string {
	return dedupedStyle.Render(text)
}

// Inserted marks a row that had no match and was newly inserted
func Inserted(text string) string {
	return insertedStyle.Render(text)
}

// Track returns a content/track title rendered in the track style
func Track(text string) string {
	return trackStyle.Render(text)
}

// Playlist returns a playlist name rendered in the playlist style
func Playlist(text string) string {
	return playlistStyle.Render(text)
}

// Action returns text rendered in the action style
func Action(text string) string {
	return actionStyle.Render(text)
}

// Path returns path text rendered in the path style
func Path(text string) string {
	return pathStyle.Render(text)
}

// SuccessMsg prints a success message
func SuccessMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Success("✓") + " " + msg)
}

// ErrorMsg prints an error message
func ErrorMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Error("✗") + " " + msg)
}

// WarningMsg prints a warning message
func WarningMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Warning("⚠") + " " + msg)
}

// InfoMsg prints an info message
func InfoMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(Info("ℹ") + " " + msg)
}
