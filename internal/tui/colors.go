package tui

// Color constants for the inctrack TUI theme
const (
	// Base Colors
	ColorCardBackground = "#2A1215" // Dark red
	ColorBorder         = "#4A3438" // Grey-red

	// Text Colors
	ColorPrimaryText   = "#F2E6E7"
	ColorSecondaryText = "#C7B1B4"
	ColorDisabledText  = "#836D70"
	ColorPlaceholder   = "#C7B1B4"
	ColorHelpText      = "240"

	// Accent Colors
	ColorAccentMain   = "#C62828" // Logo, active borders
	ColorAccentBright = "#EF5350" // Highlights, running timers

	// State Colors
	ColorError   = "#FF5252"
	ColorSuccess = "#22C55E"
	ColorWarning = "#F59E0B"
)
