package tui

// Color constants for tranquil TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#10222B" // Deep teal
	ColorBorder         = "#35505C" // Slate

	// Text Colors
	ColorPrimaryText   = "#E6F0F2" // Primary text (readouts, titles)
	ColorSecondaryText = "#A9BCC2" // Secondary text, dates
	ColorDisabledText  = "#61747B" // Placeholders and sentinels
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#14B8A6" // Logo, variability readout, active borders
	ColorAccentBright = "#5EEAD4" // Highlights, selected row

	// Heart Colors
	ColorHeart      = "#F43F5E" // Heart-rate readout
	ColorHeartPulse = "#FFE4E6" // Peak of a haptic pulse

	// State Colors
	ColorError   = "#EF4444" // Errors, denied access
	ColorSuccess = "#22C55E" // Running workout
	ColorWarning = "#F59E0B" // Unavailable store
)
