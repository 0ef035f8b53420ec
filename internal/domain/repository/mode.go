package repository

// Mode selects daily or minute bars.
type Mode string

const (
	ModeDaily  Mode = "daily"
	ModeMinute Mode = "minute"
)

// IsValidMode returns true if m is a supported mode.
func IsValidMode(m Mode) bool {
	switch m {
	case ModeDaily, ModeMinute:
		return true
	default:
		return false
	}
}

// DefaultMode returns the default mode.
func DefaultMode() Mode { return ModeDaily }

// NormalizeMode converts a raw string to a valid mode (or default).
func NormalizeMode(s string) Mode {
	if s == "" {
		return DefaultMode()
	}
	m := Mode(s)
	if IsValidMode(m) {
		return m
	}
	return DefaultMode()
}
