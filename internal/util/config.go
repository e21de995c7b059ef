package util

// Config holds runtime settings and flags.
type Config struct {
	DSN     string
	Seed    string
	Theme   string // catppuccin|dracula|gruvbox|solarized_dark
	Items   int
	Columns int // 0 picks by terminal shape
	Margin  int
	LogFile string
}

// Persist reports whether viewport state is stored between runs.
func (c Config) Persist() bool { return c.DSN != "" }
