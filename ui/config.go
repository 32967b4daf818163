package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Initial request values, from flags or the config file.
	FontID    string
	Scheme    string
	Animation string
	Text      string

	HomeDir string `env:"HOME"`

	// ShowStats controls the cache stats footer.
	ShowStats bool `env:"ASCIIFORGE_SHOW_STATS" envDefault:"true"`

	// For debugging the UI.
	AnimationEnabled bool `env:"ASCIIFORGE_ENABLE_ANIMATION" envDefault:"true"`
}
