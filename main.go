// Package main provides the entry point for the asciiforge CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/asciiforge/asciiforge/font"
	"github.com/asciiforge/asciiforge/forge"
	"github.com/asciiforge/asciiforge/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	fontID     string
	scheme     string
	animation  string
	tui        bool
	width      uint
	cacheSize  int
	timeout    time.Duration
	fontsDir   string

	rootCmd = &cobra.Command{
		Use:   "asciiforge [TEXT]",
		Short: "Render text as big block-glyph art, right in your terminal!",
		Long: paragraph(
			fmt.Sprintf("\nTurn a short message into %s block-glyph art. Run without arguments for the interactive UI.", keyword("big")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	fontID = viper.GetString("font")
	scheme = viper.GetString("scheme")
	animation = viper.GetString("animation")
	tui = viper.GetBool("tui")
	cacheSize = viper.GetInt("cache.capacity")
	timeout = viper.GetDuration("timeout")
	fontsDir = viper.GetString("fonts.dir")

	if cacheSize < 0 {
		return fmt.Errorf("cache capacity must not be negative, got %d", cacheSize)
	}
	if timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", timeout)
	}

	// Detect terminal width
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if !cmd.Flags().Changed("width") {
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(_ *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	// if stdin is a pipe then use stdin for input
	if yes, err := stdinIsPipe(); err != nil {
		return err
	} else if yes && text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("unable to read from stdin: %w", err)
		}
		text = strings.TrimRight(string(b), "\n")
	}

	if text == "" || tui {
		return runTUI(text)
	}
	return executeCLI(text, os.Stdout)
}

// newFontProvider builds the provider, loading the user font directory when
// one is configured.
func newFontProvider() *font.Provider {
	fonts := font.NewProvider()
	if fontsDir != "" {
		if err := fonts.LoadDir(fontsDir); err != nil {
			log.Warn("unable to load fonts directory", "dir", fontsDir, "error", err)
		}
	}
	return fonts
}

func executeCLI(text string, w io.Writer) error {
	fonts := newFontProvider()
	defer fonts.Close() //nolint:errcheck

	bus := forge.NewBus()
	gen := forge.NewGenerator(bus, fonts.Font, forge.Config{
		Timeout:       timeout,
		CacheCapacity: cacheSize,
	})

	var result forge.Result
	var genErr error
	bus.Subscribe(forge.EventGenerationComplete, func(e forge.Event) {
		result = e.(forge.GenerationCompleted).Result
	})
	bus.Subscribe(forge.EventGenerationError, func(e forge.Event) {
		genErr = errors.New(e.(forge.GenerationFailed).Message)
	})

	gen.Generate(forge.Request{
		Text:      text,
		FontID:    fontID,
		Scheme:    scheme,
		Animation: animation,
	})

	if genErr != nil {
		return genErr
	}

	out := result.ASCII
	if w := lipgloss.Width(out); uint(w) > width { //nolint:gosec
		log.Warn("rendered art is wider than the terminal", "art", w, "terminal", width)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out = ui.Colorize(out, ui.SchemeByName(scheme), "none", 0)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

func runTUI(text string) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Text = text
	cfg.FontID = fontID
	cfg.Scheme = scheme
	cfg.Animation = animation

	fonts := newFontProvider()
	defer fonts.Close() //nolint:errcheck

	bus := forge.NewBus()
	gen := forge.NewGenerator(bus, fonts.Font, forge.Config{
		Timeout:       timeout,
		CacheCapacity: cacheSize,
	})

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, bus, gen, fonts).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&fontID, "font", "f", forge.DefaultFont, "font name")
	rootCmd.Flags().StringVarP(&scheme, "scheme", "s", forge.DefaultScheme, "color scheme name")
	rootCmd.Flags().StringVarP(&animation, "animation", "a", forge.DefaultAnimation, "animation mode (TUI-mode only)")
	rootCmd.Flags().BoolVarP(&tui, "tui", "t", false, "display with tui")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "terminal width hint (set to 0 to auto-detect)")
	rootCmd.Flags().IntVar(&cacheSize, "cache-size", forge.DefaultCacheCapacity, "result cache capacity in entries")
	rootCmd.Flags().DurationVar(&timeout, "timeout", forge.DefaultTimeout, "render timeout")
	rootCmd.Flags().StringVar(&fontsDir, "fonts-dir", "", "directory with additional font files")

	// Config bindings
	_ = viper.BindPFlag("font", rootCmd.Flags().Lookup("font"))
	_ = viper.BindPFlag("scheme", rootCmd.Flags().Lookup("scheme"))
	_ = viper.BindPFlag("animation", rootCmd.Flags().Lookup("animation"))
	_ = viper.BindPFlag("tui", rootCmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("cache.capacity", rootCmd.Flags().Lookup("cache-size"))
	_ = viper.BindPFlag("timeout", rootCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("fonts.dir", rootCmd.Flags().Lookup("fonts-dir"))

	viper.SetDefault("font", forge.DefaultFont)
	viper.SetDefault("scheme", forge.DefaultScheme)
	viper.SetDefault("animation", forge.DefaultAnimation)
	viper.SetDefault("cache.capacity", forge.DefaultCacheCapacity)
	viper.SetDefault("timeout", forge.DefaultTimeout)
	viper.SetDefault("fonts.dir", "")

	rootCmd.AddCommand(configCmd, fontsCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "asciiforge")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "asciiforge")}, dirs...)
	}

	if c := os.Getenv("ASCIIFORGE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("asciiforge")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("asciiforge")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "asciiforge.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
