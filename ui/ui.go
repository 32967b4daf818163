// Package ui provides the terminal UI for asciiforge. It is a pure display
// collaborator: it publishes generation requests on the event bus and renders
// whatever comes back; all generation logic lives in the forge package.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"github.com/asciiforge/asciiforge/font"
	"github.com/asciiforge/asciiforge/forge"
)

const (
	statusMessageTimeout = time.Second * 3
	animFrameInterval    = time.Millisecond * 150
)

// NewProgram returns a new Tea program wired to the given bus, generator and
// font provider.
func NewProgram(cfg Config, bus *forge.Bus, gen *forge.Generator, fonts *font.Provider) *tea.Program {
	log.Debug("starting asciiforge ui",
		"font", cfg.FontID,
		"scheme", cfg.Scheme,
		"animation", cfg.Animation,
	)
	m := newModel(cfg, bus, gen, fonts)
	return tea.NewProgram(m, tea.WithAltScreen())
}

// state is the top-level UI state.
type state int

const (
	stateInput state = iota
	statePicker
)

type keyMap struct {
	Generate  key.Binding
	NextFont  key.Binding
	PrevFont  key.Binding
	Scheme    key.Binding
	Animation key.Binding
	Picker    key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Generate:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate")),
		NextFont:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next font")),
		PrevFont:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev font")),
		Scheme:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "color scheme")),
		Animation: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "animation")),
		Picker:    key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "find font")),
		Copy:      key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy art")),
		Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.NextFont, k.Scheme, k.Picker, k.Copy, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.NextFont, k.PrevFont},
		{k.Scheme, k.Animation, k.Picker},
		{k.Copy, k.Quit},
	}
}

type model struct {
	cfg    Config
	bus    *forge.Bus
	gen    *forge.Generator
	fonts  *font.Provider
	bridge *busBridge

	state state
	keys  keyMap
	help  help.Model
	input textinput.Model
	spin  spinner.Model

	fontNames []string
	fontIdx   int
	schemeIdx int
	animIdx   int

	// Font picker.
	picker    textinput.Model
	pickerIdx int
	filtered  []string

	art       string // uncolored, as produced by the generator
	meta      forge.Metadata
	frame     int
	rendering bool
	errText   string
	status    string

	width  int
	height int
}

func newModel(cfg Config, bus *forge.Bus, gen *forge.Generator, fonts *font.Provider) model {
	input := textinput.New()
	input.Placeholder = "Type something big…"
	input.CharLimit = 64
	input.SetValue(cfg.Text)
	input.Focus()

	picker := textinput.New()
	picker.Placeholder = "Filter fonts"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	names := fonts.Names()
	m := model{
		cfg:       cfg,
		bus:       bus,
		gen:       gen,
		fonts:     fonts,
		bridge:    newBusBridge(bus),
		keys:      defaultKeyMap(),
		help:      help.New(),
		input:     input,
		picker:    picker,
		spin:      spin,
		fontNames: names,
		filtered:  names,
	}
	m.fontIdx = indexOf(names, cfg.FontID)
	m.schemeIdx = schemeIndex(cfg.Scheme)
	m.animIdx = indexOfFold(Animations, cfg.Animation)
	return m
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.bridge.wait()}
	if strings.TrimSpace(m.input.Value()) != "" {
		cmds = append(cmds, m.generate())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state == statePicker {
			return m.updatePicker(msg)
		}
		return m.updateInput(msg)

	case generationStartedMsg:
		m.rendering = true
		m.errText = ""
		return m, tea.Batch(m.spin.Tick, m.bridge.wait())

	case generationDoneMsg:
		m.rendering = false
		m.errText = ""
		m.art = msg.Result.ASCII
		m.meta = msg.Result.Metadata
		cmds := []tea.Cmd{m.bridge.wait()}
		if m.animated() {
			cmds = append(cmds, m.animTick())
		}
		return m, tea.Batch(cmds...)

	case generationErrMsg:
		m.rendering = false
		m.errText = msg.Message
		return m, m.bridge.wait()

	case animTickMsg:
		if !m.animated() || m.art == "" {
			return m, nil
		}
		m.frame++
		return m, m.animTick()

	case statusClearMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if !m.rendering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.bridge.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Generate):
		return m, m.generate()

	case key.Matches(msg, m.keys.NextFont):
		m.fontIdx = (m.fontIdx + 1) % len(m.fontNames)
		return m, m.regenerate()

	case key.Matches(msg, m.keys.PrevFont):
		m.fontIdx = (m.fontIdx + len(m.fontNames) - 1) % len(m.fontNames)
		return m, m.regenerate()

	case key.Matches(msg, m.keys.Scheme):
		m.schemeIdx = (m.schemeIdx + 1) % len(Schemes)
		return m, m.regenerate()

	case key.Matches(msg, m.keys.Animation):
		m.animIdx = (m.animIdx + 1) % len(Animations)
		cmds := []tea.Cmd{m.regenerate()}
		if m.animated() && m.art != "" {
			cmds = append(cmds, m.animTick())
		}
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Picker):
		m.state = statePicker
		m.picker.SetValue("")
		m.filtered = m.fontNames
		m.pickerIdx = 0
		m.picker.Focus()
		m.input.Blur()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Copy):
		if m.art == "" {
			return m, nil
		}
		if err := clipboard.WriteAll(m.art); err != nil {
			log.Warn("unable to write to clipboard", "error", err)
			m.errText = "unable to copy to clipboard"
			return m, nil
		}
		m.status = "copied to clipboard"
		return m, tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
			return statusClearMsg{}
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.state = stateInput
		m.picker.Blur()
		m.input.Focus()
		return m, textinput.Blink

	case "up":
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
		return m, nil

	case "down":
		if m.pickerIdx < len(m.filtered)-1 {
			m.pickerIdx++
		}
		return m, nil

	case "enter":
		if len(m.filtered) > 0 {
			m.fontIdx = indexOf(m.fontNames, m.filtered[m.pickerIdx])
		}
		m.state = stateInput
		m.picker.Blur()
		m.input.Focus()
		return m, tea.Batch(textinput.Blink, m.regenerate())
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	m.filtered = filterFonts(m.picker.Value(), m.fontNames)
	if m.pickerIdx >= len(m.filtered) {
		m.pickerIdx = 0
	}
	return m, cmd
}

// generate publishes a request built from the current selections.
func (m model) generate() tea.Cmd {
	req := forge.Request{
		Text:      m.input.Value(),
		FontID:    m.currentFont(),
		Scheme:    Schemes[m.schemeIdx].Name,
		Animation: Animations[m.animIdx],
	}
	return generateCmd(m.bus, req)
}

// regenerate re-issues the current text after a selection change, if any.
func (m model) regenerate() tea.Cmd {
	if strings.TrimSpace(m.input.Value()) == "" {
		return nil
	}
	return m.generate()
}

func (m model) animTick() tea.Cmd {
	if !m.cfg.AnimationEnabled {
		return nil
	}
	return tea.Tick(animFrameInterval, func(time.Time) tea.Msg {
		return animTickMsg{}
	})
}

func (m model) animated() bool {
	return m.cfg.AnimationEnabled && Animations[m.animIdx] == "rainbow"
}

func (m model) currentFont() string {
	if len(m.fontNames) == 0 {
		return font.DefaultName
	}
	return m.fontNames[m.fontIdx]
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("asciiforge"))
	b.WriteString("\n")

	if m.state == statePicker {
		b.WriteString(m.picker.View())
		b.WriteString("\n\n")
		for i, name := range m.filtered {
			cursor := "  "
			line := valueStyle.Render(name)
			if i == m.pickerIdx {
				cursor = pickerCursorStyle.Render("> ")
				line = pickerCursorStyle.Render(name)
			}
			b.WriteString(cursor + line + "\n")
		}
		if len(m.filtered) == 0 {
			b.WriteString(labelStyle.Render("no matching fonts"))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.selectionLine())
	b.WriteString("\n")

	switch {
	case m.rendering:
		b.WriteString(artBoxStyle.Render(m.spin.View() + " rendering…"))
	case m.errText != "":
		b.WriteString(artBoxStyle.Render(errorStyle.Render(m.errText)))
	case m.art != "":
		colored := Colorize(m.art, Schemes[m.schemeIdx], Animations[m.animIdx], m.frame)
		b.WriteString(artBoxStyle.Render(colored))
	default:
		b.WriteString(artBoxStyle.Render(labelStyle.Render("press enter to generate")))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.cfg.ShowStats {
		b.WriteString(m.statsLine())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m model) selectionLine() string {
	parts := []string{
		labelStyle.Render("font ") + valueStyle.Render(m.currentFont()),
		labelStyle.Render("scheme ") + valueStyle.Render(Schemes[m.schemeIdx].Name),
		labelStyle.Render("animation ") + valueStyle.Render(Animations[m.animIdx]),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, labelStyle.Render("  ·  ")))
}

func (m model) statsLine() string {
	stats := m.gen.Stats()
	return labelStyle.Render(fmt.Sprintf(
		"cache %d/%d · hits %s · misses %s",
		stats.Size,
		stats.Capacity,
		humanize.Comma(stats.Hits),
		humanize.Comma(stats.Misses),
	))
}

// filterFonts narrows names with fuzzy matching; an empty query keeps all.
func filterFonts(query string, names []string) []string {
	if strings.TrimSpace(query) == "" {
		return names
	}
	matches := fuzzy.Find(query, names)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Str)
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return 0
}

func indexOfFold(values []string, value string) int {
	for i, v := range values {
		if strings.EqualFold(v, value) {
			return i
		}
	}
	return 0
}

func schemeIndex(name string) int {
	for i, s := range Schemes {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return 0
}
