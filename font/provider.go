package font

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	homedir "github.com/mitchellh/go-homedir"
)

// Provider resolves font identifiers to glyph maps. Embedded fonts are
// parsed lazily on first use and cached; fonts from the user directory are
// loaded eagerly so parse errors surface at startup rather than mid-render.
//
// Font resolves every identifier: unknown names fall back to the default
// font. Renderers can therefore treat font lookup as infallible.
type Provider struct {
	mu     sync.RWMutex
	cache  map[string]GlyphMap
	userMu sync.RWMutex
	user   map[string]GlyphMap

	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewProvider creates a provider serving the embedded fonts.
func NewProvider() *Provider {
	return &Provider{
		cache: make(map[string]GlyphMap),
		user:  make(map[string]GlyphMap),
	}
}

// Font resolves id to a glyph map. The lookup is case-insensitive and never
// fails: ids that match no font resolve to the default font. User fonts
// shadow embedded fonts of the same name.
func (p *Provider) Font(id string) GlyphMap {
	id = strings.ToLower(strings.TrimSpace(id))

	p.userMu.RLock()
	m, ok := p.user[id]
	p.userMu.RUnlock()
	if ok {
		return m
	}

	if m, ok := p.builtin(id); ok {
		return m
	}

	if id != DefaultName {
		log.Debug("unknown font, using default", "font", id)
		return p.Font(DefaultName)
	}

	// The default font is embedded; failing to parse it is a build defect.
	panic("font: embedded default font is unavailable")
}

// DefaultName is the identifier unknown fonts resolve to.
const DefaultName = "standard"

func (p *Provider) builtin(id string) (GlyphMap, bool) {
	p.mu.RLock()
	m, ok := p.cache[id]
	p.mu.RUnlock()
	if ok {
		return m, true
	}

	if !builtinExists(id) {
		return GlyphMap{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.cache[id]; ok {
		return m, true
	}
	m, err := loadBuiltin(id)
	if err != nil {
		log.Error("unable to load embedded font", "font", id, "error", err)
		return GlyphMap{}, false
	}
	p.cache[id] = m
	return m, true
}

// Names returns all available font identifiers, user fonts included, sorted.
func (p *Provider) Names() []string {
	seen := make(map[string]struct{})
	for _, n := range builtinNames {
		seen[n] = struct{}{}
	}
	p.userMu.RLock()
	for n := range p.user {
		seen[n] = struct{}{}
	}
	p.userMu.RUnlock()

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadDir loads every .txt font in dir and watches it for changes, reloading
// fonts as files are added, edited, or removed. A font that fails to parse is
// logged and skipped; it never breaks the provider. Watching stops on Close.
func (p *Provider) LoadDir(dir string) error {
	expanded, err := homedir.Expand(dir)
	if err == nil {
		dir = expanded
	}
	p.dir = dir

	if err := p.reloadDir(); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("font directory watching unavailable", "dir", dir, "error", err)
		return nil
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		log.Warn("unable to watch font directory", "dir", dir, "error", err)
		return nil
	}

	p.watcher = w
	p.done = make(chan struct{})
	go p.watch()
	return nil
}

// Close stops the font directory watcher, if any.
func (p *Provider) Close() error {
	if p.watcher == nil {
		return nil
	}
	close(p.done)
	return p.watcher.Close()
}

func (p *Provider) watch() {
	for {
		select {
		case <-p.done:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".txt" {
				continue
			}
			log.Debug("font directory changed, reloading", "event", event.Op.String(), "file", event.Name)
			if err := p.reloadDir(); err != nil {
				log.Error("unable to reload font directory", "error", err)
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("font directory watch error", "error", err)
		}
	}
}

func (p *Provider) reloadDir() error {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return err
	}

	loaded := make(map[string]GlyphMap)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		name := strings.ToLower(strings.TrimSuffix(e.Name(), ".txt"))
		data, err := os.ReadFile(filepath.Join(p.dir, e.Name()))
		if err != nil {
			log.Warn("unable to read font file", "file", e.Name(), "error", err)
			continue
		}
		m, err := Parse(name, string(data))
		if err != nil {
			log.Warn("skipping malformed font file", "file", e.Name(), "error", err)
			continue
		}
		loaded[name] = m
	}

	p.userMu.Lock()
	p.user = loaded
	p.userMu.Unlock()
	return nil
}
