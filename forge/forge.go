package forge

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/asciiforge/asciiforge/font"
)

// DefaultTimeout bounds a single render pass.
const DefaultTimeout = 10 * time.Second

// renderNotice stands in for raw render failures, which must not leak to
// users.
const renderNotice = "something went wrong while rendering your text"

var busyNotice = ErrBusy.Error() + ", please wait for it to finish"

// FontLookup resolves a font identifier to a glyph map. It must never fail;
// unknown identifiers resolve to a default font. font.Provider.Font satisfies
// this.
type FontLookup func(id string) font.GlyphMap

// RenderFunc produces block art for text with the given glyph map.
type RenderFunc func(text string, glyphs font.GlyphMap) string

// Config carries Generator tuning. Zero values fall back to defaults.
type Config struct {
	// Timeout bounds one render pass.
	Timeout time.Duration
	// CacheCapacity is the result cache's entry limit.
	CacheCapacity int
}

// Generator orchestrates generation: it validates and normalizes requests,
// consults the result cache, races the renderer against a timeout, stores
// results, and reports outcomes as bus events. Generate never returns an
// error and never lets one escape as a panic; every outcome is an event.
//
// At most one render is in flight per Generator. A Generate call arriving
// while another is rendering is rejected with a busy notice, never queued.
type Generator struct {
	bus    *Bus
	cache  *Cache
	fonts  FontLookup
	render RenderFunc

	timeout time.Duration

	mu      sync.Mutex
	machine *stateMachine
	busy    bool
}

// NewGenerator creates a Generator wired to the given bus and font lookup,
// and subscribes it to request:generate events so callers can drive it
// entirely over the bus.
func NewGenerator(bus *Bus, fonts FontLookup, cfg Config) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	g := &Generator{
		bus:     bus,
		cache:   NewCache(cfg.CacheCapacity),
		fonts:   fonts,
		render:  Render,
		timeout: cfg.Timeout,
		machine: newStateMachine(),
	}

	bus.Subscribe(EventGenerateRequested, func(e Event) {
		if req, ok := e.(GenerateRequested); ok {
			g.Generate(req.Request)
		}
	})

	return g
}

// State returns the orchestrator's current lifecycle state.
func (g *Generator) State() StateType {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.machine.Current()
}

// Stats exposes result cache counters for diagnostics.
func (g *Generator) Stats() CacheStats {
	return g.cache.Stats()
}

// Generate runs one generation. The outcome is delivered via bus events:
// generation:complete on success, generation:error otherwise. If another
// generation is already rendering, the call is rejected with a busy notice
// and the in-flight request is unaffected.
func (g *Generator) Generate(req Request) {
	g.mu.Lock()
	if g.busy {
		g.mu.Unlock()
		log.Debug("generation rejected, one already in flight")
		g.bus.Emit(GenerationFailed{Message: busyNotice})
		return
	}
	g.busy = true
	g.machine.transition(StateValidating)
	g.mu.Unlock()

	g.run(req)
}

func (g *Generator) run(req Request) {
	req = req.Normalize()

	if strings.TrimSpace(req.Text) == "" {
		g.fail(&ValidationError{Reason: "text is required"})
		return
	}

	key := req.CacheKey()
	if result, ok := g.cache.Get(key); ok {
		// The busy flag must be clear before completion is emitted: a
		// handler reacting to a hit may immediately issue the next request,
		// and a hit must never leave the system busy.
		g.setIdle()
		log.Debug("serving cached result", "font", result.Metadata.SourceFont, "lines", result.Metadata.LineCount)
		g.bus.Emit(GenerationCompleted{Result: result})
		return
	}

	g.mu.Lock()
	g.machine.transition(StateRendering)
	g.mu.Unlock()
	g.bus.Emit(GenerationStarted{Mode: "text"})

	glyphs := g.fonts(req.FontID)
	ascii, err := g.renderWithTimeout(req.Text, glyphs)
	if err != nil {
		g.fail(err)
		return
	}

	result := Result{
		Success: true,
		ASCII:   ascii,
		Metadata: Metadata{
			LineCount:  glyphs.Height,
			SourceFont: glyphs.Name,
		},
	}
	g.cache.Put(key, result)

	g.setIdle()
	g.bus.Emit(GenerationCompleted{Result: result})
}

type renderOutcome struct {
	ascii string
	err   error
}

// renderWithTimeout races the renderer against the configured budget. On
// timeout the render goroutine keeps running to completion, but its result is
// discarded and never cached; there is no way to abort composition once
// started.
func (g *Generator) renderWithTimeout(text string, glyphs font.GlyphMap) (string, error) {
	done := make(chan renderOutcome, 1)
	render := g.render
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- renderOutcome{err: &RenderError{Err: fmt.Errorf("%v", r)}}
			}
		}()
		done <- renderOutcome{ascii: render(text, glyphs)}
	}()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.ascii, out.err
	case <-timer.C:
		return "", &TimeoutError{Op: "text generation", Timeout: g.timeout}
	}
}

// fail returns the orchestrator to idle and surfaces err as a
// generation:error event. Raw render failures are logged but reported
// generically; validation and timeout messages are user-facing as is.
func (g *Generator) fail(err error) {
	g.setIdle()

	message := err.Error()
	switch e := err.(type) {
	case *ValidationError:
		log.Debug("request rejected", "reason", e.Reason)
	case *TimeoutError:
		log.Warn("generation timed out", "op", e.Op, "timeout", e.Timeout)
	case *RenderError:
		log.Error("glyph composition failed", "error", e.Err)
		message = renderNotice
	default:
		log.Error("generation failed", "error", err)
		message = renderNotice
	}

	g.bus.Emit(GenerationFailed{Message: message})
}

// setIdle clears the busy flag and returns the state machine to idle. Every
// terminal path runs through here; a stuck busy flag is the worst fault this
// subsystem can have.
func (g *Generator) setIdle() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.busy = false
	g.machine.transition(StateIdle)
}
