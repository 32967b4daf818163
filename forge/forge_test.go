package forge

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/asciiforge/asciiforge/font"
)

type eventRecorder struct {
	mu        sync.Mutex
	starts    []GenerationStarted
	completes []GenerationCompleted
	failures  []GenerationFailed
}

func recordEvents(bus *Bus) *eventRecorder {
	rec := &eventRecorder{}
	bus.Subscribe(EventGenerationStarted, func(e Event) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.starts = append(rec.starts, e.(GenerationStarted))
	})
	bus.Subscribe(EventGenerationComplete, func(e Event) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.completes = append(rec.completes, e.(GenerationCompleted))
	})
	bus.Subscribe(EventGenerationError, func(e Event) {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.failures = append(rec.failures, e.(GenerationFailed))
	})
	return rec
}

func (r *eventRecorder) counts() (starts, completes, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.starts), len(r.completes), len(r.failures)
}

func (r *eventRecorder) lastFailure(t *testing.T) GenerationFailed {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failures) == 0 {
		t.Fatal("no generation:error events recorded")
	}
	return r.failures[len(r.failures)-1]
}

func (r *eventRecorder) lastComplete(t *testing.T) GenerationCompleted {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.completes) == 0 {
		t.Fatal("no generation:complete events recorded")
	}
	return r.completes[len(r.completes)-1]
}

func newTestGenerator(t *testing.T, cfg Config) (*Generator, *Bus, *eventRecorder) {
	t.Helper()
	bus := NewBus()
	glyphs := testFont(t)
	g := NewGenerator(bus, func(string) font.GlyphMap { return glyphs }, cfg)
	return g, bus, recordEvents(bus)
}

// TestGenerateSuccess covers the full miss path: start event, rendered art,
// metadata, idle afterwards.
func TestGenerateSuccess(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{})

	g.Generate(Request{Text: "HI", FontID: "standard"})

	starts, completes, failures := rec.counts()
	if starts != 1 || completes != 1 || failures != 0 {
		t.Fatalf("events = %d starts, %d completes, %d failures; want 1, 1, 0", starts, completes, failures)
	}

	result := rec.lastComplete(t).Result
	if !result.Success {
		t.Error("result not marked successful")
	}
	if lines := strings.Split(result.ASCII, "\n"); len(lines) != 2 {
		t.Errorf("art has %d lines, want 2", len(lines))
	}
	if result.Metadata.LineCount != 2 {
		t.Errorf("Metadata.LineCount = %d, want 2", result.Metadata.LineCount)
	}
	if result.Metadata.SourceFont != "testfont" {
		t.Errorf("Metadata.SourceFont = %q, want %q", result.Metadata.SourceFont, "testfont")
	}
	if got := g.State(); got != StateIdle {
		t.Errorf("State() = %v after completion, want idle", got)
	}
}

// TestGenerateServedFromCache verifies a repeated identical request is served
// without invoking the renderer, case-insensitively, and that a hit emits no
// generation:start.
func TestGenerateServedFromCache(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{})

	renders := 0
	g.render = func(text string, glyphs font.GlyphMap) string {
		renders++
		return Render(text, glyphs)
	}

	g.Generate(Request{Text: "HI", FontID: "standard"})
	g.Generate(Request{Text: "hi", FontID: "STANDARD"})

	if renders != 1 {
		t.Errorf("renderer invoked %d times, want 1", renders)
	}
	if hits := g.Stats().Hits; hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", hits)
	}
	starts, completes, _ := rec.counts()
	if completes != 2 {
		t.Errorf("completes = %d, want 2", completes)
	}
	if starts != 1 {
		t.Errorf("starts = %d, want 1: cache hits must not emit generation:start", starts)
	}
}

// TestGenerateEmptyText verifies validation fails fast with the cache
// untouched.
func TestGenerateEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			g, _, rec := newTestGenerator(t, Config{})

			g.Generate(Request{Text: text})

			failure := rec.lastFailure(t)
			if !strings.Contains(failure.Message, "text is required") {
				t.Errorf("failure message = %q, want mention of required text", failure.Message)
			}
			stats := g.Stats()
			if stats.Size != 0 || stats.Misses != 0 {
				t.Errorf("cache touched by invalid request: %+v", stats)
			}
			if got := g.State(); got != StateIdle {
				t.Errorf("State() = %v after validation failure, want idle", got)
			}
		})
	}
}

// TestGenerateTimeout verifies a stalled renderer is cut off at the budget,
// the message names the timeout, and the busy flag is cleared.
func TestGenerateTimeout(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{Timeout: 10 * time.Millisecond})

	release := make(chan struct{})
	g.render = func(string, font.GlyphMap) string {
		<-release
		return ""
	}

	g.Generate(Request{Text: "SLOW"})
	close(release)

	failure := rec.lastFailure(t)
	if !strings.Contains(failure.Message, "timed out after 10ms") {
		t.Errorf("failure message = %q, want the 10ms budget named", failure.Message)
	}
	if stats := g.Stats(); stats.Size != 0 {
		t.Errorf("timed-out result was cached: size = %d", stats.Size)
	}

	// The orchestrator must accept the next request.
	g.render = Render
	g.Generate(Request{Text: "HI"})
	if _, completes, _ := rec.counts(); completes != 1 {
		t.Errorf("completes = %d after recovery, want 1", completes)
	}
}

// TestGenerateRenderPanic verifies a panicking renderer is contained, logged,
// and surfaced generically.
func TestGenerateRenderPanic(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{})

	g.render = func(string, font.GlyphMap) string {
		panic("glyph table corrupted")
	}

	g.Generate(Request{Text: "BOOM"})

	failure := rec.lastFailure(t)
	if strings.Contains(failure.Message, "corrupted") {
		t.Errorf("failure message leaked internals: %q", failure.Message)
	}
	if failure.Message != renderNotice {
		t.Errorf("failure message = %q, want %q", failure.Message, renderNotice)
	}
	if got := g.State(); got != StateIdle {
		t.Errorf("State() = %v after render panic, want idle", got)
	}

	g.render = Render
	g.Generate(Request{Text: "OK"})
	if _, completes, _ := rec.counts(); completes != 1 {
		t.Errorf("completes = %d after recovery, want 1", completes)
	}
}

// TestGenerateSingleFlight verifies a second Generate during rendering is
// rejected with a busy notice and does not corrupt the first request.
func TestGenerateSingleFlight(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{})

	started := make(chan struct{})
	release := make(chan struct{})
	g.render = func(text string, glyphs font.GlyphMap) string {
		close(started)
		<-release
		return Render(text, glyphs)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Generate(Request{Text: "FIRST"})
	}()

	<-started
	g.Generate(Request{Text: "SECOND"})

	failure := rec.lastFailure(t)
	if !strings.Contains(failure.Message, "already in progress") {
		t.Errorf("busy rejection message = %q", failure.Message)
	}

	close(release)
	<-done

	_, completes, failures := rec.counts()
	if completes != 1 {
		t.Errorf("completes = %d, want 1: the in-flight request must finish", completes)
	}
	if failures != 1 {
		t.Errorf("failures = %d, want exactly the busy rejection", failures)
	}
	if stats := g.Stats(); stats.Size != 1 {
		t.Errorf("cache size = %d, want only the first result", stats.Size)
	}
}

// TestGenerateBusyResetOnHit verifies a cache hit leaves the system ready:
// an unrelated request issued right after a hit must not be busy-rejected.
func TestGenerateBusyResetOnHit(t *testing.T) {
	g, _, rec := newTestGenerator(t, Config{})

	g.Generate(Request{Text: "HI"})
	g.Generate(Request{Text: "HI"}) // hit
	g.Generate(Request{Text: "BYE"})

	_, completes, failures := rec.counts()
	if failures != 0 {
		t.Fatalf("failures = %d, want 0: request after a hit was rejected (%q)",
			failures, rec.lastFailure(t).Message)
	}
	if completes != 3 {
		t.Errorf("completes = %d, want 3", completes)
	}
}

// TestGenerateOverBus verifies the orchestrator is drivable purely via
// request:generate events.
func TestGenerateOverBus(t *testing.T) {
	_, bus, rec := newTestGenerator(t, Config{})

	bus.Emit(GenerateRequested{Request: Request{Text: "HI"}})

	if _, completes, _ := rec.counts(); completes != 1 {
		t.Errorf("completes = %d after bus-driven request, want 1", completes)
	}
}

// TestGenerateCacheOverflow runs capacity+1 distinct requests end to end and
// verifies the LRU entry falls out.
func TestGenerateCacheOverflow(t *testing.T) {
	const capacity = 50
	g, _, rec := newTestGenerator(t, Config{CacheCapacity: capacity})

	for i := 0; i < capacity+1; i++ {
		g.Generate(Request{Text: fmt.Sprintf("MSG %d", i)})
	}

	stats := g.Stats()
	if stats.Size != capacity {
		t.Errorf("Stats().Size = %d, want %d", stats.Size, capacity)
	}
	if _, completes, failures := rec.counts(); completes != capacity+1 || failures != 0 {
		t.Errorf("events = %d completes, %d failures; want %d, 0", completes, failures, capacity+1)
	}

	// The first request is the least recently used; repeating it must miss
	// and therefore invoke the renderer again.
	renders := 0
	g.render = func(text string, glyphs font.GlyphMap) string {
		renders++
		return Render(text, glyphs)
	}
	g.Generate(Request{Text: "MSG 0"})
	if renders != 1 {
		t.Errorf("renderer invoked %d times for evicted entry, want 1", renders)
	}
}
