package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/asciiforge/asciiforge/forge"
)

// Messages delivered into the Bubble Tea loop.

// generationStartedMsg mirrors the generation:start event.
type generationStartedMsg struct {
	Mode string
}

// generationDoneMsg mirrors the generation:complete event.
type generationDoneMsg struct {
	Result forge.Result
}

// generationErrMsg mirrors the generation:error event.
type generationErrMsg struct {
	Message string
}

// animTickMsg advances animation frames.
type animTickMsg struct{}

// statusClearMsg expires a transient status line.
type statusClearMsg struct{}

// busBridge forwards forge bus events into the Bubble Tea program. Bus
// dispatch is synchronous and must never block on the UI, so events are
// buffered; if the UI somehow stops draining, further events are dropped
// with a warning rather than stalling generation.
type busBridge struct {
	events chan forge.Event
	subs   []forge.Subscription
	bus    *forge.Bus
}

func newBusBridge(bus *forge.Bus) *busBridge {
	b := &busBridge{
		events: make(chan forge.Event, 16),
		bus:    bus,
	}
	forward := func(e forge.Event) {
		select {
		case b.events <- e:
		default:
			log.Warn("dropping bus event, UI not draining", "event", e.Name())
		}
	}
	for _, name := range []string{
		forge.EventGenerationStarted,
		forge.EventGenerationComplete,
		forge.EventGenerationError,
	} {
		b.subs = append(b.subs, bus.Subscribe(name, forward))
	}
	return b
}

// wait returns a command that delivers the next bus event as a message.
// Update must re-arm it after every delivery.
func (b *busBridge) wait() tea.Cmd {
	return func() tea.Msg {
		e := <-b.events
		switch e := e.(type) {
		case forge.GenerationStarted:
			return generationStartedMsg{Mode: e.Mode}
		case forge.GenerationCompleted:
			return generationDoneMsg{Result: e.Result}
		case forge.GenerationFailed:
			return generationErrMsg{Message: e.Message}
		default:
			return nil
		}
	}
}

// close detaches the bridge from the bus.
func (b *busBridge) close() {
	for _, s := range b.subs {
		b.bus.Unsubscribe(s)
	}
}

// generateCmd publishes a generation request on the bus. The outcome comes
// back through the bridge as its own message.
func generateCmd(bus *forge.Bus, req forge.Request) tea.Cmd {
	return func() tea.Msg {
		bus.Emit(forge.GenerateRequested{Request: req})
		return nil
	}
}
