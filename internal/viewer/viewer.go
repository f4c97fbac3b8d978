// Package viewer models the archive PDF viewer. The page tries a script-driven renderer first,
// falls back to the browser's own PDF plugin, and finally to a thumbnail with download links.
package viewer

import (
	"errors"
	"fmt"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/archive"
)

// ErrInvalidTransition is returned when an event does not apply to the current state.
var ErrInvalidTransition = errors.New("invalid viewer transition")

// State is the lifecycle position of the viewer.
type State int

const (
	Uninitialized State = iota
	WorkerReady
	Loading
	Displaying
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case WorkerReady:
		return "workerReady"
	case Loading:
		return "loading"
	case Displaying:
		return "displaying"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Tier is the rendering strategy in use.
type Tier int

const (
	// Rich renders pages with the PDF.js worker. The served page does not bundle a worker yet,
	// so it starts on Embed; see Initial.
	Rich Tier = iota
	// Embed hands the file to the browser's native viewer.
	Embed
	// Static shows the thumbnail and the download and open actions.
	Static
)

func (t Tier) String() string {
	switch t {
	case Rich:
		return "rich"
	case Embed:
		return "embed"
	case Static:
		return "static"
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Event is something the page reports to the viewer.
type Event int

const (
	WorkerInitialized Event = iota
	WorkerFailed
	LoadStarted
	PageRendered
	RenderFailed
	EmbedFailed
)

// Machine is the viewer state. The zero value is an uninitialized rich viewer.
type Machine struct {
	state State
	tier  Tier
}

// Start returns the machine for an archive item. Items without a PDF start on the static tier.
func Start(item archive.Item) *Machine {
	if !item.Available {
		return &Machine{state: Failed, tier: Static}
	}
	return &Machine{}
}

// Initial returns the machine the served page starts from. No rich renderer ships with the
// page, so the worker counts as failed and available items open on the embed tier.
func Initial(item archive.Item) *Machine {
	m := Start(item)
	if m.State() == Uninitialized {
		_ = m.Fire(WorkerFailed)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Tier returns the current tier.
func (m *Machine) Tier() Tier { return m.tier }

// Fire applies ev. Failures never move the viewer back to a richer tier.
func (m *Machine) Fire(ev Event) error {
	switch {
	case m.state == Uninitialized && ev == WorkerInitialized:
		m.state = WorkerReady
	case m.state == Uninitialized && ev == WorkerFailed:
		m.state, m.tier = Displaying, Embed
	case m.state == WorkerReady && ev == LoadStarted:
		m.state = Loading
	case m.state == Displaying && m.tier == Rich && ev == LoadStarted:
		m.state = Loading
	case m.state == Loading && ev == PageRendered:
		m.state = Displaying
	case (m.state == Loading || m.state == Displaying) && m.tier == Rich && ev == RenderFailed:
		m.state, m.tier = Displaying, Embed
	case m.state == Displaying && m.tier == Embed && ev == EmbedFailed:
		m.state, m.tier = Failed, Static
	default:
		return fmt.Errorf("%w: event %d in %s/%s", ErrInvalidTransition, ev, m.state, m.tier)
	}
	return nil
}
