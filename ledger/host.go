package ledger

import "github.com/nspcc-dev/neo-go/pkg/util"

// CallerResolver returns the account the current operation is attributed to.
type CallerResolver interface {
	Caller() util.Uint160
}

// EventSink accepts events produced by successful operations in the order
// they happen.
type EventSink interface {
	Emit(Event)
}

// Host groups capabilities of the environment running the Ledger.
type Host interface {
	CallerResolver
	EventSink
}

type funcHost struct {
	caller func() util.Uint160
	sink   EventSink
}

func (h funcHost) Caller() util.Uint160 { return h.caller() }

func (h funcHost) Emit(e Event) { h.sink.Emit(e) }

// NewHost returns Host resolving the caller with the given function and
// forwarding events to sink.
func NewHost(caller func() util.Uint160, sink EventSink) Host {
	return funcHost{caller: caller, sink: sink}
}
