package ledger

import (
	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Names of the events emitted by the Ledger. They match notification names
// of the token contract.
const (
	TransferEventName = "Transfer"
	BurnEventName     = "Burn"
	MintEventName     = "Mint"
)

// Event is an immutable record of a successful state change.
type Event interface {
	// Name returns the event name.
	Name() string
	// Accounts returns the indexed accounts of the event.
	Accounts() []util.Uint160
}

// TransferEvent is emitted when Amount moves from From to To.
type TransferEvent struct {
	From   util.Uint160
	To     util.Uint160
	Amount *uint256.Int
}

// BurnEvent is emitted when Amount is destroyed from the From balance.
type BurnEvent struct {
	From   util.Uint160
	Amount *uint256.Int
}

// MintEvent is emitted when Amount is created on the From balance.
type MintEvent struct {
	From   util.Uint160
	Amount *uint256.Int
}

// Name implements Event.
func (TransferEvent) Name() string { return TransferEventName }

// Accounts implements Event.
func (e TransferEvent) Accounts() []util.Uint160 { return []util.Uint160{e.From, e.To} }

// Name implements Event.
func (BurnEvent) Name() string { return BurnEventName }

// Accounts implements Event.
func (e BurnEvent) Accounts() []util.Uint160 { return []util.Uint160{e.From} }

// Name implements Event.
func (MintEvent) Name() string { return MintEventName }

// Accounts implements Event.
func (e MintEvent) Accounts() []util.Uint160 { return []util.Uint160{e.From} }

// Log is an EventSink keeping events in memory in emission order with an
// index over their accounts. Zero value is ready to use.
type Log struct {
	events  []Event
	indexed map[util.Uint160][]int
}

// Emit implements EventSink.
func (l *Log) Emit(e Event) {
	if l.indexed == nil {
		l.indexed = make(map[util.Uint160][]int)
	}

	n := len(l.events)
	l.events = append(l.events, e)

	accs := e.Accounts()
	for i := range accs {
		if i > 0 && accs[i].Equals(accs[0]) {
			continue // self-transfer
		}
		l.indexed[accs[i]] = append(l.indexed[accs[i]], n)
	}
}

// Len returns number of stored events.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns all stored events in emission order.
func (l *Log) Events() []Event {
	res := make([]Event, len(l.events))
	copy(res, l.events)
	return res
}

// ByAccount returns events referencing acc in emission order.
func (l *Log) ByAccount(acc util.Uint160) []Event {
	idx := l.indexed[acc]
	res := make([]Event, 0, len(idx))
	for _, i := range idx {
		res = append(res, l.events[i])
	}
	return res
}
