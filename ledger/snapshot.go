package ledger

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Snapshot is a detached copy of the Ledger state.
type Snapshot struct {
	TotalSupply uint256.Int
	Balances    map[util.Uint160]uint256.Int
	Allowances  map[AllowanceKey]uint256.Int
}

// Snapshot returns a copy of the current state. Later operations on l don't
// affect it.
func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		TotalSupply: l.totalSupply,
		Balances:    make(map[util.Uint160]uint256.Int, len(l.balances)),
		Allowances:  make(map[AllowanceKey]uint256.Int, len(l.allowances)),
	}

	for k, v := range l.balances {
		s.Balances[k] = v
	}

	for k, v := range l.allowances {
		s.Allowances[k] = v
	}

	return s
}

// Verify checks that balances of s sum up to its total supply.
func (s Snapshot) Verify() error {
	var sum uint256.Int

	for acc, v := range s.Balances {
		if _, overflow := sum.AddOverflow(&sum, &v); overflow {
			return fmt.Errorf("%w: overflow at account %s", ErrSupplyMismatch, acc.StringLE())
		}
	}

	if !sum.Eq(&s.TotalSupply) {
		return fmt.Errorf("%w: balances %s, supply %s", ErrSupplyMismatch, sum.ToBig(), s.TotalSupply.ToBig())
	}

	return nil
}

// Restore creates a Ledger from a verified snapshot. Zero entries of s are
// dropped. Host may be nil if the resulting Ledger is only queried: its
// Transfer, TransferFrom, Burn and Mint return ErrReadOnly then.
func Restore(host Host, s Snapshot, opts ...Option) (*Ledger, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	l := newLedger(host, opts)
	l.totalSupply = s.TotalSupply

	for k, v := range s.Balances {
		l.setBalance(k, v)
	}

	for k, v := range s.Allowances {
		l.setAllowance(k, v)
	}

	return l, nil
}
