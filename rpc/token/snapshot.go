package token

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/token-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/token-contract/ledger"
)

// ErrUnexpectedKey is returned by SnapshotBuilder for storage keys not
// belonging to the Token contract layout.
var ErrUnexpectedKey = errors.New("unexpected storage key")

// SnapshotBuilder decodes raw storage items of the Token contract into
// ledger.Snapshot.
type SnapshotBuilder struct {
	s ledger.Snapshot
}

// NewSnapshotBuilder returns SnapshotBuilder with an empty state.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{
		s: ledger.Snapshot{
			Balances:   make(map[util.Uint160]uint256.Int),
			Allowances: make(map[ledger.AllowanceKey]uint256.Int),
		},
	}
}

// Add decodes single storage item. Its signature allows passing Add as a
// storage iteration callback.
func (b *SnapshotBuilder) Add(key, value []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty", ErrUnexpectedKey)
	}

	n, err := decodeAmount(value)
	if err != nil {
		return fmt.Errorf("decode value of key %x: %w", key, err)
	}

	switch {
	case key[0] == tokenconst.SupplyKey && len(key) == 1:
		b.s.TotalSupply = n
	case key[0] == tokenconst.BalancePrefix && len(key) == 1+util.Uint160Size:
		acc, err := util.Uint160DecodeBytesBE(key[1:])
		if err != nil {
			return fmt.Errorf("decode account of key %x: %w", key, err)
		}
		b.s.Balances[acc] = n
	case key[0] == tokenconst.AllowancePrefix && len(key) == 1+2*util.Uint160Size:
		owner, err := util.Uint160DecodeBytesBE(key[1 : 1+util.Uint160Size])
		if err != nil {
			return fmt.Errorf("decode owner of key %x: %w", key, err)
		}
		spender, err := util.Uint160DecodeBytesBE(key[1+util.Uint160Size:])
		if err != nil {
			return fmt.Errorf("decode spender of key %x: %w", key, err)
		}
		b.s.Allowances[ledger.AllowanceKey{Owner: owner, Spender: spender}] = n
	default:
		return fmt.Errorf("%w: %x", ErrUnexpectedKey, key)
	}

	return nil
}

// Snapshot returns the state accumulated so far.
func (b *SnapshotBuilder) Snapshot() ledger.Snapshot {
	return b.s
}

func decodeAmount(value []byte) (uint256.Int, error) {
	var res uint256.Int

	n := bigint.FromBytes(value)
	if n.Sign() < 0 {
		return res, fmt.Errorf("negative amount %s", n)
	}

	if res.SetFromBig(n) {
		return res, fmt.Errorf("amount %s overflows 256 bits", n)
	}

	return res, nil
}

// Uint256 converts an amount returned by the contract into the ledger
// representation.
func Uint256(n *big.Int) (*uint256.Int, error) {
	if n == nil || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %v", n)
	}

	res, overflow := uint256.FromBig(n)
	if overflow {
		return nil, fmt.Errorf("amount %s overflows 256 bits", n)
	}

	return res, nil
}
