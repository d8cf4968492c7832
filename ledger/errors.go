package ledger

import "errors"

var (
	// ErrInsufficientBalance is returned when a balance or an allowance does
	// not cover the requested amount.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrOverflow is returned when crediting an amount would exceed the
	// width of Balance.
	ErrOverflow = errors.New("balance overflow")
	// ErrMintDenied is returned by Mint when the configured MintPolicy
	// rejects the caller.
	ErrMintDenied = errors.New("mint denied by policy")
	// ErrSupplyMismatch is returned when the sum of balances differs from
	// the total supply.
	ErrSupplyMismatch = errors.New("sum of balances does not match total supply")
	// ErrReadOnly is returned by operations changing the state of a Ledger
	// restored without a Host.
	ErrReadOnly = errors.New("ledger has no host")
)
