// Package tokenconst contains token contract constants shared between the
// contract and its off-chain readers.
package tokenconst

const (
	// SupplyKey is a storage key of the total supply value.
	SupplyKey = 's'

	// BalancePrefix precedes account script hash (BE) in balance keys.
	BalancePrefix = 'b'

	// AllowancePrefix precedes owner and spender script hashes (BE) in
	// allowance keys.
	AllowancePrefix = 'a'

	// MaxSupply is the upper bound of the total supply and of every balance.
	// Mint and transfer fail rather than exceed it.
	MaxSupply = 1<<63 - 1
)
