/*
Package ledger implements an in-process fungible token ledger.

Ledger keeps the total supply, a balance table and an allowance table and
changes them only through Transfer, TransferFrom, Mint and Burn. Every
operation checks all of its preconditions first and then applies all of its
mutations, so a failed operation leaves the state untouched and emits nothing.
At any point between operations the sum of all balances equals the total
supply.

The identity of the caller and the destination of emitted events belong to
the hosting environment and are supplied through the Host interface. The same
semantics are implemented on chain by the token contract, see
github.com/nspcc-dev/token-contract/contracts/token.

# Events

	Transfer:
	  - from: Hash160 (indexed)
	  - to: Hash160 (indexed)
	  - amount: Balance

	Burn:
	  - from: Hash160 (indexed)
	  - amount: Balance

	Mint:
	  - from: Hash160 (indexed)
	  - amount: Balance

# Allowances

There is no operation granting an allowance, so AllowanceOf always returns
zero and TransferFrom fails for any non-zero amount.
*/
package ledger
