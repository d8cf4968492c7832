/*
Package token implements a fungible token contract.

Token contract keeps the total supply, balances of accounts and allowances
given by owners to spenders. Its state changes only through Transfer,
TransferFrom, Mint and Burn methods, every one of them either changes
everything it needs or nothing at all. Business failures (not enough assets,
supply overflow) are reported with false result, invalid arguments lead to
FAULT.

The caller is the contract invoking Token methods, or the transaction sender
if methods are invoked from the transaction script directly. Any caller is
allowed to mint tokens for itself. There is no method to grant an allowance,
so TransferFrom fails for any non-zero amount.

On deployment, the supply passed as deployment data is credited to the
sender of the deployment transaction.

# Contract notifications

Transfer notification. This notification is produced when tokens move
between accounts.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Burn notification. This notification is produced when tokens are destroyed.

	Burn:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer

Mint notification. This notification is produced when tokens are created.

	Mint:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
  - 's' -> int
    total supply
  - 'b'<interop.Hash160> -> int
    balance of the account, absent for zero balances
  - 'a'<interop.Hash160><interop.Hash160> -> int
    allowance of the spender (second hash) over the owner (first hash) account
*/
