package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// ErrInvalidAccount is thrown when an account argument is not a script hash.
const ErrInvalidAccount = "invalid account"

// Caller returns the account the current invocation is attributed to. A
// contract calling the executing one is the caller itself. When the
// executing contract is called directly from the transaction script, the
// transaction sender is the caller.
func Caller() interop.Hash160 {
	calling := runtime.GetCallingScriptHash()
	if calling.Equals(runtime.GetEntryScriptHash()) {
		return TxSender()
	}

	return calling
}

// TxSender returns the sender of the transaction being executed.
func TxSender() interop.Hash160 {
	tx := runtime.GetScriptContainer()
	return tx.Sender
}

// CheckAccount panics with ErrInvalidAccount if acc is not a script hash.
func CheckAccount(acc interop.Hash160) {
	if len(acc) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}
}
