package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/token-contract/common"
	"github.com/nspcc-dev/token-contract/contracts/token/tokenconst"
)

const (
	// ErrNegativeAmount is thrown when a negative amount is passed.
	ErrNegativeAmount = "negative amount"
	// ErrInvalidSupply is thrown on deployment with unrepresentable supply.
	ErrInvalidSupply = "invalid initial supply"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	var initialSupply int
	if data != nil {
		initialSupply = data.(int)
	}

	if initialSupply < 0 || initialSupply > tokenconst.MaxSupply {
		panic(ErrInvalidSupply)
	}

	ctx := storage.GetContext()
	creator := common.TxSender()

	common.PutInt(ctx, []byte{tokenconst.SupplyKey}, initialSupply)
	common.PutInt(ctx, balanceKey(creator), initialSupply)

	runtime.Log("token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("token contract updated")
}

// TotalSupply returns the amount of tokens in circulation.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, []byte{tokenconst.SupplyKey})
}

// BalanceOf returns the balance of the account, 0 for unknown accounts.
func BalanceOf(account interop.Hash160) int {
	common.CheckAccount(account)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, balanceKey(account))
}

// AllowanceOf returns the amount spender may transfer from the owner
// account. The contract has no method granting allowances, so the result is
// always 0 unless storage was populated by a contract update.
func AllowanceOf(owner, spender interop.Hash160) int {
	common.CheckAccount(owner)
	common.CheckAccount(spender)

	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, allowanceKey(owner, spender))
}

// Transfer moves amount from the caller to the `to` account. It returns false
// if the caller's balance is lower than amount.
//
// It produces Transfer notification on success.
func Transfer(to interop.Hash160, amount int) bool {
	common.CheckAccount(to)
	checkAmount(amount)

	ctx := storage.GetContext()
	from := common.Caller()

	if !canTransfer(ctx, from, to, amount) {
		return false
	}

	transfer(ctx, from, to, amount)
	return true
}

// TransferFrom moves amount from the `from` account to the `to` account on
// behalf of the caller and decreases the caller's allowance by amount. It
// returns false if either the allowance or the balance of `from` is lower
// than amount; nothing is changed in this case.
//
// It produces Transfer notification on success.
func TransferFrom(from, to interop.Hash160, amount int) bool {
	common.CheckAccount(from)
	common.CheckAccount(to)
	checkAmount(amount)

	ctx := storage.GetContext()
	spender := common.Caller()
	key := allowanceKey(from, spender)

	allowance := common.GetInt(ctx, key)
	if allowance < amount {
		runtime.Log("insufficient allowance")
		return false
	}

	if !canTransfer(ctx, from, to, amount) {
		return false
	}

	common.PutInt(ctx, key, allowance-amount)
	transfer(ctx, from, to, amount)

	return true
}

// Burn destroys amount from the caller's balance and decreases the total
// supply. It returns false if the caller's balance is lower than amount.
//
// It produces Burn notification on success.
func Burn(amount int) bool {
	checkAmount(amount)

	ctx := storage.GetContext()
	caller := common.Caller()

	balance := common.GetInt(ctx, balanceKey(caller))
	if balance < amount {
		runtime.Log("insufficient balance")
		return false
	}

	supply := common.GetInt(ctx, []byte{tokenconst.SupplyKey})
	if supply < amount {
		panic("negative supply after burn")
	}

	common.PutInt(ctx, []byte{tokenconst.SupplyKey}, supply-amount)
	common.PutInt(ctx, balanceKey(caller), balance-amount)

	runtime.Notify("Burn", caller, amount)
	return true
}

// Mint creates amount on the caller's balance and increases the total supply.
// Any caller may mint. It returns false if the total supply would exceed
// tokenconst.MaxSupply.
//
// It produces Mint notification on success.
func Mint(amount int) bool {
	checkAmount(amount)

	ctx := storage.GetContext()
	caller := common.Caller()

	supply := common.GetInt(ctx, []byte{tokenconst.SupplyKey})
	if supply > tokenconst.MaxSupply-amount {
		runtime.Log("supply overflow")
		return false
	}

	balance := common.GetInt(ctx, balanceKey(caller))

	common.PutInt(ctx, []byte{tokenconst.SupplyKey}, supply+amount)
	common.PutInt(ctx, balanceKey(caller), balance+amount)

	runtime.Notify("Mint", caller, amount)
	return true
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// canTransfer checks that amount can be moved from one account to another.
func canTransfer(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	fromBalance := common.GetInt(ctx, balanceKey(from))
	if fromBalance < amount {
		runtime.Log("insufficient balance")
		return false
	}

	if from.Equals(to) {
		return true
	}

	toBalance := common.GetInt(ctx, balanceKey(to))
	if toBalance > tokenconst.MaxSupply-amount {
		runtime.Log("balance overflow")
		return false
	}

	return true
}

// transfer moves amount between accounts, canTransfer must be checked first.
func transfer(ctx storage.Context, from, to interop.Hash160, amount int) {
	if !from.Equals(to) {
		fromKey := balanceKey(from)
		toKey := balanceKey(to)

		common.PutInt(ctx, fromKey, common.GetInt(ctx, fromKey)-amount)
		common.PutInt(ctx, toKey, common.GetInt(ctx, toKey)+amount)
	}

	runtime.Notify("Transfer", from, to, amount)
}

func checkAmount(amount int) {
	if amount < 0 {
		panic(ErrNegativeAmount)
	}
}

func balanceKey(acc interop.Hash160) []byte {
	return append([]byte{tokenconst.BalancePrefix}, acc...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	key := append([]byte{tokenconst.AllowancePrefix}, owner...)
	return append(key, spender...)
}
