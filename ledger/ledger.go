package ledger

import (
	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// MintPolicy decides whether caller may mint amount. Ledger without a policy
// lets anyone mint.
type MintPolicy interface {
	AllowMint(caller util.Uint160, amount *uint256.Int) bool
}

// AllowanceKey identifies the amount Owner authorized Spender to transfer.
type AllowanceKey struct {
	Owner   util.Uint160
	Spender util.Uint160
}

// Ledger holds token balances and allowances. It is not safe for concurrent
// use: the host must serialize operations on a single instance.
type Ledger struct {
	host       Host
	logger     *zap.Logger
	mintPolicy MintPolicy

	totalSupply uint256.Int
	balances    map[util.Uint160]uint256.Int
	allowances  map[AllowanceKey]uint256.Int
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger receiving debug records about rejected
// operations. Nop logger is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithMintPolicy makes Mint consult p before changing anything.
func WithMintPolicy(p MintPolicy) Option {
	return func(l *Ledger) {
		l.mintPolicy = p
	}
}

func newLedger(host Host, opts []Option) *Ledger {
	l := &Ledger{
		host:       host,
		logger:     zap.NewNop(),
		balances:   make(map[util.Uint160]uint256.Int),
		allowances: make(map[AllowanceKey]uint256.Int),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// New creates a Ledger with initialSupply credited to the current caller of
// the host. Nil initialSupply means zero. Host must not be nil.
func New(host Host, initialSupply *uint256.Int, opts ...Option) *Ledger {
	l := newLedger(host, opts)

	creator := host.Caller()
	l.totalSupply = amountOf(initialSupply)
	l.setBalance(creator, l.totalSupply)

	l.logger.Debug("ledger initialized",
		zap.Stringer("creator", creator),
		zap.Stringer("supply", l.totalSupply.ToBig()))

	return l
}

// TotalSupply returns the amount of tokens in circulation.
func (l *Ledger) TotalSupply() *uint256.Int {
	return ptr(l.totalSupply)
}

// BalanceOf returns the balance of acc, zero for unknown accounts.
func (l *Ledger) BalanceOf(acc util.Uint160) *uint256.Int {
	return ptr(l.balances[acc])
}

// AllowanceOf returns the amount spender may transfer from owner, zero if
// nothing was granted.
func (l *Ledger) AllowanceOf(owner, spender util.Uint160) *uint256.Int {
	return ptr(l.allowances[AllowanceKey{Owner: owner, Spender: spender}])
}

// Transfer moves value from the caller to the to account and emits
// TransferEvent. It returns ErrInsufficientBalance if the caller's balance is
// lower than value. Nil value means zero.
func (l *Ledger) Transfer(to util.Uint160, value *uint256.Int) error {
	if l.host == nil {
		return ErrReadOnly
	}

	var (
		from   = l.host.Caller()
		amount = amountOf(value)
	)

	newFrom, newTo, err := l.checkTransfer(from, to, amount)
	if err != nil {
		l.reject("transfer", from, amount, err)
		return err
	}

	l.applyTransfer(from, to, amount, newFrom, newTo)
	return nil
}

// TransferFrom moves value from the from account to the to account on behalf
// of the caller and decreases the caller's allowance by value. It returns
// ErrInsufficientBalance if either the allowance or the balance of from does
// not cover value. Both are checked before anything is changed.
func (l *Ledger) TransferFrom(from, to util.Uint160, value *uint256.Int) error {
	if l.host == nil {
		return ErrReadOnly
	}

	var (
		spender = l.host.Caller()
		amount  = amountOf(value)
		key     = AllowanceKey{Owner: from, Spender: spender}
	)

	allowance := l.allowances[key]
	if allowance.Lt(&amount) {
		l.reject("transferFrom", spender, amount, ErrInsufficientBalance)
		return ErrInsufficientBalance
	}

	newFrom, newTo, err := l.checkTransfer(from, to, amount)
	if err != nil {
		l.reject("transferFrom", spender, amount, err)
		return err
	}

	var rest uint256.Int
	rest.Sub(&allowance, &amount)
	l.setAllowance(key, rest)

	l.applyTransfer(from, to, amount, newFrom, newTo)
	return nil
}

// Burn destroys value from the caller's balance, decreases the total supply
// and emits BurnEvent. It returns ErrInsufficientBalance if the caller's
// balance is lower than value.
func (l *Ledger) Burn(value *uint256.Int) error {
	if l.host == nil {
		return ErrReadOnly
	}

	var (
		caller  = l.host.Caller()
		amount  = amountOf(value)
		balance = l.balances[caller]
	)

	if balance.Lt(&amount) {
		l.reject("burn", caller, amount, ErrInsufficientBalance)
		return ErrInsufficientBalance
	}

	if l.totalSupply.Lt(&amount) {
		panic("total supply is lower than a balance")
	}

	var newBalance, newSupply uint256.Int
	newBalance.Sub(&balance, &amount)
	newSupply.Sub(&l.totalSupply, &amount)

	l.totalSupply = newSupply
	l.setBalance(caller, newBalance)

	l.host.Emit(BurnEvent{From: caller, Amount: ptr(amount)})
	return nil
}

// Mint creates value on the caller's balance, increases the total supply and
// emits MintEvent. It returns ErrOverflow if the supply can't hold value and
// ErrMintDenied if the configured MintPolicy rejects the caller.
func (l *Ledger) Mint(value *uint256.Int) error {
	if l.host == nil {
		return ErrReadOnly
	}

	var (
		caller  = l.host.Caller()
		amount  = amountOf(value)
		balance = l.balances[caller]
	)

	if l.mintPolicy != nil && !l.mintPolicy.AllowMint(caller, ptr(amount)) {
		l.reject("mint", caller, amount, ErrMintDenied)
		return ErrMintDenied
	}

	var newBalance, newSupply uint256.Int

	_, overflow := newSupply.AddOverflow(&l.totalSupply, &amount)
	if !overflow {
		_, overflow = newBalance.AddOverflow(&balance, &amount)
	}
	if overflow {
		l.reject("mint", caller, amount, ErrOverflow)
		return ErrOverflow
	}

	l.totalSupply = newSupply
	l.setBalance(caller, newBalance)

	l.host.Emit(MintEvent{From: caller, Amount: ptr(amount)})
	return nil
}

// checkTransfer validates moving amount from one account to another and
// returns resulting balances of both.
func (l *Ledger) checkTransfer(from, to util.Uint160, amount uint256.Int) (uint256.Int, uint256.Int, error) {
	var newFrom, newTo uint256.Int

	fromBalance := l.balances[from]
	if fromBalance.Lt(&amount) {
		return newFrom, newTo, ErrInsufficientBalance
	}

	if from == to {
		return fromBalance, fromBalance, nil
	}

	toBalance := l.balances[to]
	if _, overflow := newTo.AddOverflow(&toBalance, &amount); overflow {
		return newFrom, newTo, ErrOverflow
	}

	newFrom.Sub(&fromBalance, &amount)

	return newFrom, newTo, nil
}

func (l *Ledger) applyTransfer(from, to util.Uint160, amount, newFrom, newTo uint256.Int) {
	if from != to {
		l.setBalance(from, newFrom)
		l.setBalance(to, newTo)
	}

	l.host.Emit(TransferEvent{From: from, To: to, Amount: ptr(amount)})
}

func (l *Ledger) setBalance(acc util.Uint160, v uint256.Int) {
	if v.IsZero() {
		delete(l.balances, acc)
		return
	}
	l.balances[acc] = v
}

func (l *Ledger) setAllowance(key AllowanceKey, v uint256.Int) {
	if v.IsZero() {
		delete(l.allowances, key)
		return
	}
	l.allowances[key] = v
}

func (l *Ledger) reject(op string, caller util.Uint160, amount uint256.Int, err error) {
	l.logger.Debug("operation rejected",
		zap.String("op", op),
		zap.Stringer("caller", caller),
		zap.Stringer("amount", amount.ToBig()),
		zap.Error(err))
}

func amountOf(v *uint256.Int) uint256.Int {
	if v == nil {
		return uint256.Int{}
	}
	return *v
}

func ptr(v uint256.Int) *uint256.Int {
	return &v
}
