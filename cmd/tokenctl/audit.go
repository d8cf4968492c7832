package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/token-contract/ledger"
	"github.com/nspcc-dev/token-contract/rpc/token"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func auditAction(c *cli.Context) error {
	logger, err := newLogger(c.GlobalBool(debugFlag))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	contract, err := parseAccount(c.String(contractFlag))
	if err != nil {
		return fmt.Errorf("invalid contract address: %w", err)
	}

	accounts := make([]util.Uint160, 0, len(c.StringSlice(accountFlag)))
	for _, s := range c.StringSlice(accountFlag) {
		acc, err := parseAccount(s)
		if err != nil {
			return fmt.Errorf("invalid account %q: %w", s, err)
		}
		accounts = append(accounts, acc)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration(timeoutFlag))
	defer cancel()

	b, err := dialRemoteBlockchain(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	height, root, err := b.penultState()
	if err != nil {
		return err
	}

	log := logger.With(zap.Stringer("contract", contract), zap.Uint32("height", height))
	log.Info("auditing Token contract storage...")

	reader := token.NewReader(b.historicInvoker(height), contract)

	s, err := auditStorage(func(f func(key, value []byte) error) error {
		return b.iterateContractStorage(root, contract, f)
	}, reader.TotalSupply)
	if err != nil {
		return err
	}

	l, err := ledger.Restore(nil, s, ledger.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("Token contract storage is consistent",
		zap.Stringer("supply", l.TotalSupply().ToBig()),
		zap.Int("accounts", len(s.Balances)),
		zap.Int("allowances", len(s.Allowances)))

	for _, acc := range accounts {
		log.Info("balance",
			zap.String("account", address.Uint160ToString(acc)),
			zap.Stringer("amount", l.BalanceOf(acc).ToBig()))
	}

	return nil
}

// auditStorage rebuilds the ledger state from raw storage items passed by
// iterate and checks it against itself and against the total supply reported
// by the contract.
func auditStorage(iterate func(f func(key, value []byte) error) error, totalSupply func() (*big.Int, error)) (ledger.Snapshot, error) {
	b := token.NewSnapshotBuilder()

	err := iterate(b.Add)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("read contract storage: %w", err)
	}

	s := b.Snapshot()

	err = s.Verify()
	if err != nil {
		return s, err
	}

	n, err := totalSupply()
	if err != nil {
		return s, fmt.Errorf("call totalSupply: %w", err)
	}

	reported, err := token.Uint256(n)
	if err != nil {
		return s, fmt.Errorf("decode totalSupply: %w", err)
	}

	if !reported.Eq(&s.TotalSupply) {
		return s, fmt.Errorf("%w: storage %s, totalSupply method %s",
			ledger.ErrSupplyMismatch, s.TotalSupply.ToBig(), n)
	}

	return s, nil
}
