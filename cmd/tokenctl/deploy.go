package main

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/token-contract/contracts"
	"github.com/nspcc-dev/token-contract/deploy"
	"github.com/urfave/cli"
)

func deployAction(c *cli.Context) error {
	logger, err := newLogger(c.GlobalBool(debugFlag))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	supply, ok := new(big.Int).SetString(c.String(supplyFlag), 10)
	if !ok {
		return fmt.Errorf("invalid initial supply %q", c.String(supplyFlag))
	}

	var prm deploy.Prm

	prm.Logger = logger
	prm.InitialSupply = supply

	if s := c.String(contractFlag); s != "" {
		prm.Address, err = parseAccount(s)
		if err != nil {
			return fmt.Errorf("invalid Token contract address %q: %w", s, err)
		}
	}

	ctr, err := contracts.Read(os.DirFS(c.String(dirFlag)), contracts.TokenDir)
	if err != nil {
		return fmt.Errorf("read Token contract: %w", err)
	}

	prm.Contract = deploy.CommonDeployPrm{NEF: ctr.NEF, Manifest: ctr.Manifest}

	prm.LocalAccount, err = openAccount(c.String(walletFlag), c.String(addressFlag), c.String(passwordFlag))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration(timeoutFlag))
	defer cancel()

	b, err := dialRemoteBlockchain(ctx, c)
	if err != nil {
		return err
	}
	defer b.close()

	prm.Blockchain = b.rpc

	addr, err := deploy.Deploy(ctx, prm)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, addr.StringLE())

	return nil
}

// openAccount opens the wallet and decrypts the account with given address
// or the default one if the address is empty.
func openAccount(walletPath, addr, password string) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	var acc *wallet.Account

	if addr != "" {
		h, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", addr)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, fmt.Errorf("wallet %s has no accounts", walletPath)
		}
		acc = w.Accounts[0]
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}
