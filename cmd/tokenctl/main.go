package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const (
	rpcFlag      = "rpc"
	timeoutFlag  = "timeout"
	debugFlag    = "debug"
	contractFlag = "contract"
	accountFlag  = "account"
	walletFlag   = "wallet"
	addressFlag  = "address"
	passwordFlag = "password"
	dirFlag      = "dir"
	supplyFlag   = "supply"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "tokenctl"
	app.Usage = "Deploy and audit Token contract"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  rpcFlag,
			Usage: "Network address of the Neo RPC server",
		},
		cli.DurationFlag{
			Name:  timeoutFlag,
			Usage: "Timeout for the whole command",
			Value: time.Minute,
		},
		cli.BoolFlag{
			Name:  debugFlag,
			Usage: "Enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "audit",
			Usage:  "Check that Token contract balances sum up to its total supply",
			Action: auditAction,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  contractFlag,
					Usage: "Token contract address or LE script hash",
				},
				cli.StringSliceFlag{
					Name:  accountFlag,
					Usage: "Account to print balance of (can be repeated)",
				},
			},
		},
		{
			Name:   "deploy",
			Usage:  "Deploy Token contract or update the existing one",
			Action: deployAction,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  contractFlag,
					Usage: "Address or LE script hash of the Token contract to update (deploy new one if omitted)",
				},
				cli.StringFlag{
					Name:  walletFlag,
					Usage: "Path to the wallet with deployer account",
				},
				cli.StringFlag{
					Name:  addressFlag,
					Usage: "Deployer account address (default account of the wallet if omitted)",
				},
				cli.StringFlag{
					Name:  passwordFlag,
					Usage: "Deployer account password",
				},
				cli.StringFlag{
					Name:  dirFlag,
					Usage: "Directory with token/contract.nef and token/manifest.json",
					Value: "contracts",
				},
				cli.StringFlag{
					Name:  supplyFlag,
					Usage: "Initial supply credited to the deployer",
					Value: "0",
				},
			},
		},
	}

	return app
}

func dialRemoteBlockchain(ctx context.Context, c *cli.Context) (*remoteBlockchain, error) {
	endpoint := c.GlobalString(rpcFlag)
	if endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	b, err := newRemoteBlockChain(ctx, endpoint, c.GlobalDuration(timeoutFlag))
	if err != nil {
		return nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	return b, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// parseAccount decodes Neo address or LE script hash with optional 0x prefix.
func parseAccount(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("empty value")
	}

	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	return util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
}
