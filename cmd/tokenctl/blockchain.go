package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// wrapper over rpcNeo providing Neo blockchain services needed for tokenctl
// commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client
}

// newRemoteBlockChain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Connection and all requests are done within given
// timeout.
func newRemoteBlockChain(ctx context.Context, endpoint string, timeout time.Duration) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return &remoteBlockchain{rpc: c}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// penultState returns height and state root of the block preceding the
// latest one. State of the latest block may be not computed yet.
func (x *remoteBlockchain) penultState() (uint32, util.Uint256, error) {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return 0, util.Uint256{}, fmt.Errorf("get number of the latest block: %w", err)
	}

	if nLatestBlock < 2 {
		return 0, util.Uint256{}, fmt.Errorf("blockchain is too short: %d blocks", nLatestBlock)
	}

	height := nLatestBlock - 1

	stateRoot, err := x.rpc.GetStateRootByHeight(height)
	if err != nil {
		return 0, util.Uint256{}, fmt.Errorf("get state root at penult block #%d: %w", height, err)
	}

	return height, stateRoot.Root, nil
}

// historicInvoker returns invoker performing test invocations over the state
// at given height.
func (x *remoteBlockchain) historicInvoker(height uint32) *invoker.Invoker {
	return invoker.NewHistoricAtHeight(height, x.rpc, nil)
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address at given state root and passes them
// into f. iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(root util.Uint256, contract util.Uint160, f func(key, value []byte) error) error {
	var start []byte

	for {
		res, err := x.rpc.FindStates(root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated || len(res.Results) == 0 {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
