package deploy

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"
	"path/filepath"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/opcode"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/token-contract/rpc/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCheckSupply(t *testing.T) {
	for _, v := range []*big.Int{
		nil,
		big.NewInt(0),
		big.NewInt(1000),
		big.NewInt(math.MaxInt64),
	} {
		require.NoError(t, checkSupply(v), v)
	}

	for _, v := range []*big.Int{
		big.NewInt(-1),
		new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1)),
		new(big.Int).Lsh(big.NewInt(1), 200),
	} {
		require.Error(t, checkSupply(v), v)
	}

	require.Zero(t, supplyOf(nil).Sign())
	require.Equal(t, big.NewInt(5), supplyOf(big.NewInt(5)))
}

func TestContractAddress(t *testing.T) {
	var (
		sender = util.Uint160{1, 2, 3}
		c      = CommonDeployPrm{
			NEF:      nef.File{Checksum: 42},
			Manifest: manifest.Manifest{Name: "Token"},
		}
	)

	require.Equal(t, state.CreateContractHash(sender, 42, "Token"), contractAddress(sender, c))

	other := c
	other.Manifest.Name = "Other"
	require.NotEqual(t, contractAddress(sender, c), contractAddress(sender, other))
	require.NotEqual(t, contractAddress(sender, c), contractAddress(util.Uint160{4}, c))
}

func TestIsErrContractNotFound(t *testing.T) {
	require.False(t, isErrContractNotFound(nil))
	require.False(t, isErrContractNotFound(errors.New("connection refused")))
	require.True(t, isErrContractNotFound(errors.New("Unknown contract")))
	require.True(t, isErrContractNotFound(errors.New("Invalid params (-32602) - Unknown contract")))
}

func TestDeployInvalidSupply(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{
		Logger:        zaptest.NewLogger(t),
		InitialSupply: big.NewInt(-1),
	})
	require.Error(t, err)
}

const tokenPath = "../contracts/token"

// newTestChain starts single-node blockchain with consensus and RPC services
// and returns RPC client connected to it along with the committee account
// holding all the GAS.
func newTestChain(t *testing.T) (*rpcclient.Internal, *wallet.Account) {
	validatorAcc, err := wallet.NewAccount()
	require.NoError(t, err)

	var validatorMulti = new(wallet.Account)
	*validatorMulti = *validatorAcc
	err = validatorMulti.ConvertMultisig(1, []*keys.PublicKey{validatorAcc.PublicKey()})
	require.NoError(t, err)

	var (
		walletPath = filepath.Join(t.TempDir(), "wallet.json")
		wlt        = wallet.NewInMemoryWallet()
	)

	err = validatorAcc.Encrypt("", keys.NEP2ScryptParams())
	require.NoError(t, err)
	wlt.Accounts = append(wlt.Accounts, validatorAcc)
	wlt.SetPath(walletPath)
	require.NoError(t, wlt.Save())

	var (
		cfg = config.Config{
			ApplicationConfiguration: config.ApplicationConfiguration{
				RPC: config.RPC{
					BasicService: config.BasicService{
						Enabled: true,
					},
					MaxGasInvoke: fixedn.Fixed8FromInt64(50),
				},
				Consensus: config.Consensus{
					Enabled: true,
					UnlockWallet: config.Wallet{
						Path:     walletPath,
						Password: "",
					},
				},
			},
			ProtocolConfiguration: config.ProtocolConfiguration{
				Magic:           netmode.UnitTestNet,
				MaxTimePerBlock: 20 * time.Second,
				Genesis: config.Genesis{
					MaxTraceableBlocks:          1000,
					MaxValidUntilBlockIncrement: 1000 / 2,
					TimePerBlock:                50 * time.Millisecond,
				},
				StandbyCommittee:   []string{hex.EncodeToString(validatorAcc.PublicKey().Bytes())},
				ValidatorsCount:    1,
				VerifyTransactions: true,
			},
		}
		logger = zaptest.NewLogger(t)
		store  = storage.NewMemoryStore()
	)

	bc, err := core.NewBlockchain(store, config.Blockchain{ProtocolConfiguration: cfg.ProtocolConfiguration}, logger)
	require.NoError(t, err)
	go bc.Run()
	t.Cleanup(bc.Close)

	serverConfig, err := network.NewServerConfig(config.Config{ProtocolConfiguration: cfg.ProtocolConfiguration})
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "token-test")
	netSrv, err := network.NewServer(serverConfig, bc, bc.GetStateSyncModule(), logger)
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                logger,
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 bc,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	netSrv.Start()

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(bc, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()
	t.Cleanup(rpcServer.Shutdown)

	rpcClient, err := rpcclient.NewInternal(context.TODO(), rpcServer.RegisterLocal)
	require.NoError(t, err)
	require.NoError(t, rpcClient.Init())

	return rpcClient, validatorMulti
}

// withExtraRet returns a copy of c with the script extended by unreachable RET
// instruction, so the NEF checksum differs while the manifest stays valid.
func withExtraRet(c CommonDeployPrm) CommonDeployPrm {
	res := c
	res.NEF.Script = append(append([]byte{}, c.NEF.Script...), byte(opcode.RET))
	res.NEF.Checksum = res.NEF.CalculateChecksum()
	return res
}

func TestDeploy(t *testing.T) {
	rpcClient, acc := newTestChain(t)

	ctr := neotest.CompileFile(t, acc.ScriptHash(), tokenPath, filepath.Join(tokenPath, "config.yml"))

	var (
		logger = zaptest.NewLogger(t)
		prm    = Prm{
			Logger:       logger,
			Blockchain:   rpcClient,
			LocalAccount: acc,
			Contract: CommonDeployPrm{
				NEF:      *ctr.NEF,
				Manifest: *ctr.Manifest,
			},
			InitialSupply: big.NewInt(1000),
		}
		reader = func(addr util.Uint160) *token.ContractReader {
			return token.NewReader(invoker.New(rpcClient, nil), addr)
		}
		deploy = func(prm Prm) (util.Uint160, error) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			return Deploy(ctx, prm)
		}
	)

	addr, err := deploy(prm)
	require.NoError(t, err)
	require.Equal(t, contractAddress(acc.ScriptHash(), prm.Contract), addr)

	checkState := func(t *testing.T) {
		bal, err := reader(addr).BalanceOf(acc.ScriptHash())
		require.NoError(t, err)
		require.EqualValues(t, 1000, bal.Int64())

		supply, err := reader(addr).TotalSupply()
		require.NoError(t, err)
		require.EqualValues(t, 1000, supply.Int64())
	}

	checkState(t)

	t.Run("repeated deployment", func(t *testing.T) {
		again, err := deploy(prm)
		require.NoError(t, err)
		require.Equal(t, addr, again)
		checkState(t)
	})

	t.Run("update", func(t *testing.T) {
		changed := prm
		changed.Contract = withExtraRet(prm.Contract)
		changed.Address = addr
		changed.InitialSupply = big.NewInt(5)

		newAddr := contractAddress(acc.ScriptHash(), changed.Contract)
		require.NotEqual(t, addr, newAddr)

		// the contract has the version of the local code, so the update is
		// rejected before any transaction is sent
		res, err := deploy(changed)
		require.ErrorIs(t, err, ErrAlreadyUpdated)
		require.Equal(t, addr, res)

		_, err = rpcClient.GetContractStateByHash(newAddr)
		require.True(t, isErrContractNotFound(err), err)

		cs, err := rpcClient.GetContractStateByHash(addr)
		require.NoError(t, err)
		require.Equal(t, ctr.NEF.Checksum, cs.NEF.Checksum)
		require.Zero(t, cs.UpdateCounter)

		checkState(t)
	})

	t.Run("missing contract", func(t *testing.T) {
		missing := prm
		missing.Address = util.Uint160{1, 2, 3}

		_, err := deploy(missing)
		require.ErrorIs(t, err, ErrContractNotFound)
	})
}
