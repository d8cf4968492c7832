package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/nspcc-dev/token-contract/common"
	"github.com/nspcc-dev/token-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/token-contract/rpc/token"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the Token contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the Token contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It becomes the owner of the initial supply.
	LocalAccount *wallet.Account

	Contract CommonDeployPrm

	// Address of the already deployed Token contract. If set, Deploy updates
	// the contract at this address. Otherwise, Deploy puts a new contract
	// into the chain.
	Address util.Uint160

	// Amount credited to LocalAccount on deployment. Ignored on update.
	InitialSupply *big.Int
}

var (
	// ErrAlreadyUpdated is returned by Deploy when on-chain contract has the
	// version of the local executable.
	ErrAlreadyUpdated = errors.New("contract is already of the latest version")

	// ErrContractNotFound is returned by Deploy when there is no contract at
	// Prm.Address.
	ErrContractNotFound = errors.New("contract not found")
)

// Deploy puts the Token contract into the blockchain on behalf of
// Prm.LocalAccount and returns its address.
//
// If Prm.Address is set, Deploy updates the contract deployed there with
// Prm.Contract. Update requires the committee witness, so it succeeds only if
// LocalAccount belongs to the committee.
//
// Otherwise, the contract is deployed at the address derived from
// LocalAccount and Prm.Contract. If Prm.Contract has already been deployed by
// LocalAccount, Deploy does nothing and returns its address.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if err := checkSupply(prm.InitialSupply); err != nil {
		return util.Uint160{}, err
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	if !prm.Address.Equals(util.Uint160{}) {
		addr := prm.Address
		log := prm.Logger.With(zap.Stringer("address", addr))

		_, err = prm.Blockchain.GetContractStateByHash(addr)
		if err != nil {
			if isErrContractNotFound(err) {
				return addr, fmt.Errorf("%w: %s", ErrContractNotFound, addr.StringLE())
			}
			return addr, fmt.Errorf("get state of the Token contract: %w", err)
		}

		log.Info("updating Token contract...")

		err = updateContract(ctx, act, addr, prm.Contract)
		if err != nil {
			return addr, err
		}

		log.Info("Token contract successfully updated", zap.Int("version", common.Version))
		return addr, nil
	}

	addr := contractAddress(prm.LocalAccount.ScriptHash(), prm.Contract)
	log := prm.Logger.With(zap.Stringer("address", addr))

	_, err = prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		log.Info("Token contract is already deployed, skip")
		return addr, nil
	}

	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get state of the Token contract: %w", err)
	}

	log.Info("Token contract is missing on the chain, deploying...",
		zap.Stringer("supply", supplyOf(prm.InitialSupply)))

	if err = ctx.Err(); err != nil {
		return addr, err
	}

	txHash, vub, err := management.New(act).Deploy(&prm.Contract.NEF, &prm.Contract.Manifest, supplyOf(prm.InitialSupply))
	err = await(act, txHash, vub, err)
	if err != nil {
		return addr, fmt.Errorf("deploy Token contract: %w", err)
	}

	log.Info("Token contract successfully deployed", zap.Stringer("tx", txHash))

	return addr, nil
}

func updateContract(ctx context.Context, act *actor.Actor, addr util.Uint160, c CommonDeployPrm) error {
	onChain, err := token.NewReader(act, addr).Version()
	if err != nil {
		return fmt.Errorf("read version of the Token contract: %w", err)
	}

	if !onChain.IsInt64() || onChain.Int64() >= common.Version {
		return fmt.Errorf("%w: on-chain %s, local %d", ErrAlreadyUpdated, onChain, common.Version)
	}

	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(c.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	txHash, vub, err := token.New(act, addr).Update(bNEF, jManifest, nil)
	err = await(act, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("update Token contract: %w", err)
	}

	return nil
}

// await waits for the transaction sent by act and checks that it has been
// executed successfully.
func await(act *actor.Actor, txHash util.Uint256, vub uint32, err error) error {
	res, err := act.Wait(txHash, vub, err)
	if err != nil {
		return err
	}

	if res.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed with %s: %s", txHash.StringLE(), res.VMState, res.FaultException)
	}

	return nil
}

// contractAddress returns the address the contract gets when sender deploys
// it.
func contractAddress(sender util.Uint160, c CommonDeployPrm) util.Uint160 {
	return state.CreateContractHash(sender, c.NEF.Checksum, c.Manifest.Name)
}

func checkSupply(supply *big.Int) error {
	if supply == nil {
		return nil
	}

	if supply.Sign() < 0 || !supply.IsInt64() || supply.Int64() > tokenconst.MaxSupply {
		return fmt.Errorf("initial supply %s is out of [0, %d]", supply, tokenconst.MaxSupply)
	}

	return nil
}

func supplyOf(supply *big.Int) *big.Int {
	if supply == nil {
		return new(big.Int)
	}
	return supply
}

func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
