package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/token-contract/contracts/token/tokenconst"
	"github.com/nspcc-dev/token-contract/ledger"
	"github.com/nspcc-dev/token-contract/rpc/token"
	"github.com/stretchr/testify/require"
)

const tokenPath = "../contracts/token"

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// deployTokenContract deploys the Token contract on behalf of the committee,
// so the whole initial supply belongs to e.CommitteeHash.
func deployTokenContract(t *testing.T, e *neotest.Executor, supply int64) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	e.DeployContract(t, c, supply)
	return c.Hash
}

func newTokenInvoker(t *testing.T, supply int64) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployTokenContract(t, e, supply)
	return e.CommitteeInvoker(h)
}

// storageSnapshot reads contract storage items of the listed accounts and
// decodes them into ledger.Snapshot.
func storageSnapshot(t *testing.T, c *neotest.ContractInvoker, accs ...util.Uint160) ledger.Snapshot {
	cs := c.Chain.GetContractState(c.Hash)
	require.NotNil(t, cs)

	b := token.NewSnapshotBuilder()

	add := func(key []byte) {
		v := c.Chain.GetStorageItem(cs.ID, key)
		if v != nil {
			require.NoError(t, b.Add(key, v))
		}
	}

	add([]byte{tokenconst.SupplyKey})
	for i := range accs {
		add(append([]byte{tokenconst.BalancePrefix}, accs[i].BytesBE()...))
	}

	return b.Snapshot()
}
