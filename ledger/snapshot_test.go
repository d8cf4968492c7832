package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	l, _ := newTestLedger(t, 100)
	require.NoError(t, l.Transfer(accB, u(30)))

	s := l.Snapshot()
	require.Equal(t, *u(100), s.TotalSupply)
	require.Equal(t, map[util.Uint160]uint256.Int{accA: *u(70), accB: *u(30)}, s.Balances)
	require.Empty(t, s.Allowances)

	require.NoError(t, l.Transfer(accC, u(10)))
	require.Equal(t, *u(70), s.Balances[accA], "snapshot must be detached")
	require.NotContains(t, s.Balances, accC)
}

func TestSnapshotVerify(t *testing.T) {
	s := Snapshot{
		TotalSupply: *u(10),
		Balances:    map[util.Uint160]uint256.Int{accA: *u(4), accB: *u(6)},
	}
	require.NoError(t, s.Verify())

	s.Balances[accC] = *u(1)
	require.ErrorIs(t, s.Verify(), ErrSupplyMismatch)

	s.Balances = map[util.Uint160]uint256.Int{
		accA: *new(uint256.Int).SetAllOne(),
		accB: *u(1),
	}
	require.ErrorIs(t, s.Verify(), ErrSupplyMismatch)

	require.NoError(t, Snapshot{}.Verify())
}

func TestRestore(t *testing.T) {
	l, _ := newTestLedger(t, 100)
	require.NoError(t, l.Transfer(accB, u(30)))

	s := l.Snapshot()
	s.Balances[accC] = uint256.Int{}

	h := &testHost{caller: accB}
	restored, err := Restore(h, s)
	require.NoError(t, err)
	require.Equal(t, l.Snapshot(), restored.Snapshot(), "zero entries must be dropped")

	require.NoError(t, restored.Burn(u(30)))
	require.Equal(t, u(70), restored.TotalSupply())
	require.Equal(t, u(100), l.TotalSupply())

	s.TotalSupply = *u(99)
	_, err = Restore(h, s)
	require.ErrorIs(t, err, ErrSupplyMismatch)
}

func TestRestoreWithoutHost(t *testing.T) {
	l, _ := newTestLedger(t, 100)
	require.NoError(t, l.Transfer(accB, u(30)))

	s := l.Snapshot()

	restored, err := Restore(nil, s)
	require.NoError(t, err)
	require.Equal(t, u(70), restored.BalanceOf(accA))
	require.Equal(t, u(100), restored.TotalSupply())

	require.ErrorIs(t, restored.Transfer(accC, u(1)), ErrReadOnly)
	require.ErrorIs(t, restored.TransferFrom(accA, accC, u(0)), ErrReadOnly)
	require.ErrorIs(t, restored.Burn(u(1)), ErrReadOnly)
	require.ErrorIs(t, restored.Mint(u(1)), ErrReadOnly)
	require.Equal(t, s, restored.Snapshot())
}
