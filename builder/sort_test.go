package builder

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/tpkg"
)

func TestSortInputSigningDataEd25519First(t *testing.T) {
	addr := tpkg.RandEd25519Address()

	a := tpkg.RandBasicOutputInput(1_000_000, addr, 0)
	b := tpkg.RandBasicOutputInput(2_000_000, addr, 0)

	ordered, err := sortInputSigningData(ledger.InputSigningDataSlice{b, a}, 0)
	require.NoError(t, err)
	require.Len(t, ordered, 2)

	// both are plain Ed25519 inputs: order is by packed OutputID bytes, not insertion order.
	if string(a.OutputID[:]) < string(b.OutputID[:]) {
		assert.Equal(t, a, ordered[0])
		assert.Equal(t, b, ordered[1])
	} else {
		assert.Equal(t, b, ordered[0])
		assert.Equal(t, a, ordered[1])
	}
}

func TestSortInputSigningDataChainAdjacentInsertion(t *testing.T) {
	stateController := tpkg.RandEd25519Address()
	governor := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()

	accountOut := tpkg.AccountOutput(1_000_000, stateController, governor)
	accountOut.AccountID = accountID

	accountInput := &ledger.InputSigningData{
		OutputID:     tpkg.RandOutputID(),
		Output:       accountOut,
		CreationSlot: 0,
	}

	accountAddr := ledger.AccountAddress(accountID)
	foundryInput := &ledger.InputSigningData{
		OutputID: tpkg.RandOutputID(),
		Output: tpkg.FoundryOutput(1_000_000, accountAddr, 1,
			big.NewInt(0), big.NewInt(1000)),
		CreationSlot: 0,
	}

	plainInput := tpkg.RandBasicOutputInput(500_000, tpkg.RandEd25519Address(), 0)

	ordered, err := sortInputSigningData(ledger.InputSigningDataSlice{foundryInput, accountInput, plainInput}, 0)
	require.NoError(t, err)
	require.Len(t, ordered, 3)

	// accountInput and plainInput are both Ed25519-unlockable and sort first, in some
	// order; the foundry, controlled by the account, must land directly after it.
	assert.ElementsMatch(t, ledger.InputSigningDataSlice{foundryInput, accountInput, plainInput}, ordered)

	accountIdx, foundryIdx := -1, -1
	for i, in := range ordered {
		switch in {
		case accountInput:
			accountIdx = i
		case foundryInput:
			foundryIdx = i
		}
	}
	assert.Equal(t, accountIdx+1, foundryIdx)
}
