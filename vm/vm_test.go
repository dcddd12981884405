package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/tpkg"
	"github.com/ledgertx/sdk/vm"
)

func essenceFixture(outputs ...ledger.Output) *ledger.TransactionEssence {
	return &ledger.TransactionEssence{
		NetworkID:    tpkg.TestNetworkID,
		CreationSlot: 10,
		Outputs:      outputs,
	}
}

func TestNewVMParamsWorkingSetPopulatesChainsAndTokens(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()
	tokenID := tpkg.RandTokenID()

	consumedAccount := tpkg.AccountOutput(1_000_000, sender, sender)
	consumedAccount.AccountID = accountID

	consumedBasic := &ledger.BasicOutput{
		Amount:       500_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 100}},
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: sender},
		},
	}

	outAccount := tpkg.AccountOutput(1_000_000, sender, sender)
	outAccount.AccountID = accountID

	outBasic := &ledger.BasicOutput{
		Amount:       500_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 100}},
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: sender},
		},
	}

	essence := essenceFixture(outAccount, outBasic)
	tx := &ledger.Transaction{Essence: essence}

	inputs := vm.ResolvedInputs{
		InputSet: []vm.ConsumedInput{
			{OutputID: tpkg.RandOutputID(), Output: consumedAccount, CreationSlot: 0},
			{OutputID: tpkg.RandOutputID(), Output: consumedBasic, CreationSlot: 0},
		},
	}

	ws, err := vm.NewVMParamsWorkingSet(tx, inputs)
	require.NoError(t, err)

	_, inHasAccount := ws.InChains[accountID.Key()]
	assert.True(t, inHasAccount)
	_, outHasAccount := ws.OutChains[accountID.Key()]
	assert.True(t, outHasAccount)

	assert.Equal(t, uint64(100), ws.InNativeTokens[tokenID].Uint64())
	assert.Equal(t, uint64(100), ws.OutNativeTokens[tokenID].Uint64())

	assert.Len(t, ws.OutputsByType[ledger.OutputAccount], 1)
	assert.Len(t, ws.OutputsByType[ledger.OutputBasic], 1)
}

func TestNewVMParamsWorkingSetDerivesGenesisChainID(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	genesisAccount := tpkg.AccountOutput(1_000_000, sender, sender)

	essence := essenceFixture(genesisAccount)
	tx := &ledger.Transaction{Essence: essence}

	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{})
	require.NoError(t, err)

	// a freshly minted account carries an empty AccountID on the wire; the working
	// set must derive its eventual chain id from the output's own future OutputID.
	assert.Len(t, ws.OutChains, 1)
}

func TestTotalManaInOut(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	decay := tpkg.TestAPI.ManaDecayProvider()

	consumed := []vm.ConsumedInput{
		{OutputID: tpkg.RandOutputID(), Output: tpkg.BasicOutputWithMana(1_000_000, 500, sender), CreationSlot: 0},
	}
	rewards := map[ledger.ChainID]ledger.Mana{}

	in, err := vm.TotalManaIn(decay, 10, consumed, rewards)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, uint64(in), uint64(500))

	out, err := vm.TotalManaOut([]ledger.Output{tpkg.BasicOutputWithMana(1_000_000, 200, sender)}, nil)
	require.NoError(t, err)
	assert.Equal(t, ledger.Mana(200), out)
}

func TestIsIssuerOnOutputUnlocked(t *testing.T) {
	issuer := tpkg.RandEd25519Address()
	owner := tpkg.RandEd25519Address()

	nft := tpkg.NFTOutput(1_000_000, owner)
	nft.ImmutableFeatures = ledger.NFTOutputImmFeatures{
		&ledger.IssuerFeature{Address: issuer},
	}

	unlocked := map[string]struct{}{issuer.Key(): {}}
	assert.NoError(t, vm.IsIssuerOnOutputUnlocked(nft, unlocked))

	assert.Error(t, vm.IsIssuerOnOutputUnlocked(nft, map[string]struct{}{}))
}
