package vm_test

import (
	"crypto/ed25519"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/tpkg"
	"github.com/ledgertx/sdk/vm"
)

func TestExecuteEndToEndSimpleTransfer(t *testing.T) {
	pub, priv, sender := tpkg.RandEd25519Keypair()
	recipient := tpkg.RandEd25519Address()

	input := tpkg.BasicOutput(1_000_000, sender)
	output := tpkg.BasicOutput(1_000_000, recipient)

	essence := &ledger.TransactionEssence{
		NetworkID:    tpkg.TestNetworkID,
		CreationSlot: 10,
		Outputs:      []ledger.Output{output},
	}

	sig := ed25519.Sign(priv, signingBytes(essence))
	var unlock ledger.SignatureUnlock
	copy(unlock.Signature.PublicKey[:], pub)
	copy(unlock.Signature.Signature[:], sig)

	tx := &ledger.Transaction{Essence: essence, Unlocks: ledger.Unlocks{&unlock}}

	machine := vm.NewVirtualMachine()
	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}}
	inputs := vm.ResolvedInputs{
		InputSet: []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: input, CreationSlot: 0}},
	}

	require.NoError(t, machine.Execute(tx, params, inputs))
}

func TestExecuteEndToEndRejectsUnbalancedDeposit(t *testing.T) {
	pub, priv, sender := tpkg.RandEd25519Keypair()
	recipient := tpkg.RandEd25519Address()

	input := tpkg.BasicOutput(1_000_000, sender)
	output := tpkg.BasicOutput(900_000, recipient)

	essence := &ledger.TransactionEssence{
		NetworkID:    tpkg.TestNetworkID,
		CreationSlot: 10,
		Outputs:      []ledger.Output{output},
	}

	sig := ed25519.Sign(priv, signingBytes(essence))
	var unlock ledger.SignatureUnlock
	copy(unlock.Signature.PublicKey[:], pub)
	copy(unlock.Signature.Signature[:], sig)

	tx := &ledger.Transaction{Essence: essence, Unlocks: ledger.Unlocks{&unlock}}

	machine := vm.NewVirtualMachine()
	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}}
	inputs := vm.ResolvedInputs{
		InputSet: []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: input, CreationSlot: 0}},
	}

	err := machine.Execute(tx, params, inputs)
	assert.Error(t, err)
}

func TestChainSTVFAccountGenesisRequiresIssuerUnlocked(t *testing.T) {
	controller := tpkg.RandEd25519Address()
	issuer := tpkg.RandEd25519Address()

	next := tpkg.AccountOutput(1_000_000, controller, controller)
	next.ImmutableFeatures = ledger.AccountOutputImmFeatures{&ledger.IssuerFeature{Address: issuer}}

	essence := essenceFixture(next)
	tx := &ledger.Transaction{Essence: essence}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{})
	require.NoError(t, err)

	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}, WorkingSet: ws}
	machine := vm.NewVirtualMachine()

	assert.Error(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))

	ws.UnlockedIdents[issuer.Key()] = struct{}{}
	assert.NoError(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))
}

func TestChainSTVFAccountGovernanceChangeRejectsAmountChange(t *testing.T) {
	stateController := tpkg.RandEd25519Address()
	governor := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()

	current := tpkg.AccountOutput(1_000_000, stateController, governor)
	current.AccountID = accountID

	newGovernor := tpkg.RandEd25519Address()
	next := tpkg.AccountOutput(2_000_000, stateController, newGovernor)
	next.AccountID = accountID

	input := &vm.ChainOutputWithCreationTime{Output: current, OutputID: tpkg.RandOutputID(), CreationSlot: 0}

	essence := essenceFixture(next)
	tx := &ledger.Transaction{Essence: essence}
	consumed := []vm.ConsumedInput{{OutputID: input.OutputID, Output: current, CreationSlot: 0}}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{InputSet: consumed})
	require.NoError(t, err)

	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}, WorkingSet: ws}
	machine := vm.NewVirtualMachine()

	assert.Error(t, machine.ChainSTVF(vm.ChainTransitionTypeGovernanceChange, input, next, params))

	next.Amount = 1_000_000
	assert.NoError(t, machine.ChainSTVF(vm.ChainTransitionTypeGovernanceChange, input, next, params))
}

func TestChainSTVFFoundryGenesisValidatesMintedSupply(t *testing.T) {
	accountAddr := ledger.AccountAddress(tpkg.RandAccountID())

	next := tpkg.FoundryOutput(1_000_000, accountAddr, 1, big.NewInt(500), big.NewInt(1000))
	tokenID := next.MustNativeTokenID()

	carrier := &ledger.BasicOutput{
		Amount:       100_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 500}},
		Conditions:   ledger.BasicOutputUnlockConditions{&ledger.AddressUnlockCondition{Address: tpkg.RandEd25519Address()}},
	}

	essence := essenceFixture(next, carrier)
	tx := &ledger.Transaction{Essence: essence}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{})
	require.NoError(t, err)

	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}, WorkingSet: ws}
	machine := vm.NewVirtualMachine()

	assert.NoError(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))

	carrier.NativeTokens[0].Amount = 400
	essence2 := essenceFixture(next, carrier)
	tx2 := &ledger.Transaction{Essence: essence2}
	ws2, err := vm.NewVMParamsWorkingSet(tx2, vm.ResolvedInputs{})
	require.NoError(t, err)
	params.WorkingSet = ws2

	assert.Error(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))
}

func TestChainSTVFDelegationGenesisRequiresCommitmentInput(t *testing.T) {
	validator := ledger.AccountAddress(tpkg.RandAccountID())
	addr := tpkg.RandEd25519Address()

	next := tpkg.DelegationOutput(1_000_000, 1_000_000, validator, addr, 1, 0)

	essence := essenceFixture(next)
	tx := &ledger.Transaction{Essence: essence}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{})
	require.NoError(t, err)

	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}, WorkingSet: ws}
	machine := vm.NewVirtualMachine()

	assert.Error(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))

	ws2, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{CommitmentInput: &ledger.CommitmentContextInput{}})
	require.NoError(t, err)
	params.WorkingSet = ws2

	assert.NoError(t, machine.ChainSTVF(vm.ChainTransitionTypeGenesis, nil, next, params))
}

func TestChainSTVFDelegationDestroyRequiresRewardClaim(t *testing.T) {
	validator := ledger.AccountAddress(tpkg.RandAccountID())
	addr := tpkg.RandEd25519Address()
	delegationID := tpkg.RandDelegationID()

	current := tpkg.DelegationOutput(1_000_000, 1_000_000, validator, addr, 1, 0)
	current.DelegationID = delegationID

	essence := essenceFixture()
	tx := &ledger.Transaction{Essence: essence}
	consumed := []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: current, CreationSlot: 0}}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{InputSet: consumed})
	require.NoError(t, err)

	params := &vm.Params{External: &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters}, WorkingSet: ws}
	machine := vm.NewVirtualMachine()
	input := &vm.ChainOutputWithCreationTime{Output: current, OutputID: consumed[0].OutputID, CreationSlot: 0}

	assert.Error(t, machine.ChainSTVF(vm.ChainTransitionTypeDestroy, input, nil, params))

	ws.Rewards = map[ledger.ChainID]ledger.Mana{delegationID: 10}
	assert.NoError(t, machine.ChainSTVF(vm.ChainTransitionTypeDestroy, input, nil, params))
}
