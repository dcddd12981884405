package vm_test

import (
	"crypto/ed25519"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/tpkg"
	"github.com/ledgertx/sdk/vm"
)

// signingBytes mirrors the package-internal placeholder essence packer: just
// enough of the essence to give tests something stable to sign over.
func signingBytes(e *ledger.TransactionEssence) []byte {
	return []byte{byte(e.NetworkID), byte(e.NetworkID >> 8), byte(e.CreationSlot), byte(e.CreationSlot >> 8)}
}

func paramsFor(t *testing.T, essence *ledger.TransactionEssence, consumed []vm.ConsumedInput, unlocks ledger.Unlocks) *vm.Params {
	t.Helper()

	tx := &ledger.Transaction{Essence: essence, Unlocks: unlocks}
	ws, err := vm.NewVMParamsWorkingSet(tx, vm.ResolvedInputs{InputSet: consumed})
	require.NoError(t, err)

	return &vm.Params{
		External:   &vm.Environment{ProtocolParameters: tpkg.TestProtocolParameters},
		WorkingSet: ws,
	}
}

func TestExecFuncTimelocks(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	locked := tpkg.BasicOutput(1_000_000, sender)
	locked.Conditions = append(locked.Conditions, &ledger.TimelockUnlockCondition{SlotIndex: 20})

	essence := essenceFixture()
	essence.CreationSlot = 10

	consumed := []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: locked, CreationSlot: 0}}

	params := paramsFor(t, essence, consumed, nil)
	err := vm.ExecFuncTimelocks()(nil, params)
	assert.Error(t, err)

	essence.CreationSlot = 25
	params = paramsFor(t, essence, consumed, nil)
	assert.NoError(t, vm.ExecFuncTimelocks()(nil, params))
}

func TestExecFuncInputUnlocksSignature(t *testing.T) {
	pub, priv, addr := tpkg.RandEd25519Keypair()

	input := tpkg.BasicOutput(1_000_000, addr)
	essence := essenceFixture(tpkg.BasicOutput(1_000_000, tpkg.RandEd25519Address()))
	essence.CreationSlot = 10

	sig := ed25519.Sign(priv, signingBytes(essence))
	var unlock ledger.SignatureUnlock
	copy(unlock.Signature.PublicKey[:], pub)
	copy(unlock.Signature.Signature[:], sig)

	consumed := []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: input, CreationSlot: 0}}
	params := paramsFor(t, essence, consumed, ledger.Unlocks{&unlock})

	require.NoError(t, vm.ExecFuncInputUnlocks()(nil, params))
	_, unlocked := params.WorkingSet.UnlockedIdents[addr.Key()]
	assert.True(t, unlocked)
}

func TestExecFuncInputUnlocksBadSignatureFails(t *testing.T) {
	_, _, addr := tpkg.RandEd25519Keypair()
	_, otherPriv, _ := tpkg.RandEd25519Keypair()

	input := tpkg.BasicOutput(1_000_000, addr)
	essence := essenceFixture()
	essence.CreationSlot = 10

	sig := ed25519.Sign(otherPriv, signingBytes(essence))
	var unlock ledger.SignatureUnlock
	copy(unlock.Signature.PublicKey[:], (*addr)[:]) // wrong key for this signature
	copy(unlock.Signature.Signature[:], sig)

	consumed := []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: input, CreationSlot: 0}}
	params := paramsFor(t, essence, consumed, ledger.Unlocks{&unlock})

	assert.Error(t, vm.ExecFuncInputUnlocks()(nil, params))
}

func TestExecFuncInputUnlocksReferenceReusesEarlierSignature(t *testing.T) {
	pub, priv, addr := tpkg.RandEd25519Keypair()

	first := tpkg.BasicOutput(1_000_000, addr)
	second := tpkg.BasicOutput(500_000, addr)
	essence := essenceFixture()
	essence.CreationSlot = 10

	sig := ed25519.Sign(priv, signingBytes(essence))
	var sigUnlock ledger.SignatureUnlock
	copy(sigUnlock.Signature.PublicKey[:], pub)
	copy(sigUnlock.Signature.Signature[:], sig)

	refUnlock := &ledger.ReferenceUnlock{Reference: 0}

	consumed := []vm.ConsumedInput{
		{OutputID: tpkg.RandOutputID(), Output: first, CreationSlot: 0},
		{OutputID: tpkg.RandOutputID(), Output: second, CreationSlot: 0},
	}
	params := paramsFor(t, essence, consumed, ledger.Unlocks{&sigUnlock, refUnlock})

	assert.NoError(t, vm.ExecFuncInputUnlocks()(nil, params))
}

func TestExecFuncSenderUnlocked(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	outWithSender := tpkg.BasicOutput(1_000_000, tpkg.RandEd25519Address())
	outWithSender.Features = ledger.BasicOutputFeatures{&ledger.SenderFeature{Address: sender}}

	essence := essenceFixture(outWithSender)
	params := paramsFor(t, essence, nil, nil)

	assert.Error(t, vm.ExecFuncSenderUnlocked()(nil, params))

	params.WorkingSet.UnlockedIdents[sender.Key()] = struct{}{}
	assert.NoError(t, vm.ExecFuncSenderUnlocked()(nil, params))
}

func TestExecFuncBalancedDeposit(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	consumed := []vm.ConsumedInput{
		{OutputID: tpkg.RandOutputID(), Output: tpkg.BasicOutput(1_000_000, sender), CreationSlot: 0},
	}

	essence := essenceFixture(tpkg.BasicOutput(900_000, sender))
	params := paramsFor(t, essence, consumed, nil)
	assert.Error(t, vm.ExecFuncBalancedDeposit()(nil, params))

	essence = essenceFixture(tpkg.BasicOutput(1_000_000, sender))
	params = paramsFor(t, essence, consumed, nil)
	assert.NoError(t, vm.ExecFuncBalancedDeposit()(nil, params))
}

func TestExecFuncBalancedNativeTokens(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	tokenID := tpkg.RandTokenID()

	consumedWithToken := &ledger.BasicOutput{
		Amount:       1_000_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 100}},
		Conditions:   ledger.BasicOutputUnlockConditions{&ledger.AddressUnlockCondition{Address: sender}},
	}
	consumed := []vm.ConsumedInput{{OutputID: tpkg.RandOutputID(), Output: consumedWithToken, CreationSlot: 0}}

	// output drops the native token entirely, and there's no foundry transition to authorize it.
	essence := essenceFixture(tpkg.BasicOutput(1_000_000, sender))
	params := paramsFor(t, essence, consumed, nil)
	assert.Error(t, vm.ExecFuncBalancedNativeTokens()(nil, params))

	outWithToken := &ledger.BasicOutput{
		Amount:       1_000_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 100}},
		Conditions:   ledger.BasicOutputUnlockConditions{&ledger.AddressUnlockCondition{Address: sender}},
	}
	essence = essenceFixture(outWithToken)
	params = paramsFor(t, essence, consumed, nil)
	assert.NoError(t, vm.ExecFuncBalancedNativeTokens()(nil, params))
}

func TestExecFuncBalancedMana(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	consumed := []vm.ConsumedInput{
		{OutputID: tpkg.RandOutputID(), Output: tpkg.BasicOutputWithMana(1_000_000, 1000, sender), CreationSlot: 0},
	}

	// surplus mana with no burn capability and nothing to carry it must fail.
	essence := essenceFixture(tpkg.BasicOutputWithMana(1_000_000, 100, sender))
	essence.CreationSlot = 0
	params := paramsFor(t, essence, consumed, nil)
	assert.Error(t, vm.ExecFuncBalancedMana()(nil, params))

	essence.Capabilities = ledger.WithCapabilities(ledger.CapabilityBurnMana)
	params = paramsFor(t, essence, consumed, nil)
	assert.NoError(t, vm.ExecFuncBalancedMana()(nil, params))

	// carrying all the mana forward balances without any capability at all.
	essence2 := essenceFixture(tpkg.BasicOutputWithMana(1_000_000, 1000, sender))
	essence2.CreationSlot = 0
	params = paramsFor(t, essence2, consumed, nil)
	assert.NoError(t, vm.ExecFuncBalancedMana()(nil, params))
}
