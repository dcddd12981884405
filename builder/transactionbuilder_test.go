package builder_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/builder"
	"github.com/ledgertx/sdk/tpkg"
)

func TestFinishSimpleSendProducesRemainder(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	recipient := tpkg.RandEd25519Address()

	input := tpkg.RandBasicOutputInput(2_000_000, sender, 0)
	want := tpkg.BasicOutput(1_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	tx, err := b.Finish()
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Len(t, tx.Essence.Inputs, 1)
	// the caller's output plus a synthesized remainder carrying the surplus back to sender.
	assert.Len(t, tx.Essence.Outputs, 2)

	var total ledger.BaseToken
	for _, out := range tx.Essence.Outputs {
		total += out.Deposit()
	}
	assert.Equal(t, ledger.BaseToken(2_000_000), total)
}

func TestFinishExactAmountNoRemainder(t *testing.T) {
	sender := tpkg.RandEd25519Address()

	input := tpkg.RandBasicOutputInput(1_000_000, sender, 0)
	want := tpkg.BasicOutput(1_000_000, sender)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)

	tx, err := b.Finish()
	require.NoError(t, err)
	assert.Len(t, tx.Essence.Outputs, 1)
}

func TestFinishMissingRemainderAddressErrors(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	recipient := tpkg.RandEd25519Address()

	input := tpkg.RandBasicOutputInput(2_000_000, sender, 0)
	want := tpkg.BasicOutput(1_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)

	_, err := b.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrMissingAddressForRemainder)
}

func TestFinishAccountTransitionReusesProvidedOutput(t *testing.T) {
	stateController := tpkg.RandEd25519Address()
	governor := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()

	existing := tpkg.AccountOutput(1_000_000, stateController, governor)
	existing.AccountID = accountID

	accountInput := &ledger.InputSigningData{
		OutputID:     tpkg.RandOutputID(),
		Output:       existing,
		CreationSlot: 0,
	}

	wantAccount := &ledger.AccountOutput{
		Amount:    1_000_000,
		AccountID: accountID,
		Conditions: ledger.AccountOutputUnlockConditions{
			&ledger.StateControllerAddressUnlockCondition{Address: stateController},
			&ledger.GovernorAddressUnlockCondition{Address: governor},
		},
	}

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{accountInput},
		[]ledger.Output{wantAccount},
		[]ledger.Address{stateController, governor},
		10,
		ledger.SlotCommitmentID{},
	)

	tx, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, tx.Essence.Outputs, 1)

	got, ok := tx.Essence.Outputs[0].(*ledger.AccountOutput)
	require.True(t, ok)
	assert.Equal(t, accountID, got.AccountID)
}

func TestFinishBurnAccountDropsTransitionOutput(t *testing.T) {
	stateController := tpkg.RandEd25519Address()
	governor := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()

	existing := tpkg.AccountOutput(1_000_000, stateController, governor)
	existing.AccountID = accountID

	accountInput := &ledger.InputSigningData{
		OutputID:     tpkg.RandOutputID(),
		Output:       existing,
		CreationSlot: 0,
	}

	burn := builder.NewBurn().Account(accountID)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{accountInput},
		nil,
		[]ledger.Address{stateController, governor},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithBurn(burn)
	b.WithRemainderAddress(stateController)

	tx, err := b.Finish()
	require.NoError(t, err)

	// the account is destroyed, not transitioned: its whole deposit comes back as a
	// plain remainder, not a re-synthesized AccountOutput.
	require.Len(t, tx.Essence.Outputs, 1)
	assert.Equal(t, ledger.OutputBasic, tx.Essence.Outputs[0].Type())
	assert.Equal(t, ledger.BaseToken(1_000_000), tx.Essence.Outputs[0].Deposit())
}

func TestFinishNativeTokenRequirementPullsMatchingInput(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	tokenID := tpkg.RandTokenID()

	plain := tpkg.RandBasicOutputInput(1_000_000, sender, 0)

	tokenInput := &ledger.InputSigningData{
		OutputID: tpkg.RandOutputID(),
		Output: &ledger.BasicOutput{
			Amount:       1_000_000,
			NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 500}},
			Conditions: ledger.BasicOutputUnlockConditions{
				&ledger.AddressUnlockCondition{Address: sender},
			},
		},
		CreationSlot: 0,
	}

	want := &ledger.BasicOutput{
		Amount:       1_000_000,
		NativeTokens: ledger.NativeTokens{{ID: tokenID, Amount: 200}},
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: sender},
		},
	}

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{plain, tokenInput},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	tx, err := b.Finish()
	require.NoError(t, err)

	// the plain (tokenless) input alone can't satisfy the native token requirement,
	// so both inputs must be selected.
	assert.Len(t, tx.Essence.Inputs, 2)

	// every token carried in by selected inputs must be accounted for across outputs:
	// 200 in the caller's output, 300 carried forward in the remainder.
	var totalTokens ledger.BaseToken
	for _, out := range tx.Essence.Outputs {
		for _, nt := range out.NativeTokenList() {
			if nt.ID == tokenID {
				totalTokens += nt.Amount
			}
		}
	}
	assert.Equal(t, ledger.BaseToken(500), totalTokens)

	var remainder *ledger.BasicOutput
	for _, out := range tx.Essence.Outputs {
		if bo, ok := out.(*ledger.BasicOutput); ok && bo != want {
			remainder = bo
		}
	}
	require.NotNil(t, remainder)
	require.Len(t, remainder.NativeTokens, 1)
	assert.Equal(t, ledger.BaseToken(300), remainder.NativeTokens[0].Amount)
}

func TestFinishBurnNativeTokenOnlyBurnsDeclaredAmount(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	burnedToken := tpkg.RandTokenID()
	untouchedToken := tpkg.RandTokenID()

	input := &ledger.InputSigningData{
		OutputID: tpkg.RandOutputID(),
		Output: &ledger.BasicOutput{
			Amount: 2_000_000,
			NativeTokens: ledger.NativeTokens{
				{ID: burnedToken, Amount: 500},
				{ID: untouchedToken, Amount: 300},
			},
			Conditions: ledger.BasicOutputUnlockConditions{
				&ledger.AddressUnlockCondition{Address: sender},
			},
		},
		CreationSlot: 0,
	}

	want := tpkg.BasicOutput(1_000_000, sender)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)
	// only 200 of the 500 surplus burnedToken units are declared burnable; the
	// remaining 300 burnedToken units and the untouched token must still be
	// carried forward in the remainder, not silently dropped.
	b.WithBurn(builder.NewBurn().NativeToken(burnedToken, 200))

	tx, err := b.Finish()
	require.NoError(t, err)

	var remainder *ledger.BasicOutput
	for _, out := range tx.Essence.Outputs {
		if bo, ok := out.(*ledger.BasicOutput); ok && bo != want {
			remainder = bo
		}
	}
	require.NotNil(t, remainder)

	balances := make(map[ledger.TokenID]ledger.BaseToken)
	for _, nt := range remainder.NativeTokens {
		balances[nt.ID] = nt.Amount
	}
	assert.Equal(t, ledger.BaseToken(300), balances[burnedToken])
	assert.Equal(t, ledger.BaseToken(300), balances[untouchedToken])
}

func TestFinishInsufficientAmountErrors(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	recipient := tpkg.RandEd25519Address()

	input := tpkg.RandBasicOutputInput(100_000, sender, 0)
	want := tpkg.BasicOutput(5_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	_, err := b.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrNoAvailableInputsProvided)
}

func TestFinishDisableAdditionalInputSelection(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	recipient := tpkg.RandEd25519Address()

	small := tpkg.RandBasicOutputInput(100_000, sender, 0)
	large := tpkg.RandBasicOutputInput(5_000_000, sender, 0)
	want := tpkg.BasicOutput(1_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{small, large},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRequiredInputs(small.OutputID)
	b.DisableAdditionalInputSelection()
	b.WithRemainderAddress(sender)

	_, err := b.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrAdditionalInputsRequired)
}

func TestFinishMinManaAllotmentAllotsMana(t *testing.T) {
	sender := tpkg.RandEd25519Address()
	recipient := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()

	input := &ledger.InputSigningData{
		OutputID:     tpkg.RandOutputID(),
		Output:       tpkg.BasicOutputWithMana(5_000_000, 100_000, sender),
		CreationSlot: 0,
	}
	want := tpkg.BasicOutput(1_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{input},
		[]ledger.Output{want},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)
	b.WithMinManaAllotment(accountID, 1)

	tx, err := b.Finish()
	require.NoError(t, err)

	al := tx.Essence.Allotments.Get(accountID)
	require.NotNil(t, al)
	assert.Greater(t, uint64(al.Mana), uint64(0))
}

func TestFinishNoInputsProvidedErrors(t *testing.T) {
	recipient := tpkg.RandEd25519Address()
	want := tpkg.BasicOutput(1_000_000, recipient)

	b := builder.New(
		tpkg.TestAPI,
		nil,
		[]ledger.Output{want},
		nil,
		10,
		ledger.SlotCommitmentID{},
	)

	_, err := b.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrNoAvailableInputsProvided)
}

func TestFinishFoundryMintsWithoutPreexistingFoundryInput(t *testing.T) {
	stateController := tpkg.RandEd25519Address()
	governor := tpkg.RandEd25519Address()
	accountID := tpkg.RandAccountID()
	accountAddr := ledger.AccountAddress(accountID)
	sender := tpkg.RandEd25519Address()

	existingAccount := tpkg.AccountOutput(1_000_000, stateController, governor)
	existingAccount.AccountID = accountID

	accountInput := &ledger.InputSigningData{
		OutputID:     tpkg.RandOutputID(),
		Output:       existingAccount,
		CreationSlot: 0,
	}
	basicInput := tpkg.RandBasicOutputInput(1_000_000, sender, 0)

	foundryOut := tpkg.FoundryOutput(1_000_000, accountAddr, 1, big.NewInt(0), big.NewInt(1000))

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{basicInput, accountInput},
		[]ledger.Output{foundryOut},
		[]ledger.Address{sender, stateController, governor},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	tx, err := b.Finish()
	require.NoError(t, err)

	var gotFoundry *ledger.FoundryOutput
	var gotAccount *ledger.AccountOutput
	for _, out := range tx.Essence.Outputs {
		switch o := out.(type) {
		case *ledger.FoundryOutput:
			gotFoundry = o
		case *ledger.AccountOutput:
			gotAccount = o
		}
	}

	require.NotNil(t, gotFoundry)
	require.NotNil(t, gotAccount)
	assert.Equal(t, accountID, gotAccount.AccountID)
	assert.Equal(t, uint32(1), gotAccount.FoundryCounter)
	assert.Len(t, tx.Essence.Inputs, 2)
}

func TestFinishFoundryRequiresAccountInput(t *testing.T) {
	accountAddr := ledger.AccountAddress(tpkg.RandAccountID())
	sender := tpkg.RandEd25519Address()

	foundryOut := tpkg.FoundryOutput(1_000_000, accountAddr, 1, big.NewInt(0), big.NewInt(1000))

	b := builder.New(
		tpkg.TestAPI,
		ledger.InputSigningDataSlice{tpkg.RandBasicOutputInput(1_000_000, sender, 0)},
		[]ledger.Output{foundryOut},
		[]ledger.Address{sender},
		10,
		ledger.SlotCommitmentID{},
	)
	b.WithRemainderAddress(sender)

	_, err := b.Finish()
	require.Error(t, err)
	assert.ErrorIs(t, err, builder.ErrRequiredInputIsNotAvailable)
}
