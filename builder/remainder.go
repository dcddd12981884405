package builder

import (
	"math"
	"math/big"

	"github.com/iotaledger/hive.go/core/safemath"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/ledgertx/sdk"
)

// amountBalance returns (selected deposit sum, required deposit sum) where
// required is the sum of the deposits of every provided output and every
// builder-synthesized output other than the remainder; no minimum storage
// deposit is added on top.
func (b *TransactionBuilder) amountBalance() (ledger.BaseToken, ledger.BaseToken, error) {
	var have ledger.BaseToken
	for _, in := range b.selectedInputs {
		sum, err := safemath.SafeAdd(have, in.Output.Deposit())
		if err != nil {
			return 0, 0, err
		}
		have = sum
	}

	var want ledger.BaseToken
	for _, out := range b.nonRemainderOutputs() {
		sum, err := safemath.SafeAdd(want, out.Deposit())
		if err != nil {
			return 0, 0, err
		}
		want = sum
	}

	return have, want, nil
}

// manaBalance returns (available mana, required mana): available mana is the
// stored mana of selected inputs decayed to the creation slot plus the
// potential mana they generate by that slot; required mana is the mana
// carried by provided/added outputs plus every mana allotment.
func (b *TransactionBuilder) manaBalance() (ledger.Mana, ledger.Mana, error) {
	decay := b.api.ManaDecayProvider()

	var have ledger.Mana
	for _, in := range b.selectedInputs {
		stored := decay.StoredManaWithDecay(in.Output.StoredMana(), in.CreationSlot, b.creationSlot)
		potential := decay.PotentialManaWithDecay(in.Output.Deposit(), in.CreationSlot, b.creationSlot)

		sum, err := safemath.SafeAdd(have, stored)
		if err != nil {
			return 0, 0, err
		}
		sum, err = safemath.SafeAdd(sum, potential)
		if err != nil {
			return 0, 0, err
		}
		have = sum
	}

	for _, reward := range b.manaRewards {
		sum, err := safemath.SafeAdd(have, reward)
		if err != nil {
			return 0, 0, err
		}
		have = sum
	}

	var want ledger.Mana
	for _, out := range b.nonRemainderOutputs() {
		sum, err := safemath.SafeAdd(want, out.StoredMana())
		if err != nil {
			return 0, 0, err
		}
		want = sum
	}
	allotted, err := b.manaAllotments.Sum()
	if err != nil {
		return 0, 0, err
	}
	want, err = safemath.SafeAdd(want, allotted)
	if err != nil {
		return 0, 0, err
	}

	return have, want, nil
}

// nativeTokenBalance returns (selected amount of id, required amount of id)
// across selected inputs and provided/added outputs respectively.
func (b *TransactionBuilder) nativeTokenBalance(id ledger.TokenID) (*big.Int, *big.Int, error) {
	have := new(big.Int)
	for _, in := range b.selectedInputs {
		for _, nt := range in.Output.NativeTokenList() {
			if nt.ID == id {
				have.Add(have, new(big.Int).SetUint64(uint64(nt.Amount)))
			}
		}
	}

	want := new(big.Int)
	for _, out := range b.nonRemainderOutputs() {
		for _, nt := range out.NativeTokenList() {
			if nt.ID == id {
				want.Add(want, new(big.Int).SetUint64(uint64(nt.Amount)))
			}
		}
	}

	return have, want, nil
}

// selectedNativeTokenIDs returns every distinct TokenID carried by a selected
// input, the only source of native token supply a remainder could need to
// carry forward.
func (b *TransactionBuilder) selectedNativeTokenIDs() []ledger.TokenID {
	seen := make(map[ledger.TokenID]struct{})
	var ids []ledger.TokenID
	for _, in := range b.selectedInputs {
		for _, nt := range in.Output.NativeTokenList() {
			if _, ok := seen[nt.ID]; !ok {
				seen[nt.ID] = struct{}{}
				ids = append(ids, nt.ID)
			}
		}
	}

	return ids
}

// updateRemainders recomputes the surplus base-token deposit and surplus mana
// left over once every requirement has been satisfied, synthesizing a single
// remainder BasicOutput carrying both back to b.remainderAddress. Surplus
// mana is stored in the remainder, or dropped (burned) when
// CapabilityBurnMana is granted; it is not allotted to any account and not
// folded into another output. Native token surplus is carried forward per
// id, except for the amount (if any) named in the Burn spec for that id,
// which is burned instead. A remainder whose amount is below its minimum
// storage deposit fails with ErrTransactionSumInputsOutputsMismatch; no
// further input is selected to cover it.
func (b *TransactionBuilder) updateRemainders() error {
	haveAmount, wantAmount, err := b.amountBalance()
	if err != nil {
		return err
	}
	haveMana, wantMana, err := b.manaBalance()
	if err != nil {
		return err
	}

	if haveAmount < wantAmount {
		return ierrors.Wrapf(ErrTransactionSumInputsOutputsMismatch, "have %d want %d", haveAmount, wantAmount)
	}

	surplusAmount := haveAmount - wantAmount
	if haveMana < wantMana {
		return ierrors.Wrapf(ErrTransactionManaExceeded, "need %d more mana", wantMana-haveMana)
	}
	surplusMana := haveMana - wantMana

	var surplusTokens ledger.NativeTokens
	maxUint64 := new(big.Int).SetUint64(math.MaxUint64)
	for _, id := range b.selectedNativeTokenIDs() {
		have, want, err := b.nativeTokenBalance(id)
		if err != nil {
			return err
		}
		if have.Cmp(want) < 0 {
			return ierrors.Wrapf(ErrTransactionSumNativeTokensMismatch, "token %s: have %s want %s", id, have, want)
		}

		surplus := new(big.Int).Sub(have, want)
		if surplus.Sign() == 0 {
			continue
		}

		if b.burn != nil {
			if declared, ok := b.burn.NativeTokens[id]; ok {
				declaredBig := new(big.Int).SetUint64(uint64(declared))
				if declaredBig.Cmp(surplus) > 0 {
					return ierrors.Wrapf(ErrInvalidBurn, "token %s: burn of %s declared but only %s available", id, declaredBig, surplus)
				}
				surplus.Sub(surplus, declaredBig)
				if surplus.Sign() == 0 {
					continue
				}
			}
		}

		if surplus.Cmp(maxUint64) > 0 {
			return ierrors.Wrapf(ErrTransactionSumNativeTokensMismatch, "token %s: surplus %s exceeds carryable remainder amount", id, surplus)
		}

		surplusTokens = append(surplusTokens, &ledger.NativeToken{ID: id, Amount: ledger.BaseToken(surplus.Uint64())})
	}
	surplusTokens.Sort()

	if surplusAmount == 0 && surplusMana == 0 && len(surplusTokens) == 0 {
		b.remainder = nil

		return nil
	}

	if b.remainderAddress == nil {
		return ErrMissingAddressForRemainder
	}

	if surplusMana > 0 && !b.capabilities.Has(ledger.CapabilityBurnMana) {
		// surplus mana without permission to burn it must be carried forward in the remainder.
	} else if surplusMana > 0 {
		surplusMana = 0
	}

	remainder := &ledger.BasicOutput{
		Amount:       surplusAmount,
		Mana:         surplusMana,
		NativeTokens: surplusTokens,
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: b.remainderAddress},
		},
	}

	minDeposit, err := b.api.StorageScoreStructure().MinDeposit(remainder.Size(), remainder.StorageScore(b.api.StorageScoreStructure()))
	if err != nil {
		return err
	}
	if remainder.Amount < minDeposit {
		return ierrors.Wrapf(ErrTransactionSumInputsOutputsMismatch,
			"remainder amount %d below minimum storage deposit %d", remainder.Amount, minDeposit)
	}

	b.remainder = remainder

	return nil
}

// bumpMinManaAllotment increases the allotment for the builder's designated
// min-mana-allotment account by extra, creating the allotment entry if absent.
func (b *TransactionBuilder) bumpMinManaAllotment(extra ledger.Mana) error {
	al := b.manaAllotments.Get(b.minManaAllotmentAccountID)
	if al == nil {
		al = &ledger.Allotment{AccountID: b.minManaAllotmentAccountID}
		b.manaAllotments = append(b.manaAllotments, al)
	}

	sum, err := safemath.SafeAdd(al.Mana, extra)
	if err != nil {
		return err
	}
	al.Mana = sum

	return nil
}
