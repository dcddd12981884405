package ledger

import "github.com/ledgertx/sdk/util"

type (
	basicOutputUnlockCondition interface{ UnlockCondition }
	basicOutputFeature         interface{ Feature }
	// BasicOutputUnlockConditions is the unlock condition container allowed on a BasicOutput.
	BasicOutputUnlockConditions = UnlockConditions[basicOutputUnlockCondition]
	// BasicOutputFeatures is the feature container allowed on a BasicOutput.
	BasicOutputFeatures = Features[basicOutputFeature]
)

// BasicOutputs is a slice of BasicOutput(s).
type BasicOutputs []*BasicOutput

// BasicOutput holds base tokens, mana, and optionally native tokens, behind an
// address unlock condition plus optional storage-deposit-return/timelock/expiration.
type BasicOutput struct {
	Amount       BaseToken               `serix:"0,mapKey=amount"`
	Mana         Mana                    `serix:"1,mapKey=mana"`
	NativeTokens NativeTokens            `serix:"2,mapKey=nativeTokens,omitempty"`
	Conditions   BasicOutputUnlockConditions `serix:"3,mapKey=unlockConditions,omitempty"`
	Features     BasicOutputFeatures     `serix:"4,mapKey=features,omitempty"`
}

// IsSimpleTransfer reports whether this output is a plain value transfer: a
// single address unlock condition, no native tokens, no features.
func (e *BasicOutput) IsSimpleTransfer() bool {
	return len(e.FeatureSet()) == 0 && len(e.UnlockConditionSet()) == 1 && len(e.NativeTokens) == 0
}

func (e *BasicOutput) Clone() Output {
	return &BasicOutput{
		Amount:       e.Amount,
		Mana:         e.Mana,
		NativeTokens: e.NativeTokens.Clone(),
		Conditions:   e.Conditions.Clone(),
		Features:     e.Features.Clone(),
	}
}

func (e *BasicOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	ok, _ := outputUnlockable(e, nil, ident, committableSlot)
	return ok
}

func (e *BasicOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		e.NativeTokens.StorageScore(params) +
		e.Conditions.StorageScore(params) +
		e.Features.StorageScore(params)
}

func (e *BasicOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	score, err := params.Output.Add(0)
	if err != nil {
		return 0, err
	}
	nativeTokenScore, err := e.NativeTokens.WorkScore(params)
	if err != nil {
		return 0, err
	}

	return score.Add(nativeTokenScore)
}

func (e *BasicOutput) NativeTokenList() NativeTokens { return e.NativeTokens }
func (e *BasicOutput) FeatureSet() FeatureSet        { return e.Features.MustSet() }
func (e *BasicOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *BasicOutput) Deposit() BaseToken            { return e.Amount }
func (e *BasicOutput) StoredMana() Mana              { return e.Mana }
func (e *BasicOutput) Ident() Address                { return e.Conditions.MustSet().Address().Address }
func (e *BasicOutput) Type() OutputType              { return OutputBasic }

func (e *BasicOutput) Size() int {
	return util.NumByteLen(byte(OutputBasic)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(uint64(e.Mana)) +
		e.NativeTokens.Size() +
		e.Conditions.Size() +
		e.Features.Size()
}
