package ledger

import "github.com/ledgertx/sdk/util"

type (
	delegationOutputUnlockCondition interface{ UnlockCondition }
	// DelegationOutputUnlockConditions is the unlock condition container allowed on a DelegationOutput.
	DelegationOutputUnlockConditions = UnlockConditions[delegationOutputUnlockCondition]
)

// DelegationOutputs is a slice of DelegationOutput(s).
type DelegationOutputs []*DelegationOutput

// DelegationOutput locks base tokens toward a validator account for a
// contiguous epoch range. It carries no mana and no features; its DelegationID
// is null at genesis and derived from the creating OutputID thereafter.
type DelegationOutput struct {
	Amount           BaseToken                         `serix:"0,mapKey=amount"`
	DelegatedAmount  BaseToken                         `serix:"1,mapKey=delegatedAmount"`
	DelegationID     DelegationID                      `serix:"2,mapKey=delegationId"`
	ValidatorAddress AccountAddress                    `serix:"3,mapKey=validatorAddress"`
	StartEpoch       EpochIndex                        `serix:"4,mapKey=startEpoch"`
	EndEpoch         EpochIndex                        `serix:"5,mapKey=endEpoch"`
	Conditions       DelegationOutputUnlockConditions  `serix:"6,mapKey=unlockConditions"`
}

func (e *DelegationOutput) Clone() Output {
	return &DelegationOutput{
		Amount:           e.Amount,
		DelegatedAmount:  e.DelegatedAmount,
		DelegationID:     e.DelegationID,
		ValidatorAddress: e.ValidatorAddress,
		StartEpoch:       e.StartEpoch,
		EndEpoch:         e.EndEpoch,
		Conditions:       e.Conditions.Clone(),
	}
}

func (e *DelegationOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	ok, _ := outputUnlockable(e, nil, ident, committableSlot)
	return ok
}

func (e *DelegationOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		StorageScore(params.OffsetDelegation) +
		e.Conditions.StorageScore(params)
}

func (e *DelegationOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.Output.Add(0)
}

func (e *DelegationOutput) NativeTokenList() NativeTokens       { return nil }
func (e *DelegationOutput) FeatureSet() FeatureSet              { return nil }
func (e *DelegationOutput) ImmutableFeatureSet() FeatureSet     { return nil }
func (e *DelegationOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *DelegationOutput) Deposit() BaseToken                  { return e.Amount }
func (e *DelegationOutput) StoredMana() Mana                    { return 0 }
func (e *DelegationOutput) Ident() Address                      { return e.Conditions.MustSet().Address().Address }
func (e *DelegationOutput) Type() OutputType                    { return OutputDelegation }
func (e *DelegationOutput) ChainID() ChainID                    { return e.DelegationID }
func (e *DelegationOutput) Chain() ChainAddress                 { panic("DelegationOutput has no chain address") }

// DelegationIDOrFromOutputID returns the output's DelegationID, deriving it
// from outputID when the output is still in its genesis (null-id) form.
func (e *DelegationOutput) DelegationIDOrFromOutputID(outputID OutputID) DelegationID {
	if !e.DelegationID.Empty() {
		return e.DelegationID
	}

	return DelegationIDFromOutputID(outputID)
}

func (e *DelegationOutput) Size() int {
	return util.NumByteLen(byte(OutputDelegation)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(uint64(e.DelegatedAmount)) +
		len(e.DelegationID) +
		len(e.ValidatorAddress) +
		util.NumByteLen(uint64(e.StartEpoch)) +
		util.NumByteLen(uint64(e.EndEpoch)) +
		e.Conditions.Size()
}
