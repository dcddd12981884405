package ledger

import "github.com/ledgertx/sdk/util"

type (
	anchorOutputUnlockCondition interface{ UnlockCondition }
	anchorOutputFeature         interface{ Feature }
	anchorOutputImmFeature      interface{ Feature }
	// AnchorOutputUnlockConditions is the unlock condition container allowed on an AnchorOutput.
	AnchorOutputUnlockConditions = UnlockConditions[anchorOutputUnlockCondition]
	// AnchorOutputFeatures is the mutable feature container allowed on an AnchorOutput.
	AnchorOutputFeatures = Features[anchorOutputFeature]
	// AnchorOutputImmFeatures is the immutable feature container allowed on an AnchorOutput.
	AnchorOutputImmFeatures = Features[anchorOutputImmFeature]
)

// AnchorOutputs is a slice of AnchorOutput(s).
type AnchorOutputs []*AnchorOutput

// AnchorOutput is a chain output with the same dual state-controller/governor
// unlock model as AccountOutput, carrying StateIndex and arbitrary
// StateMetadataFeature payload instead of a foundry counter.
type AnchorOutput struct {
	Amount            BaseToken                `serix:"0,mapKey=amount"`
	Mana              Mana                     `serix:"1,mapKey=mana"`
	NativeTokens      NativeTokens             `serix:"2,mapKey=nativeTokens,omitempty"`
	AnchorID          AnchorID                 `serix:"3,mapKey=anchorId"`
	StateIndex        uint32                   `serix:"4,mapKey=stateIndex"`
	Conditions        AnchorOutputUnlockConditions `serix:"5,mapKey=unlockConditions"`
	Features          AnchorOutputFeatures     `serix:"6,mapKey=features,omitempty"`
	ImmutableFeatures AnchorOutputImmFeatures  `serix:"7,mapKey=immutableFeatures,omitempty"`
}

func (e *AnchorOutput) Clone() Output {
	return &AnchorOutput{
		Amount:            e.Amount,
		Mana:              e.Mana,
		NativeTokens:      e.NativeTokens.Clone(),
		AnchorID:          e.AnchorID,
		StateIndex:        e.StateIndex,
		Conditions:        e.Conditions.Clone(),
		Features:          e.Features.Clone(),
		ImmutableFeatures: e.ImmutableFeatures.Clone(),
	}
}

func (e *AnchorOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	set := e.UnlockConditionSet()
	if gov := set.GovernorAddress(); gov != nil && gov.Address.Equal(ident) {
		return true
	}
	if sc := set.StateControllerAddress(); sc != nil && sc.Address.Equal(ident) {
		return true
	}

	return false
}

func (e *AnchorOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		e.NativeTokens.StorageScore(params) +
		e.Conditions.StorageScore(params) +
		e.Features.StorageScore(params) +
		e.ImmutableFeatures.StorageScore(params)
}

func (e *AnchorOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.Output.Add(0)
}

func (e *AnchorOutput) NativeTokenList() NativeTokens       { return e.NativeTokens }
func (e *AnchorOutput) FeatureSet() FeatureSet              { return e.Features.MustSet() }
func (e *AnchorOutput) ImmutableFeatureSet() FeatureSet     { return e.ImmutableFeatures.MustSet() }
func (e *AnchorOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *AnchorOutput) Deposit() BaseToken                  { return e.Amount }
func (e *AnchorOutput) StoredMana() Mana                    { return e.Mana }

func (e *AnchorOutput) Ident() Address {
	return e.Conditions.MustSet().StateControllerAddress().Address
}

func (e *AnchorOutput) GovernorAddress() Address {
	return e.Conditions.MustSet().GovernorAddress().Address
}

func (e *AnchorOutput) Type() OutputType { return OutputAnchor }

func (e *AnchorOutput) ChainID() ChainID { return e.AnchorID }

func (e *AnchorOutput) Chain() ChainAddress {
	addr := AnchorAddress(e.AnchorID)
	return &addr
}

func (e *AnchorOutput) Size() int {
	return util.NumByteLen(byte(OutputAnchor)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(uint64(e.Mana)) +
		e.NativeTokens.Size() +
		len(e.AnchorID) +
		util.NumByteLen(e.StateIndex) +
		e.Conditions.Size() +
		e.Features.Size() +
		e.ImmutableFeatures.Size()
}
