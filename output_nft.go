package ledger

import "github.com/ledgertx/sdk/util"

type (
	nftOutputUnlockCondition interface{ UnlockCondition }
	nftOutputFeature         interface{ Feature }
	nftOutputImmFeature      interface{ Feature }
	// NFTOutputUnlockConditions is the unlock condition container allowed on an NFTOutput.
	NFTOutputUnlockConditions = UnlockConditions[nftOutputUnlockCondition]
	// NFTOutputFeatures is the mutable feature container allowed on an NFTOutput.
	NFTOutputFeatures = Features[nftOutputFeature]
	// NFTOutputImmFeatures is the immutable feature container allowed on an NFTOutput.
	NFTOutputImmFeatures = Features[nftOutputImmFeature]
)

// NFTOutputs is a slice of NFTOutput(s).
type NFTOutputs []*NFTOutput

// NFTOutput is a non-fungible, ownership-transferable output. Its immutable
// features (issuer, metadata) are fixed at mint time.
type NFTOutput struct {
	Amount            BaseToken             `serix:"0,mapKey=amount"`
	Mana              Mana                  `serix:"1,mapKey=mana"`
	NativeTokens       NativeTokens         `serix:"2,mapKey=nativeTokens,omitempty"`
	NFTID              NFTID                `serix:"3,mapKey=nftId"`
	Conditions         NFTOutputUnlockConditions `serix:"4,mapKey=unlockConditions"`
	Features           NFTOutputFeatures    `serix:"5,mapKey=features,omitempty"`
	ImmutableFeatures  NFTOutputImmFeatures `serix:"6,mapKey=immutableFeatures,omitempty"`
}

func (e *NFTOutput) Clone() Output {
	return &NFTOutput{
		Amount:            e.Amount,
		Mana:              e.Mana,
		NativeTokens:      e.NativeTokens.Clone(),
		NFTID:             e.NFTID,
		Conditions:        e.Conditions.Clone(),
		Features:          e.Features.Clone(),
		ImmutableFeatures: e.ImmutableFeatures.Clone(),
	}
}

func (e *NFTOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	ok, _ := outputUnlockable(e, nil, ident, committableSlot)
	return ok
}

func (e *NFTOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		e.NativeTokens.StorageScore(params) +
		e.Conditions.StorageScore(params) +
		e.Features.StorageScore(params) +
		e.ImmutableFeatures.StorageScore(params)
}

func (e *NFTOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.Output.Add(0)
}

func (e *NFTOutput) NativeTokenList() NativeTokens       { return e.NativeTokens }
func (e *NFTOutput) FeatureSet() FeatureSet              { return e.Features.MustSet() }
func (e *NFTOutput) ImmutableFeatureSet() FeatureSet     { return e.ImmutableFeatures.MustSet() }
func (e *NFTOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *NFTOutput) Deposit() BaseToken                  { return e.Amount }
func (e *NFTOutput) StoredMana() Mana                    { return e.Mana }
func (e *NFTOutput) Ident() Address                      { return e.Conditions.MustSet().Address().Address }
func (e *NFTOutput) Type() OutputType                    { return OutputNFT }
func (e *NFTOutput) ChainID() ChainID                    { return e.NFTID }

func (e *NFTOutput) Chain() ChainAddress {
	addr := NFTAddress(e.NFTID)
	return &addr
}

func (e *NFTOutput) Size() int {
	return util.NumByteLen(byte(OutputNFT)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(uint64(e.Mana)) +
		e.NativeTokens.Size() +
		len(e.NFTID) +
		e.Conditions.Size() +
		e.Features.Size() +
		e.ImmutableFeatures.Size()
}
