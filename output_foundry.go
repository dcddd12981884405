package ledger

import "github.com/ledgertx/sdk/util"

type (
	foundryOutputUnlockCondition interface{ UnlockCondition }
	foundryOutputFeature         interface{ Feature }
	foundryOutputImmFeature      interface{ Feature }
	// FoundryOutputUnlockConditions is the unlock condition container allowed on a FoundryOutput: exactly one ImmutableAccountAddressUnlockCondition.
	FoundryOutputUnlockConditions = UnlockConditions[foundryOutputUnlockCondition]
	// FoundryOutputFeatures is the mutable feature container allowed on a FoundryOutput.
	FoundryOutputFeatures = Features[foundryOutputFeature]
	// FoundryOutputImmFeatures is the immutable feature container allowed on a FoundryOutput.
	FoundryOutputImmFeatures = Features[foundryOutputImmFeature]
)

// FoundryOutputs is a slice of FoundryOutput(s).
type FoundryOutputs []*FoundryOutput

// FoundryOutput mints and melts exactly one native token, controlled for its
// entire lifetime by the account named in its ImmutableAccountAddressUnlockCondition.
type FoundryOutput struct {
	Amount            BaseToken                 `serix:"0,mapKey=amount"`
	SerialNumber      uint32                    `serix:"1,mapKey=serialNumber"`
	TokenScheme        TokenScheme              `serix:"2,mapKey=tokenScheme"`
	NativeTokens       NativeTokens             `serix:"3,mapKey=nativeTokens,omitempty"`
	Conditions         FoundryOutputUnlockConditions `serix:"4,mapKey=unlockConditions"`
	Features           FoundryOutputFeatures    `serix:"5,mapKey=features,omitempty"`
	ImmutableFeatures  FoundryOutputImmFeatures `serix:"6,mapKey=immutableFeatures,omitempty"`
}

func (e *FoundryOutput) Clone() Output {
	return &FoundryOutput{
		Amount:            e.Amount,
		SerialNumber:      e.SerialNumber,
		TokenScheme:       e.TokenScheme.Clone(),
		NativeTokens:      e.NativeTokens.Clone(),
		Conditions:        e.Conditions.Clone(),
		Features:          e.Features.Clone(),
		ImmutableFeatures: e.ImmutableFeatures.Clone(),
	}
}

func (e *FoundryOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	ok, _ := outputUnlockable(e, nil, ident, committableSlot)
	return ok
}

func (e *FoundryOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		e.TokenScheme.StorageScore(params) +
		e.NativeTokens.StorageScore(params) +
		e.Conditions.StorageScore(params) +
		e.Features.StorageScore(params) +
		e.ImmutableFeatures.StorageScore(params)
}

func (e *FoundryOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.Output.Add(0)
}

func (e *FoundryOutput) NativeTokenList() NativeTokens       { return e.NativeTokens }
func (e *FoundryOutput) FeatureSet() FeatureSet              { return e.Features.MustSet() }
func (e *FoundryOutput) ImmutableFeatureSet() FeatureSet     { return e.ImmutableFeatures.MustSet() }
func (e *FoundryOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *FoundryOutput) Deposit() BaseToken                  { return e.Amount }
func (e *FoundryOutput) StoredMana() Mana                    { return 0 }

// Ident returns the controlling account's address; a foundry is unlocked by
// unlocking the account named in its ImmutableAccountAddressUnlockCondition.
func (e *FoundryOutput) Ident() Address {
	return e.Conditions.MustSet().ImmutableAccount().Address
}

func (e *FoundryOutput) Type() OutputType { return OutputFoundry }

// ChainID computes the FoundryID from the output's controlling account, serial
// number and token scheme kind; foundries have no separate on-ledger id field.
func (e *FoundryOutput) ChainID() ChainID {
	accountAddr := e.Conditions.MustSet().ImmutableAccount().Address
	return FoundryIDFromAccountAddressSerialNumberAndTokenSchemeKind(*accountAddr, e.SerialNumber, e.TokenScheme.Type())
}

func (e *FoundryOutput) Chain() ChainAddress { panic("FoundryOutput has no chain address") }

// MustNativeTokenID returns the TokenID of the single native token this foundry controls.
func (e *FoundryOutput) MustNativeTokenID() TokenID {
	id := e.ChainID().(FoundryID)
	return TokenID(id)
}

func (e *FoundryOutput) Size() int {
	return util.NumByteLen(byte(OutputFoundry)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(e.SerialNumber) +
		1 + 96 + // token scheme kind byte + SimpleTokenScheme's three big.Int fields (32 bytes each)
		e.NativeTokens.Size() +
		e.Conditions.Size() +
		e.Features.Size() +
		e.ImmutableFeatures.Size()
}
