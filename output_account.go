package ledger

import "github.com/ledgertx/sdk/util"

type (
	accountOutputUnlockCondition interface{ UnlockCondition }
	accountOutputFeature         interface{ Feature }
	accountOutputImmFeature      interface{ Feature }
	// AccountOutputUnlockConditions is the unlock condition container allowed on an AccountOutput.
	AccountOutputUnlockConditions = UnlockConditions[accountOutputUnlockCondition]
	// AccountOutputFeatures is the mutable feature container allowed on an AccountOutput.
	AccountOutputFeatures = Features[accountOutputFeature]
	// AccountOutputImmFeatures is the immutable feature container allowed on an AccountOutput.
	AccountOutputImmFeatures = Features[accountOutputImmFeature]
)

// AccountOutputs is a slice of AccountOutput(s).
type AccountOutputs []*AccountOutput

// AccountOutput represents an on-ledger account: a chain-controlled identity
// that can govern foundries, issue blocks (via a BlockIssuerFeature), and
// delegate stake (via a StakingFeature).
type AccountOutput struct {
	Amount         BaseToken                `serix:"0,mapKey=amount"`
	Mana           Mana                     `serix:"1,mapKey=mana"`
	NativeTokens   NativeTokens             `serix:"2,mapKey=nativeTokens,omitempty"`
	AccountID      AccountID                `serix:"3,mapKey=accountId"`
	FoundryCounter uint32                   `serix:"4,mapKey=foundryCounter"`
	Conditions     AccountOutputUnlockConditions `serix:"5,mapKey=unlockConditions"`
	Features       AccountOutputFeatures    `serix:"6,mapKey=features,omitempty"`
	ImmutableFeatures AccountOutputImmFeatures `serix:"7,mapKey=immutableFeatures,omitempty"`
}

func (e *AccountOutput) Clone() Output {
	return &AccountOutput{
		Amount:            e.Amount,
		Mana:              e.Mana,
		NativeTokens:      e.NativeTokens.Clone(),
		AccountID:         e.AccountID,
		FoundryCounter:    e.FoundryCounter,
		Conditions:        e.Conditions.Clone(),
		Features:          e.Features.Clone(),
		ImmutableFeatures: e.ImmutableFeatures.Clone(),
	}
}

// UnlockableBy reports whether ident may unlock this output: the governor
// address unlocks governance transitions, the state controller unlocks state
// transitions; either may be checked by callers of the semantic vm directly,
// so UnlockableBy here accepts either controller.
func (e *AccountOutput) UnlockableBy(ident Address, committableSlot SlotIndex) bool {
	set := e.UnlockConditionSet()
	if gov := set.GovernorAddress(); gov != nil && gov.Address.Equal(ident) {
		return true
	}
	if sc := set.StateControllerAddress(); sc != nil && sc.Address.Equal(ident) {
		return true
	}

	return false
}

func (e *AccountOutput) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(params.OffsetOutputOverhead) +
		StorageScore(e.Size())*params.FactorData +
		e.NativeTokens.StorageScore(params) +
		e.Conditions.StorageScore(params) +
		e.Features.StorageScore(params) +
		e.ImmutableFeatures.StorageScore(params)
}

func (e *AccountOutput) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	score, err := params.Output.Add(0)
	if err != nil {
		return 0, err
	}
	featScore, err := e.Features.WorkScore(params)
	if err != nil {
		return 0, err
	}

	return score.Add(featScore)
}

func (e *AccountOutput) NativeTokenList() NativeTokens       { return e.NativeTokens }
func (e *AccountOutput) FeatureSet() FeatureSet              { return e.Features.MustSet() }
func (e *AccountOutput) ImmutableFeatureSet() FeatureSet     { return e.ImmutableFeatures.MustSet() }
func (e *AccountOutput) UnlockConditionSet() UnlockConditionSet { return e.Conditions.MustSet() }
func (e *AccountOutput) Deposit() BaseToken                  { return e.Amount }
func (e *AccountOutput) StoredMana() Mana                    { return e.Mana }

// Ident returns the state controller address, the identity that unlocks the
// account for ordinary (state) transitions.
func (e *AccountOutput) Ident() Address {
	return e.Conditions.MustSet().StateControllerAddress().Address
}

// GovernorAddress returns the address controlling governance transitions.
func (e *AccountOutput) GovernorAddress() Address {
	return e.Conditions.MustSet().GovernorAddress().Address
}

func (e *AccountOutput) Type() OutputType { return OutputAccount }

func (e *AccountOutput) ChainID() ChainID { return e.AccountID }

func (e *AccountOutput) Chain() ChainAddress {
	addr := AccountAddress(e.AccountID)
	return &addr
}

func (e *AccountOutput) Size() int {
	return util.NumByteLen(byte(OutputAccount)) +
		util.NumByteLen(uint64(e.Amount)) +
		util.NumByteLen(uint64(e.Mana)) +
		e.NativeTokens.Size() +
		len(e.AccountID) +
		util.NumByteLen(e.FoundryCounter) +
		e.Conditions.Size() +
		e.Features.Size() +
		e.ImmutableFeatures.Size()
}
