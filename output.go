package ledger

// OutputType denotes the type of an Output.
type OutputType byte

const (
	OutputBasic OutputType = iota
	OutputAccount
	OutputAnchor
	OutputFoundry
	OutputNFT
	OutputDelegation
)

func (t OutputType) String() string {
	switch t {
	case OutputBasic:
		return "BasicOutput"
	case OutputAccount:
		return "AccountOutput"
	case OutputAnchor:
		return "AnchorOutput"
	case OutputFoundry:
		return "FoundryOutput"
	case OutputNFT:
		return "NFTOutput"
	case OutputDelegation:
		return "DelegationOutput"
	default:
		return "unknown output type"
	}
}

// Output is the common interface of every output kind.
type Output interface {
	StorageScorer
	ProcessableObject

	// Type returns the OutputType.
	Type() OutputType
	// Clone returns a deep copy of the Output.
	Clone() Output
	// Deposit returns the amount of base tokens held by the output.
	Deposit() BaseToken
	// StoredMana returns the mana held by the output.
	StoredMana() Mana
	// Ident returns the address that currently controls the output's funds
	// (the state controller for account/anchor outputs, the immutable account
	// address for foundry outputs, the address unlock condition for the rest).
	Ident() Address
	// UnlockableBy reports whether ident can unlock the output given the slot
	// at which the transaction is committed.
	UnlockableBy(ident Address, committableSlot SlotIndex) bool
	// NativeTokenList returns the native tokens held by the output, if any.
	NativeTokenList() NativeTokens
	// FeatureSet returns the output's features as a set.
	FeatureSet() FeatureSet
	// UnlockConditionSet returns the output's unlock conditions as a set.
	UnlockConditionSet() UnlockConditionSet
	// Size returns the packed byte size of the output.
	Size() int
}

// ChainOutput is an Output that carries a ChainID and participates in
// state/governance transitions across the lifetime of its chain.
type ChainOutput interface {
	Output

	// ChainID returns the output's chain identifier. For outputs whose chain id
	// is derived from their creating OutputID (account, anchor, nft, delegation)
	// this is empty at genesis.
	ChainID() ChainID
	// Chain returns an address capable of referencing this output's chain.
	Chain() ChainAddress
	// ImmutableFeatureSet returns features that cannot change across the chain's lifetime.
	ImmutableFeatureSet() FeatureSet
}

// outputUnlockable is the shared UnlockableBy implementation: it resolves the
// effective controlling address (accounting for an expired Expiration unlock
// condition) and compares it against ident.
func outputUnlockable(out Output, chainOut ChainOutput, ident Address, committableSlot SlotIndex) (bool, Address) {
	ucSet := out.UnlockConditionSet()

	effective := ucSet.EffectiveUnlockAddress(committableSlot)
	if effective == nil {
		return false, nil
	}

	return effective.Equal(ident), effective
}
