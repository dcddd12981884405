// Package ledger is the core data model of a UTXO ledger with typed,
// chain-capable outputs: basic value outputs, account outputs controlling
// foundries, foundry outputs minting native tokens, NFT outputs, anchor
// outputs, and delegation outputs. Transaction assembly lives in the
// builder subpackage; semantic validation lives in vm.
package ledger

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrMissingProtocolParams is returned when ProtocolParameters are missing for operations which require them.
	ErrMissingProtocolParams = ierrors.New("missing protocol parameters")

	// ErrNonUniqueUnlockConditions gets returned when multiple UnlockCondition(s) with the same type exist within a set.
	ErrNonUniqueUnlockConditions = ierrors.New("non unique unlock conditions within output")
	// ErrNonUniqueFeatures gets returned when multiple Feature(s) with the same FeatureType exist within sets.
	ErrNonUniqueFeatures = ierrors.New("non unique features within outputs")
	// ErrInvalidFeatureTransition gets returned when a Feature's transition within a ChainOutput is invalid.
	ErrInvalidFeatureTransition = ierrors.New("invalid feature transition")
	// ErrInvalidMetadataKey gets returned when a MetadataFeature's key is invalid.
	ErrInvalidMetadataKey = ierrors.New("invalid metadata key")
	// ErrMetadataExceedsMaxSize gets returned when a MetadataFeature or state metadata exceeds the max size.
	ErrMetadataExceedsMaxSize = ierrors.New("metadata exceeds max allowed size")

	// ErrInvalidAccountStateTransition gets returned when an account output's state transition is invalid.
	ErrInvalidAccountStateTransition = ierrors.New("invalid account state transition")
	// ErrInvalidAccountGovernanceTransition gets returned when an account output's governance transition is invalid.
	ErrInvalidAccountGovernanceTransition = ierrors.New("invalid account governance transition")
	// ErrInvalidAnchorStateTransition gets returned when an anchor output's state transition is invalid.
	ErrInvalidAnchorStateTransition = ierrors.New("invalid anchor state transition")
	// ErrInvalidAnchorGovernanceTransition gets returned when an anchor output's governance transition is invalid.
	ErrInvalidAnchorGovernanceTransition = ierrors.New("invalid anchor governance transition")
	// ErrInvalidFoundryStateTransition gets returned when a foundry output's state transition is invalid.
	ErrInvalidFoundryStateTransition = ierrors.New("invalid foundry state transition")
	// ErrInvalidNFTStateTransition gets returned when an NFT output's state transition is invalid.
	ErrInvalidNFTStateTransition = ierrors.New("invalid nft state transition")
	// ErrSelfControlledAccountOutput gets returned when an account output's controllers reference the account itself.
	ErrSelfControlledAccountOutput = ierrors.New("account output is self-controlled")

	// ErrNewChainOutputHasNonZeroedID gets returned when a chain output's id is not zeroed at genesis.
	ErrNewChainOutputHasNonZeroedID = ierrors.New("new chain output has a non-zeroed id")
	// ErrMutatedImmutableField gets returned when a field that must stay fixed across a state
	// transition (e.g. a governor address) changed.
	ErrMutatedImmutableField = ierrors.New("immutable field mutated across state transition")
	// ErrMutatedFieldWithoutRights gets returned when a governance transition changes a field only
	// a state transition is allowed to touch.
	ErrMutatedFieldWithoutRights = ierrors.New("field mutated without the rights to change it")
	// ErrUnsupportedStateIndexOperation gets returned when an anchor's state index does not advance
	// by exactly one across a state transition.
	ErrUnsupportedStateIndexOperation = ierrors.New("unsupported state index operation")
	// ErrInconsistentFoundrySerialNumber gets returned when two new foundries controlled by the
	// same account reuse a serial number.
	ErrInconsistentFoundrySerialNumber = ierrors.New("inconsistent foundry serial number")

	// ErrDelegationAmountMismatch gets returned when a delegation output's delegated amount does
	// not equal its deposit at genesis.
	ErrDelegationAmountMismatch = ierrors.New("delegation amount mismatch")
	// ErrDelegationEndEpochNotZero gets returned when a delegation output's end epoch is set at genesis.
	ErrDelegationEndEpochNotZero = ierrors.New("delegation end epoch not zero at genesis")
	// ErrDelegationStartEpochInvalid gets returned when a delegation output's start epoch is unset at genesis.
	ErrDelegationStartEpochInvalid = ierrors.New("delegation start epoch invalid")
	// ErrDelegationModified gets returned when a delegation output is state- or governance-transitioned
	// rather than destroyed; delegation outputs only ever move from genesis to destruction.
	ErrDelegationModified = ierrors.New("delegation output modified after genesis")

	// ErrOutputsSumExceedsTotalSupply gets returned if the sum of output base token amounts exceeds the total supply.
	ErrOutputsSumExceedsTotalSupply = ierrors.New("accumulated output base token amount exceeds total supply")
	// ErrOutputAmountLessThanMinStorageDeposit gets returned when an output's amount is less than its minimum storage deposit.
	ErrOutputAmountLessThanMinStorageDeposit = ierrors.New("output's base token amount is less than the minimum required storage deposit")
	// ErrInvalidOutputKindByte gets returned when an encoded output's kind byte is unknown.
	ErrInvalidOutputKindByte = ierrors.New("invalid output kind byte")
	// ErrFoundryMissingImmutableAccountUnlockCondition gets returned when a foundry output lacks its immutable account address unlock condition.
	ErrFoundryMissingImmutableAccountUnlockCondition = ierrors.New("foundry output missing immutable account unlock condition")
	// ErrOutputFeatureNotAllowed gets returned when an output carries a feature not in its kind's allow-list.
	ErrOutputFeatureNotAllowed = ierrors.New("feature not allowed on this output kind")
	// ErrStateMetadataExceedsMaxSize gets returned when an account's state metadata exceeds the max allowed size.
	ErrStateMetadataExceedsMaxSize = ierrors.New("state metadata exceeds max allowed size")

	// ErrInvalidAddressLength gets returned when an address' serialized length doesn't match its type.
	ErrInvalidAddressLength = ierrors.New("invalid address length")
	// ErrInvalidAddressType gets returned when an address' type byte is unknown or unsupported in context.
	ErrInvalidAddressType = ierrors.New("invalid address type")
	// ErrInvalidAddressCapabilitiesBitMaskLength gets returned when an address capabilities bitmask has a disallowed length.
	ErrInvalidAddressCapabilitiesBitMaskLength = ierrors.New("invalid address capabilities bitmask length")
	// ErrAddressCannotReceiveNativeTokens gets returned when an output containing native tokens targets an address that is restricted from receiving them.
	ErrAddressCannotReceiveNativeTokens = ierrors.New("address cannot receive native tokens")
	// ErrAddressCannotReceiveMana gets returned when an output carrying mana targets an address that is restricted from receiving it.
	ErrAddressCannotReceiveMana = ierrors.New("address cannot receive mana")
	// ErrAddressCannotReceiveAccountOutputs gets returned when an account output targets an address restricted from receiving account outputs.
	ErrAddressCannotReceiveAccountOutputs = ierrors.New("address cannot receive account outputs")
	// ErrAddressCannotReceiveAnchorOutputs gets returned when an anchor output targets an address restricted from receiving anchor outputs.
	ErrAddressCannotReceiveAnchorOutputs = ierrors.New("address cannot receive anchor outputs")
	// ErrAddressCannotReceiveNFTOutputs gets returned when an NFT output targets an address restricted from receiving NFT outputs.
	ErrAddressCannotReceiveNFTOutputs = ierrors.New("address cannot receive nft outputs")
	// ErrAddressCannotReceiveDelegationOutputs gets returned when a delegation output targets an address restricted from receiving delegation outputs.
	ErrAddressCannotReceiveDelegationOutputs = ierrors.New("address cannot receive delegation outputs")
)
