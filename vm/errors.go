package vm

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrTxSemantic is the umbrella wrapped by every semantic validation error returned from this package.
	ErrTxSemantic = ierrors.New("transaction semantically invalid")

	// ErrInputUnlockInvalid gets returned when an input's Unlock does not authorize spending it.
	ErrInputUnlockInvalid = ierrors.New("input unlock invalid")
	// ErrSenderFeatureNotUnlocked gets returned when an output's SenderFeature address did not unlock the transaction.
	ErrSenderFeatureNotUnlocked = ierrors.New("sender feature address not unlocked")
	// ErrIssuerFeatureNotUnlocked gets returned when a chain output's IssuerFeature address did not unlock the transaction at genesis.
	ErrIssuerFeatureNotUnlocked = ierrors.New("issuer feature address not unlocked")
	// ErrTimelockNotExpired gets returned when a TimelockUnlockCondition has not yet expired at the transaction's creation slot.
	ErrTimelockNotExpired = ierrors.New("timelock not yet expired")
	// ErrMissingCommitmentForTimelock gets returned when a timelocked input is validated without protocol parameters to resolve the creation slot against.
	ErrMissingCommitmentForTimelock = ierrors.New("missing protocol parameters to evaluate timelock")
	// ErrInputOutputBaseTokenMismatch gets returned when input and output base token sums are unequal.
	ErrInputOutputBaseTokenMismatch = ierrors.New("input and output base token sums mismatch")
	// ErrInputOutputManaMismatch gets returned when input mana is insufficient to cover output mana and allotments.
	ErrInputOutputManaMismatch = ierrors.New("input mana insufficient for outputs and allotments")
	// ErrManaBurnedWithoutCapability gets returned when mana is implicitly burned without the BurnMana capability.
	ErrManaBurnedWithoutCapability = ierrors.New("mana burned without capability")
	// ErrNativeTokenSumUnbalanced gets returned when a native token's input and output sums disagree without an authorizing foundry transition.
	ErrNativeTokenSumUnbalanced = ierrors.New("native token sums unbalanced")
	// ErrChainMissingCommitmentInput gets returned when a transaction reads state that requires a CommitmentContextInput but omits one.
	ErrChainMissingCommitmentInput = ierrors.New("missing commitment context input")
	// ErrChainMissingRewardInput gets returned when a delegation or staking input's claimed reward lacks a RewardContextInput.
	ErrChainMissingRewardInput = ierrors.New("missing reward context input")
	// ErrUnsupportedOutputForChainSTVF gets returned when ChainSTVF is dispatched for an output kind with no transition-function mapping.
	ErrUnsupportedOutputForChainSTVF = ierrors.New("unsupported output kind for chain state transition")
)
