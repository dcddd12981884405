// Package builder assembles a semantically valid Transaction from a set of
// provided outputs, available inputs, and a queue of requirements, selecting
// additional inputs and synthesizing remainder/chain-transition outputs until
// every requirement is satisfied.
package builder

import "github.com/iotaledger/hive.go/ierrors"

var (
	// ErrTransactionBuilder is the root error every builder failure wraps, so
	// callers can type-switch on the generic case or ierrors.Is a specific one.
	ErrTransactionBuilder = ierrors.New("transaction builder error")

	// ErrNoInputsProvided is returned when Finish is called with no provided outputs and with no
	// required input, burn or mana allotment that would let the builder add outputs itself.
	ErrNoInputsProvided = ierrors.Wrap(ErrTransactionBuilder, "no outputs, required inputs, burn or mana allotments provided")
	// ErrRequiredInputsExceedMax is returned when the caller-required inputs alone exceed the protocol's max input count.
	ErrRequiredInputsExceedMax = ierrors.Wrap(ErrTransactionBuilder, "required inputs exceed max input count")
	// ErrRequiredInputIsNotAvailable is returned when a required input isn't present among the available inputs.
	ErrRequiredInputIsNotAvailable = ierrors.Wrap(ErrTransactionBuilder, "required input is not available")
	// ErrAdditionalInputsRequired is returned when the requirement loop needs more inputs but
	// additional input selection has been disabled.
	ErrAdditionalInputsRequired = ierrors.Wrap(ErrTransactionBuilder, "additional inputs required but selection is disabled")
	// ErrNoAvailableInputsProvided is returned when the requirement loop runs out of available
	// inputs that could satisfy an outstanding requirement.
	ErrNoAvailableInputsProvided = ierrors.Wrap(ErrTransactionBuilder, "no available inputs can satisfy requirement")
	// ErrTransactionSumInputsOutputsMismatch is returned when, after remainder construction, the
	// sum of consumed base tokens still doesn't equal the sum of produced base tokens.
	ErrTransactionSumInputsOutputsMismatch = ierrors.Wrap(ErrTransactionBuilder, "sum of inputs and outputs does not match")
	// ErrTransactionSumNativeTokensMismatch is returned when native token sums don't balance without a burn grant.
	ErrTransactionSumNativeTokensMismatch = ierrors.Wrap(ErrTransactionBuilder, "sum of native tokens does not match")
	// ErrTransactionManaExceeded is returned when consumed mana plus generated mana is less than
	// produced mana (allotted + carried in outputs).
	ErrTransactionManaExceeded = ierrors.Wrap(ErrTransactionBuilder, "mana required for transaction exceeds available mana")
	// ErrInvalidInputCount is returned when the assembled input count falls outside the protocol's bounds.
	ErrInvalidInputCount = ierrors.Wrap(ErrTransactionBuilder, "invalid input count")
	// ErrInvalidOutputCount is returned when the assembled output count falls outside the protocol's bounds.
	ErrInvalidOutputCount = ierrors.Wrap(ErrTransactionBuilder, "invalid output count")
	// ErrMissingManaRewardsForDelegation is returned when a mana reward was supplied for an output
	// id that is not among the selected inputs.
	ErrMissingManaRewardsForDelegation = ierrors.Wrap(ErrTransactionBuilder, "missing mana rewards claim for input")
	// ErrMissingCommitmentContextInput names a missing commitment context input. Finish does not
	// return it: assembleContextInputs adds the commitment input itself whenever one is needed.
	ErrMissingCommitmentContextInput = ierrors.Wrap(ErrTransactionBuilder, "missing commitment context input")
	// ErrFoundryCounterOverflow is returned when an account's new foundry allotment would overflow its foundry counter.
	ErrFoundryCounterOverflow = ierrors.Wrap(ErrTransactionBuilder, "foundry counter overflow")
	// ErrInvalidBurn is returned when a burned chain lacks its destroy capability, or when a Burn
	// spec declares more of a native token than the selected inputs leave in surplus.
	ErrInvalidBurn = ierrors.Wrap(ErrTransactionBuilder, "invalid burn specification")
	// ErrMissingAddressForRemainder is returned when a surplus remainder needs a return address and none was configured.
	ErrMissingAddressForRemainder = ierrors.Wrap(ErrTransactionBuilder, "missing address for remainder output")
	// ErrNoAddressUnlockConditionFound is returned when an input's effective unlock address can't be resolved.
	ErrNoAddressUnlockConditionFound = ierrors.Wrap(ErrTransactionBuilder, "no address unlock condition found")
)
