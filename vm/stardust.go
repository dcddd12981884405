package vm

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"

	"github.com/ledgertx/sdk"
)

// NewVirtualMachine returns a VirtualMachine running the full default check list.
func NewVirtualMachine() VirtualMachine {
	return &stardustVM{
		execList: []ExecFunc{
			ExecFuncTimelocks(),
			ExecFuncInputUnlocks(),
			ExecFuncSenderUnlocked(),
			ExecFuncBalancedDeposit(),
			ExecFuncBalancedNativeTokens(),
			ExecFuncChainTransitions(),
			ExecFuncBalancedMana(),
		},
	}
}

type stardustVM struct {
	execList []ExecFunc
}

func (m *stardustVM) Execute(t *ledger.Transaction, params *Params, inputs ResolvedInputs, overrideFuncs ...ExecFunc) error {
	ws, err := NewVMParamsWorkingSet(t, inputs)
	if err != nil {
		return err
	}
	params.WorkingSet = ws

	if len(overrideFuncs) > 0 {
		return RunVMFuncs(m, params, overrideFuncs...)
	}

	return RunVMFuncs(m, params, m.execList...)
}

func (m *stardustVM) ChainSTVF(transType ChainTransitionType, input *ChainOutputWithCreationTime, next ledger.ChainOutput, params *Params) error {
	var kind ledger.OutputType
	if next != nil {
		kind = next.Type()
	} else {
		kind = input.Output.Type()
	}

	switch kind {
	case ledger.OutputAccount:
		var nextAccount *ledger.AccountOutput
		if next != nil {
			var ok bool
			if nextAccount, ok = next.(*ledger.AccountOutput); !ok {
				return ierrors.Wrap(ErrUnsupportedOutputForChainSTVF, "can only transition an account output to another account output")
			}
		}

		return accountSTVF(input, transType, nextAccount, params)

	case ledger.OutputAnchor:
		var nextAnchor *ledger.AnchorOutput
		if next != nil {
			var ok bool
			if nextAnchor, ok = next.(*ledger.AnchorOutput); !ok {
				return ierrors.Wrap(ErrUnsupportedOutputForChainSTVF, "can only transition an anchor output to another anchor output")
			}
		}

		return anchorSTVF(input, transType, nextAnchor, params)

	case ledger.OutputFoundry:
		var nextFoundry *ledger.FoundryOutput
		if next != nil {
			var ok bool
			if nextFoundry, ok = next.(*ledger.FoundryOutput); !ok {
				return ierrors.Wrap(ErrUnsupportedOutputForChainSTVF, "can only transition a foundry output to another foundry output")
			}
		}

		return foundrySTVF(input, transType, nextFoundry, params)

	case ledger.OutputNFT:
		var nextNFT *ledger.NFTOutput
		if next != nil {
			var ok bool
			if nextNFT, ok = next.(*ledger.NFTOutput); !ok {
				return ierrors.Wrap(ErrUnsupportedOutputForChainSTVF, "can only transition an nft output to another nft output")
			}
		}

		return nftSTVF(input, transType, nextNFT, params)

	case ledger.OutputDelegation:
		var nextDelegation *ledger.DelegationOutput
		if next != nil {
			var ok bool
			if nextDelegation, ok = next.(*ledger.DelegationOutput); !ok {
				return ierrors.Wrap(ErrUnsupportedOutputForChainSTVF, "can only transition a delegation output to another delegation output")
			}
		}

		return delegationSTVF(input, transType, nextDelegation, params)

	default:
		return ierrors.Wrapf(ErrUnsupportedOutputForChainSTVF, "output kind %s", kind)
	}
}

// accountSTVF validates an account output's genesis, governance/state change, or destruction.
func accountSTVF(input *ChainOutputWithCreationTime, transType ChainTransitionType, next *ledger.AccountOutput, params *Params) error {
	switch transType {
	case ChainTransitionTypeGenesis:
		return accountGenesisValid(next, params)
	case ChainTransitionTypeGovernanceChange:
		return accountGovernanceSTVF(input.Output.(*ledger.AccountOutput), next)
	case ChainTransitionTypeStateChange:
		return accountStateSTVF(input, next, params)
	case ChainTransitionTypeDestroy:
		return accountDestructionValid(input, params)
	default:
		return ierrors.New("unknown chain transition type for account output")
	}
}

func accountGenesisValid(current *ledger.AccountOutput, params *Params) error {
	if !current.AccountID.Empty() {
		return ierrors.Wrap(ledger.ErrNewChainOutputHasNonZeroedID, "account id is not zeroed at genesis")
	}

	if bi := current.FeatureSet().BlockIssuer(); bi != nil {
		if err := checkBlockIssuerExpiry(bi, params, params.WorkingSet.Tx.Essence.CreationSlot); err != nil {
			return err
		}
	}

	return IsIssuerOnOutputUnlocked(current, params.WorkingSet.UnlockedIdents)
}

func accountGovernanceSTVF(current, next *ledger.AccountOutput) error {
	switch {
	case current.Amount != next.Amount:
		return ierrors.Wrapf(ledger.ErrMutatedFieldWithoutRights, "amount changed, in %d out %d", current.Amount, next.Amount)
	case !current.NativeTokens.Equal(next.NativeTokens):
		return ierrors.Wrap(ledger.ErrMutatedFieldWithoutRights, "native tokens changed")
	case current.FoundryCounter != next.FoundryCounter:
		return ierrors.Wrapf(ledger.ErrMutatedFieldWithoutRights, "foundry counter changed, in %d out %d", current.FoundryCounter, next.FoundryCounter)
	}

	return nil
}

func accountStateSTVF(input *ChainOutputWithCreationTime, next *ledger.AccountOutput, params *Params) error {
	current := input.Output.(*ledger.AccountOutput)

	if !current.Conditions.MustSet().GovernorAddress().Address.Equal(next.Conditions.MustSet().GovernorAddress().Address) {
		return ierrors.Wrap(ledger.ErrMutatedImmutableField, "governor address changed on a state transition")
	}
	if current.FoundryCounter > next.FoundryCounter {
		return ierrors.Wrapf(ledger.ErrInvalidAccountStateTransition, "foundry counter decreased, in %d out %d", current.FoundryCounter, next.FoundryCounter)
	}

	if current.FoundryCounter == next.FoundryCounter {
		return accountBlockIssuerSTVF(input, next, params)
	}

	var newFoundries uint32
	for _, out := range params.WorkingSet.Tx.Essence.Outputs {
		fo, ok := out.(*ledger.FoundryOutput)
		if !ok {
			continue
		}
		if _, notNew := params.WorkingSet.InChains[fo.ChainID().Key()]; notNew {
			continue
		}

		accAddr := fo.Conditions.MustSet().ImmutableAccount().Address
		if ledger.AccountID(*accAddr) != next.AccountID {
			continue
		}
		newFoundries++
	}

	expected := next.FoundryCounter - current.FoundryCounter
	if expected != newFoundries {
		return ierrors.Wrapf(ledger.ErrInvalidAccountStateTransition, "%d new foundries created but foundry counter changed by %d", newFoundries, expected)
	}

	return accountBlockIssuerSTVF(input, next, params)
}

// accountBlockIssuerSTVF checks the invariants that apply whenever a block
// issuer feature is present: non-negative credit, a safe expiry margin, and
// that the account's own mana is not siphoned off through other outputs.
func accountBlockIssuerSTVF(input *ChainOutputWithCreationTime, next *ledger.AccountOutput, params *Params) error {
	current := input.Output.(*ledger.AccountOutput)
	currentBI := current.FeatureSet().BlockIssuer()
	nextBI := next.FeatureSet().BlockIssuer()

	if currentBI == nil && nextBI == nil {
		return nil
	}

	bic, exists := params.WorkingSet.BIC[current.AccountID]
	if !exists {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "no block issuance credit supplied for block issuer account")
	}
	if bic < 0 {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "negative block issuance credit")
	}

	txSlot := params.WorkingSet.Tx.Essence.CreationSlot
	liveness := params.External.ProtocolParameters.LivenessThreshold

	if currentBI != nil && currentBI.ExpirySlot >= txSlot {
		if nextBI == nil {
			return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "cannot remove block issuer feature before it expires")
		}
		if err := checkBlockIssuerExpiry(nextBI, params, txSlot); err != nil && nextBI.ExpirySlot != currentBI.ExpirySlot {
			return err
		}
	} else if nextBI != nil {
		if err := checkBlockIssuerExpiry(nextBI, params, txSlot); err != nil {
			return err
		}
	}

	manaDecay := params.External.ProtocolParameters.ManaDecayProvider()

	manaIn, err := TotalManaIn(manaDecay, txSlot, params.WorkingSet.Consumed, params.WorkingSet.Rewards)
	if err != nil {
		return err
	}
	manaOut, err := TotalManaOut(params.WorkingSet.Tx.Essence.Outputs, params.WorkingSet.Tx.Essence.Allotments)
	if err != nil {
		return err
	}

	manaIn -= manaDecay.StoredManaWithDecay(current.Mana, input.CreationSlot, txSlot)
	manaIn -= manaDecay.PotentialManaWithDecay(current.Amount, input.CreationSlot, txSlot)
	manaOut -= next.Mana
	if al := params.WorkingSet.Tx.Essence.Allotments.Get(current.AccountID); al != nil {
		manaOut -= al.Mana
	}

	if manaIn > manaOut {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "cannot move mana off a block issuer account")
	}

	return nil
}

func checkBlockIssuerExpiry(bi *ledger.BlockIssuerFeature, params *Params, txSlot ledger.SlotIndex) error {
	if bi.ExpirySlot != 0 && bi.ExpirySlot < txSlot+params.External.ProtocolParameters.LivenessThreshold {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "block issuer feature expiry set too soon")
	}

	return nil
}

func accountDestructionValid(input *ChainOutputWithCreationTime, params *Params) error {
	current := input.Output.(*ledger.AccountOutput)

	bi := current.FeatureSet().BlockIssuer()
	if bi == nil {
		return nil
	}

	txSlot := params.WorkingSet.Tx.Essence.CreationSlot
	if bi.ExpirySlot == 0 || bi.ExpirySlot >= txSlot {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "cannot destroy a block issuer account until its feature expires")
	}

	if bic, exists := params.WorkingSet.BIC[current.AccountID]; !exists || bic < 0 {
		return ierrors.Wrap(ledger.ErrInvalidAccountStateTransition, "negative or missing block issuance credit on destruction")
	}

	return nil
}

// anchorSTVF validates an anchor output's genesis, governance/state change, or destruction.
// Unlike accounts, anchors carry StateIndex directly, so governance vs. state is unambiguous.
func anchorSTVF(input *ChainOutputWithCreationTime, transType ChainTransitionType, next *ledger.AnchorOutput, params *Params) error {
	switch transType {
	case ChainTransitionTypeGenesis:
		if !next.AnchorID.Empty() {
			return ierrors.Wrap(ledger.ErrNewChainOutputHasNonZeroedID, "anchor id is not zeroed at genesis")
		}
		if next.StateIndex != 0 {
			return ierrors.Wrap(ledger.ErrInvalidAnchorStateTransition, "state index is not zero at genesis")
		}

		return IsIssuerOnOutputUnlocked(next, params.WorkingSet.UnlockedIdents)

	case ChainTransitionTypeGovernanceChange:
		current := input.Output.(*ledger.AnchorOutput)
		switch {
		case current.Amount != next.Amount:
			return ierrors.Wrap(ledger.ErrMutatedFieldWithoutRights, "amount changed")
		case !current.NativeTokens.Equal(next.NativeTokens):
			return ierrors.Wrap(ledger.ErrMutatedFieldWithoutRights, "native tokens changed")
		case current.StateIndex != next.StateIndex:
			return ierrors.Wrap(ledger.ErrMutatedFieldWithoutRights, "state index changed on a governance transition")
		}

		return nil

	case ChainTransitionTypeStateChange:
		current := input.Output.(*ledger.AnchorOutput)
		if current.StateIndex+1 != next.StateIndex {
			return ierrors.Wrapf(ledger.ErrUnsupportedStateIndexOperation, "state index %d on input, %d on output", current.StateIndex, next.StateIndex)
		}
		if !current.Conditions.MustSet().GovernorAddress().Address.Equal(next.Conditions.MustSet().GovernorAddress().Address) {
			return ierrors.Wrap(ledger.ErrMutatedImmutableField, "governor address changed on a state transition")
		}

		return nil

	case ChainTransitionTypeDestroy:
		return nil

	default:
		return ierrors.New("unknown chain transition type for anchor output")
	}
}

// toLedgerTransitionType narrows vm's 4-way transition classification to the
// 3-way one SimpleTokenScheme.StateTransition expects; foundries have no
// dual-controller model, so a foundry never sees GovernanceChange.
func toLedgerTransitionType(t ChainTransitionType) ledger.ChainTransitionType {
	switch t {
	case ChainTransitionTypeGenesis:
		return ledger.ChainTransitionTypeGenesis
	case ChainTransitionTypeDestroy:
		return ledger.ChainTransitionTypeDestroy
	default:
		return ledger.ChainTransitionTypeStateChange
	}
}

// foundrySTVF validates a foundry's lifecycle by delegating the minted/melted
// supply bookkeeping to its token scheme, and additionally checks the serial
// number invariant at genesis.
func foundrySTVF(input *ChainOutputWithCreationTime, transType ChainTransitionType, next *ledger.FoundryOutput, params *Params) error {
	var current *ledger.FoundryOutput
	var thisID ledger.FoundryID
	if next != nil {
		thisID = next.ChainID().(ledger.FoundryID)
	} else {
		current = input.Output.(*ledger.FoundryOutput)
		thisID = current.ChainID().(ledger.FoundryID)
	}

	tokenID := ledger.TokenID(thisID)
	inSum := params.WorkingSet.InNativeTokens[tokenID]
	if inSum == nil {
		inSum = new(big.Int)
	}
	outSum := params.WorkingSet.OutNativeTokens[tokenID]
	if outSum == nil {
		outSum = new(big.Int)
	}

	if transType == ChainTransitionTypeGenesis {
		if err := foundrySerialNumberValid(next, params, thisID); err != nil {
			return err
		}

		return next.TokenScheme.(*ledger.SimpleTokenScheme).StateTransition(toLedgerTransitionType(transType), nil, inSum, outSum)
	}

	current = input.Output.(*ledger.FoundryOutput)
	currentScheme := current.TokenScheme.(*ledger.SimpleTokenScheme)

	var nextScheme *ledger.SimpleTokenScheme
	if next != nil {
		nextScheme = next.TokenScheme.(*ledger.SimpleTokenScheme)
	}

	return currentScheme.StateTransition(toLedgerTransitionType(transType), nextScheme, inSum, outSum)
}

// foundrySerialNumberValid checks that a newly minted foundry's serial number
// is not reused by any other foundry, new or old, controlled by the same account.
func foundrySerialNumberValid(current *ledger.FoundryOutput, params *Params, thisFoundryID ledger.FoundryID) error {
	accAddr := current.Conditions.MustSet().ImmutableAccount().Address

	for outputIndex, out := range params.WorkingSet.Tx.Essence.Outputs {
		otherFoundry, ok := out.(*ledger.FoundryOutput)
		if !ok {
			continue
		}
		otherID := otherFoundry.ChainID().(ledger.FoundryID)
		if otherID == thisFoundryID {
			continue
		}

		otherAccAddr := otherFoundry.Conditions.MustSet().ImmutableAccount().Address
		if !otherAccAddr.Equal(accAddr) {
			continue
		}

		if _, isNotNew := params.WorkingSet.InChains[otherID.Key()]; isNotNew {
			continue
		}
		if otherFoundry.SerialNumber == current.SerialNumber {
			return ierrors.Wrapf(ledger.ErrInconsistentFoundrySerialNumber, "duplicate new foundry serial number %d at output index %d", current.SerialNumber, outputIndex)
		}
	}

	return nil
}

// nftSTVF validates an NFT's genesis; ownership transfer and destruction need
// no further checks beyond the balanced-deposit and unlock checks already run.
func nftSTVF(input *ChainOutputWithCreationTime, transType ChainTransitionType, next *ledger.NFTOutput, params *Params) error {
	switch transType {
	case ChainTransitionTypeGenesis:
		if !next.NFTID.Empty() {
			return ierrors.Wrap(ledger.ErrNewChainOutputHasNonZeroedID, "nft id is not zeroed at genesis")
		}

		return IsIssuerOnOutputUnlocked(next, params.WorkingSet.UnlockedIdents)
	default:
		return nil
	}
}

// delegationSTVF validates a delegation output's genesis and destruction. A
// delegation can only ever be destroyed, not state-transitioned, once its
// DelegationID is set; rewards for a destroyed delegation must be claimed via
// a RewardContextInput.
func delegationSTVF(input *ChainOutputWithCreationTime, transType ChainTransitionType, next *ledger.DelegationOutput, params *Params) error {
	switch transType {
	case ChainTransitionTypeGenesis:
		if !next.DelegationID.Empty() {
			return ierrors.Wrap(ledger.ErrNewChainOutputHasNonZeroedID, "delegation id is not zeroed at genesis")
		}
		if params.WorkingSet.CommitmentInput == nil {
			return ierrors.Wrap(ErrChainMissingCommitmentInput, "delegation genesis requires a commitment context input")
		}
		if next.StartEpoch == 0 {
			return ierrors.Wrap(ledger.ErrDelegationStartEpochInvalid, "start epoch must be set at genesis")
		}
		if next.EndEpoch != 0 {
			return ierrors.Wrap(ledger.ErrDelegationEndEpochNotZero, "end epoch must be unset at genesis")
		}
		if next.DelegatedAmount != next.Amount {
			return ierrors.Wrap(ledger.ErrDelegationAmountMismatch, "delegated amount must equal deposit at genesis")
		}

		return nil

	case ChainTransitionTypeDestroy:
		current := input.Output.(*ledger.DelegationOutput)
		if _, claimed := params.WorkingSet.Rewards[current.DelegationID]; !claimed {
			return ierrors.Wrap(ErrChainMissingRewardInput, "delegation destroyed without a matching reward context input")
		}

		return nil

	default:
		return ierrors.Wrap(ledger.ErrDelegationModified, "delegation outputs cannot be state-transitioned once created")
	}
}
