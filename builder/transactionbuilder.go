package builder

import (
	"github.com/iotaledger/hive.go/core/safemath"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/ledgertx/sdk"
)

// TransactionBuilder assembles a Transaction from a pool of available inputs
// and a set of desired outputs, resolving a queue of Requirement(s) — input
// selection, chain transitions, remainder construction — until amount, mana,
// and native-token balances all close.
//
// A TransactionBuilder is used once: construct with New, apply any of the
// With*/Disable* configurers, then call Finish.
type TransactionBuilder struct {
	api ledger.API

	ownedAddresses []ledger.Address

	availableInputs   ledger.InputSigningDataSlice
	selectedInputs    ledger.InputSigningDataSlice
	requiredOutputIDs ledger.OutputIDs

	providedOutputs  []ledger.Output
	addedOutputs     []ledger.Output
	remainder        *ledger.BasicOutput
	remainderAddress ledger.Address

	creationSlot       ledger.SlotIndex
	latestCommitmentID ledger.SlotCommitmentID

	requirements requirementQueue

	burn         *Burn
	capabilities ledger.TransactionCapabilities

	manaAllotments ledger.Allotments
	manaRewards    map[ledger.OutputID]ledger.Mana

	minManaAllotmentAccountID ledger.AccountID
	minManaAllotmentRMC       ledger.Mana

	payload ledger.Payload

	allowAdditionalInputSelection bool

	// transitionedChains tracks, per chain id key, the output already
	// satisfying that chain's requirement (provided or synthesized), so a
	// chain is never transitioned twice.
	transitionedChains map[interface{}]ledger.Output
}

// New returns a TransactionBuilder seeded with availableInputs, the caller's
// desired outputs, the addresses the caller controls, and the slot and
// latest slot commitment the resulting transaction will be built against.
func New(
	api ledger.API,
	availableInputs ledger.InputSigningDataSlice,
	outputs []ledger.Output,
	ownedAddresses []ledger.Address,
	creationSlot ledger.SlotIndex,
	latestCommitmentID ledger.SlotCommitmentID,
) *TransactionBuilder {
	return &TransactionBuilder{
		api:                           api,
		ownedAddresses:                ownedAddresses,
		availableInputs:               availableInputs,
		providedOutputs:               outputs,
		creationSlot:                  creationSlot,
		latestCommitmentID:            latestCommitmentID,
		manaRewards:                   make(map[ledger.OutputID]ledger.Mana),
		allowAdditionalInputSelection: true,
		transitionedChains:            make(map[interface{}]ledger.Output),
	}
}

// WithRequiredInputs forces the given outputs to be selected as inputs, ahead of any requirement resolution.
func (b *TransactionBuilder) WithRequiredInputs(ids ...ledger.OutputID) *TransactionBuilder {
	b.requiredOutputIDs = append(b.requiredOutputIDs, ids...)

	return b
}

// WithBurn declares chains and native tokens the transaction is allowed to destroy,
// and grants the capability flags that implies.
func (b *TransactionBuilder) WithBurn(burn *Burn) *TransactionBuilder {
	b.burn = burn
	b.capabilities = ledger.WithCapabilities(burn.capabilities()...)

	return b
}

// WithRemainderAddress sets the address any leftover amount/mana/native tokens are returned to.
func (b *TransactionBuilder) WithRemainderAddress(addr ledger.Address) *TransactionBuilder {
	b.remainderAddress = addr

	return b
}

// WithManaAllotments sets the mana allotted from the transaction's mana pool to specific accounts.
func (b *TransactionBuilder) WithManaAllotments(allotments ledger.Allotments) *TransactionBuilder {
	b.manaAllotments = allotments

	return b
}

// WithManaRewards declares mana rewards the caller has already fetched for specific inputs.
func (b *TransactionBuilder) WithManaRewards(rewards map[ledger.OutputID]ledger.Mana) *TransactionBuilder {
	for id, m := range rewards {
		b.manaRewards[id] = m
	}

	return b
}

// AddManaRewards declares a single input's claimable mana reward.
func (b *TransactionBuilder) AddManaRewards(outputID ledger.OutputID, mana ledger.Mana) *TransactionBuilder {
	b.manaRewards[outputID] = mana

	return b
}

// WithPayload attaches an optional payload to the transaction essence.
func (b *TransactionBuilder) WithPayload(p ledger.Payload) *TransactionBuilder {
	b.payload = p

	return b
}

// WithMinManaAllotment enables automatic mana allotment: after the requirement
// loop settles, Finish computes the transaction's work score, multiplies it by
// referenceManaCost, and allots the result to accountID, pulling more inputs if needed.
func (b *TransactionBuilder) WithMinManaAllotment(accountID ledger.AccountID, referenceManaCost ledger.Mana) *TransactionBuilder {
	b.minManaAllotmentAccountID = accountID
	b.minManaAllotmentRMC = referenceManaCost

	return b
}

// DisableAdditionalInputSelection forbids the requirement loop from selecting
// any input beyond what WithRequiredInputs pre-selected.
func (b *TransactionBuilder) DisableAdditionalInputSelection() *TransactionBuilder {
	b.allowAdditionalInputSelection = false

	return b
}

// selectInput moves in from the available pool into the selected set. Shared
// by every resolver; it never itself synthesizes a transition output — chain
// resolvers do that separately once the chain's input is confirmed selected.
func (b *TransactionBuilder) selectInput(in *ledger.InputSigningData) error {
	b.selectedInputs = append(b.selectedInputs, in)

	return nil
}

// outputs returns every output the finished transaction will carry: the
// caller's provided outputs, builder-synthesized chain transitions, and the remainder, if any.
func (b *TransactionBuilder) outputs() []ledger.Output {
	all := b.nonRemainderOutputs()
	if b.remainder != nil {
		all = append(all, b.remainder)
	}

	return all
}

// nonRemainderOutputs returns every output the transaction will carry except
// the remainder itself: the caller's provided outputs plus builder-synthesized
// chain transitions. updateRemainders balances against this set rather than
// outputs(), so recomputing the remainder (e.g. after WithMinManaAllotment
// raises mana demand) doesn't fold the previous remainder into its own "want".
func (b *TransactionBuilder) nonRemainderOutputs() []ledger.Output {
	all := make([]ledger.Output, 0, len(b.providedOutputs)+len(b.addedOutputs)+1)
	all = append(all, b.providedOutputs...)
	all = append(all, b.addedOutputs...)

	return all
}

func (b *TransactionBuilder) isOwned(addr ledger.Address) bool {
	for _, o := range b.ownedAddresses {
		if o.Equal(addr) {
			return true
		}
	}

	return false
}

// filterInputs drops every available input this builder has no owned address
// to unlock, directly or through a chain address it already controls.
func (b *TransactionBuilder) filterInputs() {
	filtered := make(ledger.InputSigningDataSlice, 0, len(b.availableInputs))

	for _, in := range b.availableInputs {
		addr := in.Output.UnlockConditionSet().EffectiveUnlockAddress(b.creationSlot)
		if addr == nil {
			continue
		}

		if b.isOwned(addr) {
			filtered = append(filtered, in)

			continue
		}

		if ca, ok := addr.(ledger.ChainAddress); ok {
			for _, owned := range b.ownedAddresses {
				if ownedCA, ok := owned.(ledger.ChainAddress); ok && ownedCA.Chain().Matches(ca.Chain()) {
					filtered = append(filtered, in)

					break
				}
			}
		}
	}

	b.availableInputs = filtered
}

func (b *TransactionBuilder) preselectRequiredInputs() error {
	for _, id := range b.requiredOutputIDs {
		idx := -1
		for i, avail := range b.availableInputs {
			if avail.OutputID == id {
				idx = i

				break
			}
		}
		if idx < 0 {
			return ierrors.Wrapf(ErrRequiredInputIsNotAvailable, "output %s", id)
		}

		if err := b.selectInput(b.availableInputs[idx]); err != nil {
			return err
		}
		b.availableInputs = append(b.availableInputs[:idx], b.availableInputs[idx+1:]...)
	}

	return nil
}

func chainRequirementKind(t ledger.OutputType) RequirementKind {
	switch t {
	case ledger.OutputAccount:
		return RequirementAccount
	case ledger.OutputAnchor:
		return RequirementAnchor
	case ledger.OutputFoundry:
		return RequirementFoundry
	case ledger.OutputNFT:
		return RequirementNFT
	case ledger.OutputDelegation:
		return RequirementDelegation
	default:
		return RequirementAmount
	}
}

// seedRequirements pushes the requirements every build needs regardless of
// the caller's outputs (Amount, Mana) plus everything implied by the
// provided outputs themselves (chain transitions, native tokens, sender/issuer).
func (b *TransactionBuilder) seedRequirements() {
	b.requirements.PushMana()
	b.requirements.PushAmount()

	seenTokens := make(map[ledger.TokenID]struct{})

	for _, out := range b.providedOutputs {
		for _, nt := range out.NativeTokenList() {
			if _, ok := seenTokens[nt.ID]; !ok {
				seenTokens[nt.ID] = struct{}{}
				b.requirements.PushNativeTokens(nt.ID)
			}
		}

		co, isChain := out.(ledger.ChainOutput)
		if isChain && !co.ChainID().Empty() {
			b.requirements.PushChain(chainRequirementKind(co.Type()), co.ChainID())
		}

		if sender := out.FeatureSet().SenderFeature(); sender != nil {
			b.requirements.PushAddress(RequirementSender, sender.Address)
		}

		if isChain && co.ChainID().Empty() {
			if issuer := co.ImmutableFeatureSet().Issuer(); issuer != nil {
				b.requirements.PushAddress(RequirementIssuer, issuer.Address)
			}
		}
	}
}

func (b *TransactionBuilder) seedBurnRequirements() {
	if b.burn == nil {
		return
	}

	for id := range b.burn.Accounts {
		b.requirements.PushChain(RequirementAccount, id)
	}
	for id := range b.burn.Anchors {
		b.requirements.PushChain(RequirementAnchor, id)
	}
	for id := range b.burn.NFTs {
		b.requirements.PushChain(RequirementNFT, id)
	}
	for id := range b.burn.Foundries {
		b.requirements.PushChain(RequirementFoundry, id)
	}
	for id := range b.burn.Delegations {
		b.requirements.PushChain(RequirementDelegation, id)
	}
	for id := range b.burn.NativeTokens {
		b.requirements.PushNativeTokens(id)
	}
}

func (b *TransactionBuilder) isBurned(id ledger.ChainID) bool {
	if b.burn == nil {
		return false
	}

	switch v := id.(type) {
	case ledger.AccountID:
		_, ok := b.burn.Accounts[v]

		return ok
	case ledger.AnchorID:
		_, ok := b.burn.Anchors[v]

		return ok
	case ledger.NFTID:
		_, ok := b.burn.NFTs[v]

		return ok
	case ledger.FoundryID:
		_, ok := b.burn.Foundries[v]

		return ok
	case ledger.DelegationID:
		_, ok := b.burn.Delegations[v]

		return ok
	default:
		return false
	}
}

func destroyCapabilityFor(kind RequirementKind) ledger.TransactionCapabilityFlag {
	switch kind {
	case RequirementAnchor:
		return ledger.CapabilityDestroyAnchorOutputs
	case RequirementNFT:
		return ledger.CapabilityDestroyNFTOutputs
	case RequirementFoundry:
		return ledger.CapabilityDestroyFoundryOutputs
	default:
		return ledger.CapabilityDestroyAccountOutputs
	}
}

// resolveChainTransition ensures the input for a chain requirement is
// selected, then either confirms it is being destroyed (with the matching
// capability) or synthesizes its transition output.
func (b *TransactionBuilder) resolveChainTransition(r Requirement) error {
	ok, err := b.resolveChainRequirement(r.ChainID)
	if err != nil {
		return err
	}
	if !ok {
		return ierrors.Wrapf(ErrRequiredInputIsNotAvailable, "chain %s", r.ChainID)
	}

	if b.isBurned(r.ChainID) {
		if r.Kind != RequirementDelegation && !b.capabilities.Has(destroyCapabilityFor(r.Kind)) {
			return ierrors.Wrapf(ErrInvalidBurn, "chain %s burned without matching destroy capability", r.ChainID)
		}

		return nil
	}

	return b.synthesizeTransition(r.ChainID)
}

// synthesizeTransition builds the single transition output owed for a
// selected chain input, unless a provided output or an earlier requirement
// already covers it.
func (b *TransactionBuilder) synthesizeTransition(id ledger.ChainID) error {
	if _, already := b.transitionedChains[id.Key()]; already {
		return nil
	}

	for _, out := range b.providedOutputs {
		if co, ok := out.(ledger.ChainOutput); ok && !co.ChainID().Empty() && co.ChainID().Matches(id) {
			b.transitionedChains[id.Key()] = out

			return nil
		}
	}

	var in *ledger.InputSigningData
	for _, sel := range b.selectedInputs {
		if sid := sel.ChainID(); sid != nil && sid.Matches(id) {
			in = sel

			break
		}
	}
	if in == nil {
		return ierrors.Wrapf(ErrRequiredInputIsNotAvailable, "chain %s", id)
	}

	chainOut, ok := in.Output.(ledger.ChainOutput)
	if !ok {
		return ierrors.Wrapf(ErrTransactionBuilder, "input for chain %s is not a chain output", id)
	}

	next := chainOut.Clone()

	switch out := next.(type) {
	case *ledger.AccountOutput:
		accID, _ := id.(ledger.AccountID)
		out.AccountID = accID
		counter, err := safemath.SafeAdd(out.FoundryCounter, uint32(b.newFoundriesFor(accID)))
		if err != nil {
			return ierrors.Wrapf(ErrFoundryCounterOverflow, "account %s", accID)
		}
		out.FoundryCounter = counter
	case *ledger.AnchorOutput:
		anchorID, _ := id.(ledger.AnchorID)
		out.AnchorID = anchorID
		out.StateIndex++
	case *ledger.NFTOutput:
		nftID, _ := id.(ledger.NFTID)
		out.NFTID = nftID
	case *ledger.DelegationOutput:
		delegationID, _ := id.(ledger.DelegationID)
		out.DelegationID = delegationID
	}

	b.addedOutputs = append(b.addedOutputs, next)
	b.transitionedChains[id.Key()] = next

	return nil
}

// newFoundriesFor counts the provided foundry outputs controlled by accountID
// whose FoundryID no selected or available input carries (the foundries this
// transaction creates), used to bump the transitioned account's foundry
// counter per invariant 4.
func (b *TransactionBuilder) newFoundriesFor(accountID ledger.AccountID) int {
	count := 0

	for _, out := range b.providedOutputs {
		fo, ok := out.(*ledger.FoundryOutput)
		if !ok {
			continue
		}

		accAddr := fo.Conditions.MustSet().ImmutableAccount().Address
		if ledger.AccountID(*accAddr) != accountID {
			continue
		}
		count++
		for _, in := range append(append(ledger.InputSigningDataSlice{}, b.selectedInputs...), b.availableInputs...) {
			if cid := in.ChainID(); cid != nil && cid.Matches(fo.ChainID()) {
				count--

				break
			}
		}
	}

	return count
}

// resolveRequirement dispatches r to the resolver matching its Kind.
func (b *TransactionBuilder) resolveRequirement(r Requirement) error {
	switch r.Kind {
	case RequirementAccount, RequirementAnchor, RequirementFoundry, RequirementNFT, RequirementDelegation:
		return b.resolveChainTransition(r)
	case RequirementSender, RequirementIssuer, RequirementEd25519:
		return b.resolveAddressRequirement(r.Address)
	case RequirementNativeTokens:
		return b.resolveNativeTokenRequirement(r.TokenID)
	case RequirementAmount:
		return b.resolveAmountRequirement()
	case RequirementMana:
		return b.resolveManaRequirement()
	case RequirementContextInputs:
		return nil
	default:
		return ierrors.Errorf("unhandled requirement kind %d", r.Kind)
	}
}

func (b *TransactionBuilder) init() error {
	hasExceptions := len(b.requiredOutputIDs) > 0 || b.burn != nil || len(b.manaAllotments) > 0
	if len(b.providedOutputs) == 0 && !hasExceptions {
		return ErrNoInputsProvided
	}

	if uint16(len(b.providedOutputs)) > b.api.MaxOutputCount() {
		return ierrors.Wrapf(ErrInvalidOutputCount, "%d outputs exceeds max %d", len(b.providedOutputs), b.api.MaxOutputCount())
	}

	if uint16(len(b.requiredOutputIDs)) > b.api.MaxInputCount() {
		return ErrRequiredInputsExceedMax
	}

	b.filterInputs()
	if len(b.availableInputs) == 0 && len(b.requiredOutputIDs) == 0 {
		return ErrNoAvailableInputsProvided
	}

	return nil
}

func (b *TransactionBuilder) checkCounts() error {
	numInputs := len(b.selectedInputs)
	if numInputs < int(b.api.MinInputCount()) || numInputs > int(b.api.MaxInputCount()) {
		return ierrors.Wrapf(ErrInvalidInputCount, "%d inputs outside [%d,%d]", numInputs, b.api.MinInputCount(), b.api.MaxInputCount())
	}

	numOutputs := len(b.outputs())
	if numOutputs < int(b.api.MinOutputCount()) || numOutputs > int(b.api.MaxOutputCount()) {
		return ierrors.Wrapf(ErrInvalidOutputCount, "%d outputs outside [%d,%d]", numOutputs, b.api.MinOutputCount(), b.api.MaxOutputCount())
	}

	return nil
}

func (b *TransactionBuilder) checkManaRewards() error {
	for id := range b.manaRewards {
		found := false
		for _, sel := range b.selectedInputs {
			if sel.OutputID == id {
				found = true

				break
			}
		}
		if !found {
			return ierrors.Wrapf(ErrMissingManaRewardsForDelegation, "output %s", id)
		}
	}

	return nil
}

func (b *TransactionBuilder) buildInputs() ledger.Inputs {
	inputs := make(ledger.Inputs, len(b.selectedInputs))
	for i, in := range b.selectedInputs {
		inputs[i] = in.OutputID.UTXOInput()
	}

	return inputs
}

// applyMinManaAllotment folds WithMinManaAllotment's automatic allotment into
// the mana allotments, sized from the transaction's work score, and re-runs
// mana resolution and remainder construction since the allotment raises demand.
func (b *TransactionBuilder) applyMinManaAllotment() error {
	if b.minManaAllotmentAccountID.Empty() {
		return nil
	}

	essence := &ledger.TransactionEssence{
		Inputs:       b.buildInputs(),
		Allotments:   b.manaAllotments,
		Capabilities: b.capabilities,
		Payload:      b.payload,
		Outputs:      b.outputs(),
	}

	score, err := ledger.TransactionWorkScore(
		b.api.WorkScoreParameters(),
		len(b.selectedInputs), 0, len(b.outputs()), len(b.manaAllotments), len(b.selectedInputs),
		0, essence.Size(),
	)
	if err != nil {
		return err
	}

	extra, err := safemath.SafeMul(ledger.Mana(score), b.minManaAllotmentRMC)
	if err != nil {
		return err
	}

	if err := b.bumpMinManaAllotment(extra); err != nil {
		return err
	}

	if err := b.resolveManaRequirement(); err != nil {
		return err
	}

	return b.updateRemainders()
}

// assembleContextInputs derives the commitment, block-issuance-credit, and
// reward context inputs implied by the final selected input set.
func (b *TransactionBuilder) assembleContextInputs() ledger.ContextInputs[ledger.ContextInput] {
	var cis ledger.ContextInputs[ledger.ContextInput]

	needsCommitment := false
	for _, in := range b.selectedInputs {
		uc := in.Output.UnlockConditionSet()
		if uc.Timelock() != nil || uc.Expiration() != nil {
			needsCommitment = true
		}
		if _, ok := in.Output.(*ledger.AccountOutput); ok {
			needsCommitment = true
		}
	}
	// a synthesized continuation output (e.g. an account bumped to mint a
	// foundry) references the account just as much as a literal selected
	// AccountOutput input would.
	for _, out := range b.addedOutputs {
		if _, ok := out.(*ledger.AccountOutput); ok {
			needsCommitment = true
		}
	}
	if needsCommitment {
		cis = append(cis, &ledger.CommitmentContextInput{CommitmentID: b.latestCommitmentID})
	}

	for _, in := range b.selectedInputs {
		ao, ok := in.Output.(*ledger.AccountOutput)
		if ok && ao.FeatureSet().BlockIssuer() != nil {
			cis = append(cis, &ledger.BlockIssuanceCreditContextInput{AccountID: ao.AccountID})
		}
	}

	for i, in := range b.selectedInputs {
		if _, has := b.manaRewards[in.OutputID]; has {
			cis = append(cis, &ledger.RewardContextInput{Index: uint16(i)})
		}
	}

	return cis
}

// Finish drives the requirement-resolution loop to a fixed point and returns
// the assembled, unsigned transaction. Signing the resulting Unlocks is the
// caller's secret manager's responsibility, not the builder's.
func (b *TransactionBuilder) Finish() (*ledger.Transaction, error) {
	if err := b.init(); err != nil {
		return nil, err
	}

	if err := b.preselectRequiredInputs(); err != nil {
		return nil, err
	}

	b.seedRequirements()
	b.seedBurnRequirements()

	for !b.requirements.Empty() {
		r := b.requirements.Pop()
		if err := b.resolveRequirement(r); err != nil {
			return nil, err
		}
	}

	if err := b.updateRemainders(); err != nil {
		return nil, err
	}

	if err := b.applyMinManaAllotment(); err != nil {
		return nil, err
	}

	if err := b.checkCounts(); err != nil {
		return nil, err
	}

	if err := b.checkManaRewards(); err != nil {
		return nil, err
	}

	ordered, err := sortInputSigningData(b.selectedInputs, b.creationSlot)
	if err != nil {
		return nil, err
	}
	b.selectedInputs = ordered

	b.manaAllotments.Sort()

	essence := &ledger.TransactionEssence{
		NetworkID:     b.api.ProtocolParameters().NetworkID(),
		CreationSlot:  b.creationSlot,
		ContextInputs: b.assembleContextInputs(),
		Inputs:        b.buildInputs(),
		Allotments:    b.manaAllotments,
		Capabilities:  b.capabilities,
		Payload:       b.payload,
		Outputs:       b.outputs(),
	}

	return &ledger.Transaction{Essence: essence}, nil
}
