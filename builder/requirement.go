package builder

import (
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/ledgertx/sdk"
)

// RequirementKind discriminates the different constraints the builder's main
// loop resolves. Lower values are resolved first: chain requirements pin a
// specific input before the fungible requirements (amount/mana/native
// tokens) run, since resolving a chain requirement can itself introduce new
// amount/mana/native-token demand.
type RequirementKind int

const (
	RequirementAccount RequirementKind = iota
	RequirementAnchor
	RequirementFoundry
	RequirementNFT
	RequirementDelegation
	RequirementSender
	RequirementIssuer
	RequirementContextInputs
	RequirementAmount
	RequirementNativeTokens
	RequirementEd25519
	RequirementMana
)

// Requirement is one outstanding constraint the builder must satisfy before
// Finish can assemble a transaction: either "this exact chain must be
// unlocked", "this address must be among the signers", or "inputs must sum
// to at least this much of amount/mana/a given native token".
type Requirement struct {
	Kind RequirementKind

	ChainID ledger.ChainID // RequirementAccount/Anchor/Foundry/NFT/Delegation
	Address ledger.Address // RequirementSender/Issuer/Ed25519

	TokenID ledger.TokenID // RequirementNativeTokens
}

// requirementQueue is a small ordered worklist of Requirement(s); Pop always
// returns the lowest-kind (highest priority) entry first.
type requirementQueue []Requirement

func (q *requirementQueue) Push(r Requirement) { *q = append(*q, r) }

func (q *requirementQueue) PushAmount() { q.Push(Requirement{Kind: RequirementAmount}) }
func (q *requirementQueue) PushMana()   { q.Push(Requirement{Kind: RequirementMana}) }

func (q *requirementQueue) PushNativeTokens(id ledger.TokenID) {
	q.Push(Requirement{Kind: RequirementNativeTokens, TokenID: id})
}

func (q *requirementQueue) PushChain(kind RequirementKind, id ledger.ChainID) {
	q.Push(Requirement{Kind: kind, ChainID: id})
}

func (q *requirementQueue) PushAddress(kind RequirementKind, addr ledger.Address) {
	q.Push(Requirement{Kind: kind, Address: addr})
}

func (q *requirementQueue) Empty() bool { return len(*q) == 0 }

// Pop removes and returns the highest-priority outstanding requirement.
func (q *requirementQueue) Pop() Requirement {
	best := 0
	for i, r := range *q {
		if r.Kind < (*q)[best].Kind {
			best = i
		}
	}
	r := (*q)[best]
	*q = append((*q)[:best], (*q)[best+1:]...)

	return r
}

// resolveChainRequirement finds the input that carries chainID among either
// the already-selected inputs or the available pool, selecting it from the
// pool if needed. Returns true if the chain is now covered by a selected input.
//
// A FoundryID never has a prior input to find at genesis — it's derived from
// the controlling account and serial number before the foundry ever existed —
// so a foundry requirement that matches nothing falls back to resolving its
// controlling account instead.
func (b *TransactionBuilder) resolveChainRequirement(chainID ledger.ChainID) (bool, error) {
	for _, sel := range b.selectedInputs {
		if sid := sel.ChainID(); sid != nil && sid.Matches(chainID) {
			return true, nil
		}
	}

	for i, avail := range b.availableInputs {
		if sid := avail.ChainID(); sid != nil && sid.Matches(chainID) {
			if err := b.selectInput(avail); err != nil {
				return false, err
			}
			b.availableInputs = append(b.availableInputs[:i], b.availableInputs[i+1:]...)

			return true, nil
		}
	}

	if fid, ok := chainID.(ledger.FoundryID); ok {
		return b.resolveFoundryGenesisRequirement(fid)
	}

	return false, ierrors.Wrapf(ErrRequiredInputIsNotAvailable, "chain %s", chainID)
}

// resolveFoundryGenesisRequirement handles a foundry chain requirement that no
// existing input satisfies: the foundry is being minted, so what the
// transaction actually needs is the controlling account's state transition,
// which bumps the account's foundry counter (see newFoundriesFor). The
// foundry output itself is already among the provided outputs and needs no
// separate input.
func (b *TransactionBuilder) resolveFoundryGenesisRequirement(fid ledger.FoundryID) (bool, error) {
	for _, out := range b.providedOutputs {
		fo, ok := out.(*ledger.FoundryOutput)
		if !ok || !fo.ChainID().Matches(fid) {
			continue
		}

		accAddr := fo.Conditions.MustSet().ImmutableAccount().Address
		accountID := ledger.AccountID(*accAddr)

		if err := b.resolveChainTransition(Requirement{Kind: RequirementAccount, ChainID: accountID}); err != nil {
			return false, err
		}

		return true, nil
	}

	return false, ierrors.Wrapf(ErrRequiredInputIsNotAvailable, "chain %s", fid)
}

// resolveAddressRequirement ensures address is the controller of at least one
// selected input (a plain Ed25519 input, or the chain input whose chain
// address equals it), selecting one from the available pool if needed.
func (b *TransactionBuilder) resolveAddressRequirement(address ledger.Address) error {
	for _, sel := range b.selectedInputs {
		if sel.Output.Ident().Equal(address) {
			return nil
		}
		if ca, ok := address.(ledger.ChainAddress); ok {
			if sid := sel.ChainID(); sid != nil && sid.Matches(ca.Chain()) {
				return nil
			}
		}
	}

	for i, avail := range b.availableInputs {
		if avail.Output.Ident().Equal(address) {
			if err := b.selectInput(avail); err != nil {
				return err
			}
			b.availableInputs = append(b.availableInputs[:i], b.availableInputs[i+1:]...)

			return nil
		}
	}

	if ca, ok := address.(ledger.ChainAddress); ok {
		ok, err := b.resolveChainRequirement(ca.Chain())
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	return ierrors.Wrapf(ErrNoAvailableInputsProvided, "address %s", address)
}

// resolveNativeTokenRequirement selects available inputs carrying id until the
// selected-input sum covers the amount demanded by provided/added outputs.
func (b *TransactionBuilder) resolveNativeTokenRequirement(id ledger.TokenID) error {
	for {
		have, want, err := b.nativeTokenBalance(id)
		if err != nil {
			return err
		}
		if have.Cmp(want) >= 0 {
			return nil
		}
		if !b.allowAdditionalInputSelection {
			return ErrAdditionalInputsRequired
		}

		idx := -1
		for i, avail := range b.availableInputs {
			for _, nt := range avail.Output.NativeTokenList() {
				if nt.ID == id {
					idx = i
					break
				}
			}
			if idx >= 0 {
				break
			}
		}
		if idx < 0 {
			return ierrors.Wrapf(ErrNoAvailableInputsProvided, "native token %s", id)
		}

		avail := b.availableInputs[idx]
		if err := b.selectInput(avail); err != nil {
			return err
		}
		b.availableInputs = append(b.availableInputs[:idx], b.availableInputs[idx+1:]...)
	}
}

// resolveAmountRequirement selects available inputs until selected deposits
// cover the deposits of the provided and added outputs, deferring exact
// balancing to remainder construction. The minimum storage deposit a
// remainder will need is not counted here, so a surplus too small to fund
// the remainder surfaces later as an updateRemainders error.
func (b *TransactionBuilder) resolveAmountRequirement() error {
	for {
		have, want, err := b.amountBalance()
		if err != nil {
			return err
		}
		if have >= want {
			return nil
		}
		if !b.allowAdditionalInputSelection {
			return ErrAdditionalInputsRequired
		}
		if len(b.availableInputs) == 0 {
			return ErrNoAvailableInputsProvided
		}

		idx := b.preferredInputIndex()
		if err := b.selectInput(b.availableInputs[idx]); err != nil {
			return err
		}
		b.availableInputs = append(b.availableInputs[:idx], b.availableInputs[idx+1:]...)
	}
}

// resolveManaRequirement selects available inputs until the stored+potential
// mana of selected inputs (decayed to the creation slot) covers allotments
// plus mana carried in provided/added outputs. Identical shape to
// resolveAmountRequirement: same tiered preference, just a different balance.
func (b *TransactionBuilder) resolveManaRequirement() error {
	for {
		have, want, err := b.manaBalance()
		if err != nil {
			return err
		}
		if have >= want {
			return nil
		}
		if !b.allowAdditionalInputSelection {
			return ErrAdditionalInputsRequired
		}
		if len(b.availableInputs) == 0 {
			return ErrNoAvailableInputsProvided
		}

		idx := b.preferredInputIndex()
		if err := b.selectInput(b.availableInputs[idx]); err != nil {
			return err
		}
		b.availableInputs = append(b.availableInputs[:idx], b.availableInputs[idx+1:]...)
	}
}

// preferredInputIndex picks the available input a fungible (amount/mana)
// requirement should reach for next: plain basic outputs first, then basic
// outputs carrying native tokens or other unlock conditions, then NFTs
// already committed to transitioning, then foundries, then accounts —
// anchors and everything else fall in behind accounts. Chain inputs sit at
// the back so covering a fungible deficit never drags in a chain transition
// the caller didn't ask for unless nothing simpler remains. Largest deposit
// wins within a tier, to minimize the number of inputs consumed.
func (b *TransactionBuilder) preferredInputIndex() int {
	best := 0
	bestTier := b.inputTier(b.availableInputs[0])

	for i := 1; i < len(b.availableInputs); i++ {
		tier := b.inputTier(b.availableInputs[i])
		switch {
		case tier < bestTier:
			best, bestTier = i, tier
		case tier == bestTier && b.availableInputs[i].Output.Deposit() > b.availableInputs[best].Output.Deposit():
			best = i
		}
	}

	return best
}

func (b *TransactionBuilder) inputTier(avail *ledger.InputSigningData) int {
	switch out := avail.Output.(type) {
	case *ledger.BasicOutput:
		if len(out.NativeTokenList()) == 0 && len(out.Conditions) == 1 {
			if _, ok := out.Conditions[0].(*ledger.AddressUnlockCondition); ok {
				return 0
			}
		}

		return 1
	case *ledger.NFTOutput:
		if _, transitioning := b.transitionedChains[out.NFTID.Key()]; transitioning {
			return 2
		}

		return 5
	case *ledger.FoundryOutput:
		return 3
	case *ledger.AccountOutput:
		return 4
	default:
		return 5
	}
}
