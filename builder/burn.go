package builder

import "github.com/ledgertx/sdk"

// Burn declares which chains and native token amounts a transaction is
// explicitly allowed to destroy rather than carry forward or transition.
// Burning is opt-in: anything not named here that would otherwise go missing
// fails semantic validation instead of silently disappearing.
type Burn struct {
	Accounts      map[ledger.AccountID]struct{}
	Anchors       map[ledger.AnchorID]struct{}
	NFTs          map[ledger.NFTID]struct{}
	Foundries     map[ledger.FoundryID]struct{}
	Delegations   map[ledger.DelegationID]struct{}
	NativeTokens  map[ledger.TokenID]ledger.BaseToken
	Mana          bool
}

// NewBurn returns an empty Burn specification.
func NewBurn() *Burn {
	return &Burn{
		Accounts:     make(map[ledger.AccountID]struct{}),
		Anchors:      make(map[ledger.AnchorID]struct{}),
		NFTs:         make(map[ledger.NFTID]struct{}),
		Foundries:    make(map[ledger.FoundryID]struct{}),
		Delegations:  make(map[ledger.DelegationID]struct{}),
		NativeTokens: make(map[ledger.TokenID]ledger.BaseToken),
	}
}

// Account marks accountID as allowed to be destroyed.
func (b *Burn) Account(accountID ledger.AccountID) *Burn {
	b.Accounts[accountID] = struct{}{}
	return b
}

// Anchor marks anchorID as allowed to be destroyed.
func (b *Burn) Anchor(anchorID ledger.AnchorID) *Burn {
	b.Anchors[anchorID] = struct{}{}
	return b
}

// NFT marks nftID as allowed to be destroyed.
func (b *Burn) NFT(nftID ledger.NFTID) *Burn {
	b.NFTs[nftID] = struct{}{}
	return b
}

// Foundry marks foundryID as allowed to be destroyed.
func (b *Burn) Foundry(foundryID ledger.FoundryID) *Burn {
	b.Foundries[foundryID] = struct{}{}
	return b
}

// Delegation marks delegationID as allowed to be destroyed (its deposit released, not re-delegated).
func (b *Burn) Delegation(delegationID ledger.DelegationID) *Burn {
	b.Delegations[delegationID] = struct{}{}
	return b
}

// NativeToken allows amount of id's native token to be burned (destroyed without a matching foundry melt).
func (b *Burn) NativeToken(id ledger.TokenID, amount ledger.BaseToken) *Burn {
	b.NativeTokens[id] = amount
	return b
}

// AllowMana allows leftover mana to be burned instead of allotted or carried forward.
func (b *Burn) AllowMana(allow bool) *Burn {
	b.Mana = allow
	return b
}

// capabilities returns the TransactionCapabilityFlag set this burn implies.
func (b *Burn) capabilities() []ledger.TransactionCapabilityFlag {
	var flags []ledger.TransactionCapabilityFlag
	if b.Mana {
		flags = append(flags, ledger.CapabilityBurnMana)
	}
	if len(b.NativeTokens) > 0 {
		flags = append(flags, ledger.CapabilityBurnNativeTokens)
	}
	if len(b.Accounts) > 0 {
		flags = append(flags, ledger.CapabilityDestroyAccountOutputs)
	}
	if len(b.Anchors) > 0 {
		flags = append(flags, ledger.CapabilityDestroyAnchorOutputs)
	}
	if len(b.NFTs) > 0 {
		flags = append(flags, ledger.CapabilityDestroyNFTOutputs)
	}
	if len(b.Foundries) > 0 {
		flags = append(flags, ledger.CapabilityDestroyFoundryOutputs)
	}

	return flags
}
