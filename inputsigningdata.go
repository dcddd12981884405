package ledger

// Bip32Chain is an optional BIP-44-style derivation path identifying the
// private key that controls an InputSigningData's address, for signers that
// derive keys on demand rather than holding them directly.
type Bip32Chain struct {
	CoinType uint32
	Account  uint32
	Change   uint32
	Index    uint32
}

// InputSigningData bundles an output being consumed with the data required to
// sign for it: the OutputID it lives at, the creation slot it was committed
// at (for mana decay), and optionally the derivation path of its controlling key.
type InputSigningData struct {
	OutputID     OutputID
	Output       Output
	CreationSlot SlotIndex
	Chain        *Bip32Chain
}

// ChainID returns the effective ChainID of the wrapped output: its own id
// field if set, or else the id derived from OutputID.
func (i *InputSigningData) ChainID() ChainID {
	co, ok := i.Output.(ChainOutput)
	if !ok {
		return nil
	}

	id := co.ChainID()
	if !id.Empty() {
		return id
	}

	switch co.Type() {
	case OutputAccount:
		return AccountIDFromOutputID(i.OutputID)
	case OutputAnchor:
		return AnchorIDFromOutputID(i.OutputID)
	case OutputNFT:
		return NFTIDFromOutputID(i.OutputID)
	case OutputDelegation:
		return DelegationIDFromOutputID(i.OutputID)
	default:
		return id
	}
}

// InputSigningDataSlice is an ordered collection of InputSigningData.
type InputSigningDataSlice []*InputSigningData

// OutputIDs returns the OutputID of each entry, in order.
func (s InputSigningDataSlice) OutputIDs() OutputIDs {
	ids := make(OutputIDs, len(s))
	for i, d := range s {
		ids[i] = d.OutputID
	}

	return ids
}
