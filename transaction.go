package ledger

import "github.com/iotaledger/hive.go/ierrors"

// ErrTransactionInputCountInvalid is returned when a transaction has too few or too many inputs.
var ErrTransactionInputCountInvalid = ierrors.New("invalid transaction input count")

// ErrTransactionOutputCountInvalid is returned when a transaction has too few or too many outputs.
var ErrTransactionOutputCountInvalid = ierrors.New("invalid transaction output count")

// ErrTransactionCommitmentInputMissing is returned when a context input that requires a
// commitment context input (BIC, reward) is present without one.
var ErrTransactionCommitmentInputMissing = ierrors.New("missing commitment context input")

// Payload is an optional, opaque attachment carried by a transaction essence.
type Payload interface {
	PayloadType() byte
	Size() int
}

// TaggedDataPayload attaches a user-defined tag and binary data to a transaction.
type TaggedDataPayload struct {
	Tag  []byte `serix:"0,lengthPrefixType=uint8,mapKey=tag,maxLen=64"`
	Data []byte `serix:"1,lengthPrefixType=uint32,mapKey=data"`
}

func (p *TaggedDataPayload) PayloadType() byte { return 0 }
func (p *TaggedDataPayload) Size() int         { return 1 + 1 + len(p.Tag) + 4 + len(p.Data) }

// TransactionEssence is the signed portion of a transaction: everything the
// input unlocks authenticate.
type TransactionEssence struct {
	NetworkID NetworkID `serix:"0,mapKey=networkId"`

	CreationSlot SlotIndex `serix:"1,mapKey=creationSlot"`

	ContextInputs ContextInputs[ContextInput] `serix:"2,mapKey=contextInputs,omitempty"`

	Inputs Inputs `serix:"3,mapKey=inputs"`

	Allotments Allotments `serix:"4,mapKey=allotments,omitempty"`

	Capabilities TransactionCapabilities `serix:"5,mapKey=capabilities,omitempty"`

	Payload Payload `serix:"6,mapKey=payload,omitempty"`

	Outputs []Output `serix:"7,mapKey=outputs"`
}

// Size returns the packed byte length of the essence, used to size the
// automatic minimum mana allotment and the overall transaction's work score.
func (e *TransactionEssence) Size() int {
	size := 8 + 8 + e.ContextInputs.Size() + e.Inputs.Size() + e.Allotments.Size() + e.Capabilities.Size()
	if e.Payload != nil {
		size += e.Payload.Size()
	}
	size += 1
	for _, out := range e.Outputs {
		size += out.Size()
	}

	return size
}

// Transaction pairs a TransactionEssence with the Unlocks that authorize its inputs.
type Transaction struct {
	Essence *TransactionEssence `serix:"0,mapKey=essence"`
	Unlocks Unlocks             `serix:"1,mapKey=unlocks"`
}

// TransactionIDFromEssenceBytes computes a TransactionID, conceptually the
// blake2b-256 hash of the given signed essence bytes. Callers that have already serialized the
// essence should hash those bytes directly; this helper exists for symmetry
// with the other identifier derivations in this package.
func TransactionIDFromEssenceBytes(essenceBytes []byte) TransactionID {
	return transactionIDFromBytes(essenceBytes)
}

// OutputsSet indexes a transaction's outputs by the OutputID they will have
// once included at txID, for convenient post-construction lookups.
func (t *Transaction) OutputsSet(txID TransactionID) OutputSet {
	set := make(OutputSet, len(t.Essence.Outputs))
	for i, out := range t.Essence.Outputs {
		set[NewOutputID(txID, uint16(i))] = out
	}

	return set
}
