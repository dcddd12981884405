package ledger

import "github.com/iotaledger/hive.go/ierrors"

// ErrSignatureAndAddrIncompatible is returned when a SignatureUnlock's signature type is incompatible with its address.
var ErrSignatureAndAddrIncompatible = ierrors.New("address and signature type are not compatible")

// UnlockType denotes the type of an Unlock.
type UnlockType byte

const (
	UnlockSignature UnlockType = iota
	UnlockReference
	UnlockAccount
	UnlockAnchor
	UnlockNFT
)

// Unlock authorizes consuming the input positioned at its own index in the transaction.
type Unlock interface {
	Type() UnlockType
	Size() int
}

// Unlocks is an ordered slice of Unlock(s), one per transaction input, in input order.
type Unlocks []Unlock

func (u Unlocks) Size() int {
	size := 1
	for _, unlock := range u {
		size += unlock.Size()
	}

	return size
}

// Ed25519Signature is a detached Ed25519 signature over a transaction's signing message.
type Ed25519Signature struct {
	PublicKey [32]byte `serix:"0,mapKey=publicKey"`
	Signature [64]byte `serix:"1,mapKey=signature"`
}

// SignatureUnlock carries a direct signature unlocking an Ed25519Address-controlled input.
type SignatureUnlock struct {
	Signature Ed25519Signature `serix:"0,mapKey=signature"`
}

func (u *SignatureUnlock) Type() UnlockType { return UnlockSignature }
func (u *SignatureUnlock) Size() int        { return 1 + 1 + 32 + 64 }

// ReferenceUnlock points at the Unlock of an earlier input carrying the same address, reusing its signature.
type ReferenceUnlock struct {
	Reference uint16 `serix:"0,mapKey=reference"`
}

func (u *ReferenceUnlock) Type() UnlockType { return UnlockReference }
func (u *ReferenceUnlock) Size() int        { return 1 + 2 }

// AccountUnlock points at the Unlock of the input holding the account that controls this input's address.
type AccountUnlock struct {
	Reference uint16 `serix:"0,mapKey=reference"`
}

func (u *AccountUnlock) Type() UnlockType { return UnlockAccount }
func (u *AccountUnlock) Size() int        { return 1 + 2 }

// AnchorUnlock points at the Unlock of the input holding the anchor that controls this input's address.
type AnchorUnlock struct {
	Reference uint16 `serix:"0,mapKey=reference"`
}

func (u *AnchorUnlock) Type() UnlockType { return UnlockAnchor }
func (u *AnchorUnlock) Size() int        { return 1 + 2 }

// NFTUnlock points at the Unlock of the input holding the NFT that controls this input's address.
type NFTUnlock struct {
	Reference uint16 `serix:"0,mapKey=reference"`
}

func (u *NFTUnlock) Type() UnlockType { return UnlockNFT }
func (u *NFTUnlock) Size() int        { return 1 + 2 }
