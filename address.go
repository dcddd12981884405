package ledger

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ledgertx/sdk/bech32"
)

// AddressType denotes the type of an Address.
type AddressType byte

const (
	AddressEd25519 AddressType = iota
	AddressAccount
	AddressAnchor
	AddressNFT
	AddressImplicitAccountCreation
	AddressRestricted
)

func (t AddressType) String() string {
	switch t {
	case AddressEd25519:
		return "Ed25519Address"
	case AddressAccount:
		return "AccountAddress"
	case AddressAnchor:
		return "AnchorAddress"
	case AddressNFT:
		return "NFTAddress"
	case AddressImplicitAccountCreation:
		return "ImplicitAccountCreationAddress"
	case AddressRestricted:
		return "RestrictedAddress"
	default:
		return "unknown address type"
	}
}

// Address is a closed sum type of everything that can own an output.
type Address interface {
	// Type returns the address's type.
	Type() AddressType
	// Bytes returns the address's raw bytes, without the type byte.
	Bytes() []byte
	// Equal reports whether this address equals other.
	Equal(other Address) bool
	// Key returns a comparable key usable as a map key.
	Key() string
	// Bech32 returns the bech32 encoding of the address under the given HRP.
	Bech32(hrp NetworkPrefix) string
	// String returns a human-readable representation.
	String() string
}

// ChainAddress is an Address backed by a chain (account, anchor, or nft).
type ChainAddress interface {
	Address
	// Chain returns the ChainID this address is derived from.
	Chain() ChainID
}

// EncodeAddress returns the bech32 string for an address, exercising the bech32 package.
func EncodeAddress(hrp NetworkPrefix, addr Address) string {
	data := append([]byte{byte(addr.Type())}, addr.Bytes()...)
	s, err := bech32.Encode(string(hrp), data)
	if err != nil {
		// addresses are always valid bech32 payloads; a failure here means a bug in the caller.
		panic(err)
	}

	return s
}

// DecodeAddress parses a bech32-encoded address string.
func DecodeAddress(s string) (NetworkPrefix, Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, ErrInvalidAddressLength
	}

	addr, err := addressFromTypedBytes(AddressType(data[0]), data[1:])

	return NetworkPrefix(hrp), addr, err
}

func addressFromTypedBytes(t AddressType, raw []byte) (Address, error) {
	switch t {
	case AddressEd25519:
		var a Ed25519Address
		if len(raw) != Ed25519AddressBytesLength {
			return nil, ErrInvalidAddressLength
		}
		copy(a[:], raw)
		return &a, nil
	case AddressAccount:
		var a AccountAddress
		if len(raw) != AccountAddressSerializedBytesSize {
			return nil, ErrInvalidAddressLength
		}
		copy(a[:], raw)
		return &a, nil
	case AddressAnchor:
		var a AnchorAddress
		if len(raw) != AnchorAddressSerializedBytesSize {
			return nil, ErrInvalidAddressLength
		}
		copy(a[:], raw)
		return &a, nil
	case AddressNFT:
		var a NFTAddress
		if len(raw) != NFTAddressSerializedBytesSize {
			return nil, ErrInvalidAddressLength
		}
		copy(a[:], raw)
		return &a, nil
	default:
		return nil, ErrInvalidAddressType
	}
}

const (
	// Ed25519AddressBytesLength is the length of an Ed25519Address, the blake2b-256 hash of a public key.
	Ed25519AddressBytesLength = 32
	// AccountAddressSerializedBytesSize is the length of an AccountAddress.
	AccountAddressSerializedBytesSize = AccountIDLength
	// AnchorAddressSerializedBytesSize is the length of an AnchorAddress.
	AnchorAddressSerializedBytesSize = AnchorIDLength
	// NFTAddressSerializedBytesSize is the length of an NFTAddress.
	NFTAddressSerializedBytesSize = NFTIDLength
)

// Ed25519Address is the blake2b-256 hash of an Ed25519 public key.
type Ed25519Address [Ed25519AddressBytesLength]byte

func (a *Ed25519Address) Type() AddressType { return AddressEd25519 }
func (a *Ed25519Address) Bytes() []byte     { return a[:] }
func (a *Ed25519Address) Equal(other Address) bool {
	o, ok := other.(*Ed25519Address)
	return ok && *a == *o
}
func (a *Ed25519Address) Key() string                   { return string(a.Type()) + string(a[:]) }
func (a *Ed25519Address) Bech32(hrp NetworkPrefix) string { return EncodeAddress(hrp, a) }
func (a *Ed25519Address) String() string                 { return hexutil.Encode(a[:]) }

// AccountAddress is the chain address of an AccountOutput.
type AccountAddress AccountID

func (a *AccountAddress) Type() AddressType { return AddressAccount }
func (a *AccountAddress) Bytes() []byte     { return a[:] }
func (a *AccountAddress) Equal(other Address) bool {
	o, ok := other.(*AccountAddress)
	return ok && *a == *o
}
func (a *AccountAddress) Key() string                   { return string(a.Type()) + string(a[:]) }
func (a *AccountAddress) Bech32(hrp NetworkPrefix) string { return EncodeAddress(hrp, a) }
func (a *AccountAddress) String() string                 { return hexutil.Encode(a[:]) }
func (a *AccountAddress) Chain() ChainID                 { return AccountID(*a) }
func (a *AccountAddress) AccountID() AccountID           { return AccountID(*a) }

// AnchorAddress is the chain address of an AnchorOutput.
type AnchorAddress AnchorID

func (a *AnchorAddress) Type() AddressType { return AddressAnchor }
func (a *AnchorAddress) Bytes() []byte     { return a[:] }
func (a *AnchorAddress) Equal(other Address) bool {
	o, ok := other.(*AnchorAddress)
	return ok && *a == *o
}
func (a *AnchorAddress) Key() string                   { return string(a.Type()) + string(a[:]) }
func (a *AnchorAddress) Bech32(hrp NetworkPrefix) string { return EncodeAddress(hrp, a) }
func (a *AnchorAddress) String() string                 { return hexutil.Encode(a[:]) }
func (a *AnchorAddress) Chain() ChainID                 { return AnchorID(*a) }
func (a *AnchorAddress) AnchorID() AnchorID             { return AnchorID(*a) }

// NFTAddress is the chain address of an NFTOutput.
type NFTAddress NFTID

func (a *NFTAddress) Type() AddressType { return AddressNFT }
func (a *NFTAddress) Bytes() []byte     { return a[:] }
func (a *NFTAddress) Equal(other Address) bool {
	o, ok := other.(*NFTAddress)
	return ok && *a == *o
}
func (a *NFTAddress) Key() string                   { return string(a.Type()) + string(a[:]) }
func (a *NFTAddress) Bech32(hrp NetworkPrefix) string { return EncodeAddress(hrp, a) }
func (a *NFTAddress) String() string                 { return hexutil.Encode(a[:]) }
func (a *NFTAddress) Chain() ChainID                 { return NFTID(*a) }
func (a *NFTAddress) NFTID() NFTID                   { return NFTID(*a) }

// ImplicitAccountCreationAddress wraps an Ed25519 address that implicitly controls
// an account before that account output formally exists on ledger.
type ImplicitAccountCreationAddress struct {
	Ed25519 Ed25519Address
}

func (a *ImplicitAccountCreationAddress) Type() AddressType { return AddressImplicitAccountCreation }
func (a *ImplicitAccountCreationAddress) Bytes() []byte     { return a.Ed25519[:] }
func (a *ImplicitAccountCreationAddress) Equal(other Address) bool {
	o, ok := other.(*ImplicitAccountCreationAddress)
	return ok && a.Ed25519 == o.Ed25519
}
func (a *ImplicitAccountCreationAddress) Key() string { return string(a.Type()) + string(a.Ed25519[:]) }
func (a *ImplicitAccountCreationAddress) Bech32(hrp NetworkPrefix) string {
	return EncodeAddress(hrp, a)
}
func (a *ImplicitAccountCreationAddress) String() string { return hexutil.Encode(a.Ed25519[:]) }
func (a *ImplicitAccountCreationAddress) Ed25519Address() *Ed25519Address { return &a.Ed25519 }

// bytesEqualAddress is a small helper used by RestrictedAddress.Equal.
func bytesEqualAddress(a, b []byte) bool { return bytes.Equal(a, b) }
