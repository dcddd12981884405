package ledger

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/iotaledger/hive.go/ierrors"
)

// TransactionIDLength is the byte length of a TransactionID.
const TransactionIDLength = blake2b.Size256

// ErrInvalidTransactionIDLength gets returned when a TransactionID has an invalid length.
var ErrInvalidTransactionIDLength = ierrors.New("invalid transaction id length")

// TransactionID is the blake2b-256 hash of a transaction's signing message.
type TransactionID [TransactionIDLength]byte

// EmptyTransactionID is the zero value of a TransactionID.
var EmptyTransactionID = TransactionID{}

func (id TransactionID) String() string { return hexutil.Encode(id[:]) }

// transactionIDFromBytes derives a TransactionID as the blake2b-256 hash of signed essence bytes.
func transactionIDFromBytes(essenceBytes []byte) TransactionID {
	return blake2b.Sum256(essenceBytes)
}

// OutputIndexLength is the byte length of an output index.
const OutputIndexLength = 2

// OutputIDLength is the byte length of an OutputID (transaction id + index).
const OutputIDLength = TransactionIDLength + OutputIndexLength

// ErrInvalidOutputIDLength gets returned when an OutputID has an invalid length.
var ErrInvalidOutputIDLength = ierrors.New("invalid output id length")

// OutputID is a transaction id plus a 16-bit index, addressing a single output of a transaction.
type OutputID [OutputIDLength]byte

// NewOutputID returns a new OutputID for the given transaction id and output index.
func NewOutputID(txID TransactionID, index uint16) OutputID {
	var id OutputID
	copy(id[:TransactionIDLength], txID[:])
	id[TransactionIDLength] = byte(index)
	id[TransactionIDLength+1] = byte(index >> 8)

	return id
}

// TransactionID returns the TransactionID part of the OutputID.
func (id OutputID) TransactionID() TransactionID {
	var txID TransactionID
	copy(txID[:], id[:TransactionIDLength])

	return txID
}

// Index returns the output index part of the OutputID.
func (id OutputID) Index() uint16 {
	return uint16(id[TransactionIDLength]) | uint16(id[TransactionIDLength+1])<<8
}

func (id OutputID) String() string { return hexutil.Encode(id[:]) }

// UTXOInput converts the OutputID into an Input referencing it.
func (id OutputID) UTXOInput() Input {
	return &UTXOInput{id: id}
}

// OutputIDs is a slice of OutputID.
type OutputIDs []OutputID

// OutputSet maps an OutputID to the Output it addresses.
type OutputSet map[OutputID]Output

// ChainID is the union of the per-chain-kind identifiers: AccountID, AnchorID,
// NFTID, FoundryID, DelegationID. An output's effective chain id is its own
// id field when non-null, or else the id derived from the output's OutputID.
type ChainID interface {
	// Matches tells whether other is the same concrete chain id as this one.
	Matches(other ChainID) bool
	// Addressable tells whether this ChainID can be converted into a ChainAddress.
	Addressable() bool
	// ToAddress converts this ChainID into a ChainAddress. Panics if !Addressable().
	ToAddress() ChainAddress
	// Key returns a comparable key usable to index this ChainID.
	Key() interface{}
	// Empty tells whether this is the null chain id.
	Empty() bool
	// String returns a human-readable representation.
	String() string
}

const (
	// AccountIDLength is the byte length of an AccountID.
	AccountIDLength = blake2b.Size256
	// AnchorIDLength is the byte length of an AnchorID.
	AnchorIDLength = blake2b.Size256
	// NFTIDLength is the byte length of an NFTID.
	NFTIDLength = blake2b.Size256
	// DelegationIDLength is the byte length of a DelegationID.
	DelegationIDLength = blake2b.Size256
	// FoundryIDLength is the byte length of a FoundryID (account address + serial + token scheme kind).
	FoundryIDLength = AccountAddressSerializedBytesSize + 4 + 1
)

// AccountID is a 32 byte identifier of an account chain.
type AccountID [AccountIDLength]byte

// EmptyAccountID is the null AccountID.
var EmptyAccountID = AccountID{}

// AccountIDFromOutputID derives the AccountID for an account created by the given OutputID.
func AccountIDFromOutputID(outputID OutputID) AccountID {
	return blake2b.Sum256(outputID[:])
}

func (id AccountID) Empty() bool { return id == EmptyAccountID }
func (id AccountID) String() string {
	return hexAliasString(accountAliases, &accountAliasesMu, id[:])
}
func (id AccountID) Matches(other ChainID) bool {
	o, ok := other.(AccountID)
	return ok && id == o
}
func (id AccountID) Addressable() bool { return true }
func (id AccountID) ToAddress() ChainAddress {
	addr := AccountAddress(id)
	return &addr
}
func (id AccountID) Key() interface{} { return id }

// AnchorID is a 32 byte identifier of an anchor chain.
type AnchorID [AnchorIDLength]byte

// EmptyAnchorID is the null AnchorID.
var EmptyAnchorID = AnchorID{}

func AnchorIDFromOutputID(outputID OutputID) AnchorID { return blake2b.Sum256(outputID[:]) }
func (id AnchorID) Empty() bool                        { return id == EmptyAnchorID }
func (id AnchorID) String() string                     { return hexAliasString(anchorAliases, &anchorAliasesMu, id[:]) }
func (id AnchorID) Matches(other ChainID) bool {
	o, ok := other.(AnchorID)
	return ok && id == o
}
func (id AnchorID) Addressable() bool { return true }
func (id AnchorID) ToAddress() ChainAddress {
	addr := AnchorAddress(id)
	return &addr
}
func (id AnchorID) Key() interface{} { return id }

// NFTID is a 32 byte identifier of an NFT chain.
type NFTID [NFTIDLength]byte

// EmptyNFTID is the null NFTID.
var EmptyNFTID = NFTID{}

func NFTIDFromOutputID(outputID OutputID) NFTID { return blake2b.Sum256(outputID[:]) }
func (id NFTID) Empty() bool                     { return id == EmptyNFTID }
func (id NFTID) String() string                  { return hexAliasString(nftAliases, &nftAliasesMu, id[:]) }
func (id NFTID) Matches(other ChainID) bool {
	o, ok := other.(NFTID)
	return ok && id == o
}
func (id NFTID) Addressable() bool { return true }
func (id NFTID) ToAddress() ChainAddress {
	addr := NFTAddress(id)
	return &addr
}
func (id NFTID) Key() interface{} { return id }

// DelegationID is a 32 byte identifier of a delegation. It is null on creation
// and is computed from the creating OutputID thereafter.
type DelegationID [DelegationIDLength]byte

// EmptyDelegationID is the null DelegationID.
var EmptyDelegationID = DelegationID{}

func DelegationIDFromOutputID(outputID OutputID) DelegationID { return blake2b.Sum256(outputID[:]) }
func (id DelegationID) Empty() bool                             { return id == EmptyDelegationID }
func (id DelegationID) String() string                          { return hexutil.Encode(id[:]) }
func (id DelegationID) Matches(other ChainID) bool {
	o, ok := other.(DelegationID)
	return ok && id == o
}
func (id DelegationID) Addressable() bool    { return false }
func (id DelegationID) ToAddress() ChainAddress { panic("DelegationID is not addressable") }
func (id DelegationID) Key() interface{}     { return id }

// FoundryID identifies a foundry output; derived from (account address, serial number, token scheme kind) rather than from an OutputID.
type FoundryID [FoundryIDLength]byte

// EmptyFoundryID is the null FoundryID.
var EmptyFoundryID = FoundryID{}

// FoundryIDFromAccountAddressSerialNumberAndTokenSchemeKind derives a FoundryID.
func FoundryIDFromAccountAddressSerialNumberAndTokenSchemeKind(addr AccountAddress, serialNumber uint32, schemeKind TokenSchemeType) FoundryID {
	var id FoundryID
	copy(id[:AccountAddressSerializedBytesSize], addr[:])
	id[AccountAddressSerializedBytesSize] = byte(serialNumber)
	id[AccountAddressSerializedBytesSize+1] = byte(serialNumber >> 8)
	id[AccountAddressSerializedBytesSize+2] = byte(serialNumber >> 16)
	id[AccountAddressSerializedBytesSize+3] = byte(serialNumber >> 24)
	id[AccountAddressSerializedBytesSize+4] = byte(schemeKind)

	return id
}

func (id FoundryID) Empty() bool    { return id == EmptyFoundryID }
func (id FoundryID) String() string { return hexutil.Encode(id[:]) }
func (id FoundryID) Matches(other ChainID) bool {
	o, ok := other.(FoundryID)
	return ok && id == o
}
func (id FoundryID) Addressable() bool       { return false }
func (id FoundryID) ToAddress() ChainAddress { panic("FoundryID is not addressable") }
func (id FoundryID) Key() interface{}        { return id }

// TokenIDLength is the byte length of a TokenID (it is identical in shape to a FoundryID).
const TokenIDLength = FoundryIDLength

// TokenID identifies a native token; it is the id of the foundry that minted it.
type TokenID [TokenIDLength]byte

func (id TokenID) String() string { return hexutil.Encode(id[:]) }

var (
	accountAliases    = make(map[string]string)
	accountAliasesMu  sync.RWMutex
	anchorAliases     = make(map[string]string)
	anchorAliasesMu   sync.RWMutex
	nftAliases        = make(map[string]string)
	nftAliasesMu      sync.RWMutex
)

// hexAliasString returns a registered human-readable alias for the given raw id bytes, or its hex form.
func hexAliasString(aliases map[string]string, mu *sync.RWMutex, raw []byte) string {
	key := hex.EncodeToString(raw)
	mu.RLock()
	defer mu.RUnlock()
	if alias, ok := aliases[key]; ok {
		return alias
	}

	return hexutil.Encode(raw)
}

// RegisterAccountAlias registers a human-readable alias for the given AccountID.
func RegisterAccountAlias(id AccountID, alias string) {
	accountAliasesMu.Lock()
	defer accountAliasesMu.Unlock()
	accountAliases[hex.EncodeToString(id[:])] = alias
}
