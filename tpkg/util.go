// Package tpkg holds test-only fixture constructors shared across this
// module's test files: random addresses, identifiers, and outputs built
// against TestProtocolParameters.
package tpkg

import (
	"crypto/ed25519"
	"math/big"
	"math/rand"

	"golang.org/x/crypto/blake2b"

	"github.com/ledgertx/sdk"
)

// Must panics if the given error is not nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// RandBytes returns length amount of random bytes.
func RandBytes(length int) []byte {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return b
}

// Rand32ByteArray returns an array with 32 random bytes.
func Rand32ByteArray() [32]byte {
	var h [32]byte
	copy(h[:], RandBytes(32))

	return h
}

// RandAccountID returns a random AccountID.
func RandAccountID() ledger.AccountID { return ledger.AccountID(Rand32ByteArray()) }

// RandAnchorID returns a random AnchorID.
func RandAnchorID() ledger.AnchorID { return ledger.AnchorID(Rand32ByteArray()) }

// RandNFTID returns a random NFTID.
func RandNFTID() ledger.NFTID { return ledger.NFTID(Rand32ByteArray()) }

// RandDelegationID returns a random DelegationID.
func RandDelegationID() ledger.DelegationID { return ledger.DelegationID(Rand32ByteArray()) }

// RandTokenID returns a random TokenID.
func RandTokenID() ledger.TokenID {
	var id ledger.TokenID
	copy(id[:], RandBytes(ledger.TokenIDLength))

	return id
}

// RandOutputID returns a random OutputID.
func RandOutputID() ledger.OutputID {
	var txID ledger.TransactionID
	copy(txID[:], RandBytes(ledger.TransactionIDLength))

	return ledger.NewOutputID(txID, uint16(rand.Intn(128)))
}

// RandEd25519Keypair returns a random Ed25519 keypair and the address derived from the public key.
func RandEd25519Keypair() (ed25519.PublicKey, ed25519.PrivateKey, *ledger.Ed25519Address) {
	pub, priv, err := ed25519.GenerateKey(nil)
	Must(err)

	addr := ledger.Ed25519Address(blake2b.Sum256(pub))

	return pub, priv, &addr
}

// RandEd25519Address returns a random Ed25519Address with no corresponding keypair.
func RandEd25519Address() *ledger.Ed25519Address {
	_, _, addr := RandEd25519Keypair()

	return addr
}

// RandAmount returns a random BaseToken amount in [min, min+span).
func RandAmount(min, span ledger.BaseToken) ledger.BaseToken {
	if span == 0 {
		return min
	}

	return min + ledger.BaseToken(rand.Int63n(int64(span)))
}

// BasicOutput returns a BasicOutput of amount locked to addr, with no mana or native tokens.
func BasicOutput(amount ledger.BaseToken, addr ledger.Address) *ledger.BasicOutput {
	return &ledger.BasicOutput{
		Amount: amount,
		Conditions: ledger.BasicOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: addr},
		},
	}
}

// BasicOutputWithMana returns a BasicOutput of amount and mana locked to addr.
func BasicOutputWithMana(amount ledger.BaseToken, mana ledger.Mana, addr ledger.Address) *ledger.BasicOutput {
	out := BasicOutput(amount, addr)
	out.Mana = mana

	return out
}

// RandBasicOutputInput returns an InputSigningData wrapping a fresh BasicOutput
// owned by addr, as if created at creationSlot.
func RandBasicOutputInput(amount ledger.BaseToken, addr ledger.Address, creationSlot ledger.SlotIndex) *ledger.InputSigningData {
	return &ledger.InputSigningData{
		OutputID:     RandOutputID(),
		Output:       BasicOutput(amount, addr),
		CreationSlot: creationSlot,
	}
}

// AccountOutput returns a genesis (empty AccountID) AccountOutput controlled by
// stateController for state transitions and governor for governance transitions.
func AccountOutput(amount ledger.BaseToken, stateController, governor ledger.Address) *ledger.AccountOutput {
	return &ledger.AccountOutput{
		Amount: amount,
		Conditions: ledger.AccountOutputUnlockConditions{
			&ledger.StateControllerAddressUnlockCondition{Address: stateController},
			&ledger.GovernorAddressUnlockCondition{Address: governor},
		},
	}
}

// AnchorOutput returns a genesis (empty AnchorID) AnchorOutput controlled by
// stateController for state transitions and governor for governance transitions.
func AnchorOutput(amount ledger.BaseToken, stateController, governor ledger.Address) *ledger.AnchorOutput {
	return &ledger.AnchorOutput{
		Amount: amount,
		Conditions: ledger.AnchorOutputUnlockConditions{
			&ledger.StateControllerAddressUnlockCondition{Address: stateController},
			&ledger.GovernorAddressUnlockCondition{Address: governor},
		},
	}
}

// NFTOutput returns a genesis (empty NFTID) NFTOutput locked to addr.
func NFTOutput(amount ledger.BaseToken, addr ledger.Address) *ledger.NFTOutput {
	return &ledger.NFTOutput{
		Amount: amount,
		Conditions: ledger.NFTOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: addr},
		},
	}
}

// FoundryOutput returns a genesis FoundryOutput controlled by accountAddr,
// minting up to maxSupply of its token under serialNumber.
func FoundryOutput(amount ledger.BaseToken, accountAddr ledger.AccountAddress, serialNumber uint32, minted, maxSupply *big.Int) *ledger.FoundryOutput {
	return &ledger.FoundryOutput{
		Amount:       amount,
		SerialNumber: serialNumber,
		TokenScheme: &ledger.SimpleTokenScheme{
			MintedTokens:  new(big.Int).Set(minted),
			MeltedTokens:  new(big.Int),
			MaximumSupply: new(big.Int).Set(maxSupply),
		},
		Conditions: ledger.FoundryOutputUnlockConditions{
			&ledger.ImmutableAccountAddressUnlockCondition{Address: &accountAddr},
		},
	}
}

// DelegationOutput returns a genesis (empty DelegationID) DelegationOutput
// delegating delegatedAmount to validator, owned by addr.
func DelegationOutput(amount, delegatedAmount ledger.BaseToken, validator ledger.AccountAddress, addr ledger.Address, start, end ledger.EpochIndex) *ledger.DelegationOutput {
	return &ledger.DelegationOutput{
		Amount:           amount,
		DelegatedAmount:  delegatedAmount,
		ValidatorAddress: validator,
		StartEpoch:       start,
		EndEpoch:         end,
		Conditions: ledger.DelegationOutputUnlockConditions{
			&ledger.AddressUnlockCondition{Address: addr},
		},
	}
}
