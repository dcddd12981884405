package ledger

import "github.com/iotaledger/hive.go/ierrors"

// AddressCapabilitiesBitMask restricts what an underlying address is allowed to
// receive: plain base tokens are always allowed; everything else is opt-in.
type AddressCapabilitiesBitMask []byte

const (
	addressCapCanReceiveNativeTokens = iota
	addressCapCanReceiveMana
	addressCapCanReceiveAccountOutputs
	addressCapCanReceiveAnchorOutputs
	addressCapCanReceiveNFTOutputs
	addressCapCanReceiveDelegationOutputs
)

func (bm AddressCapabilitiesBitMask) hasBit(bit int) bool {
	byteIdx := bit / 8
	if byteIdx >= len(bm) {
		return false
	}

	return bm[byteIdx]&(1<<uint(bit%8)) != 0
}

func (bm AddressCapabilitiesBitMask) setBit(bit int) AddressCapabilitiesBitMask {
	byteIdx := bit / 8
	for len(bm) <= byteIdx {
		bm = append(bm, 0)
	}
	bm[byteIdx] |= 1 << uint(bit%8)

	return bm
}

// CanReceiveNativeTokens reports whether the restricted address may receive outputs carrying native tokens.
func (bm AddressCapabilitiesBitMask) CanReceiveNativeTokens() bool {
	return bm.hasBit(addressCapCanReceiveNativeTokens)
}

// CanReceiveMana reports whether the restricted address may receive outputs carrying mana.
func (bm AddressCapabilitiesBitMask) CanReceiveMana() bool { return bm.hasBit(addressCapCanReceiveMana) }

// CanReceiveAccountOutputs reports whether the restricted address may receive account outputs.
func (bm AddressCapabilitiesBitMask) CanReceiveAccountOutputs() bool {
	return bm.hasBit(addressCapCanReceiveAccountOutputs)
}

// CanReceiveAnchorOutputs reports whether the restricted address may receive anchor outputs.
func (bm AddressCapabilitiesBitMask) CanReceiveAnchorOutputs() bool {
	return bm.hasBit(addressCapCanReceiveAnchorOutputs)
}

// CanReceiveNFTOutputs reports whether the restricted address may receive NFT outputs.
func (bm AddressCapabilitiesBitMask) CanReceiveNFTOutputs() bool {
	return bm.hasBit(addressCapCanReceiveNFTOutputs)
}

// CanReceiveDelegationOutputs reports whether the restricted address may receive delegation outputs.
func (bm AddressCapabilitiesBitMask) CanReceiveDelegationOutputs() bool {
	return bm.hasBit(addressCapCanReceiveDelegationOutputs)
}

// AddressCapabilitiesOptions configures a new AddressCapabilitiesBitMask.
type AddressCapabilitiesOptions struct {
	canReceiveNativeTokens      bool
	canReceiveMana              bool
	canReceiveAccountOutputs    bool
	canReceiveAnchorOutputs     bool
	canReceiveNFTOutputs        bool
	canReceiveDelegationOutputs bool
}

// WithAddressCapabilitiesAll enables every restrictable capability.
func WithAddressCapabilitiesAll() func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) {
		o.canReceiveNativeTokens = true
		o.canReceiveMana = true
		o.canReceiveAccountOutputs = true
		o.canReceiveAnchorOutputs = true
		o.canReceiveNFTOutputs = true
		o.canReceiveDelegationOutputs = true
	}
}

// WithAddressCapabilitiesCanReceiveNativeTokens sets whether native tokens are receivable.
func WithAddressCapabilitiesCanReceiveNativeTokens(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveNativeTokens = v }
}

// WithAddressCapabilitiesCanReceiveMana sets whether mana is receivable.
func WithAddressCapabilitiesCanReceiveMana(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveMana = v }
}

// WithAddressCapabilitiesCanReceiveAccountOutputs sets whether account outputs are receivable.
func WithAddressCapabilitiesCanReceiveAccountOutputs(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveAccountOutputs = v }
}

// WithAddressCapabilitiesCanReceiveAnchorOutputs sets whether anchor outputs are receivable.
func WithAddressCapabilitiesCanReceiveAnchorOutputs(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveAnchorOutputs = v }
}

// WithAddressCapabilitiesCanReceiveNFTOutputs sets whether NFT outputs are receivable.
func WithAddressCapabilitiesCanReceiveNFTOutputs(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveNFTOutputs = v }
}

// WithAddressCapabilitiesCanReceiveDelegationOutputs sets whether delegation outputs are receivable.
func WithAddressCapabilitiesCanReceiveDelegationOutputs(v bool) func(*AddressCapabilitiesOptions) {
	return func(o *AddressCapabilitiesOptions) { o.canReceiveDelegationOutputs = v }
}

// AddressCapabilitiesBitMaskFromOptions builds a bitmask from functional options,
// following the options-builder idiom used throughout this module's builders.
func AddressCapabilitiesBitMaskFromOptions(opts ...func(*AddressCapabilitiesOptions)) AddressCapabilitiesBitMask {
	o := &AddressCapabilitiesOptions{}
	for _, opt := range opts {
		opt(o)
	}

	bm := AddressCapabilitiesBitMask{}
	if o.canReceiveNativeTokens {
		bm = bm.setBit(addressCapCanReceiveNativeTokens)
	}
	if o.canReceiveMana {
		bm = bm.setBit(addressCapCanReceiveMana)
	}
	if o.canReceiveAccountOutputs {
		bm = bm.setBit(addressCapCanReceiveAccountOutputs)
	}
	if o.canReceiveAnchorOutputs {
		bm = bm.setBit(addressCapCanReceiveAnchorOutputs)
	}
	if o.canReceiveNFTOutputs {
		bm = bm.setBit(addressCapCanReceiveNFTOutputs)
	}
	if o.canReceiveDelegationOutputs {
		bm = bm.setBit(addressCapCanReceiveDelegationOutputs)
	}

	return bm
}

// maxAddressCapabilitiesBitMaskLength bounds the bitmask's serialized size.
const maxAddressCapabilitiesBitMaskLength = 1

// RestrictedAddress wraps an underlying address with a capabilities bitmask,
// generalizing the per-type restricted addresses of the reference implementation
// into one wrapper applicable to any underlying Address (see DESIGN.md).
type RestrictedAddress struct {
	Address      Address
	Capabilities AddressCapabilitiesBitMask
}

// NewRestrictedAddress returns a new RestrictedAddress wrapping underlying with no capabilities enabled.
func NewRestrictedAddress(underlying Address) *RestrictedAddress {
	return &RestrictedAddress{Address: underlying, Capabilities: AddressCapabilitiesBitMask{}}
}

func (r *RestrictedAddress) Type() AddressType { return AddressRestricted }
func (r *RestrictedAddress) Bytes() []byte     { return r.Address.Bytes() }
func (r *RestrictedAddress) Equal(other Address) bool {
	o, ok := other.(*RestrictedAddress)
	if !ok {
		return false
	}

	return r.Address.Equal(o.Address) && bytesEqualAddress(r.Capabilities, o.Capabilities)
}
func (r *RestrictedAddress) Key() string                   { return string(r.Type()) + r.Address.Key() }
func (r *RestrictedAddress) Bech32(hrp NetworkPrefix) string { return EncodeAddress(hrp, r) }
func (r *RestrictedAddress) String() string                 { return r.Address.String() }

// Unwrap returns the address restricted by this wrapper.
func (r *RestrictedAddress) Unwrap() Address { return r.Address }

// ValidateCapabilitiesBitMaskLength reports whether bm's length is within bounds.
func ValidateCapabilitiesBitMaskLength(bm AddressCapabilitiesBitMask) error {
	if len(bm) > maxAddressCapabilitiesBitMaskLength {
		return ierrors.Wrapf(ErrInvalidAddressCapabilitiesBitMaskLength, "length %d exceeds max %d", len(bm), maxAddressCapabilitiesBitMaskLength)
	}

	return nil
}
