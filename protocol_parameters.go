package ledger

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// NetworkID identifies the network a transaction is built for.
type NetworkID = uint64

// NetworkIDFromString returns the network ID derived from a network name.
func NetworkIDFromString(networkIDStr string) NetworkID {
	h := blake2b.Sum256([]byte(networkIDStr))

	return binary.LittleEndian.Uint64(h[:])
}

// NetworkPrefix is the bech32 human-readable prefix used for addresses on a given network.
type NetworkPrefix string

// ProtocolParameters carries every protocol-defined constant the builder and
// codec consult; the builder reads them but does not define them (spec §4.2).
type ProtocolParameters struct {
	Version byte `serix:"0,mapKey=version"`
	NetworkName string `serix:"1,mapKey=networkName"`
	Bech32HRP NetworkPrefix `serix:"2,mapKey=bech32Hrp"`

	TokenSupply BaseToken `serix:"3,mapKey=tokenSupply"`

	StorageScoreStructure StorageScoreStructure `serix:"4,mapKey=storageScoreStructure"`
	WorkScoreParameters   WorkScoreParameters   `serix:"5,mapKey=workScoreParameters"`

	GenesisUnixTimestamp  int64 `serix:"6,mapKey=genesisUnixTimestamp"`
	SlotDurationInSeconds int64 `serix:"7,mapKey=slotDurationInSeconds"`
	SlotsPerEpochExponent uint8 `serix:"8,mapKey=slotsPerEpochExponent"`

	ManaGenerationRate           uint8    `serix:"9,mapKey=manaGenerationRate"`
	ManaGenerationRateExponent   uint8    `serix:"10,mapKey=manaGenerationRateExponent"`
	ManaDecayFactors             []uint32 `serix:"11,mapKey=manaDecayFactors"`
	ManaDecayFactorsExponent     uint8    `serix:"12,mapKey=manaDecayFactorsExponent"`

	MinCommittableAge SlotIndex `serix:"13,mapKey=minCommittableAge"`
	MaxCommittableAge SlotIndex `serix:"14,mapKey=maxCommittableAge"`

	LivenessThreshold SlotIndex `serix:"15,mapKey=livenessThreshold"`

	MinInputCount  uint16 `serix:"16,mapKey=minInputCount"`
	MaxInputCount  uint16 `serix:"17,mapKey=maxInputCount"`
	MinOutputCount uint16 `serix:"18,mapKey=minOutputCount"`
	MaxOutputCount uint16 `serix:"19,mapKey=maxOutputCount"`

	MaxNativeTokensPerOutput int `serix:"20,mapKey=maxNativeTokensPerOutput"`
	MaxStateMetadataLength   int `serix:"21,mapKey=maxStateMetadataLength"`
}

func (p *ProtocolParameters) NetworkID() NetworkID { return NetworkIDFromString(p.NetworkName) }

func (p *ProtocolParameters) TimeProvider() *TimeProvider {
	return NewTimeProvider(p.GenesisUnixTimestamp, p.SlotDurationInSeconds, p.SlotsPerEpochExponent)
}

func (p *ProtocolParameters) ManaDecayProvider() *ManaDecayProvider {
	return NewManaDecayProvider(
		p.TimeProvider(),
		p.SlotsPerEpochExponent,
		p.ManaGenerationRate,
		p.ManaGenerationRateExponent,
		p.ManaDecayFactors,
		p.ManaDecayFactorsExponent,
		0, 0,
	)
}

// CommittableAgeRange returns [MinCommittableAge, MaxCommittableAge].
func (p *ProtocolParameters) CommittableAgeRange() CommittableAgeRange {
	return CommittableAgeRange{MinAge: p.MinCommittableAge, MaxAge: p.MaxCommittableAge}
}

// InputCountRange returns the valid [min,max] number of inputs a transaction may have.
func (p *ProtocolParameters) InputCountRange() (uint16, uint16) { return p.MinInputCount, p.MaxInputCount }

// OutputCountRange returns the valid [min,max] number of outputs a transaction may have.
func (p *ProtocolParameters) OutputCountRange() (uint16, uint16) { return p.MinOutputCount, p.MaxOutputCount }

func (p *ProtocolParameters) String() string {
	return fmt.Sprintf("ProtocolParameters{Version:%d Network:%s HRP:%s TokenSupply:%d}",
		p.Version, p.NetworkName, p.Bech32HRP, p.TokenSupply)
}
