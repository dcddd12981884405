package tpkg

import "github.com/ledgertx/sdk"

// TestTokenSupply is a test token supply constant.
// Do not use this constant outside of unit tests, instead, query it from protocol parameters.
const TestTokenSupply ledger.BaseToken = 2_779_530_283_277_761

// TestProtocolVersion is a dummy protocol version.
const TestProtocolVersion = 2

// TestProtocolParameters is an instance of ledger.ProtocolParameters for
// testing purposes: small storage/work costs, a short epoch, and a short
// mana decay table, so test transactions don't need to reason about real
// economic constants.
// Only use this var in testing. Do not modify or use outside unit tests.
var TestProtocolParameters = &ledger.ProtocolParameters{
	Version:     TestProtocolVersion,
	NetworkName: "test-network",
	Bech32HRP:   "tgl",
	TokenSupply: TestTokenSupply,
	StorageScoreStructure: ledger.StorageScoreStructure{
		StorageCost:                 500,
		FactorData:                  1,
		OffsetOutputOverhead:        10,
		OffsetEd25519BlockIssuerKey: 100,
		OffsetStakingFeature:        100,
		OffsetDelegation:            100,
	},
	WorkScoreParameters: ledger.WorkScoreParameters{
		DataByte:         1,
		Block:            100,
		Input:            10,
		ContextInput:     20,
		Output:           20,
		NativeToken:      20,
		Staking:          5000,
		BlockIssuer:      100,
		Allotment:        100,
		SignatureEd25519: 200,
	},
	GenesisUnixTimestamp:       1700000000,
	SlotDurationInSeconds:      10,
	SlotsPerEpochExponent:      13,
	ManaGenerationRate:         1,
	ManaGenerationRateExponent: 27,
	ManaDecayFactors:           testManaDecayFactors(),
	ManaDecayFactorsExponent:   32,
	MinCommittableAge:          10,
	MaxCommittableAge:          20,
	LivenessThreshold:          5,
	MinInputCount:              1,
	MaxInputCount:              128,
	MinOutputCount:             1,
	MaxOutputCount:             128,
	MaxNativeTokensPerOutput:   64,
	MaxStateMetadataLength:     8192,
}

// testManaDecayFactors fabricates a short, non-increasing decay factor
// table (scaled by 2^32, halved every 20 entries) good enough to exercise StoredManaWithDecay/
// PotentialManaWithDecay without modeling the real protocol's curve.
func testManaDecayFactors() []uint32 {
	const scale = uint64(1) << 32
	factors := make([]uint32, 100)
	for i := range factors {
		factors[i] = uint32((scale * 9999) / 10000 >> uint(i/20))
	}

	return factors
}

// TestAPI is an ledger.API backed by TestProtocolParameters.
var TestAPI = ledger.V3API(TestProtocolParameters)

// TestNetworkID is TestProtocolParameters' derived network id.
var TestNetworkID = TestProtocolParameters.NetworkID()
