package ledger

import "github.com/iotaledger/hive.go/core/safemath"

// BaseToken is the ledger's native value unit.
type BaseToken uint64

// StorageScore measures how much ledger storage an object occupies, in the units the
// protocol's storage-score parameters are denominated in.
type StorageScore uint64

// StorageScorer is implemented by anything whose storage footprint contributes to an output's minimum deposit.
type StorageScorer interface {
	StorageScore(params *StorageScoreStructure) StorageScore
}

// StorageScoreStructure is the protocol-supplied set of per-field storage costs
// and the factor converting a storage score into a minimum BaseToken deposit.
type StorageScoreStructure struct {
	// StorageCost is the number of tokens required per unit of storage score ("output_offset" baseline included).
	StorageCost BaseToken `serix:"0,mapKey=storageCost"`
	// FactorData scales the packed byte length of an output.
	FactorData StorageScore `serix:"1,mapKey=factorData"`
	// OffsetOutputOverhead is a constant overhead charged per output regardless of its contents.
	OffsetOutputOverhead StorageScore `serix:"2,mapKey=offsetOutputOverhead"`
	// OffsetEd25519BlockIssuerKey is the storage score of one Ed25519 block issuer key.
	OffsetEd25519BlockIssuerKey StorageScore `serix:"3,mapKey=offsetEd25519BlockIssuerKey"`
	// OffsetStakingFeature is the storage score of a staking feature.
	OffsetStakingFeature StorageScore `serix:"4,mapKey=offsetStakingFeature"`
	// OffsetDelegation is the storage score of a delegation output's fixed fields.
	OffsetDelegation StorageScore `serix:"5,mapKey=offsetDelegation"`
}

// MinDeposit computes the minimum BaseToken amount an output of the given packed
// length and storage score must carry, per spec §4.2:
// output_offset + packed_len*data_factor + Σ storage_score(unlock_conditions, features).
func (s *StorageScoreStructure) MinDeposit(packedLen int, fieldScore StorageScore) (BaseToken, error) {
	total := StorageScore(s.OffsetOutputOverhead)

	dataScore, err := safemath.SafeMul(s.FactorData, StorageScore(packedLen))
	if err != nil {
		return 0, err
	}
	if total, err = safemath.SafeAdd(total, dataScore); err != nil {
		return 0, err
	}
	if total, err = safemath.SafeAdd(total, fieldScore); err != nil {
		return 0, err
	}

	cost, err := safemath.SafeMul(s.StorageCost, BaseToken(total))
	if err != nil {
		return 0, err
	}

	return cost, nil
}
