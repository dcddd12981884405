package ledger

import (
	"fmt"
	"sort"

	"github.com/iotaledger/hive.go/constraints"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
)

// Feature is an abstract building block extending the properties of an Output.
type Feature interface {
	StorageScorer
	ProcessableObject
	constraints.Cloneable[Feature]
	constraints.Equalable[Feature]
	constraints.Comparable[Feature]

	// Type returns the FeatureType of this Feature.
	Type() FeatureType
}

// FeatureType defines the type of a Feature.
type FeatureType byte

const (
	FeatureSender FeatureType = iota
	FeatureIssuer
	FeatureMetadata
	FeatureStateMetadata
	FeatureTag
	FeatureNativeToken
	FeatureBlockIssuer
	FeatureStaking
)

var featNames = [FeatureStaking + 1]string{
	"SenderFeature", "IssuerFeature", "MetadataFeature", "StateMetadataFeature",
	"TagFeature", "NativeTokenFeature", "BlockIssuerFeature", "StakingFeature",
}

func (t FeatureType) String() string {
	if int(t) >= len(featNames) {
		return fmt.Sprintf("unknown feature type: %d", t)
	}

	return featNames[t]
}

// Features is an ordered list of Feature(s) of concrete type T.
type Features[T Feature] []T

func (f Features[T]) Clone() Features[T] {
	cpy := make(Features[T], len(f))
	for i, v := range f {
		//nolint:forcetypeassert // guaranteed by construction
		cpy[i] = v.Clone().(T)
	}

	return cpy
}

func (f Features[T]) StorageScore(params *StorageScoreStructure) StorageScore {
	var sum StorageScore
	for _, feat := range f {
		sum += feat.StorageScore(params)
	}

	return sum
}

func (f Features[T]) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	var sum WorkScore
	for _, feat := range f {
		s, err := feat.WorkScore(params)
		if err != nil {
			return 0, err
		}
		if sum, err = sum.Add(s); err != nil {
			return 0, err
		}
	}

	return sum, nil
}

// Set converts the slice into a FeatureSet; errors if a FeatureType occurs more than once.
func (f Features[T]) Set() (FeatureSet, error) {
	set := make(FeatureSet, len(f))
	for _, feat := range f {
		if _, has := set[feat.Type()]; has {
			return nil, ErrNonUniqueFeatures
		}
		set[feat.Type()] = feat
	}

	return set, nil
}

// MustSet works like Set but panics on duplicate types.
func (f Features[T]) MustSet() FeatureSet {
	set, err := f.Set()
	if err != nil {
		panic(err)
	}

	return set
}

// Equal reports whether this slice is equal to other.
func (f Features[T]) Equal(other Features[T]) bool {
	if len(f) != len(other) {
		return false
	}
	for i, feat := range f {
		if !feat.Equal(other[i]) {
			return false
		}
	}

	return true
}

// Upsert adds feature, replacing any existing entry of the same type.
func (f *Features[T]) Upsert(feature T) {
	for i, ele := range *f {
		if ele.Type() == feature.Type() {
			(*f)[i] = feature

			return
		}
	}
	*f = append(*f, feature)
}

// Sort orders the Features in place by type.
func (f Features[T]) Sort() {
	sort.Slice(f, func(i, j int) bool { return f[i].Type() < f[j].Type() })
}

// Size returns an approximate packed byte size: a 1-byte length prefix plus a
// fixed per-entry estimate.
func (f Features[T]) Size() int {
	size := 1
	for range f {
		size += 34
	}

	return size
}

// FeatureSet is a de-duplicated, type-indexed set of Feature(s).
type FeatureSet map[FeatureType]Feature

func (f FeatureSet) Clone() FeatureSet { return lo.CloneMap(f) }

func (f FeatureSet) SenderFeature() *SenderFeature {
	b, has := f[FeatureSender]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*SenderFeature)
}

func (f FeatureSet) Issuer() *IssuerFeature {
	b, has := f[FeatureIssuer]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*IssuerFeature)
}

func (f FeatureSet) Metadata() *MetadataFeature {
	b, has := f[FeatureMetadata]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*MetadataFeature)
}

func (f FeatureSet) StateMetadata() *StateMetadataFeature {
	b, has := f[FeatureStateMetadata]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*StateMetadataFeature)
}

func (f FeatureSet) Tag() *TagFeature {
	b, has := f[FeatureTag]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*TagFeature)
}

func (f FeatureSet) HasNativeTokenFeature() bool {
	_, has := f[FeatureNativeToken]
	return has
}

func (f FeatureSet) NativeToken() *NativeTokenFeature {
	b, has := f[FeatureNativeToken]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*NativeTokenFeature)
}

func (f FeatureSet) BlockIssuer() *BlockIssuerFeature {
	b, has := f[FeatureBlockIssuer]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*BlockIssuerFeature)
}

func (f FeatureSet) Staking() *StakingFeature {
	b, has := f[FeatureStaking]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*StakingFeature)
}

// FeatureUnchanged checks that featType is either absent from both sets or equal in both.
func FeatureUnchanged(featType FeatureType, inSet, outSet FeatureSet) error {
	in, inHas := inSet[featType]
	out, outHas := outSet[featType]

	switch {
	case outHas && !inHas:
		return ierrors.Wrapf(ErrInvalidFeatureTransition, "%s present in next state but not in previous", featType)
	case !outHas && inHas:
		return ierrors.Wrapf(ErrInvalidFeatureTransition, "%s present in previous state but not in next", featType)
	case in == nil:
		return nil
	case !in.Equal(out):
		return ierrors.Wrapf(ErrInvalidFeatureTransition, "%s changed: %v -> %v", featType, in, out)
	}

	return nil
}

func checkPrintableASCIIString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 33 || s[i] > 126 {
			return ierrors.Errorf("string contains non-printable ASCII character %d at index %d", s[i], i)
		}
	}

	return nil
}

// SenderFeature associates an output with the address of the party that sent it.
type SenderFeature struct {
	Address Address `serix:"0,mapKey=address"`
}

func (s *SenderFeature) Type() FeatureType { return FeatureSender }
func (s *SenderFeature) Clone() Feature    { return &SenderFeature{Address: s.Address} }
func (s *SenderFeature) Equal(other Feature) bool {
	o, ok := other.(*SenderFeature)
	return ok && s.Address.Equal(o.Address)
}
func (s *SenderFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *SenderFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(s.Address.Bytes()))
}
func (s *SenderFeature) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// IssuerFeature associates a chain output with the address that created it; immutable after minting.
type IssuerFeature struct {
	Address Address `serix:"0,mapKey=address"`
}

func (s *IssuerFeature) Type() FeatureType { return FeatureIssuer }
func (s *IssuerFeature) Clone() Feature    { return &IssuerFeature{Address: s.Address} }
func (s *IssuerFeature) Equal(other Feature) bool {
	o, ok := other.(*IssuerFeature)
	return ok && s.Address.Equal(o.Address)
}
func (s *IssuerFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *IssuerFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(s.Address.Bytes()))
}
func (s *IssuerFeature) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// MaxMetadataMapEntries bounds the number of entries a MetadataFeature may carry.
const MaxMetadataMapEntries = 255

// MetadataFeature carries arbitrary binary key/value metadata on an output.
type MetadataFeature struct {
	Entries map[string][]byte `serix:"0,mapKey=entries"`
}

func (s *MetadataFeature) Type() FeatureType { return FeatureMetadata }
func (s *MetadataFeature) Clone() Feature {
	cpy := make(map[string][]byte, len(s.Entries))
	for k, v := range s.Entries {
		cpy[k] = append([]byte(nil), v...)
	}

	return &MetadataFeature{Entries: cpy}
}
func (s *MetadataFeature) Equal(other Feature) bool {
	o, ok := other.(*MetadataFeature)
	if !ok || len(s.Entries) != len(o.Entries) {
		return false
	}
	for k, v := range s.Entries {
		ov, has := o.Entries[k]
		if !has || string(v) != string(ov) {
			return false
		}
	}

	return true
}
func (s *MetadataFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *MetadataFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	size := 2
	for k, v := range s.Entries {
		size += len(k) + len(v) + 4
	}

	return StorageScore(size)
}
func (s *MetadataFeature) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// Validate checks each key is non-empty and the map isn't oversized.
func (s *MetadataFeature) Validate(maxSize int) error {
	if len(s.Entries) > MaxMetadataMapEntries {
		return ierrors.Wrapf(ErrMetadataExceedsMaxSize, "%d entries exceeds max %d", len(s.Entries), MaxMetadataMapEntries)
	}
	size := 0
	for k, v := range s.Entries {
		if len(k) == 0 {
			return ErrInvalidMetadataKey
		}
		size += len(k) + len(v)
	}
	if size > maxSize {
		return ierrors.Wrapf(ErrMetadataExceedsMaxSize, "%d bytes exceeds max %d", size, maxSize)
	}

	return nil
}

// StateMetadataFeature carries account/anchor state-machine-owned metadata, mutable only on state transitions.
type StateMetadataFeature struct {
	Entries map[string][]byte `serix:"0,mapKey=entries"`
}

func (s *StateMetadataFeature) Type() FeatureType { return FeatureStateMetadata }
func (s *StateMetadataFeature) Clone() Feature {
	cpy := make(map[string][]byte, len(s.Entries))
	for k, v := range s.Entries {
		cpy[k] = append([]byte(nil), v...)
	}

	return &StateMetadataFeature{Entries: cpy}
}
func (s *StateMetadataFeature) Equal(other Feature) bool {
	o, ok := other.(*StateMetadataFeature)
	if !ok || len(s.Entries) != len(o.Entries) {
		return false
	}
	for k, v := range s.Entries {
		ov, has := o.Entries[k]
		if !has || string(v) != string(ov) {
			return false
		}
	}

	return true
}
func (s *StateMetadataFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *StateMetadataFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	size := 2
	for k, v := range s.Entries {
		size += len(k) + len(v) + 4
	}

	return StorageScore(size)
}
func (s *StateMetadataFeature) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// TagFeature lets the creator tag an output with a user-defined value.
type TagFeature struct {
	Tag []byte `serix:"0,lengthPrefixType=uint8,mapKey=tag,minLen=1,maxLen=64"`
}

func (s *TagFeature) Type() FeatureType { return FeatureTag }
func (s *TagFeature) Clone() Feature    { return &TagFeature{Tag: append([]byte(nil), s.Tag...)} }
func (s *TagFeature) Equal(other Feature) bool {
	o, ok := other.(*TagFeature)
	return ok && string(s.Tag) == string(o.Tag)
}
func (s *TagFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *TagFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(s.Tag))
}
func (s *TagFeature) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// NativeTokenFeature pins the amount of a single native token carried by an output.
type NativeTokenFeature struct {
	ID     TokenID   `serix:"0,mapKey=id"`
	Amount BaseToken `serix:"1,mapKey=amount"`
}

func (s *NativeTokenFeature) Type() FeatureType { return FeatureNativeToken }
func (s *NativeTokenFeature) Clone() Feature    { return &NativeTokenFeature{ID: s.ID, Amount: s.Amount} }
func (s *NativeTokenFeature) Equal(other Feature) bool {
	o, ok := other.(*NativeTokenFeature)
	return ok && s.ID == o.ID && s.Amount == o.Amount
}
func (s *NativeTokenFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *NativeTokenFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(len(s.ID) + 8)
}
func (s *NativeTokenFeature) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.NativeToken, nil
}

// BlockIssuerFeature marks an account as authorized to issue blocks, pinned to an expiry slot.
type BlockIssuerFeature struct {
	ExpirySlot     SlotIndex          `serix:"0,mapKey=expirySlot"`
	BlockIssuerKeys BlockIssuerKeys   `serix:"1,mapKey=blockIssuerKeys"`
}

// BlockIssuerKeys is a sorted slice of Ed25519 public keys authorized to issue blocks.
type BlockIssuerKeys [][]byte

func (s *BlockIssuerFeature) Type() FeatureType { return FeatureBlockIssuer }
func (s *BlockIssuerFeature) Clone() Feature {
	keys := make(BlockIssuerKeys, len(s.BlockIssuerKeys))
	for i, k := range s.BlockIssuerKeys {
		keys[i] = append([]byte(nil), k...)
	}

	return &BlockIssuerFeature{ExpirySlot: s.ExpirySlot, BlockIssuerKeys: keys}
}
func (s *BlockIssuerFeature) Equal(other Feature) bool {
	o, ok := other.(*BlockIssuerFeature)
	if !ok || s.ExpirySlot != o.ExpirySlot || len(s.BlockIssuerKeys) != len(o.BlockIssuerKeys) {
		return false
	}
	for i := range s.BlockIssuerKeys {
		if string(s.BlockIssuerKeys[i]) != string(o.BlockIssuerKeys[i]) {
			return false
		}
	}

	return true
}
func (s *BlockIssuerFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *BlockIssuerFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(len(s.BlockIssuerKeys)) * params.OffsetEd25519BlockIssuerKey
}
func (s *BlockIssuerFeature) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.BlockIssuer, nil
}

// StakingFeature registers an account as a validator candidate for a fixed epoch range.
type StakingFeature struct {
	StakedAmount BaseToken  `serix:"0,mapKey=stakedAmount"`
	FixedCost    BaseToken  `serix:"1,mapKey=fixedCost"`
	StartEpoch   EpochIndex `serix:"2,mapKey=startEpoch"`
	EndEpoch     EpochIndex `serix:"3,mapKey=endEpoch"`
}

func (s *StakingFeature) Type() FeatureType { return FeatureStaking }
func (s *StakingFeature) Clone() Feature    { return &StakingFeature{StakedAmount: s.StakedAmount, FixedCost: s.FixedCost, StartEpoch: s.StartEpoch, EndEpoch: s.EndEpoch} }
func (s *StakingFeature) Equal(other Feature) bool {
	o, ok := other.(*StakingFeature)
	return ok && *s == *o
}
func (s *StakingFeature) Compare(other Feature) int { return int(s.Type()) - int(other.Type()) }
func (s *StakingFeature) StorageScore(params *StorageScoreStructure) StorageScore {
	return params.OffsetStakingFeature
}
func (s *StakingFeature) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.Staking, nil
}

// EndEpochUnbounded reports whether the staking feature has no set end epoch (still active).
func (s *StakingFeature) EndEpochUnbounded() bool { return s.EndEpoch == MaxEpochIndex }
