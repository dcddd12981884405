package ledger

import (
	"fmt"
	"sort"

	"github.com/iotaledger/hive.go/constraints"
	"github.com/iotaledger/hive.go/lo"
)

// UnlockCondition is a condition that must be satisfied to unlock an output's funds.
type UnlockCondition interface {
	StorageScorer
	ProcessableObject
	constraints.Cloneable[UnlockCondition]
	constraints.Equalable[UnlockCondition]
	constraints.Comparable[UnlockCondition]

	Type() UnlockConditionType
}

// UnlockConditionType defines the type of an UnlockCondition.
type UnlockConditionType byte

const (
	UnlockConditionAddress UnlockConditionType = iota
	UnlockConditionStorageDepositReturn
	UnlockConditionTimelock
	UnlockConditionExpiration
	UnlockConditionStateControllerAddress
	UnlockConditionGovernorAddress
	UnlockConditionImmutableAccountAddress
)

var unlockCondNames = [UnlockConditionImmutableAccountAddress + 1]string{
	"AddressUnlockCondition", "StorageDepositReturnUnlockCondition", "TimelockUnlockCondition",
	"ExpirationUnlockCondition", "StateControllerAddressUnlockCondition", "GovernorAddressUnlockCondition",
	"ImmutableAccountAddressUnlockCondition",
}

func (t UnlockConditionType) String() string {
	if int(t) >= len(unlockCondNames) {
		return fmt.Sprintf("unknown unlock condition type: %d", t)
	}

	return unlockCondNames[t]
}

// UnlockConditions is an ordered list of UnlockCondition(s) of concrete type T.
type UnlockConditions[T UnlockCondition] []T

func (u UnlockConditions[T]) Clone() UnlockConditions[T] {
	cpy := make(UnlockConditions[T], len(u))
	for i, v := range u {
		//nolint:forcetypeassert
		cpy[i] = v.Clone().(T)
	}

	return cpy
}

func (u UnlockConditions[T]) StorageScore(params *StorageScoreStructure) StorageScore {
	var sum StorageScore
	for _, uc := range u {
		sum += uc.StorageScore(params)
	}

	return sum
}

func (u UnlockConditions[T]) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	var sum WorkScore
	for _, uc := range u {
		s, err := uc.WorkScore(params)
		if err != nil {
			return 0, err
		}
		if sum, err = sum.Add(s); err != nil {
			return 0, err
		}
	}

	return sum, nil
}

// Set converts the slice into an UnlockConditionSet; errors on duplicate types.
func (u UnlockConditions[T]) Set() (UnlockConditionSet, error) {
	set := make(UnlockConditionSet, len(u))
	for _, uc := range u {
		if _, has := set[uc.Type()]; has {
			return nil, ErrNonUniqueUnlockConditions
		}
		set[uc.Type()] = uc
	}

	return set, nil
}

// MustSet works like Set but panics on duplicate types.
func (u UnlockConditions[T]) MustSet() UnlockConditionSet {
	set, err := u.Set()
	if err != nil {
		panic(err)
	}

	return set
}

func (u UnlockConditions[T]) Equal(other UnlockConditions[T]) bool {
	if len(u) != len(other) {
		return false
	}
	for i, uc := range u {
		if !uc.Equal(other[i]) {
			return false
		}
	}

	return true
}

func (u *UnlockConditions[T]) Upsert(cond T) {
	for i, ele := range *u {
		if ele.Type() == cond.Type() {
			(*u)[i] = cond

			return
		}
	}
	*u = append(*u, cond)
}

func (u UnlockConditions[T]) Sort() {
	sort.Slice(u, func(i, j int) bool { return u[i].Type() < u[j].Type() })
}

// Size returns an approximate packed byte size: a 1-byte length prefix plus a
// fixed per-entry estimate (type byte + largest fixed field shape).
func (u UnlockConditions[T]) Size() int {
	size := 1
	for range u {
		size += 34
	}

	return size
}

// UnlockConditionSet is a de-duplicated, type-indexed set of UnlockCondition(s).
type UnlockConditionSet map[UnlockConditionType]UnlockCondition

func (u UnlockConditionSet) Clone() UnlockConditionSet { return lo.CloneMap(u) }

func (u UnlockConditionSet) Address() *AddressUnlockCondition {
	b, has := u[UnlockConditionAddress]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*AddressUnlockCondition)
}

func (u UnlockConditionSet) StorageDepositReturn() *StorageDepositReturnUnlockCondition {
	b, has := u[UnlockConditionStorageDepositReturn]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*StorageDepositReturnUnlockCondition)
}

func (u UnlockConditionSet) Timelock() *TimelockUnlockCondition {
	b, has := u[UnlockConditionTimelock]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*TimelockUnlockCondition)
}

func (u UnlockConditionSet) Expiration() *ExpirationUnlockCondition {
	b, has := u[UnlockConditionExpiration]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*ExpirationUnlockCondition)
}

func (u UnlockConditionSet) StateControllerAddress() *StateControllerAddressUnlockCondition {
	b, has := u[UnlockConditionStateControllerAddress]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*StateControllerAddressUnlockCondition)
}

func (u UnlockConditionSet) GovernorAddress() *GovernorAddressUnlockCondition {
	b, has := u[UnlockConditionGovernorAddress]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*GovernorAddressUnlockCondition)
}

func (u UnlockConditionSet) ImmutableAccount() *ImmutableAccountAddressUnlockCondition {
	b, has := u[UnlockConditionImmutableAccountAddress]
	if !has {
		return nil
	}
	//nolint:forcetypeassert
	return b.(*ImmutableAccountAddressUnlockCondition)
}

// EffectiveUnlockAddress returns the address that must unlock the output at slot,
// accounting for an Expiration unlock condition that hands control to its return address
// once the committable slot reaches the expiration slot. Account/Anchor outputs carry no
// plain AddressUnlockCondition, so they fall back to the state controller address; a
// Foundry falls back to its immutable controlling account, mirroring each output's Ident().
func (u UnlockConditionSet) EffectiveUnlockAddress(committableSlot SlotIndex) Address {
	exp := u.Expiration()
	if exp != nil && committableSlot >= exp.SlotIndex {
		return exp.ReturnAddress
	}
	if addr := u.Address(); addr != nil {
		return addr.Address
	}
	if sc := u.StateControllerAddress(); sc != nil {
		return sc.Address
	}
	if ia := u.ImmutableAccount(); ia != nil {
		return ia.Address
	}

	return nil
}

// AddressUnlockCondition names the address that can unlock the output.
type AddressUnlockCondition struct {
	Address Address `serix:"0,mapKey=address"`
}

func (u *AddressUnlockCondition) Type() UnlockConditionType { return UnlockConditionAddress }
func (u *AddressUnlockCondition) Clone() UnlockCondition    { return &AddressUnlockCondition{Address: u.Address} }
func (u *AddressUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*AddressUnlockCondition)
	return ok && u.Address.Equal(o.Address)
}
func (u *AddressUnlockCondition) Compare(other UnlockCondition) int { return int(u.Type()) - int(other.Type()) }
func (u *AddressUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(u.Address.Bytes()))
}
func (u *AddressUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// StorageDepositReturnUnlockCondition requires that an equal amount be returned to ReturnAddress.
type StorageDepositReturnUnlockCondition struct {
	ReturnAddress Address   `serix:"0,mapKey=returnAddress"`
	Amount        BaseToken `serix:"1,mapKey=amount"`
}

func (u *StorageDepositReturnUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionStorageDepositReturn
}
func (u *StorageDepositReturnUnlockCondition) Clone() UnlockCondition {
	return &StorageDepositReturnUnlockCondition{ReturnAddress: u.ReturnAddress, Amount: u.Amount}
}
func (u *StorageDepositReturnUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*StorageDepositReturnUnlockCondition)
	return ok && u.Amount == o.Amount && u.ReturnAddress.Equal(o.ReturnAddress)
}
func (u *StorageDepositReturnUnlockCondition) Compare(other UnlockCondition) int {
	return int(u.Type()) - int(other.Type())
}
func (u *StorageDepositReturnUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(8 + len(u.ReturnAddress.Bytes()))
}
func (u *StorageDepositReturnUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) {
	return 0, nil
}

// TimelockUnlockCondition forbids unlocking the output before SlotIndex.
type TimelockUnlockCondition struct {
	SlotIndex SlotIndex `serix:"0,mapKey=slot"`
}

func (u *TimelockUnlockCondition) Type() UnlockConditionType { return UnlockConditionTimelock }
func (u *TimelockUnlockCondition) Clone() UnlockCondition    { return &TimelockUnlockCondition{SlotIndex: u.SlotIndex} }
func (u *TimelockUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*TimelockUnlockCondition)
	return ok && u.SlotIndex == o.SlotIndex
}
func (u *TimelockUnlockCondition) Compare(other UnlockCondition) int { return int(u.Type()) - int(other.Type()) }
func (u *TimelockUnlockCondition) StorageScore(*StorageScoreStructure) StorageScore { return 8 }
func (u *TimelockUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// ExpirationUnlockCondition hands control to ReturnAddress once the committable slot reaches SlotIndex.
type ExpirationUnlockCondition struct {
	ReturnAddress Address   `serix:"0,mapKey=returnAddress"`
	SlotIndex     SlotIndex `serix:"1,mapKey=slot"`
}

func (u *ExpirationUnlockCondition) Type() UnlockConditionType { return UnlockConditionExpiration }
func (u *ExpirationUnlockCondition) Clone() UnlockCondition {
	return &ExpirationUnlockCondition{ReturnAddress: u.ReturnAddress, SlotIndex: u.SlotIndex}
}
func (u *ExpirationUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*ExpirationUnlockCondition)
	return ok && u.SlotIndex == o.SlotIndex && u.ReturnAddress.Equal(o.ReturnAddress)
}
func (u *ExpirationUnlockCondition) Compare(other UnlockCondition) int { return int(u.Type()) - int(other.Type()) }
func (u *ExpirationUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(8 + len(u.ReturnAddress.Bytes()))
}
func (u *ExpirationUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// StateControllerAddressUnlockCondition names the address allowed to perform state transitions on an account/anchor.
type StateControllerAddressUnlockCondition struct {
	Address Address `serix:"0,mapKey=address"`
}

func (u *StateControllerAddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionStateControllerAddress
}
func (u *StateControllerAddressUnlockCondition) Clone() UnlockCondition {
	return &StateControllerAddressUnlockCondition{Address: u.Address}
}
func (u *StateControllerAddressUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*StateControllerAddressUnlockCondition)
	return ok && u.Address.Equal(o.Address)
}
func (u *StateControllerAddressUnlockCondition) Compare(other UnlockCondition) int {
	return int(u.Type()) - int(other.Type())
}
func (u *StateControllerAddressUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(u.Address.Bytes()))
}
func (u *StateControllerAddressUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) {
	return 0, nil
}

// GovernorAddressUnlockCondition names the address allowed to perform governance transitions on an account/anchor.
type GovernorAddressUnlockCondition struct {
	Address Address `serix:"0,mapKey=address"`
}

func (u *GovernorAddressUnlockCondition) Type() UnlockConditionType { return UnlockConditionGovernorAddress }
func (u *GovernorAddressUnlockCondition) Clone() UnlockCondition {
	return &GovernorAddressUnlockCondition{Address: u.Address}
}
func (u *GovernorAddressUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*GovernorAddressUnlockCondition)
	return ok && u.Address.Equal(o.Address)
}
func (u *GovernorAddressUnlockCondition) Compare(other UnlockCondition) int {
	return int(u.Type()) - int(other.Type())
}
func (u *GovernorAddressUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(u.Address.Bytes()))
}
func (u *GovernorAddressUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) {
	return 0, nil
}

// ImmutableAccountAddressUnlockCondition pins a foundry output to the account that controls it for its whole lifetime.
type ImmutableAccountAddressUnlockCondition struct {
	Address *AccountAddress `serix:"0,mapKey=address"`
}

func (u *ImmutableAccountAddressUnlockCondition) Type() UnlockConditionType {
	return UnlockConditionImmutableAccountAddress
}
func (u *ImmutableAccountAddressUnlockCondition) Clone() UnlockCondition {
	addr := *u.Address
	return &ImmutableAccountAddressUnlockCondition{Address: &addr}
}
func (u *ImmutableAccountAddressUnlockCondition) Equal(other UnlockCondition) bool {
	o, ok := other.(*ImmutableAccountAddressUnlockCondition)
	return ok && u.Address.Equal(o.Address)
}
func (u *ImmutableAccountAddressUnlockCondition) Compare(other UnlockCondition) int {
	return int(u.Type()) - int(other.Type())
}
func (u *ImmutableAccountAddressUnlockCondition) StorageScore(params *StorageScoreStructure) StorageScore {
	return StorageScore(1 + len(u.Address.Bytes()))
}
func (u *ImmutableAccountAddressUnlockCondition) WorkScore(*WorkScoreParameters) (WorkScore, error) {
	return 0, nil
}
