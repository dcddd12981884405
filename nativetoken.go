package ledger

import (
	"bytes"
	"sort"

	"github.com/iotaledger/hive.go/core/safemath"
	"github.com/iotaledger/hive.go/ierrors"
)

// ErrNativeTokenSumExceedsUint256 is returned when native token amounts overflow their 256-bit representation.
var ErrNativeTokenSumExceedsUint256 = ierrors.New("native token sum exceeds uint256 max")

// ErrNonUniqueNativeTokens gets returned when multiple NativeToken(s) with the same ID occur in a set.
var ErrNonUniqueNativeTokens = ierrors.New("non unique native tokens within outputs")

// NativeToken pins a specific amount of a token identified by TokenID to an output.
type NativeToken struct {
	ID     TokenID   `serix:"0,mapKey=id"`
	Amount BaseToken `serix:"1,mapKey=amount"`
}

// NativeTokens is a slice of NativeToken, ordered by ID.
type NativeTokens []*NativeToken

func (n NativeTokens) Clone() NativeTokens {
	cpy := make(NativeTokens, len(n))
	for i, t := range n {
		cpy[i] = &NativeToken{ID: t.ID, Amount: t.Amount}
	}

	return cpy
}

// Sort orders the slice by TokenID ascending.
func (n NativeTokens) Sort() {
	sort.Slice(n, func(i, j int) bool { return bytes.Compare(n[i].ID[:], n[j].ID[:]) < 0 })
}

// Set converts the slice into a map keyed by TokenID, erroring on duplicates.
func (n NativeTokens) Set() (map[TokenID]*NativeToken, error) {
	set := make(map[TokenID]*NativeToken, len(n))
	for _, t := range n {
		if _, has := set[t.ID]; has {
			return nil, ErrNonUniqueNativeTokens
		}
		set[t.ID] = t
	}

	return set, nil
}

func (n NativeTokens) StorageScore(*StorageScoreStructure) StorageScore {
	return StorageScore(len(n)) * StorageScore(len(TokenID{})+8)
}

// Size returns the packed byte size of the slice: a 1-byte length prefix plus
// a fixed-size id and amount per entry.
func (n NativeTokens) Size() int {
	size := 1
	for range n {
		size += len(TokenID{}) + 32
	}

	return size
}

func (n NativeTokens) WorkScore(params *WorkScoreParameters) (WorkScore, error) {
	return params.NativeToken.Multiply(len(n))
}

// Equal reports whether n and other carry the same set of token id/amount pairs, order-independent.
func (n NativeTokens) Equal(other NativeTokens) bool {
	if len(n) != len(other) {
		return false
	}

	set, err := n.Set()
	if err != nil {
		return false
	}
	otherSet, err := other.Set()
	if err != nil {
		return false
	}

	for id, t := range set {
		o, ok := otherSet[id]
		if !ok || o.Amount != t.Amount {
			return false
		}
	}

	return true
}

// Sum folds the native token amounts of multiple sets by token id, checking for overflow.
func Sum(tokenSets ...map[TokenID]*NativeToken) (map[TokenID]BaseToken, error) {
	sum := make(map[TokenID]BaseToken)
	for _, set := range tokenSets {
		for id, t := range set {
			cur := sum[id]
			next, err := safemath.SafeAdd(cur, t.Amount)
			if err != nil {
				return nil, ierrors.Wrapf(err, "native token %s overflowed while summing", id)
			}
			sum[id] = next
		}
	}

	return sum, nil
}
