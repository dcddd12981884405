package ledger

import (
	"sort"

	"github.com/iotaledger/hive.go/core/safemath"
)

// Allotment allots a fixed amount of mana from a transaction's mana pool to a
// specific account's block issuance credit balance, burning it in the process.
type Allotment struct {
	AccountID AccountID `serix:"0,mapKey=accountId"`
	Mana      Mana      `serix:"1,mapKey=mana"`
}

// Allotments is a slice of Allotment(s), sorted by AccountID.
type Allotments []*Allotment

// Sort orders the slice by AccountID ascending, the order required on the wire.
func (a Allotments) Sort() {
	sort.Slice(a, func(i, j int) bool {
		return string(a[i].AccountID[:]) < string(a[j].AccountID[:])
	})
}

// Sum returns the total mana allotted across all entries, checking for overflow.
func (a Allotments) Sum() (Mana, error) {
	var sum Mana
	for _, al := range a {
		var err error
		sum, err = safemath.SafeAdd(sum, al.Mana)
		if err != nil {
			return 0, err
		}
	}

	return sum, nil
}

// Get returns the allotment for accountID, or nil.
func (a Allotments) Get(accountID AccountID) *Allotment {
	for _, al := range a {
		if al.AccountID == accountID {
			return al
		}
	}

	return nil
}

func (a Allotments) Size() int {
	return 1 + len(a)*(AccountIDLength+8)
}
