package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgertx/sdk"
	"github.com/ledgertx/sdk/tpkg"
)

func TestNativeTokensEqual(t *testing.T) {
	a := tpkg.RandTokenID()
	b := tpkg.RandTokenID()

	one := ledger.NativeTokens{{ID: a, Amount: 100}, {ID: b, Amount: 200}}
	reordered := ledger.NativeTokens{{ID: b, Amount: 200}, {ID: a, Amount: 100}}

	assert.True(t, one.Equal(reordered))
}

func TestNativeTokensEqualDetectsAmountMismatch(t *testing.T) {
	id := tpkg.RandTokenID()

	one := ledger.NativeTokens{{ID: id, Amount: 100}}
	other := ledger.NativeTokens{{ID: id, Amount: 101}}

	assert.False(t, one.Equal(other))
}

func TestNativeTokensEqualDetectsLengthMismatch(t *testing.T) {
	id := tpkg.RandTokenID()

	one := ledger.NativeTokens{{ID: id, Amount: 100}}
	assert.False(t, one.Equal(ledger.NativeTokens{}))
}

func TestNativeTokensEqualRejectsDuplicateIDs(t *testing.T) {
	id := tpkg.RandTokenID()

	withDup := ledger.NativeTokens{{ID: id, Amount: 50}, {ID: id, Amount: 50}}
	other := ledger.NativeTokens{{ID: id, Amount: 50}, {ID: tpkg.RandTokenID(), Amount: 50}}

	// Both sides hold two entries, so the length check passes and Set() is reached;
	// Set() fails on a duplicate id, so Equal must treat it as unequal rather than panic.
	assert.False(t, withDup.Equal(other))
}

func TestNativeTokensSum(t *testing.T) {
	id := tpkg.RandTokenID()

	setA, err := ledger.NativeTokens{{ID: id, Amount: 100}}.Set()
	assert.NoError(t, err)
	setB, err := ledger.NativeTokens{{ID: id, Amount: 50}}.Set()
	assert.NoError(t, err)

	sum, err := ledger.Sum(setA, setB)
	assert.NoError(t, err)
	assert.Equal(t, ledger.BaseToken(150), sum[id])
}
