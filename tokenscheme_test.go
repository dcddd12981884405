package ledger_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgertx/sdk"
)

func simpleScheme(minted, melted, max int64) *ledger.SimpleTokenScheme {
	return &ledger.SimpleTokenScheme{
		MintedTokens:  big.NewInt(minted),
		MeltedTokens:  big.NewInt(melted),
		MaximumSupply: big.NewInt(max),
	}
}

func TestSimpleTokenSchemeGenesis(t *testing.T) {
	s := simpleScheme(500, 0, 1000)
	assert.NoError(t, s.StateTransition(ledger.ChainTransitionTypeGenesis, nil, big.NewInt(0), big.NewInt(500)))
}

func TestSimpleTokenSchemeGenesisRejectsMismatchedOutSum(t *testing.T) {
	s := simpleScheme(500, 0, 1000)
	assert.Error(t, s.StateTransition(ledger.ChainTransitionTypeGenesis, nil, big.NewInt(0), big.NewInt(400)))
}

func TestSimpleTokenSchemeGenesisRejectsMintedOverMaximum(t *testing.T) {
	s := simpleScheme(1500, 0, 1000)
	assert.Error(t, s.StateTransition(ledger.ChainTransitionTypeGenesis, nil, big.NewInt(0), big.NewInt(1500)))
}

func TestSimpleTokenSchemeMintIncreasesOutputSum(t *testing.T) {
	current := simpleScheme(500, 0, 1000)
	next := simpleScheme(700, 0, 1000)

	// 200 newly minted tokens must show up beyond whatever circulated in.
	assert.NoError(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(300), big.NewInt(500)))
	assert.Error(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(300), big.NewInt(499)))
}

func TestSimpleTokenSchemeMeltDecreasesOutputSum(t *testing.T) {
	current := simpleScheme(500, 0, 1000)
	next := simpleScheme(500, 200, 1000)

	assert.NoError(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(300), big.NewInt(100)))
	assert.Error(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(300), big.NewInt(101)))
}

func TestSimpleTokenSchemeRejectsMaximumSupplyChange(t *testing.T) {
	current := simpleScheme(500, 0, 1000)
	next := simpleScheme(500, 0, 2000)

	assert.ErrorIs(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(500), big.NewInt(500)), ledger.ErrSimpleTokenSchemeMaximumSupplyChanged)
}

func TestSimpleTokenSchemeRejectsMintedDecrease(t *testing.T) {
	current := simpleScheme(500, 0, 1000)
	next := simpleScheme(400, 0, 1000)

	assert.ErrorIs(t, current.StateTransition(ledger.ChainTransitionTypeStateChange, next, big.NewInt(500), big.NewInt(400)), ledger.ErrSimpleTokenSchemeMintedDecreased)
}

func TestSimpleTokenSchemeDestructionRequiresFullBurn(t *testing.T) {
	s := simpleScheme(500, 100, 1000)

	// circulating supply is 400; destroying the foundry must burn exactly that much.
	assert.NoError(t, s.StateTransition(ledger.ChainTransitionTypeDestroy, nil, big.NewInt(400), big.NewInt(0)))
	assert.Error(t, s.StateTransition(ledger.ChainTransitionTypeDestroy, nil, big.NewInt(300), big.NewInt(0)))
}

func TestSimpleTokenSchemeCirculatingSupply(t *testing.T) {
	s := simpleScheme(500, 150, 1000)
	assert.Equal(t, big.NewInt(350), s.CirculatingSupply())
}
