package ledger

import (
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
)

// ErrSimpleTokenSchemeMintedDecreased is returned when a token scheme's minted counter would decrease.
var ErrSimpleTokenSchemeMintedDecreased = ierrors.New("simple token scheme minted tokens field decreased")

// ErrSimpleTokenSchemeMeltedDecreased is returned when a token scheme's melted counter would decrease.
var ErrSimpleTokenSchemeMeltedDecreased = ierrors.New("simple token scheme melted tokens field decreased")

// ErrSimpleTokenSchemeMeltedExceedsMinted is returned when melted tokens would exceed minted tokens.
var ErrSimpleTokenSchemeMeltedExceedsMinted = ierrors.New("simple token scheme melted tokens exceeds minted tokens")

// ErrSimpleTokenSchemeMaximumSupplyChanged is returned when a foundry's immutable maximum supply changes across a transition.
var ErrSimpleTokenSchemeMaximumSupplyChanged = ierrors.New("simple token scheme maximum supply changed")

// ErrSimpleTokenSchemeMintingInvalid is returned when a mint operation would exceed the maximum supply.
var ErrSimpleTokenSchemeMintingInvalid = ierrors.New("simple token scheme minting exceeds maximum supply")

// ErrSimpleTokenSchemeMeltingInvalid is returned when a melt/burn operation underflows circulating supply.
var ErrSimpleTokenSchemeMeltingInvalid = ierrors.New("simple token scheme melting underflows circulating supply")

// ErrNativeTokenAmountLessThanEqualZero is returned for a non-positive native token amount.
var ErrNativeTokenAmountLessThanEqualZero = ierrors.New("native token amount must be strictly positive")

// TokenSchemeType denotes the type of a TokenScheme.
type TokenSchemeType byte

const (
	// TokenSchemeSimple denotes a SimpleTokenScheme.
	TokenSchemeSimple TokenSchemeType = iota
)

// TokenScheme defines the minting/melting rules of a foundry-controlled native token.
type TokenScheme interface {
	StorageScorer
	ProcessableObject

	Type() TokenSchemeType
	Clone() TokenScheme
	Equal(other TokenScheme) bool
}

// ChainTransitionType classifies how a chain output transitions across a transaction.
type ChainTransitionType byte

const (
	ChainTransitionTypeGenesis ChainTransitionType = iota
	ChainTransitionTypeStateChange
	ChainTransitionTypeDestroy
)

// SimpleTokenScheme is the only supported TokenScheme: it tracks cumulative minted and
// melted supply against an immutable maximum.
type SimpleTokenScheme struct {
	MintedTokens  *big.Int `serix:"0,mapKey=mintedTokens"`
	MeltedTokens  *big.Int `serix:"1,mapKey=meltedTokens"`
	MaximumSupply *big.Int `serix:"2,mapKey=maximumSupply"`
}

func (s *SimpleTokenScheme) Type() TokenSchemeType { return TokenSchemeSimple }

func (s *SimpleTokenScheme) Clone() TokenScheme {
	return &SimpleTokenScheme{
		MintedTokens:  new(big.Int).Set(s.MintedTokens),
		MeltedTokens:  new(big.Int).Set(s.MeltedTokens),
		MaximumSupply: new(big.Int).Set(s.MaximumSupply),
	}
}

func (s *SimpleTokenScheme) Equal(other TokenScheme) bool {
	o, ok := other.(*SimpleTokenScheme)
	if !ok {
		return false
	}

	return s.MintedTokens.Cmp(o.MintedTokens) == 0 &&
		s.MeltedTokens.Cmp(o.MeltedTokens) == 0 &&
		s.MaximumSupply.Cmp(o.MaximumSupply) == 0
}

func (s *SimpleTokenScheme) StorageScore(*StorageScoreStructure) StorageScore { return 3 * 32 }

func (s *SimpleTokenScheme) WorkScore(*WorkScoreParameters) (WorkScore, error) { return 0, nil }

// CirculatingSupply returns MintedTokens - MeltedTokens.
func (s *SimpleTokenScheme) CirculatingSupply() *big.Int {
	return new(big.Int).Sub(s.MintedTokens, s.MeltedTokens)
}

// StateTransition validates a foundry's token scheme transition given the native token
// amounts found in the foundry's input and output side.
//
// transType is one of ChainTransitionTypeGenesis, ChainTransitionTypeStateChange, or
// ChainTransitionTypeDestroy. inSum/outSum are the foundry-controlled native token
// amounts seen on the input/output side of the transaction (zero at genesis/destroy
// as appropriate).
func (s *SimpleTokenScheme) StateTransition(transType ChainTransitionType, next *SimpleTokenScheme, inSum *big.Int, outSum *big.Int) error {
	switch transType {
	case ChainTransitionTypeGenesis:
		return s.genesisValid(outSum)
	case ChainTransitionTypeDestroy:
		return s.destructionValid(inSum)
	default:
		return s.stateChangeValid(next, inSum, outSum)
	}
}

func (s *SimpleTokenScheme) genesisValid(outSum *big.Int) error {
	if s.MintedTokens.Cmp(outSum) != 0 {
		return ierrors.Wrapf(ErrSimpleTokenSchemeMintingInvalid, "minted tokens %s does not match newly minted supply %s", s.MintedTokens, outSum)
	}
	if s.MeltedTokens.Sign() != 0 {
		return ierrors.Wrap(ErrSimpleTokenSchemeMeltedDecreased, "melted tokens must be zero at genesis")
	}
	if s.MintedTokens.Cmp(s.MaximumSupply) > 0 {
		return ierrors.Wrap(ErrSimpleTokenSchemeMintingInvalid, "minted tokens exceeds maximum supply")
	}
	if s.MaximumSupply.Sign() <= 0 {
		return ierrors.Wrap(ErrSimpleTokenSchemeMintingInvalid, "maximum supply must be strictly positive")
	}

	return nil
}

func (s *SimpleTokenScheme) destructionValid(inSum *big.Int) error {
	circulating := s.CirculatingSupply()
	if circulating.Cmp(inSum) != 0 {
		return ierrors.Wrapf(ErrSimpleTokenSchemeMeltingInvalid, "circulating supply %s does not match burned input sum %s on destruction", circulating, inSum)
	}

	return nil
}

func (s *SimpleTokenScheme) stateChangeValid(next *SimpleTokenScheme, inSum *big.Int, outSum *big.Int) error {
	if s.MaximumSupply.Cmp(next.MaximumSupply) != 0 {
		return ErrSimpleTokenSchemeMaximumSupplyChanged
	}
	if next.MintedTokens.Cmp(s.MintedTokens) < 0 {
		return ErrSimpleTokenSchemeMintedDecreased
	}
	if next.MeltedTokens.Cmp(s.MeltedTokens) < 0 {
		return ErrSimpleTokenSchemeMeltedDecreased
	}
	if next.MeltedTokens.Cmp(next.MintedTokens) > 0 {
		return ErrSimpleTokenSchemeMeltedExceedsMinted
	}
	if next.MintedTokens.Cmp(next.MaximumSupply) > 0 {
		return ierrors.Wrap(ErrSimpleTokenSchemeMintingInvalid, "minted tokens exceeds maximum supply")
	}

	mintedDiff := new(big.Int).Sub(next.MintedTokens, s.MintedTokens)
	meltedDiff := new(big.Int).Sub(next.MeltedTokens, s.MeltedTokens)

	switch {
	case mintedDiff.Sign() > 0:
		// minting: newly minted tokens must appear in the output sum beyond the input sum.
		expectedOut := new(big.Int).Add(inSum, mintedDiff)
		if outSum.Cmp(expectedOut) != 0 {
			return ierrors.Wrapf(ErrSimpleTokenSchemeMintingInvalid, "output sum %s does not reflect minted delta %s", outSum, mintedDiff)
		}
	case meltedDiff.Sign() > 0:
		// melting: melted tokens must be removed from circulation between input and output sum.
		expectedOut := new(big.Int).Sub(inSum, meltedDiff)
		if expectedOut.Sign() < 0 || outSum.Cmp(expectedOut) != 0 {
			return ierrors.Wrapf(ErrSimpleTokenSchemeMeltingInvalid, "output sum %s does not reflect melted delta %s", outSum, meltedDiff)
		}
	default:
		if inSum.Cmp(outSum) != 0 {
			return ierrors.Wrapf(ErrSimpleTokenSchemeMintingInvalid, "no minted/melted delta but circulating sum changed: %s -> %s", inSum, outSum)
		}
	}

	return nil
}
