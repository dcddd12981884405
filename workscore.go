package ledger

import (
	"github.com/iotaledger/hive.go/core/safemath"
	"github.com/iotaledger/hive.go/ierrors"
)

// WorkScore denotes the computation cost of processing an object.
type WorkScore uint32

// Add adds in to this work score, checking for overflow.
func (w WorkScore) Add(in ...WorkScore) (WorkScore, error) {
	result := w
	for _, s := range in {
		var err error
		result, err = safemath.SafeAdd(result, s)
		if err != nil {
			return 0, ierrors.Wrap(err, "failed to add work score")
		}
	}

	return result, nil
}

// Multiply multiplies this work score by in, checking for overflow.
func (w WorkScore) Multiply(in int) (WorkScore, error) {
	result, err := safemath.SafeMul(w, WorkScore(in))
	if err != nil {
		return 0, ierrors.Wrap(err, "failed to multiply work score")
	}

	return result, nil
}

// WorkScoreParameters is the protocol-supplied cost table for each kind of processing step.
type WorkScoreParameters struct {
	DataByte      WorkScore `serix:"0,mapKey=dataByte"`
	Block         WorkScore `serix:"1,mapKey=block"`
	Input         WorkScore `serix:"2,mapKey=input"`
	ContextInput  WorkScore `serix:"3,mapKey=contextInput"`
	Output        WorkScore `serix:"4,mapKey=output"`
	NativeToken   WorkScore `serix:"5,mapKey=nativeToken"`
	Staking       WorkScore `serix:"6,mapKey=staking"`
	BlockIssuer   WorkScore `serix:"7,mapKey=blockIssuer"`
	Allotment     WorkScore `serix:"8,mapKey=allotment"`
	SignatureEd25519 WorkScore `serix:"9,mapKey=signatureEd25519"`
}

// ProcessableObject is implemented by anything with a work-score cost.
type ProcessableObject interface {
	WorkScore(params *WorkScoreParameters) (WorkScore, error)
}

// TransactionWorkScore computes the work score of a fully assembled transaction,
// used to size the automatic minimum-mana allotment (see TransactionBuilder.WithMinManaAllotment in the builder package).
func TransactionWorkScore(params *WorkScoreParameters, numInputs, numContextInputs, numOutputs, numAllotments, numSignatures int, nativeTokenCount int, essenceByteLen int) (WorkScore, error) {
	score := params.Block

	inputScore, err := params.Input.Multiply(numInputs)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(inputScore); err != nil {
		return 0, err
	}

	contextInputScore, err := params.ContextInput.Multiply(numContextInputs)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(contextInputScore); err != nil {
		return 0, err
	}

	outputScore, err := params.Output.Multiply(numOutputs)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(outputScore); err != nil {
		return 0, err
	}

	nativeTokenScore, err := params.NativeToken.Multiply(nativeTokenCount)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(nativeTokenScore); err != nil {
		return 0, err
	}

	allotmentScore, err := params.Allotment.Multiply(numAllotments)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(allotmentScore); err != nil {
		return 0, err
	}

	sigScore, err := params.SignatureEd25519.Multiply(numSignatures)
	if err != nil {
		return 0, err
	}
	if score, err = score.Add(sigScore); err != nil {
		return 0, err
	}

	dataScore, err := params.DataByte.Multiply(essenceByteLen)
	if err != nil {
		return 0, err
	}

	return score.Add(dataScore)
}
