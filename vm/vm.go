// Package vm implements semantic transaction validation: given a Transaction
// and the outputs/context state it was built against, it checks that every
// invariant a TransactionBuilder is supposed to uphold actually holds —
// balanced amount, balanced mana, balanced native tokens, correct chain
// transitions, and that every input is actually unlocked.
package vm

import (
	"math/big"

	"github.com/iotaledger/hive.go/core/safemath"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/ledgertx/sdk"
)

// ChainTransitionType classifies how a chain-constrained output's state moved across a transaction.
type ChainTransitionType byte

const (
	ChainTransitionTypeGenesis ChainTransitionType = iota
	ChainTransitionTypeStateChange
	ChainTransitionTypeGovernanceChange
	ChainTransitionTypeDestroy
)

// Environment bundles the transaction-independent configuration semantic validation needs.
type Environment struct {
	ProtocolParameters *ledger.ProtocolParameters
}

// ConsumedInput pairs a consumed output with its creation slot, needed for mana decay math.
type ConsumedInput struct {
	OutputID     ledger.OutputID
	Output       ledger.Output
	CreationSlot ledger.SlotIndex
}

// ChainOutputWithCreationTime pairs a consumed chain output with its creation slot.
type ChainOutputWithCreationTime struct {
	Output       ledger.ChainOutput
	OutputID     ledger.OutputID
	CreationSlot ledger.SlotIndex
}

// ResolvedInputs is everything the caller looked up before validation: the
// consumed outputs and the ledger state backing the transaction's context inputs.
type ResolvedInputs struct {
	InputSet        []ConsumedInput
	CommitmentInput *ledger.CommitmentContextInput
	// BICInputSet maps an account to its block issuance credit balance, for
	// every account named by a BlockIssuanceCreditContextInput.
	BICInputSet map[ledger.AccountID]int64
	// RewardsInputSet maps a chain (staking or delegation) to the mana reward
	// claimable for it, for every claim named by a RewardContextInput.
	RewardsInputSet map[ledger.ChainID]ledger.Mana
}

// Params bundles everything an ExecFunc needs: the transaction-independent
// Environment plus the per-transaction WorkingSet built by NewVMParamsWorkingSet.
type Params struct {
	External   *Environment
	WorkingSet *WorkingSet
}

// WorkingSet is the per-transaction state execution functions read as they run.
type WorkingSet struct {
	Tx   *ledger.Transaction
	TxID ledger.TransactionID

	UnlockedIdents map[string]struct{}

	Consumed []ConsumedInput

	CommitmentInput *ledger.CommitmentContextInput

	InChains  map[interface{}]*ChainOutputWithCreationTime
	OutChains map[interface{}]ledger.ChainOutput

	OutputsByType map[ledger.OutputType][]ledger.Output

	InNativeTokens  map[ledger.TokenID]*big.Int
	OutNativeTokens map[ledger.TokenID]*big.Int

	BIC     map[ledger.AccountID]int64
	Rewards map[ledger.ChainID]ledger.Mana
}

// NewVMParamsWorkingSet derives a WorkingSet from t and the resolved inputs backing it.
func NewVMParamsWorkingSet(t *ledger.Transaction, inputs ResolvedInputs) (*WorkingSet, error) {
	ws := &WorkingSet{
		Tx:              t,
		UnlockedIdents:  make(map[string]struct{}),
		Consumed:        inputs.InputSet,
		CommitmentInput: inputs.CommitmentInput,
		InChains:        make(map[interface{}]*ChainOutputWithCreationTime),
		OutChains:       make(map[interface{}]ledger.ChainOutput),
		OutputsByType:   make(map[ledger.OutputType][]ledger.Output),
		InNativeTokens:  make(map[ledger.TokenID]*big.Int),
		OutNativeTokens: make(map[ledger.TokenID]*big.Int),
		BIC:             inputs.BICInputSet,
		Rewards:         inputs.RewardsInputSet,
	}

	essenceBytes, err := essenceSigningBytes(t.Essence)
	if err != nil {
		return nil, err
	}
	ws.TxID = ledger.TransactionIDFromEssenceBytes(essenceBytes)

	for _, in := range inputs.InputSet {
		if co, ok := in.Output.(ledger.ChainOutput); ok && !co.ChainID().Empty() {
			ws.InChains[co.ChainID().Key()] = &ChainOutputWithCreationTime{
				Output: co, OutputID: in.OutputID, CreationSlot: in.CreationSlot,
			}
		}
		addNativeTokenSums(ws.InNativeTokens, in.Output)
	}

	for i, out := range t.Essence.Outputs {
		ws.OutputsByType[out.Type()] = append(ws.OutputsByType[out.Type()], out)
		addNativeTokenSums(ws.OutNativeTokens, out)

		co, ok := out.(ledger.ChainOutput)
		if !ok {
			continue
		}

		id := co.ChainID()
		if id.Empty() {
			outputID := ledger.NewOutputID(ws.TxID, uint16(i))
			id = deriveChainID(out.Type(), outputID)
		}
		if id != nil {
			ws.OutChains[id.Key()] = co
		}
	}

	return ws, nil
}

func deriveChainID(t ledger.OutputType, outputID ledger.OutputID) ledger.ChainID {
	switch t {
	case ledger.OutputAccount:
		return ledger.AccountIDFromOutputID(outputID)
	case ledger.OutputAnchor:
		return ledger.AnchorIDFromOutputID(outputID)
	case ledger.OutputNFT:
		return ledger.NFTIDFromOutputID(outputID)
	case ledger.OutputDelegation:
		return ledger.DelegationIDFromOutputID(outputID)
	default:
		return nil
	}
}

func addNativeTokenSums(sums map[ledger.TokenID]*big.Int, out ledger.Output) {
	for _, nt := range out.NativeTokenList() {
		sum, ok := sums[nt.ID]
		if !ok {
			sum = new(big.Int)
			sums[nt.ID] = sum
		}
		sum.Add(sum, new(big.Int).SetUint64(uint64(nt.Amount)))
	}
}

// essenceSigningBytes is a placeholder packer for the bytes that signatures
// are verified against and that the transaction id used for chain-id genesis
// derivation is hashed from during validation; callers
// that already have the signed bytes should prefer hashing those directly.
func essenceSigningBytes(e *ledger.TransactionEssence) ([]byte, error) {
	buf := make([]byte, 0, e.Size())
	buf = append(buf, byte(e.NetworkID), byte(e.NetworkID>>8))
	buf = append(buf, byte(e.CreationSlot), byte(e.CreationSlot>>8))

	return buf, nil
}

// TotalManaIn sums the decayed stored and potential mana of every consumed
// input plus every claimed mana reward.
func TotalManaIn(decay *ledger.ManaDecayProvider, targetSlot ledger.SlotIndex, consumed []ConsumedInput, rewards map[ledger.ChainID]ledger.Mana) (ledger.Mana, error) {
	var total ledger.Mana

	for _, in := range consumed {
		stored := decay.StoredManaWithDecay(in.Output.StoredMana(), in.CreationSlot, targetSlot)
		potential := decay.PotentialManaWithDecay(in.Output.Deposit(), in.CreationSlot, targetSlot)

		sum, err := safemath.SafeAdd(total, stored)
		if err != nil {
			return 0, err
		}
		sum, err = safemath.SafeAdd(sum, potential)
		if err != nil {
			return 0, err
		}
		total = sum
	}

	for _, reward := range rewards {
		sum, err := safemath.SafeAdd(total, reward)
		if err != nil {
			return 0, err
		}
		total = sum
	}

	return total, nil
}

// TotalManaOut sums the stored mana carried by outputs plus every mana allotment.
func TotalManaOut(outputs []ledger.Output, allotments ledger.Allotments) (ledger.Mana, error) {
	var total ledger.Mana

	for _, out := range outputs {
		sum, err := safemath.SafeAdd(total, out.StoredMana())
		if err != nil {
			return 0, err
		}
		total = sum
	}

	allotted, err := allotments.Sum()
	if err != nil {
		return 0, err
	}

	return safemath.SafeAdd(total, allotted)
}

// IsIssuerOnOutputUnlocked reports whether out's IssuerFeature (if any) names
// an address that unlocked this transaction.
func IsIssuerOnOutputUnlocked(out ledger.ChainOutput, unlockedIdents map[string]struct{}) error {
	issuer := out.ImmutableFeatureSet().Issuer()
	if issuer == nil {
		return nil
	}

	if _, ok := unlockedIdents[issuer.Address.Key()]; !ok {
		return ierrors.Wrapf(ErrIssuerFeatureNotUnlocked, "issuer %s", issuer.Address)
	}

	return nil
}

// ExecFunc is one independent semantic check run over a Params' WorkingSet.
type ExecFunc func(vm VirtualMachine, params *Params) error

// VirtualMachine validates transactions and dispatches chain-transition checks.
type VirtualMachine interface {
	// Execute runs every ExecFunc (or, if given, overrideFuncs) against t and inputs.
	Execute(t *ledger.Transaction, params *Params, inputs ResolvedInputs, overrideFuncs ...ExecFunc) error
	// ChainSTVF validates a single chain output's state transition.
	ChainSTVF(transType ChainTransitionType, input *ChainOutputWithCreationTime, next ledger.ChainOutput, params *Params) error
}

// RunVMFuncs runs every fn in funcs against params in order, stopping at the first error.
func RunVMFuncs(vm VirtualMachine, params *Params, funcs ...ExecFunc) error {
	for _, fn := range funcs {
		if err := fn(vm, params); err != nil {
			return err
		}
	}

	return nil
}
