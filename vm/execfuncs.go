package vm

import (
	"crypto/ed25519"
	"math/big"

	"github.com/iotaledger/hive.go/ierrors"
	"golang.org/x/crypto/blake2b"

	"github.com/ledgertx/sdk"
)

// ExecFuncTimelocks rejects any consumed input still under an unexpired TimelockUnlockCondition.
func ExecFuncTimelocks() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		slot := params.WorkingSet.Tx.Essence.CreationSlot

		for _, in := range params.WorkingSet.Consumed {
			tl := in.Output.UnlockConditionSet().Timelock()
			if tl == nil {
				continue
			}
			if params.External.ProtocolParameters == nil {
				return ErrMissingCommitmentForTimelock
			}
			if slot < tl.SlotIndex {
				return ierrors.Wrapf(ErrTimelockNotExpired, "output %s locked until slot %d, tx at %d", in.OutputID, tl.SlotIndex, slot)
			}
		}

		return nil
	}
}

// ExecFuncInputUnlocks verifies that every consumed input's positional Unlock
// actually authorizes spending it: a SignatureUnlock's signature validates
// under the input's effective unlock address, or a Reference/Account/Anchor/NFT
// unlock points at an earlier input carrying the same (or chain-matching) address.
func ExecFuncInputUnlocks() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		ws := params.WorkingSet
		slot := ws.Tx.Essence.CreationSlot

		essenceBytes, err := essenceSigningBytes(ws.Tx.Essence)
		if err != nil {
			return err
		}

		addressAt := make([]ledger.Address, len(ws.Consumed))

		for i, in := range ws.Consumed {
			if i >= len(ws.Tx.Unlocks) {
				return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d has no matching unlock", i)
			}

			effective := in.Output.UnlockConditionSet().EffectiveUnlockAddress(slot)
			if effective == nil {
				return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d has no unlockable address", i)
			}
			addressAt[i] = effective

			unlock := ws.Tx.Unlocks[i]

			switch u := unlock.(type) {
			case *ledger.SignatureUnlock:
				edAddr, ok := effective.(*ledger.Ed25519Address)
				if !ok {
					return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d needs a reference-style unlock, got signature", i)
				}
				if blake2b.Sum256(u.Signature.PublicKey[:]) != *edAddr {
					return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d signature public key does not match address", i)
				}
				if !ed25519.Verify(u.Signature.PublicKey[:], essenceBytes, u.Signature.Signature[:]) {
					return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d signature does not validate", i)
				}
				ws.UnlockedIdents[edAddr.Key()] = struct{}{}

			case *ledger.ReferenceUnlock:
				if int(u.Reference) >= i || addressAt[u.Reference] == nil {
					return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d reference unlock points forward or to unresolved index", i)
				}
				if !addressAt[u.Reference].Equal(effective) {
					return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d reference unlock address mismatch", i)
				}

			case *ledger.AccountUnlock:
				if err := checkChainUnlock(ws, addressAt, i, int(u.Reference), effective); err != nil {
					return err
				}

			case *ledger.AnchorUnlock:
				if err := checkChainUnlock(ws, addressAt, i, int(u.Reference), effective); err != nil {
					return err
				}

			case *ledger.NFTUnlock:
				if err := checkChainUnlock(ws, addressAt, i, int(u.Reference), effective); err != nil {
					return err
				}

			default:
				return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d has unknown unlock type", i)
			}
		}

		return nil
	}
}

// checkChainUnlock verifies that the input at reference is the chain output
// whose chain address equals effective, and marks that chain address unlocked.
func checkChainUnlock(ws *WorkingSet, addressAt []ledger.Address, i, reference int, effective ledger.Address) error {
	if reference >= i || reference >= len(ws.Consumed) {
		return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d chain unlock points forward or out of range", i)
	}

	co, ok := ws.Consumed[reference].Output.(ledger.ChainOutput)
	if !ok {
		return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d chain unlock references a non-chain input", i)
	}

	ca, ok := effective.(ledger.ChainAddress)
	if !ok || !ca.Chain().Matches(co.ChainID()) {
		return ierrors.Wrapf(ErrInputUnlockInvalid, "input %d chain unlock does not match referenced chain", i)
	}

	ws.UnlockedIdents[effective.Key()] = struct{}{}

	return nil
}

// ExecFuncSenderUnlocked verifies that every output carrying a SenderFeature
// names an address that actually unlocked this transaction's inputs.
func ExecFuncSenderUnlocked() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		for _, out := range params.WorkingSet.Tx.Essence.Outputs {
			sender := out.FeatureSet().SenderFeature()
			if sender == nil {
				continue
			}
			if _, ok := params.WorkingSet.UnlockedIdents[sender.Address.Key()]; !ok {
				return ierrors.Wrapf(ErrSenderFeatureNotUnlocked, "sender %s", sender.Address)
			}
		}

		return nil
	}
}

// ExecFuncBalancedDeposit verifies that consumed base-token deposits equal produced ones.
func ExecFuncBalancedDeposit() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		var in, out ledger.BaseToken

		for _, c := range params.WorkingSet.Consumed {
			in += c.Output.Deposit()
		}
		for _, o := range params.WorkingSet.Tx.Essence.Outputs {
			out += o.Deposit()
		}

		if in != out {
			return ierrors.Wrapf(ErrInputOutputBaseTokenMismatch, "in %d out %d", in, out)
		}

		return nil
	}
}

// ExecFuncBalancedNativeTokens verifies that every native token's input and
// output sums agree, unless a foundry transition for that token authorizes a change.
func ExecFuncBalancedNativeTokens() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		ws := params.WorkingSet

		ids := make(map[ledger.TokenID]struct{})
		for id := range ws.InNativeTokens {
			ids[id] = struct{}{}
		}
		for id := range ws.OutNativeTokens {
			ids[id] = struct{}{}
		}

		for id := range ids {
			in := ws.InNativeTokens[id]
			if in == nil {
				in = new(big.Int)
			}
			out := ws.OutNativeTokens[id]
			if out == nil {
				out = new(big.Int)
			}

			if in.Cmp(out) == 0 {
				continue
			}

			foundryID := ledger.FoundryID(id[:ledger.FoundryIDLength])
			if _, hasFoundry := ws.InChains[foundryID.Key()]; hasFoundry {
				continue
			}
			if _, hasFoundry := ws.OutChains[foundryID.Key()]; hasFoundry {
				continue
			}

			if in.Cmp(out) > 0 && ws.Tx.Essence.Capabilities.Has(ledger.CapabilityBurnNativeTokens) {
				continue
			}

			return ierrors.Wrapf(ErrNativeTokenSumUnbalanced, "token %s in %s out %s", id, in, out)
		}

		return nil
	}
}

// ExecFuncBalancedMana verifies that the decayed mana of consumed inputs plus
// claimed rewards covers the mana carried by produced outputs plus allotments,
// and that any surplus is burned only with CapabilityBurnMana granted.
func ExecFuncBalancedMana() ExecFunc {
	return func(_ VirtualMachine, params *Params) error {
		ws := params.WorkingSet
		decay := params.External.ProtocolParameters.ManaDecayProvider()

		manaIn, err := TotalManaIn(decay, ws.Tx.Essence.CreationSlot, ws.Consumed, ws.Rewards)
		if err != nil {
			return err
		}
		manaOut, err := TotalManaOut(ws.Tx.Essence.Outputs, ws.Tx.Essence.Allotments)
		if err != nil {
			return err
		}

		if manaIn < manaOut {
			return ierrors.Wrapf(ErrInputOutputManaMismatch, "in %d out %d", manaIn, manaOut)
		}

		if manaIn > manaOut && !ws.Tx.Essence.Capabilities.Has(ledger.CapabilityBurnMana) {
			return ierrors.Wrapf(ErrManaBurnedWithoutCapability, "surplus %d", manaIn-manaOut)
		}

		return nil
	}
}

// ExecFuncChainTransitions dispatches ChainSTVF for every chain referenced by
// either a consumed or a produced output, covering genesis, state/governance change, and destruction.
func ExecFuncChainTransitions() ExecFunc {
	return func(machine VirtualMachine, params *Params) error {
		ws := params.WorkingSet

		seen := make(map[interface{}]struct{})

		for key, in := range ws.InChains {
			seen[key] = struct{}{}

			next, stillExists := ws.OutChains[key]
			if !stillExists {
				if err := machine.ChainSTVF(ChainTransitionTypeDestroy, in, nil, params); err != nil {
					return err
				}

				continue
			}

			// an account transition that leaves Amount and FoundryCounter untouched
			// only moves the controller addresses or features: governance, not state.
			transType := ChainTransitionTypeStateChange
			if ao, ok := in.Output.(*ledger.AccountOutput); ok {
				if no, ok := next.(*ledger.AccountOutput); ok && ao.Amount == no.Amount && ao.FoundryCounter == no.FoundryCounter {
					transType = ChainTransitionTypeGovernanceChange
				}
			}
			if anchorIn, ok := in.Output.(*ledger.AnchorOutput); ok {
				if anchorNext, ok := next.(*ledger.AnchorOutput); ok && anchorIn.StateIndex == anchorNext.StateIndex {
					transType = ChainTransitionTypeGovernanceChange
				}
			}

			if err := machine.ChainSTVF(transType, in, next, params); err != nil {
				return err
			}
		}

		for key, out := range ws.OutChains {
			if _, already := seen[key]; already {
				continue
			}

			if err := machine.ChainSTVF(ChainTransitionTypeGenesis, nil, out, params); err != nil {
				return err
			}
		}

		return nil
	}
}
