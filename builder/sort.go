package builder

import (
	"bytes"
	"sort"

	"github.com/ledgertx/sdk"
)

// sortInputSigningData orders selected inputs so that every chain-backed
// input (account/anchor/nft) is placed adjacent to the chain entry that
// unlocks it, and so reference/account/nft/anchor Unlocks can always point
// backward to a lower index. Plain Ed25519-unlockable inputs are sorted
// first, by their packed OutputID bytes, for a fully deterministic order.
func sortInputSigningData(inputs ledger.InputSigningDataSlice, committableSlot ledger.SlotIndex) (ledger.InputSigningDataSlice, error) {
	var ed25519Inputs, remaining ledger.InputSigningDataSlice

	for _, in := range inputs {
		addr := in.Output.UnlockConditionSet().EffectiveUnlockAddress(committableSlot)
		if _, ok := addr.(*ledger.Ed25519Address); ok {
			ed25519Inputs = append(ed25519Inputs, in)

			continue
		}
		if _, ok := addr.(*ledger.ImplicitAccountCreationAddress); ok {
			ed25519Inputs = append(ed25519Inputs, in)

			continue
		}

		remaining = append(remaining, in)
	}

	sort.Slice(ed25519Inputs, func(i, j int) bool {
		return bytes.Compare(ed25519Inputs[i].OutputID[:], ed25519Inputs[j].OutputID[:]) < 0
	})

	ordered := append(ledger.InputSigningDataSlice{}, ed25519Inputs...)

	for len(remaining) > 0 {
		progressed := false

		for i := 0; i < len(remaining); i++ {
			in := remaining[i]
			addr := in.Output.UnlockConditionSet().EffectiveUnlockAddress(committableSlot)

			ca, ok := addr.(ledger.ChainAddress)
			if !ok {
				return nil, ErrNoAddressUnlockConditionFound
			}

			chainIdx := indexOfChain(ordered, ca.Chain())
			if chainIdx < 0 {
				// the controlling chain input hasn't been placed yet; try it on a later pass.
				continue
			}

			insertAt := chainIdx + 1
			ordered = append(ordered[:insertAt], append(ledger.InputSigningDataSlice{in}, ordered[insertAt:]...)...)
			remaining = append(remaining[:i], remaining[i+1:]...)
			progressed = true

			break
		}

		if !progressed {
			// none of the remaining inputs' controlling chains are placed yet: their
			// controlling chain input must itself be among remaining, so place the
			// first one directly and let subsequent passes catch up to it.
			ordered = append(ordered, remaining[0])
			remaining = remaining[1:]
		}
	}

	return ordered, nil
}

// indexOfChain returns the index within ordered of the input whose own chain
// id matches chainID, or -1.
func indexOfChain(ordered ledger.InputSigningDataSlice, chainID ledger.ChainID) int {
	for i, in := range ordered {
		if sid := in.ChainID(); sid != nil && sid.Matches(chainID) {
			return i
		}
	}

	return -1
}
