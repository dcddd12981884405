package ledger

import "github.com/iotaledger/hive.go/core/safemath"

// Mana is the ledger's second, time-decayed currency.
type Mana uint64

// ManaDecayProvider decays stored and potential mana between two slots using the
// protocol's per-epoch decay factor table, and computes mana generated by holding
// a BaseToken balance over time. It is a straightforward factor-table lookup
// rather than the original's fixed-point shift arithmetic — see DESIGN.md.
type ManaDecayProvider struct {
	timeProvider               *TimeProvider
	slotsPerEpochExponent      uint8
	generationRate             uint8
	generationRateExponent     uint8
	decayFactors               []uint32
	decayFactorsExponent       uint8
	decayFactorEpochsSum       uint32
	decayFactorEpochsSumExponent uint8
}

// NewManaDecayProvider returns a new ManaDecayProvider.
func NewManaDecayProvider(
	timeProvider *TimeProvider,
	slotsPerEpochExponent uint8,
	generationRate uint8,
	generationRateExponent uint8,
	decayFactors []uint32,
	decayFactorsExponent uint8,
	decayFactorEpochsSum uint32,
	decayFactorEpochsSumExponent uint8,
) *ManaDecayProvider {
	return &ManaDecayProvider{
		timeProvider:                 timeProvider,
		slotsPerEpochExponent:        slotsPerEpochExponent,
		generationRate:               generationRate,
		generationRateExponent:       generationRateExponent,
		decayFactors:                 decayFactors,
		decayFactorsExponent:         decayFactorsExponent,
		decayFactorEpochsSum:         decayFactorEpochsSum,
		decayFactorEpochsSumExponent: decayFactorEpochsSumExponent,
	}
}

// decayFactorAt returns the decay factor (scaled by 2^decayFactorsExponent) for an
// epoch delta, clamped to the last tabulated entry for deltas beyond the table.
func (m *ManaDecayProvider) decayFactorAt(epochDiff EpochIndex) uint32 {
	if epochDiff == 0 || len(m.decayFactors) == 0 {
		return 1 << m.decayFactorsExponent
	}
	idx := int(epochDiff) - 1
	if idx >= len(m.decayFactors) {
		idx = len(m.decayFactors) - 1
	}

	return m.decayFactors[idx]
}

// StoredManaWithDecay returns storedMana decayed from creationSlot to targetSlot.
func (m *ManaDecayProvider) StoredManaWithDecay(storedMana Mana, creationSlot, targetSlot SlotIndex) Mana {
	if targetSlot < creationSlot || storedMana == 0 {
		return storedMana
	}

	epochDiff := m.timeProvider.EpochFromSlot(targetSlot) - m.timeProvider.EpochFromSlot(creationSlot)
	factor := m.decayFactorAt(epochDiff)

	decayed := (uint64(storedMana) * uint64(factor)) >> m.decayFactorsExponent

	return Mana(decayed)
}

// PotentialManaWithDecay returns the mana generated by holding amount from
// creationSlot to targetSlot, already decayed to targetSlot.
func (m *ManaDecayProvider) PotentialManaWithDecay(amount BaseToken, creationSlot, targetSlot SlotIndex) Mana {
	if targetSlot <= creationSlot || amount == 0 {
		return 0
	}

	slotsHeld := uint64(targetSlot - creationSlot)
	generated := (uint64(amount) * uint64(m.generationRate) * slotsHeld) >> m.generationRateExponent

	epochDiff := m.timeProvider.EpochFromSlot(targetSlot) - m.timeProvider.EpochFromSlot(creationSlot)
	factor := m.decayFactorAt(epochDiff)

	return Mana((generated * uint64(factor)) >> m.decayFactorsExponent)
}

// AddMana adds two mana values, checking for overflow.
func AddMana(a, b Mana) (Mana, error) {
	return safemath.SafeAdd(a, b)
}

// SubMana subtracts b from a, checking for underflow.
func SubMana(a, b Mana) (Mana, error) {
	return safemath.SafeSub(a, b)
}
