package ledger

// SlotIndex is a discrete time index used for timelocks, expirations, and commitments.
type SlotIndex uint64

// EpochIndex is a discrete epoch index; an epoch spans 2^SlotsPerEpochExponent slots.
type EpochIndex uint64

// MaxEpochIndex is used as a sentinel "unbounded" end epoch for staking features.
const MaxEpochIndex = EpochIndex(^uint64(0))

// TimeProvider converts between unix time and slot/epoch indices.
type TimeProvider struct {
	genesisUnixTime       int64
	slotDurationSeconds   int64
	slotsPerEpochExponent uint8
}

// NewTimeProvider returns a new TimeProvider.
func NewTimeProvider(genesisUnixTime int64, slotDurationSeconds int64, slotsPerEpochExponent uint8) *TimeProvider {
	return &TimeProvider{
		genesisUnixTime:       genesisUnixTime,
		slotDurationSeconds:   slotDurationSeconds,
		slotsPerEpochExponent: slotsPerEpochExponent,
	}
}

// SlotFromUnixTime returns the slot index containing the given unix time.
func (t *TimeProvider) SlotFromUnixTime(unixTime int64) SlotIndex {
	if unixTime < t.genesisUnixTime {
		return 0
	}

	return SlotIndex((unixTime - t.genesisUnixTime) / t.slotDurationSeconds)
}

// EpochFromSlot returns the epoch index containing the given slot.
func (t *TimeProvider) EpochFromSlot(slot SlotIndex) EpochIndex {
	return EpochIndex(uint64(slot) >> t.slotsPerEpochExponent)
}

// EpochStart returns the first slot of the given epoch.
func (t *TimeProvider) EpochStart(epoch EpochIndex) SlotIndex {
	return SlotIndex(uint64(epoch) << t.slotsPerEpochExponent)
}

// CommittableAgeRange is the window [creationSlot-MaxAge, creationSlot-MinAge]
// relative to a commitment slot within which commitments remain committable.
type CommittableAgeRange struct {
	MinAge SlotIndex
	MaxAge SlotIndex
}

// CommittableAt reports whether slot s is at least MinAge past commitmentSlot.
func (r CommittableAgeRange) CommittableAt(commitmentSlot, s SlotIndex) bool {
	return commitmentSlot+r.MinAge <= s
}
