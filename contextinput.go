package ledger

// ContextInputType denotes the type of a ContextInput.
type ContextInputType byte

const (
	ContextInputCommitment ContextInputType = iota
	ContextInputBlockIssuanceCredit
	ContextInputReward
)

// ContextInput supplies ledger state a transaction's semantic validation
// depends on without being consumed: commitments, BIC balances, mana rewards.
type ContextInput interface {
	Type() ContextInputType
	Size() int
}

// ContextInputs is a slice of ContextInput(s), serialized in a fixed order:
// commitment first, then block issuance credit inputs, then reward inputs.
type ContextInputs[T ContextInput] []T

func (c ContextInputs[T]) Size() int {
	size := 1
	for _, ci := range c {
		size += ci.Size()
	}

	return size
}

// CommitmentContextInput pins the transaction to a specific slot commitment,
// required whenever the transaction reads BIC balances, rewards, or has
// timelock/expiration unlock conditions in play.
type CommitmentContextInput struct {
	CommitmentID SlotCommitmentID `serix:"0,mapKey=commitmentId"`
}

func (c *CommitmentContextInput) Type() ContextInputType { return ContextInputCommitment }
func (c *CommitmentContextInput) Size() int               { return 1 + SlotCommitmentIDLength }

// BlockIssuanceCreditContextInput grants visibility into an account's block
// issuance credit balance, required whenever that account's BlockIssuerFeature is read.
type BlockIssuanceCreditContextInput struct {
	AccountID AccountID `serix:"0,mapKey=accountId"`
}

func (c *BlockIssuanceCreditContextInput) Type() ContextInputType { return ContextInputBlockIssuanceCredit }
func (c *BlockIssuanceCreditContextInput) Size() int               { return 1 + AccountIDLength }

// RewardContextInput claims the mana reward accrued by the staking or
// delegation output consumed at the given transaction input index.
type RewardContextInput struct {
	Index uint16 `serix:"0,mapKey=index"`
}

func (c *RewardContextInput) Type() ContextInputType { return ContextInputReward }
func (c *RewardContextInput) Size() int               { return 1 + 2 }

// SlotCommitmentIDLength is the byte length of a SlotCommitmentID.
const SlotCommitmentIDLength = 32 + 8

// SlotCommitmentID identifies a slot commitment: its content hash plus the slot it commits to.
type SlotCommitmentID [SlotCommitmentIDLength]byte

// Slot returns the SlotIndex encoded in the trailing 8 bytes of the commitment id.
func (id SlotCommitmentID) Slot() SlotIndex {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(id[32+i]) << (8 * i)
	}

	return SlotIndex(v)
}
