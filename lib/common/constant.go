package common

import "time"

const (
	// VotingPeriod is the lifetime of a proposal, counted from its creation.
	VotingPeriod = 7 * 24 * time.Hour

	// DecryptionTimeout is how long a pending decryption request waits for
	// the authority before anyone may mark it failed.
	DecryptionTimeout = 24 * time.Hour

	MinDescriptionLength = 1
	MaxDescriptionLength = 1024

	// MaxProofLength bounds the opaque proofs carried by votes and callbacks.
	MaxProofLength = 4096

	// DefaultVoteDeposit is escrowed for every vote and refunded when the
	// decryption of the proposal fails.
	DefaultVoteDeposit Amount = 10000

	DefaultOperationsInTransactionLimit = 100

	TallyKeyLength = 32
)

var (
	// InitialVotingPower is given to every registered voter.
	InitialVotingPower = NewPower(1)
)
