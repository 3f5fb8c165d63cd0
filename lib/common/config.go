package common

import (
	"encoding/hex"
	"time"

	"boscoin.io/obscura/lib/errors"
)

// Config holds the ledger parameters. Every node sharing a network must run
// with the same values.
type Config struct {
	NetworkID []byte

	VotingPeriod      time.Duration
	DecryptionTimeout time.Duration

	MinDescriptionLength int
	MaxDescriptionLength int
	MaxProofLength       int
	OpsLimit             int

	VoteDeposit Amount

	// TallyKey seals the per-proposal tally; only its holders can open it.
	TallyKey [TallyKeyLength]byte
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID
	p.VotingPeriod = VotingPeriod
	p.DecryptionTimeout = DecryptionTimeout
	p.MinDescriptionLength = MinDescriptionLength
	p.MaxDescriptionLength = MaxDescriptionLength
	p.MaxProofLength = MaxProofLength
	p.OpsLimit = DefaultOperationsInTransactionLimit
	p.VoteDeposit = DefaultVoteDeposit

	return p
}

func (c *Config) SetTallyKeyHex(s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return errors.InvalidTallyKey.Clone().SetData("error", err.Error())
	}
	if len(b) != TallyKeyLength {
		return errors.InvalidTallyKey.Clone().SetData("length", len(b))
	}
	copy(c.TallyKey[:], b)

	return nil
}
