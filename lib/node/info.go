package node

import (
	"encoding/json"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/version"
)

type NodeInfo struct {
	Node   NodeInfoNode `json:"node"`
	Policy NodePolicy   `json:"policy"`
	Ledger LedgerInfo   `json:"ledger"`
}

type NodeInfoNode struct {
	Version     version.Info  `json:"version"`
	Started     string        `json:"started"`
	State       State         `json:"state"`
	Endpoint    string        `json:"endpoint"`
	ClockOffset time.Duration `json:"clock-offset"` // offset of the node clock from its NTP server
}

type NodePolicy struct {
	NetworkID            string        `json:"network-id"`
	VotingPeriod         time.Duration `json:"voting-period"`
	DecryptionTimeout    time.Duration `json:"decryption-timeout"`
	MinDescriptionLength int           `json:"min-description-length"`
	MaxDescriptionLength int           `json:"max-description-length"`
	MaxProofLength       int           `json:"max-proof-length"`
	OperationsLimit      int           `json:"operations-limit"` // operations limit in a transaction
	VoteDeposit          common.Amount `json:"vote-deposit"`
	RateLimitRuleAPI     string        `json:"rate-limit-api"`
}

type LedgerInfo struct {
	Owner              string `json:"owner"`
	Authority          string `json:"authority"`
	Voters             uint64 `json:"voters"`
	Proposals          uint64 `json:"proposals"`
	DecryptionRequests uint64 `json:"decryption-requests"`
}

func NewNodePolicy(config common.Config, rateLimitRuleAPI string) NodePolicy {
	return NodePolicy{
		NetworkID:            string(config.NetworkID),
		VotingPeriod:         config.VotingPeriod,
		DecryptionTimeout:    config.DecryptionTimeout,
		MinDescriptionLength: config.MinDescriptionLength,
		MaxDescriptionLength: config.MaxDescriptionLength,
		MaxProofLength:       config.MaxProofLength,
		OperationsLimit:      config.OpsLimit,
		VoteDeposit:          config.VoteDeposit,
		RateLimitRuleAPI:     rateLimitRuleAPI,
	}
}

func NewNodeInfoFromJSON(b []byte) (nodeInfo NodeInfo, err error) {
	err = json.Unmarshal(b, &nodeInfo)
	return
}
