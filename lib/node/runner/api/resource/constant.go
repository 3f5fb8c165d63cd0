package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLVoters             = APIPrefix + APIVersionV1 + "/voters"
	URLVoter              = APIPrefix + APIVersionV1 + "/voters/{address}"
	URLProposals          = APIPrefix + APIVersionV1 + "/proposals"
	URLProposal           = APIPrefix + APIVersionV1 + "/proposals/{id}"
	URLProposalVotes      = APIPrefix + APIVersionV1 + "/proposals/{id}/votes"
	URLProposalReceipts   = APIPrefix + APIVersionV1 + "/proposals/{id}/receipts"
	URLProposalVoter      = APIPrefix + APIVersionV1 + "/proposals/{id}/voters/{address}"
	URLProposalDecryption = APIPrefix + APIVersionV1 + "/proposals/{id}/decryption"
	URLAccountSequence    = APIPrefix + APIVersionV1 + "/accounts/{address}/sequence"
	URLTransactions       = APIPrefix + APIVersionV1 + "/transactions"
	URLTransactionByHash  = APIPrefix + APIVersionV1 + "/transactions/{hash}"
)
