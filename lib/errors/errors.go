package errors

// Authorization errors
var (
	OnlyOwner                   = NewError(100, KindAuthorization, "operation is allowed only to the owner")
	OnlyDecryptionAuthority     = NewError(102, KindAuthorization, "operation is allowed only to the decryption authority")
	OnlyOwnerOrAfterTimeout     = NewError(103, KindAuthorization, "only the owner may mark a decryption failed before the timeout")
	InvalidCallbackProof        = NewError(104, KindAuthorization, "decryption callback proof does not verify")
	InvalidOwnerSignature       = NewError(105, KindAuthorization, "owner signature does not verify")
	SignatureVerificationFailed = NewError(106, KindAuthorization, "transaction signature verification failed")
)

// State errors
var (
	AlreadyRegistered          = NewError(120, KindState, "voter is already registered")
	NotRegistered              = NewError(121, KindState, "voter is not registered")
	NoPowerToDelegate          = NewError(122, KindState, "no voting power to delegate")
	NoActiveDelegation         = NewError(123, KindState, "no active delegation")
	ProposalNotActive          = NewError(124, KindState, "proposal is not active")
	AlreadyVoted               = NewError(125, KindState, "voter has already voted on this proposal")
	DelegationActive           = NewError(126, KindState, "cannot vote while delegation is active")
	DecryptionAlreadyRequested = NewError(127, KindState, "decryption was already requested for this proposal")
	DecryptionNotRequested     = NewError(128, KindState, "decryption was not requested for this proposal")
	UnknownOrResolvedRequest   = NewError(129, KindState, "decryption request is unknown or no longer pending")
	NotPending                 = NewError(130, KindState, "decryption request is not pending")
	DecryptionNotFailed        = NewError(131, KindState, "decryption of this proposal has not failed")
	DidNotVote                 = NewError(132, KindState, "voter did not vote on this proposal")
	AlreadyRefunded            = NewError(133, KindState, "refund was already claimed")
	RefundInProgress           = NewError(134, KindState, "another refund is being released")
	NothingEscrowed            = NewError(135, KindState, "nothing escrowed for this vote")
	InvalidSequenceID          = NewError(136, KindState, "sequence id does not match")
	LedgerNotInitialized       = NewError(137, KindState, "ledger is not initialized")
	LedgerOwnerMismatch        = NewError(138, KindState, "ledger was initialized with another owner")
)

// Temporal errors
var (
	VotingPeriodEnded = NewError(150, KindTemporal, "voting period has ended")
	VotingStillActive = NewError(151, KindTemporal, "voting period is still active")
)

// Range errors
var (
	InvalidDescription     = NewError(160, KindRange, "description length is out of range")
	DelegatePowerOverflow  = NewError(161, KindRange, "delegate voting power would exceed the maximum")
	DelegatePowerUnderflow = NewError(162, KindRange, "delegate voting power is lower than the delegated weight")
	VotingPowerOverflow    = NewError(163, KindRange, "voting power exceeds the maximum")
	VotingPowerUnderflow   = NewError(164, KindRange, "voting power would go under zero")
	MaximumBalanceReached  = NewError(165, KindRange, "amount exceeds the maximum balance")
	BalanceUnderZero       = NewError(166, KindRange, "amount would go under zero")
	InvalidProofLength     = NewError(167, KindRange, "proof is too long")
	TooManyOperations      = NewError(168, KindRange, "transaction has too many operations")
	EmptyOperations        = NewError(169, KindRange, "transaction has no operations")
)

// Identity errors
var (
	InvalidProposalID     = NewError(180, KindIdentity, "proposal does not exist")
	SelfDelegation        = NewError(181, KindIdentity, "cannot delegate to self")
	DelegateNotRegistered = NewError(182, KindIdentity, "delegate is not registered")
	BadPublicAddress      = NewError(183, KindIdentity, "invalid public address")
	InvalidTallyKey       = NewError(184, KindIdentity, "key does not open the sealed tally")
	UnknownOperationType  = NewError(185, KindIdentity, "unknown operation type")
	InvalidOperation      = NewError(186, KindIdentity, "invalid operation")
	InvalidHash           = NewError(187, KindIdentity, "hash does not match the transaction body")
	TransactionNotFound   = NewError(188, KindIdentity, "transaction not found")
	VoterNotFound         = NewError(189, KindIdentity, "voter not found")
)

// Storage and encoding errors
var (
	StorageRecordDoesNotExist  = NewError(200, KindStorage, "record does not exist in storage")
	StorageRecordAlreadyExists = NewError(201, KindStorage, "record already exists in storage")
	StorageCoreError           = NewError(202, KindStorage, "storage error")
	StorageNotTransaction      = NewError(203, KindStorage, "storage is not in a transaction")
	StorageAlreadyTransaction  = NewError(204, KindStorage, "storage is already in a transaction")
	InvalidStorageConfig       = NewError(205, KindStorage, "invalid storage configuration")
	EncodingFailed             = NewError(220, KindEncoding, "failed to encode value")
	DecodingFailed             = NewError(221, KindEncoding, "failed to decode value")
	BadRequestParameter        = NewError(222, KindEncoding, "bad request parameter")
	HTTPServerError            = NewError(223, KindEncoding, "internal server error")
	PageQueryLimitMaxExceed    = NewError(224, KindEncoding, "limit exceeds the maximum")
	NotEventStream             = NewError(225, KindEncoding, "request does not accept text/event-stream")
	TooManyRequests            = NewError(226, KindEncoding, "too many requests")
	InvalidRateLimitRule       = NewError(227, KindEncoding, "invalid rate limit rule")
)
