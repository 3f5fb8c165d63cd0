package metrics

const (
	Namespace       = "obscura"
	LedgerSubsystem = "ledger"
	APISubsystem    = "api"
)

const (
	LedgerOperation = "operation"
	LedgerResult    = "result"
	LedgerKind      = "kind"

	ResultCommitted = "committed"
	ResultRejected  = "rejected"
)
