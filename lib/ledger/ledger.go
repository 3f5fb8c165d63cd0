package ledger

import (
	"sync"
	"time"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/common/observer"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/metrics"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/transaction"
	"boscoin.io/obscura/lib/transaction/operation"
	"boscoin.io/obscura/lib/voter"
)

// Ledger applies one transition at a time. Every transition runs inside one
// storage transaction: it is committed as a whole or discarded as a whole,
// and its events are triggered only after the commit.
type Ledger struct {
	sync.Mutex
	AccessControl

	st       *storage.LevelDBBackend
	config   common.Config
	clock    common.Clock
	refunder *decryption.Refunder
	metrics  *metrics.LedgerMetrics
}

type Option func(*Ledger)

func WithEscrow(escrow decryption.Escrow) Option {
	return func(l *Ledger) {
		l.refunder = decryption.NewRefunder(escrow)
	}
}

func WithMetrics(m *metrics.LedgerMetrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// New opens the ledger stored in st. An empty storage is initialized with
// owner and authority, and owner is registered as the first voter. A
// storage initialized for another owner or authority is refused.
func New(st *storage.LevelDBBackend, config common.Config, clock common.Clock, owner, authority string, options ...Option) (*Ledger, error) {
	for _, address := range []string{owner, authority} {
		if !keypair.IsAddress(address) {
			return nil, errors.BadPublicAddress.Clone().SetData("address", address)
		}
	}

	l := &Ledger{
		st:       st,
		config:   config,
		clock:    clock,
		refunder: decryption.NewRefunder(decryption.DepositEscrow{}),
		metrics:  metrics.Ledger,
	}
	for _, o := range options {
		o(l)
	}

	root, err := GetRoot(st)
	if err == nil {
		if root.Owner != owner || root.Authority != authority {
			return nil, errors.LedgerOwnerMismatch.Clone().SetData("owner", root.Owner)
		}
		l.root = *root
		log.Debug("ledger loaded", "owner", owner, "authority", authority)
		return l, nil
	} else if !errors.LedgerNotInitialized.Is(err) {
		return nil, err
	}

	now := clock.Now()
	l.root = Root{Owner: owner, Authority: authority, Created: now}

	ts, err := st.OpenTransaction()
	if err != nil {
		return nil, err
	}
	if err = ts.New(RootKey, &l.root); err != nil {
		ts.Discard()
		return nil, err
	}
	if _, err = voter.Register(ts, owner, now); err != nil {
		ts.Discard()
		return nil, err
	}
	if err = ts.Commit(); err != nil {
		return nil, err
	}

	l.metrics.AddVoters(1)
	observer.Trigger(observer.NewEvent(observer.VoterRegistered, "voter", owner))

	log.Info("ledger initialized", "owner", owner, "authority", authority)

	return l, nil
}

func (l *Ledger) Config() common.Config {
	return l.config
}

func (l *Ledger) Storage() *storage.LevelDBBackend {
	return l.st
}

func (l *Ledger) Now() time.Time {
	return l.clock.Now()
}

// Submit applies every operation of a well-formed transaction in order,
// with the source of the transaction as caller.
func (l *Ledger) Submit(tx transaction.Transaction) (*Result, error) {
	if err := tx.IsWellFormed(l.config); err != nil {
		return nil, err
	}

	return l.execute(tx.Source(), tx.GetHash(), &tx.B.SequenceID, tx.B.Operations...)
}

// Apply applies operations with caller as the already authenticated
// caller. The sequence id of caller is not used.
func (l *Ledger) Apply(caller string, bodies ...operation.Body) (*Result, error) {
	var ops []operation.Operation
	for _, body := range bodies {
		op, err := operation.NewOperation(body)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return l.execute(caller, "", nil, ops...)
}

func (l *Ledger) execute(caller, hash string, sequenceID *uint64, ops ...operation.Operation) (result *Result, err error) {
	if len(ops) < 1 {
		return nil, errors.EmptyOperations
	}

	l.Lock()
	defer l.Unlock()

	begin := time.Now()
	defer l.metrics.ObserveDurationSeconds(begin)

	now := l.clock.Now()

	var ts *storage.LevelDBBackend
	if ts, err = l.st.OpenTransaction(); err != nil {
		return
	}

	var failed operation.OperationType
	defer func() {
		if err == nil {
			return
		}
		ts.Discard()
		if failed == "" && len(ops) > 0 {
			failed = ops[0].H.Type
		}
		l.metrics.AddTransition(string(failed), false)
		l.metrics.AddRejection(string(failed), string(errors.KindOf(err)))
		log.Debug("transition rejected", "caller", caller, "hash", hash, "operation", failed, "error", err)
	}()

	if sequenceID != nil {
		var expected uint64
		if expected, err = GetSequenceID(ts, caller); err != nil {
			return
		}
		if *sequenceID != expected {
			err = errors.InvalidSequenceID.Clone().SetData("expected", expected)
			return
		}
	}

	result = &Result{Hash: hash, Source: caller, Created: now}

	var events []observer.Event
	var changes gaugeChanges
	for _, op := range ops {
		if err = op.IsWellFormed(l.config); err != nil {
			failed = op.H.Type
			return
		}

		var r OperationResult
		var evs []observer.Event
		if r, evs, err = l.apply(ts, now, caller, op, &changes); err != nil {
			failed = op.H.Type
			return
		}
		result.Operations = append(result.Operations, r)
		events = append(events, evs...)
	}

	if sequenceID != nil {
		if err = increaseSequenceID(ts, caller); err != nil {
			return
		}
	}

	if err = ts.Commit(); err != nil {
		return
	}

	for _, op := range ops {
		l.metrics.AddTransition(string(op.H.Type), true)
	}
	changes.apply(l.metrics)

	for _, e := range events {
		observer.Trigger(e)
	}

	log.Debug("transition committed", "caller", caller, "hash", hash, "operations", len(ops))

	return
}

type gaugeChanges struct {
	voters, proposals, pending int
}

func (g gaugeChanges) apply(m *metrics.LedgerMetrics) {
	if g.voters != 0 {
		m.AddVoters(g.voters)
	}
	if g.proposals != 0 {
		m.AddProposals(g.proposals)
	}
	if g.pending != 0 {
		m.AddPendingDecryptions(g.pending)
	}
}
