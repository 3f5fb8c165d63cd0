package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/obscura/lib/common"
	"boscoin.io/obscura/lib/common/keypair"
	"boscoin.io/obscura/lib/common/observer"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/transaction"
	"boscoin.io/obscura/lib/transaction/operation"
)

type eventRecorder struct {
	sync.Mutex
	events []observer.Event
	fn     func(...interface{})
}

func recordEvents() *eventRecorder {
	r := &eventRecorder{}
	r.fn = func(args ...interface{}) {
		r.Lock()
		defer r.Unlock()
		r.events = append(r.events, args[0].(observer.Event))
	}
	observer.LedgerObserver.On(observer.All, r.fn)

	return r
}

func (r *eventRecorder) stop() {
	observer.LedgerObserver.Off(observer.All, r.fn)
}

func (r *eventRecorder) topics() []string {
	r.Lock()
	defer r.Unlock()

	var topics []string
	for _, e := range r.events {
		topics = append(topics, e.Topic)
	}
	return topics
}

func TestNewLedger(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	config := common.NewTestConfig()
	clock := common.NewTestClock()
	owner := keypair.Random().Address()
	authority := keypair.Random().Address()

	_, err := New(st, config, clock, "showme", authority)
	require.True(t, errors.BadPublicAddress.Is(err))

	l, err := New(st, config, clock, owner, authority)
	require.NoError(t, err)
	require.Equal(t, owner, l.Owner())
	require.Equal(t, authority, l.Authority())

	power, err := l.PowerOf(owner)
	require.NoError(t, err)
	require.Equal(t, "1", power.String())

	// reopening keeps the state
	reopened, err := New(st, config, clock, owner, authority)
	require.NoError(t, err)
	registered, err := reopened.IsRegistered(owner)
	require.NoError(t, err)
	require.True(t, registered)

	_, err = New(st, config, clock, keypair.Random().Address(), authority)
	require.True(t, errors.LedgerOwnerMismatch.Is(err))
}

func TestAccessControl(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	a := l.RegisterRandom(1)[0]

	_, err := l.Register(a.Address(), keypair.Random().Address())
	require.True(t, errors.OnlyOwner.Is(err))
	require.Equal(t, errors.KindAuthorization, errors.KindOf(err))

	_, err = l.Register(l.OwnerKP.Address(), a.Address())
	require.True(t, errors.AlreadyRegistered.Is(err))

	_, err = l.CreateProposal(a.Address(), "proposal")
	require.True(t, errors.OnlyOwner.Is(err))

	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)

	l.Clock.Set(p.Deadline.Add(time.Second))

	_, err = l.RequestDecryption(a.Address(), p.ID)
	require.True(t, errors.OnlyOwner.Is(err))

	requestID, err := l.RequestDecryption(l.OwnerKP.Address(), p.ID)
	require.NoError(t, err)

	// only the authority may call back, even with a valid proof
	proof, err := decryption.MakeCallbackProof(l.AuthKP, l.Config().NetworkID, requestID, common.NewPower(0), common.NewPower(0))
	require.NoError(t, err)
	_, err = l.DecryptionCallback(l.OwnerKP.Address(), requestID, common.NewPower(0), common.NewPower(0), proof)
	require.True(t, errors.OnlyDecryptionAuthority.Is(err))
}

func TestScenarioDelegatedVoteAndDecryption(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	kps := l.RegisterRandom(3)
	a, b, c := kps[0].Address(), kps[1].Address(), kps[2].Address()

	_, err := l.Delegate(a, b)
	require.NoError(t, err)
	_, err = l.Delegate(c, b)
	require.NoError(t, err)

	power, err := l.PowerOf(b)
	require.NoError(t, err)
	require.Equal(t, "3", power.String())

	p, err := l.CreateProposal(l.OwnerKP.Address(), "raise the quorum")
	require.NoError(t, err)

	_, err = l.Vote(b, p.ID, true, []byte("input proof"))
	require.NoError(t, err)

	voted, err := l.HasVoted(p.ID, b)
	require.NoError(t, err)
	require.True(t, voted)

	_, err = l.Vote(l.OwnerKP.Address(), p.ID, false, nil)
	require.NoError(t, err)

	l.Clock.Set(p.Deadline.Add(time.Second))

	closed, err := l.GetProposal(p.ID)
	require.NoError(t, err)
	require.Equal(t, proposal.StateClosed, closed.State)

	requestID, err := l.RequestDecryption(l.OwnerKP.Address(), p.ID)
	require.NoError(t, err)

	votes, err := l.GetEncryptedVotes(p.ID)
	require.NoError(t, err)

	yes, no, proof, err := l.DecryptionAuthority.Respond(requestID, votes.SealedTally)
	require.NoError(t, err)
	require.Equal(t, "3", yes.String())
	require.Equal(t, "1", no.String())

	// the authority reports (2, 1); the ledger trusts an authenticated
	// authority for the counts
	yes, no = common.NewPower(2), common.NewPower(1)
	proof, err = decryption.MakeCallbackProof(l.AuthKP, l.Config().NetworkID, requestID, yes, no)
	require.NoError(t, err)

	request, err := l.DecryptionCallback(l.DecryptionAuthority.Address(), requestID, yes, no, proof)
	require.NoError(t, err)
	require.Equal(t, decryption.StatusResolved, request.Status)

	revealed, err := l.GetProposal(p.ID)
	require.NoError(t, err)
	require.NotNil(t, revealed.Result)
	require.Equal(t, "2", revealed.Result.Yes.String())
	require.Equal(t, "1", revealed.Result.No.String())
}

func TestDecryptionCallbackProof(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)
	l.Clock.Set(p.Deadline.Add(time.Second))

	requestID, err := l.RequestDecryption(l.OwnerKP.Address(), p.ID)
	require.NoError(t, err)

	yes, no := common.NewPower(1), common.NewPower(0)

	// signed by somebody else
	proof, err := decryption.MakeCallbackProof(keypair.Random(), l.Config().NetworkID, requestID, yes, no)
	require.NoError(t, err)
	_, err = l.DecryptionCallback(l.DecryptionAuthority.Address(), requestID, yes, no, proof)
	require.True(t, errors.InvalidCallbackProof.Is(err))

	// the proof is checked before the request state
	proof, err = decryption.MakeCallbackProof(keypair.Random(), l.Config().NetworkID, 99, yes, no)
	require.NoError(t, err)
	_, err = l.DecryptionCallback(l.DecryptionAuthority.Address(), 99, yes, no, proof)
	require.True(t, errors.InvalidCallbackProof.Is(err))

	proof, err = decryption.MakeCallbackProof(l.AuthKP, l.Config().NetworkID, 99, yes, no)
	require.NoError(t, err)
	_, err = l.DecryptionCallback(l.DecryptionAuthority.Address(), 99, yes, no, proof)
	require.True(t, errors.UnknownOrResolvedRequest.Is(err))

	request, err := l.GetDecryptionRequest(p.ID)
	require.NoError(t, err)
	require.Equal(t, decryption.StatusPending, request.Status)
}

func TestTimeoutAndRefund(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	kps := l.RegisterRandom(2)
	a, b := kps[0].Address(), kps[1].Address()

	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)

	_, err = l.Vote(a, p.ID, true, nil)
	require.NoError(t, err)

	l.Clock.Set(p.Deadline.Add(time.Second))

	_, err = l.MarkDecryptionFailed(b, p.ID)
	require.True(t, errors.DecryptionNotRequested.Is(err))

	requestID, err := l.RequestDecryption(l.OwnerKP.Address(), p.ID)
	require.NoError(t, err)

	_, err = l.RequestDecryption(l.OwnerKP.Address(), p.ID)
	require.True(t, errors.DecryptionAlreadyRequested.Is(err))

	_, err = l.ClaimRefund(a, p.ID)
	require.True(t, errors.DecryptionNotFailed.Is(err))

	request, err := l.GetDecryptionRequest(p.ID)
	require.NoError(t, err)
	timeout := request.RequestedAt.Add(l.Config().DecryptionTimeout)

	l.Clock.Set(timeout.Add(-time.Nanosecond))
	_, err = l.MarkDecryptionFailed(b, p.ID)
	require.True(t, errors.OnlyOwnerOrAfterTimeout.Is(err))

	l.Clock.Set(timeout)
	failed, err := l.MarkDecryptionFailed(b, p.ID)
	require.NoError(t, err)
	require.Equal(t, requestID, failed.ID)
	require.Equal(t, decryption.StatusFailed, failed.Status)

	_, err = l.MarkDecryptionFailed(l.OwnerKP.Address(), p.ID)
	require.True(t, errors.NotPending.Is(err))

	_, err = l.ClaimRefund(b, p.ID)
	require.True(t, errors.DidNotVote.Is(err))

	refund, err := l.ClaimRefund(a, p.ID)
	require.NoError(t, err)
	require.Equal(t, l.Config().VoteDeposit, refund.Amount)

	_, err = l.ClaimRefund(a, p.ID)
	require.True(t, errors.AlreadyRefunded.Is(err))

	balance, err := l.RefundBalance(a)
	require.NoError(t, err)
	require.Equal(t, l.Config().VoteDeposit, balance)
}

func TestLegacyProposalResults(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	a := l.RegisterRandom(1)[0].Address()
	key := l.Config().TallyKey

	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)
	_, err = l.Vote(a, p.ID, true, nil)
	require.NoError(t, err)

	signature, err := MakeResultsSignature(l.OwnerKP, l.Config().NetworkID, p.ID, key)
	require.NoError(t, err)

	_, err = l.GetProposalResults(p.ID, key, signature)
	require.True(t, errors.VotingStillActive.Is(err))

	l.Clock.Set(p.Deadline.Add(time.Second))

	_, err = l.GetProposalResults(p.ID+1, key, signature)
	require.True(t, errors.InvalidProposalID.Is(err))

	other, err := MakeResultsSignature(keypair.Random(), l.Config().NetworkID, p.ID, key)
	require.NoError(t, err)
	_, err = l.GetProposalResults(p.ID, key, other)
	require.True(t, errors.InvalidOwnerSignature.Is(err))

	var wrong [common.TallyKeyLength]byte
	wrongSignature, err := MakeResultsSignature(l.OwnerKP, l.Config().NetworkID, p.ID, wrong)
	require.NoError(t, err)
	_, err = l.GetProposalResults(p.ID, wrong, wrongSignature)
	require.True(t, errors.InvalidTallyKey.Is(err))

	tally, err := l.GetProposalResults(p.ID, key, signature)
	require.NoError(t, err)
	require.Equal(t, "1", tally.Yes.String())
	require.Equal(t, "0", tally.No.String())

	// no request is created
	_, err = l.GetDecryptionRequest(p.ID)
	require.True(t, errors.DecryptionNotRequested.Is(err))
}

func TestLegacyProposalResultsWaitsForTransition(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	a := l.RegisterRandom(1)[0].Address()
	key := l.Config().TallyKey

	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)
	_, err = l.Vote(a, p.ID, true, nil)
	require.NoError(t, err)
	l.Clock.Set(p.Deadline.Add(time.Second))

	signature, err := MakeResultsSignature(l.OwnerKP, l.Config().NetworkID, p.ID, key)
	require.NoError(t, err)

	// a transition in progress holds the ledger
	l.Lock()

	done := make(chan error, 1)
	go func() {
		_, err := l.GetProposalResults(p.ID, key, signature)
		done <- err
	}()

	select {
	case <-done:
		l.Unlock()
		require.FailNow(t, "results read while a transition holds the ledger")
	case <-time.After(100 * time.Millisecond):
	}

	l.Unlock()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "results never returned")
	}
}

func TestSubmitTransaction(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	config := l.Config()
	target := keypair.Random().Address()

	tx := transaction.TestMakeSignedTransaction(config.NetworkID, l.OwnerKP, 0,
		operation.NewRegisterVoter(target),
		operation.NewCreateProposal("proposal"),
	)

	result, err := l.Submit(tx)
	require.NoError(t, err)
	require.Equal(t, tx.GetHash(), result.Hash)
	require.Len(t, result.Operations, 2)
	require.Equal(t, operation.TypeCreateProposal, result.Operations[1].Type)
	require.Equal(t, uint64(0), result.Last().(*proposal.Proposal).ID)

	sequenceID, err := l.GetSequenceID(l.OwnerKP.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(1), sequenceID)

	// replay
	_, err = l.Submit(tx)
	require.True(t, errors.InvalidSequenceID.Is(err))

	// malformed
	tx = transaction.TestMakeSignedTransaction(config.NetworkID, l.OwnerKP, 1, operation.NewCreateProposal(""))
	_, err = l.Submit(tx)
	require.True(t, errors.InvalidDescription.Is(err))

	sequenceID, err = l.GetSequenceID(l.OwnerKP.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(1), sequenceID)
}

func TestSubmitIsAllOrNothing(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	config := l.Config()
	target := keypair.Random().Address()

	recorder := recordEvents()
	defer recorder.stop()

	// the second registration fails, so the first is discarded too
	tx := transaction.TestMakeSignedTransaction(config.NetworkID, l.OwnerKP, 0,
		operation.NewRegisterVoter(target),
		operation.NewCreateProposal("proposal"),
		operation.NewRegisterVoter(target),
	)
	_, err := l.Submit(tx)
	require.True(t, errors.AlreadyRegistered.Is(err))

	registered, err := l.IsRegistered(target)
	require.NoError(t, err)
	require.False(t, registered)

	count, err := proposal.CountProposals(l.Storage())
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)

	sequenceID, err := l.GetSequenceID(l.OwnerKP.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(0), sequenceID)

	require.Empty(t, recorder.topics())
}

func TestEventsAfterCommit(t *testing.T) {
	l := NewTestLedger()
	defer l.Storage().Close()

	recorder := recordEvents()
	defer recorder.stop()

	a := l.RegisterRandom(1)[0].Address()
	p, err := l.CreateProposal(l.OwnerKP.Address(), "proposal")
	require.NoError(t, err)
	_, err = l.Vote(a, p.ID, true, nil)
	require.NoError(t, err)

	expected := []string{observer.VoterRegistered, observer.ProposalCreated, observer.VoteCast}
	require.Eventually(t, func() bool {
		return len(recorder.topics()) == len(expected)
	}, time.Second, 10*time.Millisecond)
	require.ElementsMatch(t, expected, recorder.topics())

	recorder.Lock()
	defer recorder.Unlock()
	for _, e := range recorder.events {
		if e.Topic != observer.VoteCast {
			continue
		}
		require.Equal(t, a, e.Data["voter"])
		_, found := e.Data["choice"]
		require.False(t, found)
	}
}
