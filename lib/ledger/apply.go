package ledger

import (
	"time"

	"boscoin.io/obscura/lib/common/observer"
	"boscoin.io/obscura/lib/decryption"
	"boscoin.io/obscura/lib/errors"
	"boscoin.io/obscura/lib/proposal"
	"boscoin.io/obscura/lib/storage"
	"boscoin.io/obscura/lib/transaction/operation"
	"boscoin.io/obscura/lib/voter"
)

func (l *Ledger) apply(st *storage.LevelDBBackend, now time.Time, caller string, op operation.Operation, changes *gaugeChanges) (r OperationResult, events []observer.Event, err error) {
	r.Type = op.H.Type

	switch body := op.B.(type) {
	case operation.RegisterVoter:
		if err = l.OnlyOwner(caller); err != nil {
			return
		}

		var v *voter.Voter
		if v, err = voter.Register(st, body.Target, now); err != nil {
			return
		}
		r.Value = v
		changes.voters++
		events = append(events, observer.NewEvent(observer.VoterRegistered, "voter", v.Address))

	case operation.Delegate:
		var d *voter.Delegation
		if d, err = voter.Delegate(st, caller, body.Target, now); err != nil {
			return
		}
		r.Value = d
		events = append(events, observer.NewEvent(
			observer.DelegationSet,
			"delegator", d.Delegator,
			"target", d.Target,
			"weight", d.Weight.String(),
		))

	case operation.Revoke:
		var d *voter.Delegation
		if d, err = voter.Revoke(st, caller, now); err != nil {
			return
		}
		r.Value = d
		events = append(events, observer.NewEvent(
			observer.DelegationRevoked,
			"delegator", d.Delegator,
			"target", d.Target,
			"weight", d.Weight.String(),
		))

	case operation.CreateProposal:
		if err = l.OnlyOwner(caller); err != nil {
			return
		}

		var p *proposal.Proposal
		if p, err = proposal.Create(st, l.config, caller, body.Description, now); err != nil {
			return
		}
		r.Value = p
		changes.proposals++
		events = append(events, observer.NewEvent(
			observer.ProposalCreated,
			"proposal", p.ID,
			"deadline", p.Deadline,
		))

	case operation.Vote:
		var receipt *proposal.Receipt
		if receipt, err = proposal.Vote(st, l.config, body.ProposalID, caller, body.Choice, body.Proof, now); err != nil {
			return
		}
		if err = l.refunder.Escrow().Deposit(st, body.ProposalID, caller, l.config.VoteDeposit); err != nil {
			return
		}
		r.Value = receipt
		events = append(events, observer.NewEvent(
			observer.VoteCast,
			"proposal", receipt.ProposalID,
			"voter", receipt.Voter,
		))

	case operation.CloseProposal:
		var p *proposal.Proposal
		if p, err = proposal.Close(st, body.ProposalID, now); err != nil {
			return
		}
		r.Value = p
		events = append(events, observer.NewEvent(observer.ProposalClosed, "proposal", p.ID))

	case operation.RequestDecryption:
		if err = l.OnlyOwner(caller); err != nil {
			return
		}

		var request *decryption.Request
		if request, err = decryption.RequestDecryption(st, body.ProposalID, caller, now); err != nil {
			return
		}
		r.Value = request
		changes.pending++
		events = append(events, observer.NewEvent(
			observer.DecryptionRequested,
			"proposal", request.ProposalID,
			"request", request.ID,
		))

	case operation.DecryptionCallback:
		if err = l.OnlyAuthority(caller); err != nil {
			return
		}
		err = decryption.VerifyCallbackProof(l.Authority(), l.config.NetworkID, body.RequestID, body.Yes, body.No, body.Proof)
		if err != nil {
			return
		}

		var request *decryption.Request
		if request, err = decryption.Callback(st, body.RequestID, body.Yes, body.No, now); err != nil {
			return
		}
		r.Value = request
		changes.pending--
		events = append(events, observer.NewEvent(
			observer.DecryptionResolved,
			"proposal", request.ProposalID,
			"request", request.ID,
			"yes", body.Yes.String(),
			"no", body.No.String(),
		))

	case operation.MarkDecryptionFailed:
		var request *decryption.Request
		if request, err = decryption.MarkFailed(st, l.config, body.ProposalID, l.IsOwner(caller), now); err != nil {
			return
		}
		r.Value = request
		changes.pending--
		events = append(events, observer.NewEvent(
			observer.DecryptionFailed,
			"proposal", request.ProposalID,
			"request", request.ID,
		))

	case operation.ClaimRefund:
		var refund *decryption.Refund
		if refund, err = l.refunder.Claim(st, body.ProposalID, caller, now); err != nil {
			return
		}
		r.Value = refund
		events = append(events, observer.NewEvent(
			observer.RefundIssued,
			"proposal", refund.ProposalID,
			"voter", refund.Voter,
			"amount", refund.Amount,
		))

	default:
		err = errors.UnknownOperationType
	}

	return
}
