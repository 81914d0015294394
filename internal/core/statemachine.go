package core

import (
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
)

// ledgerEffect is the balance side effect bound to a transition. The effect
// runs before the transition is recorded; if it fails, the request state is
// unchanged and no history entry is written.
type ledgerEffect int

const (
	effectNone ledgerEffect = iota
	effectCommit
	effectRelease
)

type transitionKey struct {
	status leave.LeaveRequestStatus
	action leave.Action
}

type transitionRule struct {
	next   leave.LeaveRequestStatus
	effect ledgerEffect
	guard  func(actor user.Actor, req leave.LeaveRequest, today time.Time) error
}

// transitionTable is the single source of truth for the request lifecycle.
// Submission is handled by the orchestrator (there is no prior state); every
// other lifecycle action must appear here or it cannot happen.
var transitionTable = map[transitionKey]transitionRule{
	{leave.LeaveRequestStatusPending, leave.ActionApprove}: {
		next:   leave.LeaveRequestStatusApproved,
		effect: effectCommit,
		guard:  guardApprove,
	},
	{leave.LeaveRequestStatusPending, leave.ActionReject}: {
		next:   leave.LeaveRequestStatusRejected,
		effect: effectRelease,
		guard:  guardApprover,
	},
	{leave.LeaveRequestStatusPending, leave.ActionWithdraw}: {
		next:   leave.LeaveRequestStatusWithdrawn,
		effect: effectRelease,
		guard:  guardRequester,
	},
	{leave.LeaveRequestStatusApproved, leave.ActionCancel}: {
		next:   leave.LeaveRequestStatusCancelled,
		effect: effectRelease,
		guard:  guardCancel,
	},
}

// resolveTransition looks up the rule for (status, action). Any pair not in
// the table is an illegal transition.
func resolveTransition(status leave.LeaveRequestStatus, action leave.Action) (transitionRule, error) {
	rule, ok := transitionTable[transitionKey{status: status, action: action}]
	if !ok {
		return transitionRule{}, leave.ErrIllegalTransition
	}
	return rule, nil
}

func guardApprover(actor user.Actor, _ leave.LeaveRequest, _ time.Time) error {
	if !actor.CanApprove() {
		return leave.ErrForbidden
	}
	return nil
}

// guardApprove additionally forbids approving your own request.
func guardApprove(actor user.Actor, req leave.LeaveRequest, today time.Time) error {
	if err := guardApprover(actor, req, today); err != nil {
		return err
	}
	if actor.IsRequester(req.EmployeeID) {
		return leave.ErrForbidden
	}
	return nil
}

func guardRequester(actor user.Actor, req leave.LeaveRequest, _ time.Time) error {
	if !actor.IsRequester(req.EmployeeID) {
		return leave.ErrForbidden
	}
	return nil
}

// guardCancel allows the requester or an approver, and only while the leave
// has not started yet.
func guardCancel(actor user.Actor, req leave.LeaveRequest, today time.Time) error {
	if !actor.CanApprove() && !actor.IsRequester(req.EmployeeID) {
		return leave.ErrForbidden
	}
	if !req.StartDate.After(today) {
		return leave.ErrIllegalTransition
	}
	return nil
}
