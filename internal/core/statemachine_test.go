package core

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTransition(t *testing.T) {
	legal := []struct {
		from   leave.LeaveRequestStatus
		action leave.Action
		to     leave.LeaveRequestStatus
	}{
		{leave.LeaveRequestStatusPending, leave.ActionApprove, leave.LeaveRequestStatusApproved},
		{leave.LeaveRequestStatusPending, leave.ActionReject, leave.LeaveRequestStatusRejected},
		{leave.LeaveRequestStatusPending, leave.ActionWithdraw, leave.LeaveRequestStatusWithdrawn},
		{leave.LeaveRequestStatusApproved, leave.ActionCancel, leave.LeaveRequestStatusCancelled},
	}
	for _, tc := range legal {
		transition, err := resolveTransition(tc.from, tc.action)
		require.NoError(t, err, "%s/%s", tc.from, tc.action)
		assert.Equal(t, tc.to, transition.next)
	}

	illegal := []struct {
		from   leave.LeaveRequestStatus
		action leave.Action
	}{
		{leave.LeaveRequestStatusPending, leave.ActionCancel},
		{leave.LeaveRequestStatusApproved, leave.ActionApprove},
		{leave.LeaveRequestStatusApproved, leave.ActionReject},
		{leave.LeaveRequestStatusApproved, leave.ActionWithdraw},
		{leave.LeaveRequestStatusRejected, leave.ActionApprove},
		{leave.LeaveRequestStatusCancelled, leave.ActionCancel},
		{leave.LeaveRequestStatusWithdrawn, leave.ActionWithdraw},
	}
	for _, tc := range illegal {
		_, err := resolveTransition(tc.from, tc.action)
		assert.ErrorIs(t, err, leave.ErrIllegalTransition, "%s/%s", tc.from, tc.action)
	}
}

func TestGuards(t *testing.T) {
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	request := leave.LeaveRequest{
		ID:         "req-1",
		EmployeeID: "emp-1",
		StartDate:  today.AddDate(0, 0, 7),
		EndDate:    today.AddDate(0, 0, 11),
	}

	requester := user.Actor{ID: "u1", EmployeeID: "emp-1", Role: user.RoleEmployee}
	manager := user.Actor{ID: "u2", EmployeeID: "emp-2", Role: user.RoleManager}
	owner := user.Actor{ID: "u3", EmployeeID: "emp-3", Role: user.RoleOwner}
	bystander := user.Actor{ID: "u4", EmployeeID: "emp-4", Role: user.RoleEmployee}
	selfManager := user.Actor{ID: "u5", EmployeeID: "emp-1", Role: user.RoleManager}

	t.Run("approve requires an approver other than the requester", func(t *testing.T) {
		assert.NoError(t, guardApprove(manager, request, today))
		assert.NoError(t, guardApprove(owner, request, today))
		assert.ErrorIs(t, guardApprove(requester, request, today), leave.ErrForbidden)
		assert.ErrorIs(t, guardApprove(selfManager, request, today), leave.ErrForbidden)
	})

	t.Run("reject requires an approver", func(t *testing.T) {
		assert.NoError(t, guardApprover(manager, request, today))
		assert.ErrorIs(t, guardApprover(requester, request, today), leave.ErrForbidden)
	})

	t.Run("withdraw requires the requester", func(t *testing.T) {
		assert.NoError(t, guardRequester(requester, request, today))
		assert.ErrorIs(t, guardRequester(manager, request, today), leave.ErrForbidden)
	})

	t.Run("cancel allows requester or approver before the start date", func(t *testing.T) {
		assert.NoError(t, guardCancel(requester, request, today))
		assert.NoError(t, guardCancel(manager, request, today))
		assert.ErrorIs(t, guardCancel(bystander, request, today), leave.ErrForbidden)
	})

	t.Run("cancel on or after the start date is illegal", func(t *testing.T) {
		started := request
		started.StartDate = today
		assert.ErrorIs(t, guardCancel(requester, started, today), leave.ErrIllegalTransition)

		started.StartDate = today.AddDate(0, 0, -3)
		assert.ErrorIs(t, guardCancel(manager, started, today), leave.ErrIllegalTransition)
	})
}
