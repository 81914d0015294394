package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	WithdrawRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetStatistics(w http.ResponseWriter, r *http.Request)
	GetCalendar(w http.ResponseWriter, r *http.Request)

	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetMyBalance(w http.ResponseWriter, r *http.Request)
	AccrueBalance(w http.ResponseWriter, r *http.Request)

	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)

	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// actorFromContext builds the acting identity from the verified JWT claims.
func actorFromContext(r *http.Request) (user.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Actor{}, false
	}

	userID, _ := claims["user_id"].(string)
	employeeID, _ := claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)
	if userID == "" || employeeID == "" || roleStr == "" {
		return user.Actor{}, false
	}

	return user.Actor{
		ID:         userID,
		EmployeeID: employeeID,
		Role:       user.Role(roleStr),
	}, true
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	var req leave.SubmitLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	created, err := l.leaveService.Submit(r.Context(), leave.SubmitCommand{
		EmployeeID:   actor.EmployeeID,
		LeaveTypeID:  req.LeaveTypeID,
		StartDate:    startDate,
		EndDate:      endDate,
		DurationType: leave.LeaveDurationEnum(req.DurationType),
		Reason:       req.Reason,
		Actor:        actor,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.ToLeaveRequestResponse(created))
}

func (l *LeaveHandlerImpl) applyAction(w http.ResponseWriter, r *http.Request, action leave.Action) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	var req leave.ActionRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("applyAction decode error", "action", action, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if action == leave.ActionReject && (req.Comment == nil || *req.Comment == "") {
		response.BadRequest(w, "A comment is required when rejecting a request", nil)
		return
	}

	updated, err := l.leaveService.ApplyAction(r.Context(), leave.ActionCommand{
		RequestID:        requestID,
		Action:           action,
		Actor:            actor,
		ExpectedRevision: req.ExpectedRevision,
		Comment:          req.Comment,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(updated.Status), leave.ToLeaveRequestResponse(updated))
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.applyAction(w, r, leave.ActionApprove)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.applyAction(w, r, leave.ActionReject)
}

// WithdrawRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) WithdrawRequest(w http.ResponseWriter, r *http.Request) {
	l.applyAction(w, r, leave.ActionWithdraw)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	l.applyAction(w, r, leave.ActionCancel)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	requestID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(requestID) {
		response.BadRequest(w, "Invalid request ID", nil)
		return
	}

	request, err := l.leaveService.GetRequest(r.Context(), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// Employees only see their own requests.
	if !actor.IsRequester(request.EmployeeID) && !actor.CanApprove() {
		response.HandleError(w, leave.ErrForbidden)
		return
	}

	response.Success(w, leave.ToLeaveRequestResponse(request))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	var status *leave.LeaveRequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := leave.LeaveRequestStatus(s)
		status = &st
	}

	requests, err := l.leaveService.ListRequests(r.Context(), actor.EmployeeID, status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, leave.ToLeaveRequestResponse(request))
	}
	response.Success(w, out)
}

// GetStatistics implements LeaveHandler. Employees see their own numbers;
// managers may pass ?employee_id= or omit it for company-wide totals.
func (l *LeaveHandlerImpl) GetStatistics(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	var employeeID *string
	if actor.CanApprove() {
		if id := r.URL.Query().Get("employee_id"); id != "" {
			employeeID = &id
		}
	} else {
		id := actor.EmployeeID
		employeeID = &id
	}

	stats, err := l.leaveService.Statistics(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// GetCalendar implements LeaveHandler. Month view of approved leaves and
// holidays; defaults to the current month when year/month are omitted.
func (l *LeaveHandlerImpl) GetCalendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if y := r.URL.Query().Get("year"); y != "" {
		if !validator.IsNumeric(y) {
			response.BadRequest(w, "year must be numeric", nil)
			return
		}
		year, _ = strconv.Atoi(y)
	}
	if m := r.URL.Query().Get("month"); m != "" {
		if !validator.IsNumeric(m) {
			response.BadRequest(w, "month must be numeric", nil)
			return
		}
		v, _ := strconv.Atoi(m)
		if v < 1 || v > 12 {
			response.BadRequest(w, "month must be between 1 and 12", nil)
			return
		}
		month = time.Month(v)
	}

	events, err := l.leaveService.CalendarEvents(r.Context(), year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.CalendarEventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, leave.ToCalendarEventResponse(event))
	}
	response.Success(w, out)
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	balances, err := l.leaveService.ListBalances(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]leave.BalanceResponse, 0, len(balances))
	for _, balance := range balances {
		out = append(out, leave.ToBalanceResponse(balance))
	}
	response.Success(w, out)
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Unauthorized(w, "Actor claims not found in token")
		return
	}

	leaveTypeID := chi.URLParam(r, "leaveTypeID")
	if !validator.IsValidUUID(leaveTypeID) {
		response.BadRequest(w, "Invalid leave type ID", nil)
		return
	}

	balance, err := l.leaveService.GetBalance(r.Context(), actor.EmployeeID, leaveTypeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToBalanceResponse(balance))
}

// AccrueBalance implements LeaveHandler. Manager-only manual grant.
func (l *LeaveHandlerImpl) AccrueBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.AccrueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AccrueBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := l.leaveService.Accrue(r.Context(), req.EmployeeID, req.LeaveTypeID, req.Units, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Balance accrued successfully", leave.ToBalanceResponse(balance))
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", created)
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := l.leaveService.UpdateLeaveType(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", nil)
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := l.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// CreateHoliday implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := l.leaveService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", created)
}

// ListHolidays implements LeaveHandler.
func (l *LeaveHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := l.leaveService.ListHolidays(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, holidays)
}

// DeleteHoliday implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid holiday ID", nil)
		return
	}

	if err := l.leaveService.DeleteHoliday(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}
