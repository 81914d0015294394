package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{leave.ErrInvalidRange, http.StatusBadRequest},
		{fmt.Errorf("%w: end before start", leave.ErrInvalidRange), http.StatusBadRequest},
		{leave.ErrInsufficientBalance, http.StatusBadRequest},
		{leave.ErrIllegalTransition, http.StatusConflict},
		{leave.ErrForbidden, http.StatusForbidden},
		{leave.ErrRequestNotFound, http.StatusNotFound},
		{leave.ErrLeaveTypeNotFound, http.StatusNotFound},
		{leave.ErrLeaveTypeCodeExists, http.StatusConflict},
		{leave.ErrAlreadyReleased, http.StatusConflict},
		{leave.ErrBusy, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandleErrorBusySetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, leave.ErrBusy)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestHandleErrorOverlapDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &leave.OverlapError{ConflictingIDs: []string{"req-1", "req-2"}})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "req-1,req-2", body.Error.Details["conflicting_request_ids"])
}

func TestHandleErrorStaleRevisionDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &leave.StaleRevisionError{Expected: 1, Current: 3})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "1", body.Error.Details["expected_revision"])
	assert.Equal(t, "3", body.Error.Details["current_revision"])
}

func TestHandleErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "start_date is required", body.Error.Details["start_date"])
}
