package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "plain error",
			err:        New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "error with details",
			err:        NewWithDetails(http.StatusNotFound, "DATA_NOT_FOUND", "Requested data not available", "nfl_team_stats.csv"),
			wantStatus: http.StatusNotFound,
			wantCode:   "DATA_NOT_FOUND",
		},
		{
			name:       "predefined pipeline failure",
			err:        ErrPipelineFailed,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "PIPELINE_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrValidation("week", "must be between 1 and 22"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.ErrorCode)
}

func TestErrPanic(t *testing.T) {
	err := ErrPanic("index out of range")

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	recovery, ok := err.Details.(PanicRecovery)
	require.True(t, ok)
	assert.Equal(t, "index out of range", recovery.Message)
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "network error wraps cause",
			err:      NewNetworkError("fetch teams", cause),
			wantType: ErrTypeNetwork,
			wantMsg:  "[NETWORK] fetch teams: connection refused",
		},
		{
			name:     "pipeline error names the stage",
			err:      NewPipelineError("clean_games", cause),
			wantType: ErrTypePipeline,
			wantMsg:  "[PIPELINE] stage clean_games failed: connection refused",
		},
		{
			name:     "not found without cause",
			err:      NewNotFoundError("raw games table"),
			wantType: ErrTypeNotFound,
			wantMsg:  "[NOT_FOUND] raw games table not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("write csv", cause)

	assert.ErrorIs(t, err, cause)
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).
		WithContext("row", 17).
		WithContext("column", "week")

	assert.Equal(t, 17, err.Context["row"])
	assert.Equal(t, "week", err.Context["column"])
}
