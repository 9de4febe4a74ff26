package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Date string `json:"date"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"date":"2025-11-17"}`},
		{name: "empty", body: ``, wantErr: true},
		{name: "broken", body: `{"date":`, wantErr: true},
		{name: "trailing data", body: `{"date":"2025-11-17"}{"date":"x"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2025-11-17", p.Date)
		})
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflict(rec, "слот уже занят")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":409,"message":"слот уже занят"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondInternalError(rec)
	assert.JSONEq(t, `{"code":500,"message":"внутренняя ошибка сервера"}`, rec.Body.String())
}

func TestUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, UserID(req))

	req = req.WithContext(middleware.WithUserID(req.Context(), "admin"))
	assert.Equal(t, "admin", UserID(req))
}
