package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSuccessEncodesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]bool{"ok": true})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestWriteCreatedUses201(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteCreated(rec, map[string]int{"id": 7})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())
}

func TestWriteErrorMapsTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation keeps message",
			err:        pkgerrors.New(pkgerrors.CodeValidation, "items required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "items required",
		},
		{
			name:       "not found keeps message",
			err:        pkgerrors.New(pkgerrors.CodeNotFound, "order not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   "order not found",
		},
		{
			name:       "internal hides detail",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Error)
		})
	}
}
