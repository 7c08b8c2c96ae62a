package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/powdercoat/erp-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Gate Panel","amount":12.5}`))

	var payload samplePayload
	require.NoError(t, DecodeJSONBody(req, &payload))
	assert.Equal(t, "Gate Panel", payload.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","amount":1,"bogus":true}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount":0}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Contains(t, typed.Message(), "name is required")
	assert.Contains(t, typed.Message(), "amount must be greater than 0")
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30", nil)

	got, err := ParseQueryInt(req, "limit", 50, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, 30, got)

	got, err = ParseQueryInt(req, "offset", 0, 0, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	req = httptest.NewRequest("GET", "/?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 50, 1, 200)
	require.Error(t, err)

	req = httptest.NewRequest("GET", "/?limit=9999", nil)
	_, err = ParseQueryInt(req, "limit", 50, 1, 200)
	require.Error(t, err)
}

func TestParseQueryDate(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2026-02-01", nil)

	got, err := ParseQueryDate(req, "from")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())

	missing, err := ParseQueryDate(req, "to")
	require.NoError(t, err)
	assert.Nil(t, missing)

	req = httptest.NewRequest("GET", "/?from=not-a-date", nil)
	_, err = ParseQueryDate(req, "from")
	require.Error(t, err)
}

func TestParsePathID(t *testing.T) {
	id, err := ParsePathID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParsePathID(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}
