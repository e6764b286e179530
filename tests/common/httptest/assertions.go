//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"campus-market/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSuccessResponse checks the status and, for 2xx responses, decodes the body into target.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target any) {
	t.Helper()

	if !assert.Equalf(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String()) {
		return
	}
	if target == nil || expectedStatus < 200 || expectedStatus >= 300 {
		return
	}
	require.NoErrorf(t, json.Unmarshal(w.Body.Bytes(), target), "decode response: %s", w.Body.String())
}

// AssertErrorResponse checks the status and the envelope written by httperr.
// An empty expectedMsg only checks that a message is present.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string) httperr.Response {
	t.Helper()

	assert.Equalf(t, expectedStatus, w.Code, "unexpected status, body: %s", w.Body.String())

	var resp httperr.Response
	require.NoErrorf(t, json.Unmarshal(w.Body.Bytes(), &resp), "decode error envelope: %s", w.Body.String())
	if expectedMsg == "" {
		assert.NotEmpty(t, resp.Error.Message, "error envelope without message")
	} else {
		assert.Contains(t, resp.Error.Message, expectedMsg)
	}
	return resp
}

// AssertErrorDetail is AssertErrorResponse followed by decoding the detail payload into target.
func AssertErrorDetail(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedMsg string, target any) {
	t.Helper()

	resp := AssertErrorResponse(t, w, expectedStatus, expectedMsg)
	require.NotNil(t, resp.Detail, "error envelope without detail")

	raw, err := json.Marshal(resp.Detail)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}
