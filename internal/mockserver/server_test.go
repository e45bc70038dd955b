package mockserver

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidash/internal/mockgen"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2025, 8, 20, 10, 30, 0, 0, time.UTC)
	}
	gen := mockgen.NewWithSource(rand.New(rand.NewSource(7)), clock)
	srv := httptest.NewServer(New(Config{}, gen, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string) (map[string]any, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp
}

func postJSON(t *testing.T, url, payload string) (map[string]any, *http.Response) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body, resp
}

func TestSimInfoEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, resp := getJSON(t, srv.URL+"/api/sim-info")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Regexp(t, `^SIM-\d{6}$`, body["simId"])
	assert.Equal(t, "Activated", body["status"])
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("fields provided", func(t *testing.T) {
		body, resp := postJSON(t, srv.URL+"/api/register",
			`{"name":"Aisha Al-Busaidi","email":"aisha@example.com","phone":"+96890000000"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "User registered successfully", body["message"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "Aisha Al-Busaidi", user["name"])
		assert.Equal(t, "aisha@example.com", user["email"])
		assert.Equal(t, "+96890000000", user["phone"])
	})

	t.Run("fields synthesized", func(t *testing.T) {
		body, resp := postJSON(t, srv.URL+"/api/register", `{}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		user := body["user"].(map[string]any)
		name := user["name"].(string)
		expected := strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@omantel.om"
		assert.Equal(t, expected, user["email"])
		assert.Regexp(t, `^OMT\d{4}$`, user["id"])
	})

	t.Run("malformed body treated as empty", func(t *testing.T) {
		body, resp := postJSON(t, srv.URL+"/api/register", `{not json`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotNil(t, body["user"])
	})
}

func TestBillingEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, resp := getJSON(t, srv.URL+"/api/billing")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Regexp(t, `^OM-BILL-\d{4}$`, body["accountNumber"])
	assert.Equal(t, "August 2025", body["billingMonth"])
	assert.Regexp(t, `^\d+\.\d{3} OMR$`, body["amountDue"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, body["dueDate"])
}

func TestGenerateMockEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("GET returns generic preview", func(t *testing.T) {
		body, resp := getJSON(t, srv.URL+"/api/generate-mock")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Generic Omantel Mock Response", body["message"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("register user description", func(t *testing.T) {
		body, resp := postJSON(t, srv.URL+"/api/generate-mock",
			`{"description":"register a user with name and email"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		for _, key := range []string{"userId", "name", "email", "phone", "registeredAt"} {
			assert.Contains(t, body, key)
		}
		name := body["name"].(string)
		expected := strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@omantel.om"
		assert.Equal(t, expected, body["email"])
	})

	t.Run("unmatched description still answers 200", func(t *testing.T) {
		body, resp := postJSON(t, srv.URL+"/api/generate-mock",
			`{"description":"something entirely unrelated"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Generic Omantel Mock Response", body["message"])
	})
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	_, resp := getJSON(t, srv.URL+"/api/sim-info")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/register", nil)
	require.NoError(t, err)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer preflight.Body.Close()
	assert.Equal(t, http.StatusNoContent, preflight.StatusCode)
	assert.Equal(t, "*", preflight.Header.Get("Access-Control-Allow-Origin"))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/sim-info", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
