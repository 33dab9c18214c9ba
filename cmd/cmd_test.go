package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/claimsdash/internal/api"
	"github.com/theirongolddev/claimsdash/internal/pipeline"
)

// isolate points config, state and the API at a scratch environment and
// resets flag state left over from earlier runs.
func isolate(t *testing.T, apiURL string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_STATE_HOME", dir+"/state")
	t.Setenv("XDG_DATA_HOME", dir+"/data")
	t.Setenv("PUBLIC_API_URL", "")
	t.Setenv("CLAIMS_API_URL", apiURL)

	flagAPIURL, flagTimeout, flagQuiet = "", 0, false
	listStart, listLimit, listStatuses, listSort, listSearch = 0, 50, nil, string(pipeline.DefaultSort), ""
	for _, v := range createValues {
		*v = ""
	}
}

// run executes the root command against srv.
func run(t *testing.T, srv *httptest.Server, args ...string) error {
	t.Helper()
	isolate(t, srv.URL)
	rootCmd.SetArgs(append(args, "--quiet"))
	return rootCmd.Execute()
}

func TestTimeoutFlagKeepsSubSecondPrecision(t *testing.T) {
	isolate(t, "http://127.0.0.1:1")
	flagTimeout, flagQuiet = 500*time.Millisecond, true

	s, err := openSession()
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 500*time.Millisecond, s.timeout)
}

func TestListFetchesOnePage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/claims", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("_start"))
		assert.Equal(t, "2", r.URL.Query().Get("_limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "number": "CL-1", "status": "Approved", "amount": "100", "processingFee": "5", "holder": "Ann"},
			{"id": 2, "number": "CL-2", "status": "Rejected", "amount": 200, "processingFee": 10, "holder": "Ben"}
		]`))
	}))
	defer srv.Close()

	err := run(t, srv, "list", "--start", "1000", "--limit", "2", "--status", "Approved", "--sort", "amount-highest")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestListRejectsUnknownSort(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	err := run(t, srv, "list", "--sort", "by-vibes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort")
	assert.Zero(t, hits.Load())
}

func TestListReportsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := run(t, srv, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrServer)
}

func TestCreateRejectsInvalidClaim(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	err := run(t, srv, "create", "--amount", "0", "--policy", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
	assert.Zero(t, hits.Load())
}

func TestCreateFillsHolderAndFee(t *testing.T) {
	var posted api.CreateClaimRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/policies":
			_, _ = w.Write([]byte(`[{"id": 9, "number": "TL-12345", "holder": "Jane Doe"}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/claims":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 77, "number": "CL-00077", "status": "Submitted"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	incident := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	err := run(t, srv, "create",
		"--amount", "1,500",
		"--policy", "TL-12345",
		"--insured", "Laptop",
		"--incident-date", incident,
		"--description", "Dropped on the floor at work",
	)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", posted.Holder)
	assert.InDelta(t, 1500.0, posted.Amount, 0.001)
	assert.InDelta(t, 75.0, posted.ProcessingFee, 0.001)
	assert.Equal(t, incident, posted.IncidentDate)
}

func TestPolicyRejectsMalformedNumber(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	err := run(t, srv, "policy", "12345")
	require.Error(t, err)
	assert.Zero(t, hits.Load())
}
