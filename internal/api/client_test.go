package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theirongolddev/claimsdash/internal/claim"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadURLs(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
	_, err = NewClient("ftp://example.com")
	assert.Error(t, err)

	c, err := NewClient(" http://localhost:8001/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", c.BaseURL())
}

func TestListClaims(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `[{"id":1,"number":"CL-1","amount":"10.5"},{"id":2,"number":"CL-2","amount":20}]`)
	})

	claims, err := c.ListClaims(context.Background(), 1000, 1000)
	require.NoError(t, err)
	require.Len(t, claims, 2)
	assert.Equal(t, claim.Decimal("20"), claims[1].Amount)

	require.NotNil(t, got)
	assert.Equal(t, "/claims", got.URL.Path)
	assert.Equal(t, "1000", got.URL.Query().Get("_start"))
	assert.Equal(t, "1000", got.URL.Query().Get("_limit"))
	assert.Equal(t, "no-cache", got.Header.Get("Cache-Control"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
}

func TestListClaims_StatusErrors(t *testing.T) {
	tests := []struct {
		code int
		kind Kind
		is   error
	}{
		{http.StatusUnauthorized, KindAuth, ErrUnauthorized},
		{http.StatusForbidden, KindAuth, ErrUnauthorized},
		{http.StatusNotFound, KindNotFound, ErrNotFound},
		{http.StatusBadGateway, KindServer, ErrServer},
		{http.StatusTeapot, KindGeneric, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			})
			_, err := c.ListClaims(context.Background(), 0, 10)
			require.Error(t, err)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.kind, Classify(err))
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestListClaims_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.ListClaims(context.Background(), 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, Classify(err))
	assert.True(t, Classify(err).Retryable())
}

func TestListClaims_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"`)
	})
	_, err := c.ListClaims(context.Background(), 0, 10)
	require.Error(t, err)
	assert.Equal(t, KindGeneric, Classify(err))
}

func TestCreateClaim_ReturnsServerClaim(t *testing.T) {
	var sent CreateClaimRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":42,"number":"CL-42","amount":1500,"status":"Submitted"}`)
	})

	req := CreateClaimRequest{Amount: 1500, ProcessingFee: 75, Holder: "Jane Doe", PolicyNumber: "TL-12345"}
	got, err := c.CreateClaim(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "Submitted", got.Status)
	assert.Equal(t, req, sent)
}

func TestCreateClaim_EmptyBodyPlaceholder(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, "  \n")
	}, WithClock(func() time.Time { return now }))

	got, err := c.CreateClaim(context.Background(), CreateClaimRequest{
		Amount: 1500.5, ProcessingFee: 75.03, Holder: "Jane Doe", IncidentDate: "2025-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), got.ID)
	assert.True(t, strings.HasPrefix(got.Number, "CL-"))
	assert.Len(t, got.Number, len("CL-")+26)
	assert.Equal(t, PlaceholderStatus, got.Status)
	assert.Equal(t, claim.Decimal("1500.5"), got.Amount)
	assert.Equal(t, "2025-06-10T12:00:00.000Z", got.CreatedAt)
	assert.Equal(t, "Jane Doe", got.Holder)
}

func TestCreateClaim_Failure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.CreateClaim(context.Background(), CreateClaimRequest{})
	assert.ErrorIs(t, err, ErrServer)
}

func TestLookupPolicy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/policies", r.URL.Path)
		switch r.URL.Query().Get("number") {
		case "TL-12345":
			_, _ = io.WriteString(w, `[{"id":1,"number":"TL-123456","holder":"Wrong"},{"id":2,"number":"TL-12345","holder":"Jane Doe"}]`)
		case "TL-00404":
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	})

	p, err := c.LookupPolicy(context.Background(), "TL-12345")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Jane Doe", p.Holder)

	p, err = c.LookupPolicy(context.Background(), "TL-99999")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = c.LookupPolicy(context.Background(), "TL-00404")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}, WithLogger(zap.New(core)))

	_, err := c.ListClaims(context.Background(), 0, 1)
	require.NoError(t, err)

	entries := logs.FilterMessage("request complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "list claims", fields["op"])
	assert.NotEmpty(t, fields["request_id"])
	assert.EqualValues(t, 200, fields["status"])
}

func TestKindText(t *testing.T) {
	assert.Equal(t, "Access Denied", KindAuth.Title())
	assert.False(t, KindAuth.Retryable())
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, KindNone, Classify(nil))
	assert.NotEmpty(t, KindGeneric.Message())
}
