package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/sharefund/internal/domain"
	"github.com/iho/sharefund/internal/infrastructure/auth"
)

type recordedRequest struct {
	Method  string
	Path    string
	Query   string
	Header  http.Header
	Payload map[string]any
}

func fakeAPI(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) > 0 {
			require.NoError(t, json.Unmarshal(body, &rec.Payload))
		}
		requests = append(requests, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProjectList(t *testing.T) {
	srv, requests := fakeAPI(t, http.StatusOK, `[{"id":"p1"}]`)

	out, _, err := execute(t, "--url", srv.URL, "project", "list", "--status", "active", "--limit", "5")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v1/projects/", req.Path)
	assert.Contains(t, req.Query, "status=active")
	assert.Contains(t, req.Query, "limit=5")
	assert.Contains(t, out, `"id": "p1"`)
}

func TestProjectReturns(t *testing.T) {
	srv, requests := fakeAPI(t, http.StatusOK, `{"project_id":"p1"}`)

	_, _, err := execute(t, "--url", srv.URL, "project", "returns", "p1", "--shares", "10", "--years", "3")
	require.NoError(t, err)

	req := (*requests)[0]
	assert.Equal(t, "/api/v1/projects/p1/returns", req.Path)
	assert.Contains(t, req.Query, "shares=10")
	assert.Contains(t, req.Query, "years=3")
}

func TestPurchase(t *testing.T) {
	t.Run("sends idempotency key and token", func(t *testing.T) {
		srv, requests := fakeAPI(t, http.StatusCreated, `{"id":"inv-1"}`)

		_, stderr, err := execute(t, "--url", srv.URL, "--token", "tok", "purchase", "p1", "3", "--buyer", "b1")
		require.NoError(t, err)

		req := (*requests)[0]
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/v1/investments/", req.Path)
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))

		key := req.Header.Get("Idempotency-Key")
		assert.Len(t, key, 36)
		assert.Contains(t, stderr, key)

		assert.Equal(t, "p1", req.Payload["project_id"])
		assert.Equal(t, "b1", req.Payload["buyer_id"])
		assert.EqualValues(t, 3, req.Payload["shares"])
	})

	t.Run("reuses given key", func(t *testing.T) {
		srv, requests := fakeAPI(t, http.StatusCreated, `{}`)

		_, _, err := execute(t, "--url", srv.URL, "purchase", "p1", "1", "--idempotency-key", "retry-1")
		require.NoError(t, err)
		assert.Equal(t, "retry-1", (*requests)[0].Header.Get("Idempotency-Key"))
		assert.NotContains(t, (*requests)[0].Payload, "buyer_id")
	})

	t.Run("sold out fails", func(t *testing.T) {
		srv, _ := fakeAPI(t, http.StatusConflict, `{"error":"shares_unavailable","available":2}`)

		out, _, err := execute(t, "--url", srv.URL, "purchase", "p1", "5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "409")
		assert.Contains(t, out, `"available": 2`)
	})

	t.Run("partial failure warns", func(t *testing.T) {
		srv, _ := fakeAPI(t, http.StatusAccepted, `{"status":"partial_failure"}`)

		_, stderr, err := execute(t, "--url", srv.URL, "purchase", "p1", "5")
		require.NoError(t, err)
		assert.Contains(t, stderr, "reconciliation")
	})

	t.Run("invalid share count", func(t *testing.T) {
		_, _, err := execute(t, "purchase", "p1", "many")
		assert.ErrorContains(t, err, "invalid share count")
	})
}

func TestPortfolio(t *testing.T) {
	srv, requests := fakeAPI(t, http.StatusOK, `{}`)

	_, _, err := execute(t, "--url", srv.URL, "portfolio", "b1")
	require.NoError(t, err)
	_, _, err = execute(t, "--url", srv.URL, "portfolio", "b1", "--investments")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/buyers/b1/portfolio", (*requests)[0].Path)
	assert.Equal(t, "/api/v1/buyers/b1/investments", (*requests)[1].Path)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		response string
		wantPath string
		wantErr  string
	}{
		{
			name:     "clean report",
			response: `{"total_projects":2,"discrepancies":[]}`,
			wantPath: "/api/v1/reconciliation/report",
		},
		{
			name:     "report with discrepancies",
			response: `{"total_projects":2,"discrepancies":[{"project_id":"p1"}]}`,
			wantPath: "/api/v1/reconciliation/report",
			wantErr:  "1 projects have discrepancies",
		},
		{
			name:     "single project reconciled",
			args:     []string{"p1"},
			response: `{"project_id":"p1","is_reconciled":true}`,
			wantPath: "/api/v1/projects/p1/reconciliation",
		},
		{
			name:     "single project drifted",
			args:     []string{"p1"},
			response: `{"project_id":"p1","is_reconciled":false,"difference":3}`,
			wantPath: "/api/v1/projects/p1/reconciliation",
			wantErr:  "not reconciled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, requests := fakeAPI(t, http.StatusOK, tt.response)

			args := append([]string{"--url", srv.URL, "reconcile"}, tt.args...)
			_, _, err := execute(t, args...)

			assert.Equal(t, tt.wantPath, (*requests)[0].Path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestTokenCmd(t *testing.T) {
	out, _, err := execute(t, "token", "--secret", "s3cret", "--user", "u1", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("s3cret", time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.User().ID)
	assert.Equal(t, domain.RoleAdmin, claims.User().Role)

	_, _, err = execute(t, "token", "--secret", "s3cret", "--user", "u1", "--role", "root")
	assert.ErrorIs(t, err, domain.ErrInsufficientRole)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []byte(`{"a":1}`))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	buf.Reset()
	printJSON(&buf, []byte("not json"))
	assert.Equal(t, "not json\n", buf.String())
}
