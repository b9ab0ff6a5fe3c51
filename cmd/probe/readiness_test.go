package probe_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/dsa-connect/cmd/probe"
)

func TestReadiness(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0x1"})
	}))
	defer node.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer dead.Close()

	t.Setenv("DSA_RPC_URLS", dead.URL+","+node.URL)

	cmd := probe.New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"readiness", "--verbose"})
	require.NoError(t, cmd.Execute())

	var statuses []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &statuses))
	require.Len(t, statuses, 2)
	assert.NotEmpty(t, statuses[0]["error"])
	assert.InDelta(t, 1, statuses[1]["chainId"], 0)

	t.Setenv("DSA_RPC_URLS", dead.URL)
	cmd = probe.New()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"readiness"})
	require.Error(t, cmd.Execute())
}
