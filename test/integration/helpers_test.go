// Package integration provides end-to-end tests for the kaffee HTTP API.
//
// Tests run against a real server assembled the way cmd/server does it
// (adapter, middleware chain, health endpoint), started in-process with
// net/http/httptest and backed by the file store so persistence across
// restarts is exercised too.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rhuss/kaffee/pkg/machine"
	"github.com/rhuss/kaffee/pkg/observability"
	"github.com/rhuss/kaffee/pkg/storage/file"
	transporthttp "github.com/rhuss/kaffee/pkg/transport/http"
)

// machineServer bundles a running test server with the state file path
// so tests can restart the server over the same state.
type machineServer struct {
	*httptest.Server
	statePath string
}

// startMachineServer assembles the production handler stack over a file
// store rooted in a fresh temp directory.
func startMachineServer(t *testing.T) *machineServer {
	t.Helper()
	return startMachineServerAt(t, filepath.Join(t.TempDir(), "machine_state.json"))
}

// startMachineServerAt starts a server persisting to the given path.
// Starting a second server on the path of a stopped one models a
// process restart.
func startMachineServerAt(t *testing.T, statePath string) *machineServer {
	t.Helper()

	store, err := file.New(statePath)
	if err != nil {
		t.Fatalf("creating file store: %v", err)
	}
	instrumented := observability.InstrumentStore(store)

	eng, err := machine.New(instrumented, machine.DefaultCatalog(), machine.Config{})
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}

	srv := transporthttp.NewServer(eng, transporthttp.WithHealthCheck(instrumented))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &machineServer{Server: ts, statePath: statePath}
}

// --- HTTP helpers ---

// postJSON sends a POST request with JSON body and returns the response.
// A nil body sends an empty POST.
func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	resp, err := http.Post(url, "application/json", reader)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// getURL sends a GET request and returns the response.
func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

// decodeJSON reads the response body and decodes it into the target.
func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
}
