package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rhuss/kaffee/pkg/api"
	"github.com/rhuss/kaffee/pkg/machine"
	"github.com/rhuss/kaffee/pkg/storage/memory"
)

var errSimulated = errors.New("simulated outage")

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()

	eng, err := machine.New(memory.New(), machine.DefaultCatalog(), machine.Config{})
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	return NewAdapter(eng, DefaultConfig())
}

func doRequest(t *testing.T, a *Adapter, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *api.APIError {
	t.Helper()

	var resp api.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	if resp.Error == nil {
		t.Fatalf("body %q has no error", rec.Body.String())
	}
	return resp.Error
}

func TestStatusEndpoint(t *testing.T) {
	a := newTestAdapter(t)

	for _, path := range []string{"/", "/status"} {
		rec := doRequest(t, a, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, rec.Code)
		}

		var resp api.StatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if resp.Status.Water.Level != 2000 || resp.Status.Coffee.Level != 500 {
			t.Errorf("GET %s levels = %d/%d, want 2000/500",
				path, resp.Status.Water.Level, resp.Status.Coffee.Level)
		}
	}
}

func TestBrewEndpoint(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/coffee/espresso", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("brew = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp api.BrewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Message != "Espresso is ready!" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Drink != "espresso" {
		t.Errorf("drink = %q", resp.Drink)
	}
	if resp.Used.WaterML != 24 || resp.Used.CoffeeG != 8 {
		t.Errorf("used = %+v, want 24/8", resp.Used)
	}
	if resp.Status.Water.Level != 1976 || resp.Status.Coffee.Level != 492 {
		t.Errorf("levels = %d/%d, want 1976/492", resp.Status.Water.Level, resp.Status.Coffee.Level)
	}
}

func TestBrewUnknownRecipe(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/coffee/latte", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Type != api.ErrorTypeUnknownRecipe {
		t.Errorf("type = %q, want unknown_recipe", apiErr.Type)
	}
	if !strings.Contains(apiErr.Message, "latte") {
		t.Errorf("message %q should name the recipe", apiErr.Message)
	}
}

func TestBrewInsufficientResource(t *testing.T) {
	a := newTestAdapter(t)

	// 500 g of coffee covers 62 espressos (496 g), the 63rd must fail.
	for i := 0; i < 62; i++ {
		if rec := doRequest(t, a, http.MethodPost, "/coffee/espresso", ""); rec.Code != http.StatusOK {
			t.Fatalf("brew %d = %d, body %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := doRequest(t, a, http.MethodPost, "/coffee/espresso", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Type != api.ErrorTypeInsufficientResource {
		t.Errorf("type = %q, want insufficient_resource", apiErr.Type)
	}
	if !strings.Contains(apiErr.Message, "coffee") {
		t.Errorf("message %q should name the short container", apiErr.Message)
	}
}

func TestFillEndpoint(t *testing.T) {
	a := newTestAdapter(t)

	// Drain a bit first so there is room to fill.
	if rec := doRequest(t, a, http.MethodPost, "/coffee/americano", ""); rec.Code != http.StatusOK {
		t.Fatalf("brew = %d", rec.Code)
	}

	rec := doRequest(t, a, http.MethodPost, "/containers/water/fill", `{"amount": 100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("fill = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp api.FillResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if resp.Message != "Added 100 ml of water." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Status.Water.Level != 2000-148+100 {
		t.Errorf("water level = %d, want %d", resp.Status.Water.Level, 2000-148+100)
	}
}

func TestFillUnknownContainer(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/containers/milk/fill", `{"amount": 100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Param != "container" {
		t.Errorf("param = %q, want container", apiErr.Param)
	}
}

func TestFillInvalidAmount(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/containers/water/fill", `{"amount": -5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Type != api.ErrorTypeInvalidRequest || apiErr.Param != "amount" {
		t.Errorf("error = %+v, want invalid_request on amount", apiErr)
	}
}

func TestFillOverflow(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/containers/coffee/fill", `{"amount": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	apiErr := decodeError(t, rec)
	if apiErr.Type != api.ErrorTypeOverflow {
		t.Errorf("type = %q, want container_overflow", apiErr.Type)
	}
	// The message reports the largest amount that would still fit.
	if !strings.Contains(apiErr.Message, "room for only 0") {
		t.Errorf("message = %q, should report max fillable", apiErr.Message)
	}
}

func TestFillMalformedBody(t *testing.T) {
	a := newTestAdapter(t)

	rec := doRequest(t, a, http.MethodPost, "/containers/water/fill", `{"amount": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestFillRejectsWrongContentType(t *testing.T) {
	a := newTestAdapter(t)

	req := httptest.NewRequest(http.MethodPost, "/containers/water/fill", strings.NewReader("amount=10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	a := newTestAdapter(t)

	if rec := doRequest(t, a, http.MethodGet, "/teapot", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// brokenMachine fails every operation, standing in for a machine whose
// store has gone away.
type brokenMachine struct{}

func (brokenMachine) Status(ctx context.Context) (*api.MachineState, error) {
	return nil, &machine.StorageError{Op: "load", Err: errSimulated}
}

func (brokenMachine) Brew(ctx context.Context, recipe string) (*api.MachineState, api.BrewUsage, error) {
	return nil, api.BrewUsage{}, &machine.StorageError{Op: "save", Err: errSimulated}
}

func (brokenMachine) Fill(ctx context.Context, container api.ContainerKind, amount int) (*api.MachineState, error) {
	return nil, &machine.StorageError{Op: "save", Err: errSimulated}
}

func TestStorageErrorMapsTo503(t *testing.T) {
	a := NewAdapter(brokenMachine{}, DefaultConfig())

	rec := doRequest(t, a, http.MethodGet, "/status", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Type != api.ErrorTypeStorage {
		t.Errorf("type = %q, want storage_error", apiErr.Type)
	}
}
