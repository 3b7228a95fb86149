// README: Handler tests for the bid query API over mocked services.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"skyhail/internal/modules/bid"
	"skyhail/internal/modules/need"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/types"
)

type mockBids struct {
	bids   map[int64]*bid.Bid
	byNeed map[types.ID][]bid.Bid
}

func (m *mockBids) BidsForNeed(_ context.Context, needID types.ID) ([]bid.Bid, error) {
	out := m.byNeed[needID]
	if out == nil {
		out = []bid.Bid{}
	}
	return out, nil
}

func (m *mockBids) Get(_ context.Context, id int64) (*bid.Bid, error) {
	b, ok := m.bids[id]
	if !ok {
		return nil, bid.ErrNotFound
	}
	return b, nil
}

func (m *mockBids) DeleteForNeed(_ context.Context, needID types.ID) error {
	delete(m.byNeed, needID)
	return nil
}

type mockNeeds struct {
	created []*need.Need
}

func (m *mockNeeds) Get(_ context.Context, _ types.ID) (*need.Need, error) {
	return nil, need.ErrNotFound
}

func (m *mockNeeds) Create(_ context.Context, n *need.Need) error {
	n.ID = "generated-id"
	m.created = append(m.created, n)
	return nil
}

type mockVehicles struct {
	vehicles map[types.ID]*vehicle.Vehicle
}

func (m *mockVehicles) Get(_ context.Context, id types.ID) (*vehicle.Vehicle, error) {
	v, ok := m.vehicles[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	return v, nil
}

func newTestServer(bids *mockBids, needs *mockNeeds, vehicles *mockVehicles) http.Handler {
	if bids == nil {
		bids = &mockBids{bids: map[int64]*bid.Bid{}, byNeed: map[types.ID][]bid.Bid{}}
	}
	if needs == nil {
		needs = &mockNeeds{}
	}
	if vehicles == nil {
		vehicles = &mockVehicles{vehicles: map[types.ID]*vehicle.Vehicle{}}
	}
	return NewServer(ServerDeps{
		Bids:     bids,
		Needs:    needs,
		Vehicles: vehicles,
		Log:      zap.NewNop(),
	}).Routes()
}

func TestGetBidsForNeed_OK(t *testing.T) {
	bids := &mockBids{
		bids: map[int64]*bid.Bid{},
		byNeed: map[types.ID][]bid.Bid{
			"n1": {{
				ID:        7,
				VehicleID: "v1",
				UserID:    "u1",
				Price:     12.5,
				PriceType: "flat",
				ExpiresAt: time.UnixMilli(1700000000000),
				NeedID:    "n1",
			}},
		},
	}
	handler := newTestServer(bids, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/needs/n1/bids", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []bidResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(out) != 1 || out[0].ID != 7 || out[0].PriceType != "flat" {
		t.Errorf("unexpected body: %+v", out)
	}
	if out[0].ExpiresAt != 1700000000000 {
		t.Errorf("expires_at = %d, want unix millis", out[0].ExpiresAt)
	}
}

func TestGetBidsForNeed_EmptyIsOK(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/needs/unknown/bids", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for an empty result", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestGetBid_NotFound(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bids/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetBid_BadID(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bids/not-a-number", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteBidsForNeed(t *testing.T) {
	bids := &mockBids{
		bids:   map[int64]*bid.Bid{},
		byNeed: map[types.ID][]bid.Bid{"n1": {{ID: 1}}},
	}
	handler := newTestServer(bids, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/needs/n1/bids", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, ok := bids.byNeed["n1"]; ok {
		t.Error("bids were not deleted")
	}
}

func TestCreateNeed(t *testing.T) {
	needs := &mockNeeds{}
	handler := newTestServer(nil, needs, nil)

	body := `{"pickup":{"lat":37.0,"long":-122.0},"dropoff":{"lat":37.01,"long":-122.01},"user_id":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/needs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(needs.created) != 1 {
		t.Fatalf("created %d needs, want 1", len(needs.created))
	}
	n := needs.created[0]
	if n.UserID != "u1" || n.Pickup.Lat != 37.0 || n.Dropoff.Long != -122.01 {
		t.Errorf("unexpected need: %+v", n)
	}
}

func TestCreateNeed_BadBody(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/needs", strings.NewReader(`{"user_id":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetVehicle(t *testing.T) {
	vehicles := &mockVehicles{vehicles: map[types.ID]*vehicle.Vehicle{
		"v1": {ID: "v1", Model: "CopterExpress-d1", Status: vehicle.StatusAvailable},
	}}
	handler := newTestServer(nil, nil, vehicles)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/v1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/v2", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown vehicle", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}
