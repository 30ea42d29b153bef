package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"reactor/internal/game"
	"reactor/internal/save"
)

// newTestServer builds a router around a stopped engine (no ticker) and
// a throwaway slot database, with rate limits high enough to never
// interfere.
func newTestServer(t *testing.T) (*httptest.Server, *game.Engine) {
	t.Helper()

	engine := game.NewEngine(game.EngineConfig{
		TickRate: 4,
		Width:    8,
		Height:   8,
		Layers:   1,
	})

	slots, err := save.OpenSlotStore(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("opening slot store: %v", err)
	}
	t.Cleanup(func() { slots.Close() })

	router := NewRouter(RouterConfig{
		Engine: engine,
		Slots:  slots,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 10000,
			Burst:             10000,
		},
		DisableLogging: true,
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, engine
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// TestStateEndpoint verifies /api/state returns the full snapshot
func TestStateEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET state: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var snap game.Snapshot
	decodeBody(t, resp, &snap)
	if snap.GridWidth != 8 || snap.GridHeight != 8 || snap.GridLayers != 1 {
		t.Errorf("grid = %dx%dx%d", snap.GridWidth, snap.GridHeight, snap.GridLayers)
	}
	if snap.MaxPowerCapacity != 100 || snap.MaxHeatCapacity != 1000 {
		t.Errorf("capacities = %v/%v", snap.MaxPowerCapacity, snap.MaxHeatCapacity)
	}
}

// TestStatsEndpoint verifies the lightweight stats view
func TestStatsEndpoint(t *testing.T) {
	ts, engine := newTestServer(t)
	engine.WithSimulation(func(sim *game.Simulation) {
		sim.Resources.Money = 77
	})

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatalf("GET stats: %v", err)
	}
	var stats map[string]interface{}
	decodeBody(t, resp, &stats)
	if stats["money"].(float64) != 77 {
		t.Errorf("money = %v", stats["money"])
	}
	if stats["componentCount"].(float64) != 0 {
		t.Errorf("componentCount = %v", stats["componentCount"])
	}
}

// TestCatalogEndpoint verifies the shop catalog is served
func TestCatalogEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/catalog")
	if err != nil {
		t.Fatalf("GET catalog: %v", err)
	}
	var entries []game.CatalogEntry
	decodeBody(t, resp, &entries)
	if len(entries) == 0 {
		t.Fatal("catalog is empty")
	}
}

// TestPlaceAndRemove exercises the placement endpoints, including the
// rejection paths
func TestPlaceAndRemove(t *testing.T) {
	ts, engine := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/components/place",
		map[string]interface{}{"name": "Vent2", "x": 1, "y": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("place status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	if len(engine.Snapshot().Components) != 1 {
		t.Fatal("component not placed")
	}

	// Unknown component name
	resp = postJSON(t, ts.URL+"/api/components/place",
		map[string]interface{}{"name": "Gizmo9", "x": 0, "y": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown name status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	// Out of bounds
	resp = postJSON(t, ts.URL+"/api/components/place",
		map[string]interface{}{"name": "Vent1", "x": 50, "y": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-bounds status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	// Missing name
	resp = postJSON(t, ts.URL+"/api/components/place",
		map[string]interface{}{"x": 0, "y": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/components/remove",
		map[string]interface{}{"x": 1, "y": 1})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	if len(engine.Snapshot().Components) != 0 {
		t.Error("component not removed")
	}
}

// TestPauseResume verifies the run-state controls
func TestPauseResume(t *testing.T) {
	ts, engine := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/control/pause", map[string]interface{}{})
	resp.Body.Close()
	if !engine.Snapshot().Paused {
		t.Error("engine not paused")
	}

	resp = postJSON(t, ts.URL+"/api/control/resume", map[string]interface{}{})
	resp.Body.Close()
	if engine.Snapshot().Paused {
		t.Error("engine still paused")
	}
}

// TestSellAndVent verifies the manual economy controls
func TestSellAndVent(t *testing.T) {
	ts, engine := newTestServer(t)
	engine.WithSimulation(func(sim *game.Simulation) {
		sim.Resources.Power = 30
		sim.Resources.Heat = 10
	})

	var sell map[string]float64
	decodeBody(t, postJSON(t, ts.URL+"/api/control/sell", map[string]interface{}{}), &sell)
	if sell["gained"] != 30 {
		t.Errorf("gained = %v, want 30", sell["gained"])
	}

	var vent map[string]float64
	decodeBody(t, postJSON(t, ts.URL+"/api/control/vent",
		map[string]interface{}{"amount": 4.0}), &vent)
	if vent["vented"] != 4 {
		t.Errorf("vented = %v, want 4", vent["vented"])
	}

	resp := postJSON(t, ts.URL+"/api/control/vent", map[string]interface{}{"amount": 0})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("zero vent status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestSaveTransportRoundTrip verifies the clipboard-style export/import
// cycle through the HTTP surface
func TestSaveTransportRoundTrip(t *testing.T) {
	ts, engine := newTestServer(t)

	if err := engine.Place(game.GridCoord{X: 2, Y: 3}, "Fuel1-1"); err != nil {
		t.Fatalf("place: %v", err)
	}
	engine.WithSimulation(func(sim *game.Simulation) {
		sim.Resources.Money = 123
	})

	resp, err := http.Get(ts.URL + "/api/save")
	if err != nil {
		t.Fatalf("GET save: %v", err)
	}
	var exported map[string]string
	decodeBody(t, resp, &exported)
	if exported["payload"] == "" {
		t.Fatal("empty save payload")
	}

	// Wreck the state, then restore
	if err := engine.Remove(game.GridCoord{X: 2, Y: 3}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	engine.WithSimulation(func(sim *game.Simulation) {
		sim.Resources.Money = 0
	})

	loadResp := postJSON(t, ts.URL+"/api/load",
		map[string]string{"payload": exported["payload"]})
	if loadResp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", loadResp.StatusCode)
	}
	loadResp.Body.Close()

	snap := engine.Snapshot()
	if snap.Resources.Money != 123 {
		t.Errorf("money = %v, want 123", snap.Resources.Money)
	}
	if len(snap.Components) != 1 || snap.Components[0].Name != "Fuel1-1" {
		t.Errorf("components = %+v", snap.Components)
	}
}

// TestImportPreservesUIFields verifies presentation fields in an
// imported save come back out on the next export
func TestImportPreservesUIFields(t *testing.T) {
	ts, _ := newTestServer(t)

	record := &save.SaveData{
		Version:                save.CurrentVersion,
		UpgradeLevels:          map[string]int{"vent": 2},
		PrestigeLevel:          1,
		ReplaceMode:            true,
		ShopPage:               3,
		SelectedComponentIndex: 5,
	}
	payload, err := save.ExportBase64(record)
	if err != nil {
		t.Fatalf("building payload: %v", err)
	}

	loadResp := postJSON(t, ts.URL+"/api/load", map[string]string{"payload": payload})
	if loadResp.StatusCode != http.StatusOK {
		t.Fatalf("load status = %d", loadResp.StatusCode)
	}
	loadResp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/save")
	if err != nil {
		t.Fatalf("GET save: %v", err)
	}
	var exported map[string]string
	decodeBody(t, resp, &exported)

	out, err := save.ImportBase64(exported["payload"])
	if err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if out.ShopPage != 3 || out.SelectedComponentIndex != 5 || out.PrestigeLevel != 1 || !out.ReplaceMode {
		t.Errorf("exported record = %+v", out)
	}
	if out.UpgradeLevels["vent"] != 2 {
		t.Errorf("upgrade levels = %v", out.UpgradeLevels)
	}
}

// TestImportRejectsBadPayload verifies garbage payloads come back 400
func TestImportRejectsBadPayload(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/load", map[string]string{"payload": "!!!not base64!!!"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestSlotLifecycle walks a slot through create, list, get, load, and
// delete
func TestSlotLifecycle(t *testing.T) {
	ts, engine := newTestServer(t)

	if err := engine.Place(game.GridCoord{X: 0, Y: 0}, "Capacitor1"); err != nil {
		t.Fatalf("place: %v", err)
	}

	var meta save.SlotMeta
	decodeBody(t, postJSON(t, ts.URL+"/api/slots/",
		map[string]string{"name": "checkpoint"}), &meta)
	if meta.ID == "" || meta.Name != "checkpoint" {
		t.Fatalf("meta = %+v", meta)
	}

	resp, err := http.Get(ts.URL + "/api/slots/")
	if err != nil {
		t.Fatalf("GET slots: %v", err)
	}
	var metas []save.SlotMeta
	decodeBody(t, resp, &metas)
	if len(metas) != 1 || metas[0].ID != meta.ID {
		t.Fatalf("listed %+v", metas)
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/slots/%s", ts.URL, meta.ID))
	if err != nil {
		t.Fatalf("GET slot: %v", err)
	}
	var slot struct {
		Meta    save.SlotMeta `json:"meta"`
		Payload string        `json:"payload"`
	}
	decodeBody(t, resp, &slot)
	if slot.Payload == "" {
		t.Fatal("slot payload is empty")
	}

	// Clear the reactor, then load the slot back
	if err := engine.Remove(game.GridCoord{X: 0, Y: 0}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	loadResp := postJSON(t, fmt.Sprintf("%s/api/slots/%s/load", ts.URL, meta.ID), map[string]string{})
	if loadResp.StatusCode != http.StatusOK {
		t.Fatalf("slot load status = %d", loadResp.StatusCode)
	}
	loadResp.Body.Close()
	if len(engine.Snapshot().Components) != 1 {
		t.Error("slot load did not restore the component")
	}

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/slots/%s", ts.URL, meta.ID), nil)
	if err != nil {
		t.Fatalf("building delete: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE slot: %v", err)
	}
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", delResp.StatusCode)
	}
	delResp.Body.Close()

	resp, err = http.Get(fmt.Sprintf("%s/api/slots/%s", ts.URL, meta.ID))
	if err != nil {
		t.Fatalf("GET deleted slot: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted slot status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestSlotCreateRequiresName verifies the empty-name rejection
func TestSlotCreateRequiresName(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/slots/", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestUnknownSlotRoutes verifies missing ids map to 404
func TestUnknownSlotRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/slots/no-such-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	loadResp := postJSON(t, ts.URL+"/api/slots/no-such-id/load", map[string]string{})
	if loadResp.StatusCode != http.StatusNotFound {
		t.Errorf("load status = %d, want 404", loadResp.StatusCode)
	}
	loadResp.Body.Close()
}
