package api

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/TMHSDigital/2D-Tycoon/internal/config"
	"github.com/TMHSDigital/2D-Tycoon/internal/game"
	"github.com/TMHSDigital/2D-Tycoon/internal/save"
)

func newTestServer(t *testing.T) (*Server, *game.State) {
	t.Helper()
	rng := rand.New(rand.NewSource(99))
	st := game.NewState(rng)
	sim := game.NewSimulator(rng)
	cfg := config.APIConfig{Addr: ":0", RequestTimeout: 5 * time.Second}
	savePath := filepath.Join(t.TempDir(), "savegame.json")
	return New(cfg, nil, st, sim, savePath), st
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return rec, out
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, out := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
	if out["ok"] != true {
		t.Fatalf("body=%v", out)
	}
}

func TestActionsRequireDayBegin(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/v1/actions/rest", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code=%d want 409 before day begin", rec.Code)
	}
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/v1/day/end", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code=%d want 409 for end without begin", rec.Code)
	}
}

func TestDayBeginTwiceConflicts(t *testing.T) {
	srv, _ := newTestServer(t)
	rec, _ := doJSON(t, srv.Handler(), http.MethodPost, "/v1/day/begin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("first begin code=%d", rec.Code)
	}
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/v1/day/begin", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second begin code=%d want 409", rec.Code)
	}
}

func TestFullDayCycle(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()
	st.Money = 500 // comfortably below the win threshold even after a good day

	rec, _ := doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("begin code=%d", rec.Code)
	}

	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/supplies/buy",
		map[string]any{"kind": "basic_supplies", "amount": 2})
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("buy code=%d body=%v", rec.Code, out)
	}

	rec, out = doJSON(t, h, http.MethodPost, "/v1/actions/work", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("work code=%d body=%v", rec.Code, out)
	}
	if income, ok := out["income"].(float64); !ok || income <= 0 {
		t.Fatalf("income=%v", out["income"])
	}

	rec, out = doJSON(t, h, http.MethodPost, "/v1/day/end", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("end code=%d", rec.Code)
	}
	status, ok := out["status"].(map[string]any)
	if !ok {
		t.Fatalf("status missing: %v", out)
	}
	if status["day"].(float64) != 2 {
		t.Fatalf("day=%v want 2", status["day"])
	}

	// back to idle, a new day can begin
	rec, _ = doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("next begin code=%d", rec.Code)
	}
}

func TestRejectedActionReturns422(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)

	st.Money = 0
	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/supplies/buy",
		map[string]any{"kind": "basic_supplies", "amount": 5})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code=%d want 422", rec.Code)
	}
	if out["ok"] != false {
		t.Fatalf("body=%v", out)
	}
}

func TestBadRequestBody(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/actions/loans/take", bytes.NewBufferString(`{"amount": "lots"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("code=%d want 400", rec.Code)
	}
}

func TestSaveAndLoadEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	st.Money = 555
	rec, _ := doJSON(t, h, http.MethodPost, "/v1/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save code=%d", rec.Code)
	}
	if !save.Exists(srv.savePath) {
		t.Fatal("save file not written")
	}

	st.Money = 42
	rec, out := doJSON(t, h, http.MethodPost, "/v1/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load code=%d", rec.Code)
	}
	status := out["status"].(map[string]any)
	if status["money"].(float64) != 555 {
		t.Fatalf("money=%v want restored 555", status["money"])
	}
}

func TestLoadClearsInFlightResearch(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	// snapshot taken before any research starts
	rec, _ := doJSON(t, h, http.MethodPost, "/v1/save", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("save code=%d", rec.Code)
	}

	st.Money = 900
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/research/start",
		map[string]any{"key": game.ResearchEcoFriendly})
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("start code=%d body=%v", rec.Code, out)
	}
	doJSON(t, h, http.MethodPost, "/v1/day/end", nil)

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load code=%d", rec.Code)
	}
	if st.ActiveResearch != "" {
		t.Fatalf("active=%q after loading a no-research save", st.ActiveResearch)
	}

	// a full day cycle must not resurrect the abandoned project
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	doJSON(t, h, http.MethodPost, "/v1/day/end", nil)
	if st.ActiveResearch != "" {
		t.Fatalf("abandoned project %q ticked back into the state", st.ActiveResearch)
	}
	if st.HasCompletedResearch(game.ResearchEcoFriendly) {
		t.Fatal("abandoned project completed after load")
	}
}

func TestLoadReplacesInFlightResearch(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()

	// snapshot with project B active
	st.Money = 900
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	doJSON(t, h, http.MethodPost, "/v1/actions/research/start",
		map[string]any{"key": game.ResearchEfficientStorage})
	doJSON(t, h, http.MethodPost, "/v1/day/end", nil)
	doJSON(t, h, http.MethodPost, "/v1/save", nil)

	// finish B, then start A in the live session
	for st.ActiveResearch != "" {
		doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
		doJSON(t, h, http.MethodPost, "/v1/day/end", nil)
	}
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/research/start",
		map[string]any{"key": game.ResearchEcoFriendly})
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("second start code=%d body=%v", rec.Code, out)
	}
	doJSON(t, h, http.MethodPost, "/v1/day/end", nil)

	rec, _ = doJSON(t, h, http.MethodPost, "/v1/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load code=%d", rec.Code)
	}
	if st.ActiveResearch != game.ResearchEfficientStorage {
		t.Fatalf("active=%q want the saved project", st.ActiveResearch)
	}

	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	doJSON(t, h, http.MethodPost, "/v1/day/end", nil)
	if st.ActiveResearch != game.ResearchEfficientStorage {
		t.Fatalf("active=%q after a day, the saved project should keep ticking", st.ActiveResearch)
	}
}

func TestLoadRejectedMidDay(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	doJSON(t, h, http.MethodPost, "/v1/save", nil)
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	rec, _ := doJSON(t, h, http.MethodPost, "/v1/load", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("code=%d want 409 mid-day", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	srv, st := newTestServer(t)
	st.Money = game.WinThreshold
	rec, out := doJSON(t, srv.Handler(), http.MethodGet, "/v1/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code=%d", rec.Code)
	}
	if out["game_over"] != true || out["win"] != true {
		t.Fatalf("body=%v", out)
	}
	rec, _ = doJSON(t, srv.Handler(), http.MethodPost, "/v1/day/begin", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("begin after game over code=%d", rec.Code)
	}
}

func TestResearchEndpoints(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Handler()
	st.Money = 900 // below win threshold, above every project cost

	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/research/start",
		map[string]any{"key": game.ResearchEcoFriendly})
	if rec.Code != http.StatusOK || out["ok"] != true {
		t.Fatalf("start code=%d body=%v", rec.Code, out)
	}

	rec, out = doJSON(t, h, http.MethodGet, "/v1/research", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list code=%d", rec.Code)
	}
	if out["active"] != game.ResearchEcoFriendly {
		t.Fatalf("active=%v", out["active"])
	}
	projects, ok := out["projects"].([]any)
	if !ok || len(projects) != 3 {
		t.Fatalf("projects=%v", out["projects"])
	}
}

func TestWorkWithoutSuppliesIs422(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()
	doJSON(t, h, http.MethodPost, "/v1/day/begin", nil)
	rec, out := doJSON(t, h, http.MethodPost, "/v1/actions/work", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code=%d body=%v", rec.Code, out)
	}
}
