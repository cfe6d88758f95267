package save

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/TMHSDigital/2D-Tycoon/internal/game"
)

func newTestState() *game.State {
	return game.NewState(rand.New(rand.NewSource(1)))
}

func tempSavePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "savegame.json")
}

func TestRoundTrip(t *testing.T) {
	st := newTestState()
	st.Money = 742
	st.Reputation = 61
	st.Day = 14
	st.Inventory[game.SupplyBasic] = 3
	st.Inventory[game.SupplyPremium] = 1
	st.StorageCapacity = 100
	st.Upgrades = game.Upgrades{AutomationEnabled: true, MarketingLevel: 2, StorageLevel: 1, AutomationEfficiency: 1.1}
	st.Employees = []game.EmployeeRecord{{ID: "e1", Salary: 150}, {ID: "e2", Salary: 150}}
	st.Loan = 400
	st.MarketTrend = 1.31
	st.MarketDemand = 0.92
	st.ActiveResearch = game.ResearchSmartAutomation
	st.CompletedResearch = []string{game.ResearchEcoFriendly}
	st.ResearchPoints = 5

	path := tempSavePath(t)
	if err := Write(path, st); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded := newTestState()
	if err := Load(path, loaded); err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Money != st.Money || loaded.Reputation != st.Reputation || loaded.Day != st.Day {
		t.Fatalf("core fields differ: %+v", loaded)
	}
	for kind, n := range st.Inventory {
		if loaded.Inventory[kind] != n {
			t.Fatalf("inventory[%s]=%d want %d", kind, loaded.Inventory[kind], n)
		}
	}
	if loaded.StorageCapacity != st.StorageCapacity {
		t.Fatalf("capacity=%d want %d", loaded.StorageCapacity, st.StorageCapacity)
	}
	if loaded.Upgrades != st.Upgrades {
		t.Fatalf("upgrades=%+v want %+v", loaded.Upgrades, st.Upgrades)
	}
	if len(loaded.Employees) != 2 || loaded.Employees[0].ID != "e1" {
		t.Fatalf("employees=%+v", loaded.Employees)
	}
	if loaded.Loan != st.Loan {
		t.Fatalf("loan=%d", loaded.Loan)
	}
	if loaded.MarketTrend != st.MarketTrend || loaded.MarketDemand != st.MarketDemand {
		t.Fatalf("market=%v/%v", loaded.MarketTrend, loaded.MarketDemand)
	}
	if loaded.ActiveResearch != st.ActiveResearch {
		t.Fatalf("active=%q", loaded.ActiveResearch)
	}
	if len(loaded.CompletedResearch) != 1 || loaded.CompletedResearch[0] != game.ResearchEcoFriendly {
		t.Fatalf("completed=%v", loaded.CompletedResearch)
	}
	if loaded.ResearchPoints != st.ResearchPoints {
		t.Fatalf("points=%d", loaded.ResearchPoints)
	}
}

func TestLoadFillsOptionalDefaults(t *testing.T) {
	// an early-schema save: only the original required keys
	raw := `{
		"money": 250,
		"reputation": 40,
		"day": 9,
		"inventory": {"basic_supplies": 2, "premium_supplies": 0, "equipment": 0},
		"upgrades": {"automation": false, "marketing": 1, "storage": 1},
		"employees": []
	}`
	path := tempSavePath(t)
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	st := newTestState()
	if err := Load(path, st); err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Loan != 0 {
		t.Fatalf("loan=%d want default 0", st.Loan)
	}
	if st.MarketTrend != game.MarketTrendInitial {
		t.Fatalf("trend=%v want default %v", st.MarketTrend, game.MarketTrendInitial)
	}
	if st.MarketDemand != st.MarketTrend {
		t.Fatalf("demand=%v want trend default", st.MarketDemand)
	}
	if st.Upgrades.AutomationEfficiency != 1.0 {
		t.Fatalf("efficiency=%v want neutral 1.0", st.Upgrades.AutomationEfficiency)
	}
	if st.ActiveResearch != "" || len(st.CompletedResearch) != 0 {
		t.Fatal("research fields not defaulted")
	}

	// one storage upgrade level recomputed into capacity
	spec, _ := game.UpgradeByKind(game.UpgradeStorage)
	want := game.InitialStorageCapacity + spec.StoragePerLevel
	if st.StorageCapacity != want {
		t.Fatalf("capacity=%d want derived %d", st.StorageCapacity, want)
	}
}

func TestLoadDerivesCapacityFromResearch(t *testing.T) {
	raw := `{
		"money": 250,
		"reputation": 40,
		"day": 9,
		"inventory": {},
		"upgrades": {"automation": false, "marketing": 0, "storage": 0},
		"employees": [],
		"completed_research": ["efficient_storage"]
	}`
	path := tempSavePath(t)
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	st := newTestState()
	if err := Load(path, st); err != nil {
		t.Fatalf("load: %v", err)
	}
	want := game.InitialStorageCapacity + game.ResearchStorageBonus
	if st.StorageCapacity != want {
		t.Fatalf("capacity=%d want %d", st.StorageCapacity, want)
	}
}

func TestLoadMissingRequiredKey(t *testing.T) {
	raw := `{
		"money": 250,
		"reputation": 40,
		"day": 9,
		"inventory": {},
		"employees": []
	}`
	path := tempSavePath(t)
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}
	st := newTestState()
	before := *st
	err := Load(path, st)
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err=%v want ErrMissingKey", err)
	}
	if st.Money != before.Money || st.Day != before.Day {
		t.Fatal("failed load mutated state")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := tempSavePath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	st := newTestState()
	st.Money = 777
	err := Load(path, st)
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err=%v want ErrCorrupt", err)
	}
	if st.Money != 777 {
		t.Fatal("failed load mutated state")
	}
}

func TestLoadMissingFile(t *testing.T) {
	st := newTestState()
	if err := Load(filepath.Join(t.TempDir(), "nope.json"), st); err == nil {
		t.Fatal("load of missing file succeeded")
	}
}

func TestExists(t *testing.T) {
	path := tempSavePath(t)
	if Exists(path) {
		t.Fatal("exists before write")
	}
	if err := Write(path, newTestState()); err != nil {
		t.Fatal(err)
	}
	if !Exists(path) {
		t.Fatal("missing after write")
	}
	if Exists(filepath.Dir(path)) {
		t.Fatal("directory reported as save file")
	}
}

func TestWriteFailureReportsError(t *testing.T) {
	st := newTestState()
	st.Money = 321

	// a directory is not a writable save target
	err := Write(t.TempDir(), st)
	if err == nil {
		t.Fatal("write to a directory succeeded")
	}
	var pathErr *os.PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("err=%v, want the underlying write error wrapped", err)
	}
	if st.Money != 321 {
		t.Fatal("failed write mutated state")
	}
}

func TestWriteOverwritesWholesale(t *testing.T) {
	path := tempSavePath(t)
	st := newTestState()
	st.Money = 100
	if err := Write(path, st); err != nil {
		t.Fatal(err)
	}
	st.Money = 900
	st.Day = 30
	if err := Write(path, st); err != nil {
		t.Fatal(err)
	}
	f, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Money != 900 || f.Day != 30 {
		t.Fatalf("file=%+v, second write did not replace first", f)
	}
}
