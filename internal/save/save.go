// Package save persists a game to a single JSON file and restores it. A load
// either fully succeeds or leaves the running state untouched.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/TMHSDigital/2D-Tycoon/internal/game"
)

var (
	ErrCorrupt    = errors.New("save: corrupt save file")
	ErrMissingKey = errors.New("save: missing required key")
)

// requiredKeys must all be present in a save file; everything else is filled
// with a sensible default on load.
var requiredKeys = []string{"money", "reputation", "day", "inventory", "upgrades", "employees"}

// upgradesDTO keeps automation_efficiency optional on disk so saves written
// before the research system still load.
type upgradesDTO struct {
	AutomationEnabled    bool     `json:"automation"`
	MarketingLevel       int      `json:"marketing"`
	StorageLevel         int      `json:"storage"`
	AutomationEfficiency *float64 `json:"automation_efficiency,omitempty"`
}

// File is the on-disk save layout.
type File struct {
	Money           int                     `json:"money"`
	Reputation      int                     `json:"reputation"`
	Day             int                     `json:"day"`
	Inventory       map[game.SupplyKind]int `json:"inventory"`
	Upgrades        upgradesDTO             `json:"upgrades"`
	Employees       []game.EmployeeRecord   `json:"employees"`
	Loan            int                     `json:"loan"`
	MarketTrend     float64                 `json:"market_trend"`
	MarketDemand    float64                 `json:"current_market_demand"`
	StorageCapacity int                     `json:"storage_capacity"`
	ActiveResearch  *string                 `json:"active_research_project"`
	Completed       []string                `json:"completed_research"`
	ResearchPoints  int                     `json:"research_points"`
}

// DefaultPath returns ~/.tycoon/savegame.json, creating the directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("save: resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".tycoon")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("save: create save dir: %w", err)
	}
	return filepath.Join(dir, "savegame.json"), nil
}

func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Capture snapshots the state into the on-disk layout.
func Capture(st *game.State) File {
	inv := make(map[game.SupplyKind]int, len(st.Inventory))
	for k, v := range st.Inventory {
		inv[k] = v
	}
	employees := make([]game.EmployeeRecord, len(st.Employees))
	copy(employees, st.Employees)
	completed := make([]string, len(st.CompletedResearch))
	copy(completed, st.CompletedResearch)

	eff := st.Upgrades.AutomationEfficiency
	f := File{
		Money:      st.Money,
		Reputation: st.Reputation,
		Day:        st.Day,
		Inventory:  inv,
		Upgrades: upgradesDTO{
			AutomationEnabled:    st.Upgrades.AutomationEnabled,
			MarketingLevel:       st.Upgrades.MarketingLevel,
			StorageLevel:         st.Upgrades.StorageLevel,
			AutomationEfficiency: &eff,
		},
		Employees:       employees,
		Loan:            st.Loan,
		MarketTrend:     st.MarketTrend,
		MarketDemand:    st.MarketDemand,
		StorageCapacity: st.StorageCapacity,
		Completed:       completed,
		ResearchPoints:  st.ResearchPoints,
	}
	if st.ActiveResearch != "" {
		key := st.ActiveResearch
		f.ActiveResearch = &key
	}
	return f
}

// Apply copies the file contents onto the state. Derived recomputation for
// absent optional keys has already happened in Read.
func (f File) Apply(st *game.State) {
	st.Money = f.Money
	st.Reputation = f.Reputation
	st.Day = f.Day
	st.Inventory = map[game.SupplyKind]int{
		game.SupplyBasic:     f.Inventory[game.SupplyBasic],
		game.SupplyPremium:   f.Inventory[game.SupplyPremium],
		game.SupplyEquipment: f.Inventory[game.SupplyEquipment],
	}
	st.Upgrades.AutomationEnabled = f.Upgrades.AutomationEnabled
	st.Upgrades.MarketingLevel = f.Upgrades.MarketingLevel
	st.Upgrades.StorageLevel = f.Upgrades.StorageLevel
	if f.Upgrades.AutomationEfficiency != nil && *f.Upgrades.AutomationEfficiency > 0 {
		st.Upgrades.AutomationEfficiency = *f.Upgrades.AutomationEfficiency
	} else {
		st.Upgrades.AutomationEfficiency = 1.0
	}
	st.Employees = append([]game.EmployeeRecord(nil), f.Employees...)
	st.Loan = f.Loan
	st.MarketTrend = f.MarketTrend
	st.MarketDemand = f.MarketDemand
	st.StorageCapacity = f.StorageCapacity
	if f.ActiveResearch != nil {
		st.ActiveResearch = *f.ActiveResearch
	} else {
		st.ActiveResearch = ""
	}
	st.CompletedResearch = append([]string(nil), f.Completed...)
	st.ResearchPoints = f.ResearchPoints
}

// Write atomically-enough persists the state: marshal first, then a single
// file write. Save files hold no secrets but stay owner-only like the rest
// of the save dir.
func Write(path string, st *game.State) error {
	data, err := json.MarshalIndent(Capture(st), "", "  ")
	if err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save: write %s: %w", path, err)
	}
	return nil
}

// Read parses and validates a save file. Required keys must be present;
// optional keys get defaults, with storage capacity recomputed from upgrades
// and research when absent.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("save: read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return File{}, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if f.Inventory == nil {
		f.Inventory = map[game.SupplyKind]int{}
	}
	if _, ok := raw["market_trend"]; !ok {
		f.MarketTrend = game.MarketTrendInitial
	}
	if _, ok := raw["current_market_demand"]; !ok {
		f.MarketDemand = f.MarketTrend
	}
	if _, ok := raw["storage_capacity"]; !ok {
		f.StorageCapacity = derivedCapacity(f)
	}
	if f.Completed == nil {
		f.Completed = []string{}
	}
	return f, nil
}

func derivedCapacity(f File) int {
	capacity := game.InitialStorageCapacity
	if spec, ok := game.UpgradeByKind(game.UpgradeStorage); ok {
		capacity += f.Upgrades.StorageLevel * spec.StoragePerLevel
	}
	for _, key := range f.Completed {
		if key == game.ResearchEfficientStorage {
			capacity += game.ResearchStorageBonus
		}
	}
	return capacity
}

// Load reads a save file and applies it to the state. On any error the state
// is left exactly as it was.
func Load(path string, st *game.State) error {
	f, err := Read(path)
	if err != nil {
		return err
	}
	f.Apply(st)
	return nil
}
