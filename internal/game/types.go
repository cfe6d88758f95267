package game

// EmployeeRecord is one hired employee. Order matters: firing removes the
// most recently hired record.
type EmployeeRecord struct {
	ID     string `json:"id"`
	Salary int    `json:"salary"`
}

// Upgrades is the fixed-shape upgrade record. AutomationEfficiency stays at
// the neutral 1.0 until the smart-automation research grants a boost.
type Upgrades struct {
	AutomationEnabled    bool    `json:"automation"`
	MarketingLevel       int     `json:"marketing"`
	StorageLevel         int     `json:"storage"`
	AutomationEfficiency float64 `json:"automation_efficiency"`
}

// MarketUpdate is what the simulator emits at the start of each day.
type MarketUpdate struct {
	Trend            float64           `json:"market_trend"`
	Demand           float64           `json:"market_demand"`
	SpecialEvent     bool              `json:"special_event"`
	MarketMessage    string            `json:"market_message"`
	CompetitorAction *CompetitorAction `json:"competitor_action,omitempty"`
}

type CompetitorAction struct {
	Competitor string               `json:"competitor"`
	Action     CompetitorActionKind `json:"action"`
}

// CompetitorEffect is the resolved outcome of a competitor action; the
// trend delta is applied to the player's market view, not the simulator.
type CompetitorEffect struct {
	Message    string  `json:"message"`
	TrendDelta float64 `json:"trend_delta"`
}

type EventType string

const (
	EventNone        EventType = "none"
	EventBonus       EventType = "bonus"
	EventPenalty     EventType = "penalty"
	EventOpportunity EventType = "opportunity"
	EventEmployee    EventType = "employee_event"
)

type RandomEvent struct {
	Type        EventType      `json:"type"`
	Amount      int            `json:"amount,omitempty"`
	MarketBoost float64        `json:"market_boost,omitempty"`
	Employee    *EmployeeEvent `json:"employee_event,omitempty"`
	Message     string         `json:"message,omitempty"`
}

type EmployeeEvent struct {
	Effect       string  `json:"effect"`
	Name         string  `json:"name"`
	Multiplier   float64 `json:"multiplier"`
	DurationDays int     `json:"duration_days"`
	Message      string  `json:"message"`
}

type ResearchStatusKind string

const (
	ResearchNone       ResearchStatusKind = "no_research"
	ResearchInProgress ResearchStatusKind = "in_progress"
	ResearchCompleted  ResearchStatusKind = "completed"
)

// ResearchStatus reports one daily tick of the research timer. Progress is
// the completed fraction while in progress; CompletedKey is set exactly once,
// on the completing tick.
type ResearchStatus struct {
	Status       ResearchStatusKind `json:"status"`
	Progress     float64            `json:"progress,omitempty"`
	CompletedKey string             `json:"completed_project,omitempty"`
}

// StatusView is the read-only snapshot the presentation layers render.
type StatusView struct {
	Day               int                `json:"day"`
	Money             int                `json:"money"`
	Reputation        int                `json:"reputation"`
	Loan              int                `json:"loan"`
	Inventory         map[SupplyKind]int `json:"inventory"`
	StorageUsed       int                `json:"storage_used"`
	StorageCapacity   int                `json:"storage_capacity"`
	Upgrades          Upgrades           `json:"upgrades"`
	EmployeeCount     int                `json:"employee_count"`
	MarketTrend       float64            `json:"market_trend"`
	MarketDemand      float64            `json:"current_market_demand"`
	ActiveResearch    string             `json:"active_research_project,omitempty"`
	CompletedResearch []string           `json:"completed_research"`
}
