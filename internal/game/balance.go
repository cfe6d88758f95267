package game

// Balance constants and static catalogs. All difficulty tuning happens here;
// nothing below is persisted, so changing a value only affects new days.

const (
	InitialMoney           = 100
	InitialReputation      = 50
	InitialDay             = 1
	InitialStorageCapacity = 50
	WinThreshold           = 1000

	MaxLoanTotal           = 1000
	AnnualLoanInterestRate = 0.10

	BaseWorkIncomeMin = 40
	BaseWorkIncomeMax = 80
	WorkRepLossMin    = 3
	WorkRepLossMax    = 8

	BaseRestReputationGain     = 10
	MarketingRestBonusPerLevel = 2
	MarketingRepLossReduction  = 1

	EmployeeHireCost          = 0
	EmployeeDailySalary       = 150
	EmployeeProductivityBonus = 0.4
	MaxEmployees              = 3

	AutomationIncomeMultiplier = 1.5

	ReputationCap = 100

	MarketTrendInitial           = 1.0
	MarketTrendMin               = 0.5
	MarketTrendMax               = 2.0
	MarketTrendDailySwing        = 0.2
	AggressiveCompetitorPressure = -0.1
	CompetitorInfluenceFactor    = 0.5
	MarketBoomThreshold          = 1.2
	MarketDeclineThreshold       = 0.8

	SpecialEventChance     = 0.2
	CompetitorActionChance = 0.3
	OpportunityMarketBoost = 0.3

	// Trend deltas applied directly to player state clamp against these,
	// slightly wider than the simulator's own bounds.
	TrendEffectFloor = 0.3
	TrendEffectCeil  = 2.2

	// Loan advice assumes the player can repay roughly ten days of
	// projected income.
	SafeLoanIncomeDays  = 10
	IncomePotentialBase = 60
)

type SupplyKind string

const (
	SupplyBasic     SupplyKind = "basic_supplies"
	SupplyPremium   SupplyKind = "premium_supplies"
	SupplyEquipment SupplyKind = "equipment"
)

type SupplySpec struct {
	Kind             SupplyKind
	DisplayName      string
	Price            int
	IncomeMultiplier float64
}

// Consumption priority during Work is premium, then basic, then equipment.
var supplyCatalog = []SupplySpec{
	{Kind: SupplyBasic, DisplayName: "Basic Supplies", Price: 25, IncomeMultiplier: 1.0},
	{Kind: SupplyPremium, DisplayName: "Premium Supplies", Price: 50, IncomeMultiplier: 1.5},
	{Kind: SupplyEquipment, DisplayName: "Equipment", Price: 150, IncomeMultiplier: 1.3},
}

func SupplyByKind(kind SupplyKind) (SupplySpec, bool) {
	for _, spec := range supplyCatalog {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return SupplySpec{}, false
}

func SupplyCatalog() []SupplySpec {
	out := make([]SupplySpec, len(supplyCatalog))
	copy(out, supplyCatalog)
	return out
}

type UpgradeKind string

const (
	UpgradeAutomation UpgradeKind = "automation"
	UpgradeMarketing  UpgradeKind = "marketing"
	UpgradeStorage    UpgradeKind = "storage"
)

type UpgradeSpec struct {
	Kind            UpgradeKind
	DisplayName     string
	Cost            int
	MaxLevel        int
	StoragePerLevel int
	Description     string
}

var upgradeCatalog = []UpgradeSpec{
	{Kind: UpgradeAutomation, DisplayName: "Automation System", Cost: 400, MaxLevel: 1, Description: "Increases daily income from work by a fixed multiplier."},
	{Kind: UpgradeMarketing, DisplayName: "Marketing Campaign", Cost: 250, MaxLevel: 3, Description: "Improves reputation gain from rest and reduces reputation loss from work."},
	{Kind: UpgradeStorage, DisplayName: "Storage Expansion", Cost: 150, MaxLevel: 2, StoragePerLevel: 50, Description: "Increases storage capacity."},
}

func UpgradeByKind(kind UpgradeKind) (UpgradeSpec, bool) {
	for _, spec := range upgradeCatalog {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return UpgradeSpec{}, false
}

func UpgradeCatalog() []UpgradeSpec {
	out := make([]UpgradeSpec, len(upgradeCatalog))
	copy(out, upgradeCatalog)
	return out
}

type ResearchProject struct {
	Key          string
	Name         string
	Cost         int
	DurationDays int
	Description  string
	Effect       string
}

const (
	ResearchEfficientStorage = "efficient_storage"
	ResearchSmartAutomation  = "smart_automation"
	ResearchEcoFriendly      = "eco_friendly"

	ResearchStorageBonus    = 75
	ResearchEfficiencyBoost = 1.10
	ResearchReputationBonus = 10
)

// Single read-only catalog shared by the simulator (timers) and the player
// state (completion effects).
var researchCatalog = []ResearchProject{
	{Key: ResearchEfficientStorage, Name: "Efficient Storage Solutions", Cost: 400, DurationDays: 5, Description: "Advanced logistics increase total storage capacity by 75 units.", Effect: "+75 Storage Capacity"},
	{Key: ResearchSmartAutomation, Name: "Smart Automation Systems", Cost: 600, DurationDays: 7, Description: "Cutting-edge AI boosts income from automated processes by an additional 10%.", Effect: "+10% Automation Efficiency"},
	{Key: ResearchEcoFriendly, Name: "Eco-Friendly Practices", Cost: 300, DurationDays: 4, Description: "Sustainable operations improve public image, granting a permanent +10 reputation boost.", Effect: "+10 Reputation"},
}

func ResearchByKey(key string) (ResearchProject, bool) {
	for _, p := range researchCatalog {
		if p.Key == key {
			return p, true
		}
	}
	return ResearchProject{}, false
}

func ResearchCatalog() []ResearchProject {
	out := make([]ResearchProject, len(researchCatalog))
	copy(out, researchCatalog)
	return out
}

type Competitor struct {
	Name        string
	MarketShare float64
	Aggressive  bool
}

var defaultCompetitors = []Competitor{
	{Name: "SmallBiz Inc.", MarketShare: 0.2, Aggressive: false},
	{Name: "MegaCorp", MarketShare: 0.4, Aggressive: true},
}

type CompetitorActionKind string

const (
	ActionPriceWar          CompetitorActionKind = "price_war"
	ActionMarketingCampaign CompetitorActionKind = "marketing_campaign"
	ActionExpansion         CompetitorActionKind = "expansion"
)

var competitorActionKinds = []CompetitorActionKind{ActionPriceWar, ActionMarketingCampaign, ActionExpansion}

type competitorEffectSpec struct {
	Template   string
	TrendDelta float64
}

var competitorEffects = map[CompetitorActionKind]competitorEffectSpec{
	ActionPriceWar:          {Template: "%s started a price war!", TrendDelta: -0.2},
	ActionMarketingCampaign: {Template: "%s launched a major marketing campaign!", TrendDelta: -0.1},
	ActionExpansion:         {Template: "%s expanded their business!", TrendDelta: -0.15},
}

type eventChanceSpec struct {
	Type      EventType
	Chance    float64
	MinAmount int
	MaxAmount int
}

// Cumulative weighted draw; the residual mass is the "none" sentinel.
var eventChances = []eventChanceSpec{
	{Type: EventBonus, Chance: 0.4, MinAmount: 20, MaxAmount: 50},
	{Type: EventPenalty, Chance: 0.3, MinAmount: 10, MaxAmount: 30},
	{Type: EventOpportunity, Chance: 0.2},
	{Type: EventEmployee, Chance: 0.1},
}

var employeeSubEvents = []EmployeeEvent{
	{Effect: "productivity_boost", Name: "High Morale", Multiplier: 1.5, DurationDays: 2, Message: "Employee morale is high! Productivity boosted!"},
	{Effect: "strike", Name: "Employee Strike", Multiplier: 0.5, DurationDays: 1, Message: "Employees are on strike! Productivity halved!"},
	{Effect: "training", Name: "Training Seminar", Multiplier: 1.2, DurationDays: 3, Message: "Employees attended a training seminar! Slightly boosted productivity."},
}

type Difficulty struct {
	Name                   string
	InitialMoneyMultiplier float64
	ReputationLossModifier float64
	LoanInterestModifier   float64
}

var difficultyLevels = []Difficulty{
	{Name: "easy", InitialMoneyMultiplier: 1.5, ReputationLossModifier: 0.75, LoanInterestModifier: 0.8},
	{Name: "normal", InitialMoneyMultiplier: 1.0, ReputationLossModifier: 1.0, LoanInterestModifier: 1.0},
	{Name: "hard", InitialMoneyMultiplier: 0.75, ReputationLossModifier: 1.25, LoanInterestModifier: 1.2},
}

func DifficultyByName(name string) (Difficulty, bool) {
	for _, d := range difficultyLevels {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}

func DefaultDifficulty() Difficulty {
	d, _ := DifficultyByName("normal")
	return d
}
