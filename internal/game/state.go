package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// State owns all persistent player data and the transition operations that
// mutate it. Business-rule rejections are reported as a false/zero result
// with no mutation; nothing here panics or performs I/O.
//
// All operations assume single-threaded access. Drivers that expose State
// over a concurrent surface must serialize calls themselves.
type State struct {
	Money           int
	Reputation      int
	Day             int
	Inventory       map[SupplyKind]int
	StorageCapacity int
	Upgrades        Upgrades
	Employees       []EmployeeRecord

	Loan             int
	LoanInterestRate float64

	// Last-known market snapshot. The simulator is authoritative; the
	// caller pushes a fresh snapshot via SyncMarket each day.
	MarketTrend  float64
	MarketDemand float64

	ActiveResearch    string
	CompletedResearch []string
	ResearchPoints    int

	EmployeeProductivityModifier float64
	EmployeeEventDaysLeft        int

	repLossModifier float64
	rng             *rand.Rand
}

// NewState starts a fresh game at normal difficulty. A nil rng falls back to
// a time-seeded source; tests inject a fixed seed instead.
func NewState(rng *rand.Rand) *State {
	return NewStateWithDifficulty(rng, DefaultDifficulty())
}

func NewStateWithDifficulty(rng *rand.Rand, diff Difficulty) *State {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &State{
		Money:      int(math.Round(InitialMoney * diff.InitialMoneyMultiplier)),
		Reputation: InitialReputation,
		Day:        InitialDay,
		Inventory: map[SupplyKind]int{
			SupplyBasic:     0,
			SupplyPremium:   0,
			SupplyEquipment: 0,
		},
		StorageCapacity:              InitialStorageCapacity,
		Upgrades:                     Upgrades{AutomationEfficiency: 1.0},
		Employees:                    []EmployeeRecord{},
		LoanInterestRate:             AnnualLoanInterestRate * diff.LoanInterestModifier,
		MarketTrend:                  MarketTrendInitial,
		MarketDemand:                 MarketTrendInitial,
		CompletedResearch:            []string{},
		EmployeeProductivityModifier: 1.0,
		repLossModifier:              diff.ReputationLossModifier,
		rng:                          rng,
	}
}

func (s *State) TotalInventory() int {
	total := 0
	for _, n := range s.Inventory {
		total += n
	}
	return total
}

// BuySupplies debits money and credits inventory as one step. It fails on an
// unknown kind, a negative amount, insufficient money, or insufficient
// storage, leaving the state unchanged.
func (s *State) BuySupplies(kind SupplyKind, amount int) bool {
	spec, ok := SupplyByKind(kind)
	if !ok || amount < 0 {
		return false
	}
	cost := amount * spec.Price
	if cost > s.Money {
		return false
	}
	if s.TotalInventory()+amount > s.StorageCapacity {
		return false
	}
	s.Money -= cost
	s.Inventory[kind] += amount
	return true
}

// MaxAffordable reports how many units of a supply kind could be bought right
// now, bounded by both money and free storage. Advisory only.
func (s *State) MaxAffordable(kind SupplyKind) int {
	spec, ok := SupplyByKind(kind)
	if !ok {
		return 0
	}
	free := s.StorageCapacity - s.TotalInventory()
	byMoney := s.Money / spec.Price
	if byMoney < free {
		free = byMoney
	}
	if free < 0 {
		return 0
	}
	return free
}

// Work converts one supply unit into income. Returns 0 with no mutation when
// the inventory is empty. Income is
//
//	floor(floor(base * demand * automation * employees) * supplyMultiplier)
//
// where base is drawn uniformly from the configured range and the supply
// multiplier belongs to the consumed kind (premium before basic before
// equipment). Reputation loss and employee salaries are charged afterwards,
// salaries unconditionally.
func (s *State) Work() int {
	if s.TotalInventory() <= 0 {
		return 0
	}

	base := s.intBetween(BaseWorkIncomeMin, BaseWorkIncomeMax)
	automation := 1.0
	if s.Upgrades.AutomationEnabled {
		automation = AutomationIncomeMultiplier * s.Upgrades.AutomationEfficiency
	}
	employees := (1 + float64(len(s.Employees))*EmployeeProductivityBonus) * s.EmployeeProductivityModifier
	income := int(float64(base) * s.MarketDemand * automation * employees)

	kind, ok := s.nextConsumable()
	if !ok {
		return 0
	}
	spec, _ := SupplyByKind(kind)
	income = int(float64(income) * spec.IncomeMultiplier)
	s.Inventory[kind]--
	s.Money += income

	loss := s.intBetween(WorkRepLossMin, WorkRepLossMax)
	loss = int(math.Round(float64(loss) * s.repLossModifier))
	loss -= s.Upgrades.MarketingLevel * MarketingRepLossReduction
	if loss < 1 {
		loss = 1
	}
	s.Reputation -= loss

	s.Money -= len(s.Employees) * EmployeeDailySalary
	return income
}

func (s *State) nextConsumable() (SupplyKind, bool) {
	for _, kind := range []SupplyKind{SupplyPremium, SupplyBasic, SupplyEquipment} {
		if s.Inventory[kind] > 0 {
			return kind, true
		}
	}
	return "", false
}

// Rest recovers reputation. Always succeeds; the gain is deterministic and
// reputation is capped afterwards.
func (s *State) Rest() int {
	gain := BaseRestReputationGain + s.Upgrades.MarketingLevel*MarketingRestBonusPerLevel
	s.Reputation += gain
	if s.Reputation > ReputationCap {
		s.Reputation = ReputationCap
	}
	return gain
}

// HireEmployee appends a new employee. Salary is charged daily during Work,
// not here; only the (possibly zero) hire fee is debited.
func (s *State) HireEmployee() bool {
	if len(s.Employees) >= MaxEmployees {
		return false
	}
	if s.Money < EmployeeHireCost {
		return false
	}
	s.Money -= EmployeeHireCost
	s.Employees = append(s.Employees, EmployeeRecord{
		ID:     uuid.NewString(),
		Salary: EmployeeDailySalary,
	})
	return true
}

// FireEmployee removes the most recently hired employee.
func (s *State) FireEmployee() bool {
	if len(s.Employees) == 0 {
		return false
	}
	s.Employees = s.Employees[:len(s.Employees)-1]
	return true
}

func (s *State) PurchaseUpgrade(kind UpgradeKind) bool {
	spec, ok := UpgradeByKind(kind)
	if !ok {
		return false
	}
	if s.Money < spec.Cost {
		return false
	}
	switch kind {
	case UpgradeAutomation:
		if s.Upgrades.AutomationEnabled {
			return false
		}
		s.Upgrades.AutomationEnabled = true
	case UpgradeMarketing:
		if s.Upgrades.MarketingLevel >= spec.MaxLevel {
			return false
		}
		s.Upgrades.MarketingLevel++
	case UpgradeStorage:
		if s.Upgrades.StorageLevel >= spec.MaxLevel {
			return false
		}
		s.Upgrades.StorageLevel++
		s.StorageCapacity += spec.StoragePerLevel
	default:
		return false
	}
	s.Money -= spec.Cost
	return true
}

func (s *State) TakeLoan(amount int) bool {
	if amount <= 0 || amount > MaxLoanTotal-s.Loan {
		return false
	}
	s.Loan += amount
	s.Money += amount
	return true
}

func (s *State) RepayLoan(amount int) bool {
	if amount <= 0 || amount > s.Loan || amount > s.Money {
		return false
	}
	s.Loan -= amount
	s.Money -= amount
	return true
}

// ApplyDailyInterest compounds one day of interest into the loan principal.
// Interest is never charged against cash.
func (s *State) ApplyDailyInterest() int {
	if s.Loan <= 0 {
		return 0
	}
	interest := int(float64(s.Loan) * s.LoanInterestRate / 365)
	s.Loan += interest
	return interest
}

// AdvanceDay moves to the next day and decays the temporary employee-event
// modifier, resetting it to neutral on the day the duration runs out.
func (s *State) AdvanceDay() {
	s.Day++
	if s.EmployeeEventDaysLeft > 0 {
		s.EmployeeEventDaysLeft--
		if s.EmployeeEventDaysLeft == 0 {
			s.EmployeeProductivityModifier = 1.0
		}
	}
}

// IncomePotential projects income from a fixed representative base through
// the same automation/employee multipliers as Work. No randomness, no
// mutation; used only for loan advice.
func (s *State) IncomePotential() int {
	if s.TotalInventory() <= 0 {
		return 0
	}
	automation := 1.0
	if s.Upgrades.AutomationEnabled {
		automation = AutomationIncomeMultiplier * s.Upgrades.AutomationEfficiency
	}
	employees := 1 + float64(len(s.Employees))*EmployeeProductivityBonus
	return int(IncomePotentialBase * automation * employees)
}

func (s *State) SafeLoanAmount() int {
	headroom := MaxLoanTotal - s.Loan
	safe := s.IncomePotential() * SafeLoanIncomeDays
	if safe < headroom {
		headroom = safe
	}
	if headroom < 0 {
		return 0
	}
	return headroom
}

func (s *State) IsGameOver() bool {
	return s.Money >= WinThreshold || s.Reputation <= 0
}

func (s *State) IsWin() bool {
	return s.Money >= WinThreshold
}

// SyncMarket stores the day's authoritative market snapshot from the
// simulator.
func (s *State) SyncMarket(trend, demand float64) {
	s.MarketTrend = trend
	s.MarketDemand = demand
}

// ApplyCompetitorEffect shifts the displayed market trend, clamped against
// the wider display bounds.
func (s *State) ApplyCompetitorEffect(delta float64) {
	s.MarketTrend = clampFloat(s.MarketTrend+delta, TrendEffectFloor, TrendEffectCeil)
}

// ApplyRandomEvent dispatches one drawn event onto the state. Penalties floor
// money at zero; bonuses do not cap it.
func (s *State) ApplyRandomEvent(ev RandomEvent) {
	switch ev.Type {
	case EventBonus:
		s.Money += ev.Amount
	case EventPenalty:
		s.Money -= ev.Amount
		if s.Money < 0 {
			s.Money = 0
		}
	case EventOpportunity:
		s.MarketTrend = clampFloat(s.MarketTrend+ev.MarketBoost, MarketTrendMin, MarketTrendMax)
	case EventEmployee:
		if ev.Employee != nil {
			s.EmployeeProductivityModifier = ev.Employee.Multiplier
			s.EmployeeEventDaysLeft = ev.Employee.DurationDays
		}
	}
}

// ApplyResearchCompletion grants the fixed effect of a finished project and
// records it. Unknown, empty, and already-completed keys are no-ops.
func (s *State) ApplyResearchCompletion(key string) {
	if key == "" || s.HasCompletedResearch(key) {
		return
	}
	if _, ok := ResearchByKey(key); !ok {
		return
	}
	switch key {
	case ResearchEfficientStorage:
		s.StorageCapacity += ResearchStorageBonus
	case ResearchSmartAutomation:
		if s.Upgrades.AutomationEfficiency <= 0 {
			s.Upgrades.AutomationEfficiency = 1.0
		}
		s.Upgrades.AutomationEfficiency *= ResearchEfficiencyBoost
	case ResearchEcoFriendly:
		s.Reputation += ResearchReputationBonus
		if s.Reputation > ReputationCap {
			s.Reputation = ReputationCap
		}
	}
	s.CompletedResearch = append(s.CompletedResearch, key)
	if s.ActiveResearch == key {
		s.ActiveResearch = ""
	}
}

func (s *State) HasCompletedResearch(key string) bool {
	for _, k := range s.CompletedResearch {
		if k == key {
			return true
		}
	}
	return false
}

// Status returns a render-ready snapshot; the inventory map is copied.
func (s *State) Status() StatusView {
	inv := make(map[SupplyKind]int, len(s.Inventory))
	for k, v := range s.Inventory {
		inv[k] = v
	}
	completed := make([]string, len(s.CompletedResearch))
	copy(completed, s.CompletedResearch)
	return StatusView{
		Day:               s.Day,
		Money:             s.Money,
		Reputation:        s.Reputation,
		Loan:              s.Loan,
		Inventory:         inv,
		StorageUsed:       s.TotalInventory(),
		StorageCapacity:   s.StorageCapacity,
		Upgrades:          s.Upgrades,
		EmployeeCount:     len(s.Employees),
		MarketTrend:       s.MarketTrend,
		MarketDemand:      s.MarketDemand,
		ActiveResearch:    s.ActiveResearch,
		CompletedResearch: completed,
	}
}

func (s *State) intBetween(min, max int) int {
	return min + s.rng.Intn(max-min+1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
