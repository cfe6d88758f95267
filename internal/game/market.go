package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Simulator owns the market trend, the competitor roster and the research
// timer. It never touches player state; drivers forward its outputs to the
// State they belong to.
type Simulator struct {
	Trend       float64
	Competitors []Competitor

	active *researchSlot
	rng    *rand.Rand
}

type researchSlot struct {
	key          string
	progressDays int
}

func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	competitors := make([]Competitor, len(defaultCompetitors))
	copy(competitors, defaultCompetitors)
	return &Simulator{
		Trend:       MarketTrendInitial,
		Competitors: competitors,
		rng:         rng,
	}
}

// UpdateMarket advances the trend by one day and reports the resulting
// snapshot. The trend drifts by a uniform swing, takes constant pressure
// from each aggressive competitor, and is clamped to the simulated range.
// Demand is the trend discounted by the competitors' combined market share.
func (m *Simulator) UpdateMarket() MarketUpdate {
	drift := (m.rng.Float64()*2 - 1) * MarketTrendDailySwing
	m.Trend += drift
	for _, c := range m.Competitors {
		if c.Aggressive {
			m.Trend += AggressiveCompetitorPressure
		}
	}
	m.Trend = clampFloat(m.Trend, MarketTrendMin, MarketTrendMax)

	update := MarketUpdate{
		Trend:  m.Trend,
		Demand: m.CurrentDemand(),
	}
	if m.rng.Float64() < SpecialEventChance {
		update.SpecialEvent = true
	}
	if m.rng.Float64() < CompetitorActionChance && len(m.Competitors) > 0 {
		c := m.Competitors[m.rng.Intn(len(m.Competitors))]
		action := competitorActionKinds[m.rng.Intn(len(competitorActionKinds))]
		update.CompetitorAction = &CompetitorAction{Competitor: c.Name, Action: action}
	}
	switch {
	case m.Trend > MarketBoomThreshold:
		update.MarketMessage = "The market is booming!"
	case m.Trend < MarketDeclineThreshold:
		update.MarketMessage = "The market is in decline."
	}
	return update
}

// CurrentDemand derives the demand multiplier from the present trend.
func (m *Simulator) CurrentDemand() float64 {
	share := 0.0
	for _, c := range m.Competitors {
		share += c.MarketShare
	}
	return m.Trend * (1 - share*CompetitorInfluenceFactor)
}

// ResolveCompetitorAction maps an announced action to its message and trend
// delta. Unknown actions resolve to a neutral effect.
func (m *Simulator) ResolveCompetitorAction(action CompetitorAction) CompetitorEffect {
	spec, ok := competitorEffects[action.Action]
	if !ok {
		return CompetitorEffect{Message: fmt.Sprintf("%s made a move.", action.Competitor)}
	}
	return CompetitorEffect{
		Message:    fmt.Sprintf(spec.Template, action.Competitor),
		TrendDelta: spec.TrendDelta,
	}
}

// DrawRandomEvent rolls the weighted event table. The residual probability
// mass yields a none event.
func (m *Simulator) DrawRandomEvent() RandomEvent {
	roll := m.rng.Float64()
	cumulative := 0.0
	for _, spec := range eventChances {
		cumulative += spec.Chance
		if roll >= cumulative {
			continue
		}
		switch spec.Type {
		case EventBonus:
			amount := spec.MinAmount + m.rng.Intn(spec.MaxAmount-spec.MinAmount+1)
			return RandomEvent{
				Type:    EventBonus,
				Amount:  amount,
				Message: fmt.Sprintf("A surprise customer placed a big order! You earned $%d.", amount),
			}
		case EventPenalty:
			amount := spec.MinAmount + m.rng.Intn(spec.MaxAmount-spec.MinAmount+1)
			return RandomEvent{
				Type:    EventPenalty,
				Amount:  amount,
				Message: fmt.Sprintf("Equipment breakdown! Repairs cost $%d.", amount),
			}
		case EventOpportunity:
			return RandomEvent{
				Type:        EventOpportunity,
				MarketBoost: OpportunityMarketBoost,
				Message:     "A new market opportunity appeared! Demand is rising.",
			}
		case EventEmployee:
			sub := employeeSubEvents[m.rng.Intn(len(employeeSubEvents))]
			return RandomEvent{
				Type:     EventEmployee,
				Employee: &sub,
				Message:  sub.Message,
			}
		}
	}
	return RandomEvent{Type: EventNone}
}

// StartResearch arms the research timer. It fails while another project is
// running or when the key is unknown; affordability is the caller's concern.
func (m *Simulator) StartResearch(key string) bool {
	if m.active != nil {
		return false
	}
	if _, ok := ResearchByKey(key); !ok {
		return false
	}
	m.active = &researchSlot{key: key}
	return true
}

// AbandonResearch drops the running project without completing it. Used when
// a restored save replaces the session mid-flight.
func (m *Simulator) AbandonResearch() {
	m.active = nil
}

// ActiveResearchKey reports the running project, or "" when idle.
func (m *Simulator) ActiveResearchKey() string {
	if m.active == nil {
		return ""
	}
	return m.active.key
}

// AdvanceResearch ticks the running project by one day. On the completing
// tick the project key is reported once and the slot frees up.
func (m *Simulator) AdvanceResearch() ResearchStatus {
	if m.active == nil {
		return ResearchStatus{Status: ResearchNone}
	}
	project, ok := ResearchByKey(m.active.key)
	if !ok {
		m.active = nil
		return ResearchStatus{Status: ResearchNone}
	}
	m.active.progressDays++
	if m.active.progressDays >= project.DurationDays {
		key := m.active.key
		m.active = nil
		return ResearchStatus{Status: ResearchCompleted, Progress: 1, CompletedKey: key}
	}
	return ResearchStatus{
		Status:   ResearchInProgress,
		Progress: float64(m.active.progressDays) / float64(project.DurationDays),
	}
}
