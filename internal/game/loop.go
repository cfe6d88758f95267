package game

// DayStart bundles everything that happens before the player acts: the
// market snapshot, any resolved competitor action, and the day's random
// event if the market flagged one.
type DayStart struct {
	Update            MarketUpdate
	CompetitorMessage string
	Event             RandomEvent
}

// DayEnd bundles the end-of-day resolution results.
type DayEnd struct {
	Interest int
	Research ResearchStatus
}

// BeginDay runs the morning phase in fixed order: the market advances, the
// state takes the fresh snapshot, an announced competitor action is resolved
// and applied, and a flagged special event is drawn and applied.
func BeginDay(st *State, sim *Simulator) DayStart {
	update := sim.UpdateMarket()
	st.SyncMarket(update.Trend, update.Demand)

	start := DayStart{Update: update, Event: RandomEvent{Type: EventNone}}
	if update.CompetitorAction != nil {
		effect := sim.ResolveCompetitorAction(*update.CompetitorAction)
		st.ApplyCompetitorEffect(effect.TrendDelta)
		start.CompetitorMessage = effect.Message
	}
	if update.SpecialEvent {
		start.Event = sim.DrawRandomEvent()
		st.ApplyRandomEvent(start.Event)
	}
	return start
}

// EndDay runs the evening phase: loan interest compounds, the calendar
// advances and the research timer ticks. A completed project's effect lands
// the same evening.
func EndDay(st *State, sim *Simulator) DayEnd {
	end := DayEnd{}
	end.Interest = st.ApplyDailyInterest()
	st.AdvanceDay()
	end.Research = sim.AdvanceResearch()
	if end.Research.Status == ResearchCompleted {
		st.ApplyResearchCompletion(end.Research.CompletedKey)
	}
	st.ActiveResearch = sim.ActiveResearchKey()
	return end
}

// StartResearch checks affordability and prior completion, debits the cost
// and arms the simulator timer as one step.
func StartResearch(st *State, sim *Simulator, key string) bool {
	project, ok := ResearchByKey(key)
	if !ok || st.HasCompletedResearch(key) {
		return false
	}
	if sim.ActiveResearchKey() != "" {
		return false
	}
	if st.Money < project.Cost {
		return false
	}
	if !sim.StartResearch(key) {
		return false
	}
	st.Money -= project.Cost
	st.ActiveResearch = key
	return true
}
