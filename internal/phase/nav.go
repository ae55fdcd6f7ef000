package phase

// NavEntry describes one visible phase in the navigation bar.
type NavEntry struct {
	Key        Phase  `json:"key"`
	Label      string `json:"label"`
	URLSegment string `json:"url_segment"`
	Index      int    `json:"index"`
	IsCurrent  bool   `json:"is_current"`
	IsComplete bool   `json:"is_completed"`
	IsFuture   bool   `json:"is_future"`
}

// Navigation is the full navigation payload for a project.
type Navigation struct {
	CurrentPhase Phase      `json:"current_phase"`
	CurrentLabel string     `json:"current_label"`
	PhaseIndex   int        `json:"phase_index"`
	TotalPhases  int        `json:"total_phases"`
	Phases       []NavEntry `json:"phases"`
}

// Visible returns the pipeline phases that appear in navigation.
func Visible() []Phase {
	out := make([]Phase, 0, len(Order()))
	for _, p := range Order() {
		if !hidden[p] {
			out = append(out, p)
		}
	}
	return out
}

// Navigate computes the navigation model for the given current phase.
//
// Unknown phases (legacy state files) degrade to the first phase. A hidden
// phase is displayed as the nearest preceding visible phase, e.g.
// quality_gates renders with chapter_build highlighted.
func Navigate(current Phase) Navigation {
	order := Order()

	idx, ok := Index(current)
	if !ok {
		idx = 0
		current = order[0]
	}

	displayCurrent := current
	if hidden[current] {
		for i := idx - 1; i >= 0; i-- {
			if !hidden[order[i]] {
				displayCurrent = order[i]
				break
			}
		}
	}

	visible := Visible()
	displayIdx := 0
	for i, p := range visible {
		if p == displayCurrent {
			displayIdx = i
			break
		}
	}

	entries := make([]NavEntry, 0, len(visible))
	for i, p := range visible {
		entries = append(entries, NavEntry{
			Key:        p,
			Label:      Label(p),
			URLSegment: URLSegment(p),
			Index:      i,
			IsCurrent:  p == displayCurrent,
			IsComplete: i < displayIdx,
			IsFuture:   i > displayIdx,
		})
	}

	return Navigation{
		CurrentPhase: current,
		CurrentLabel: Label(current),
		PhaseIndex:   displayIdx,
		TotalPhases:  len(visible),
		Phases:       entries,
	}
}
