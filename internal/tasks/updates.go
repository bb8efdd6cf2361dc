package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchHealth Phase = iota
	FetchGenres
	FetchHistory
	FetchAnalytics
	WarmFeed
)

func (p Phase) String() string {
	switch p {
	case FetchHealth:
		return "fetch_health"
	case FetchGenres:
		return "fetch_genres"
	case FetchHistory:
		return "fetch_history"
	case FetchAnalytics:
		return "fetch_analytics"
	case WarmFeed:
		return "warm_feed"
	default:
		return ""
	}
}

func endpointUpdate(phase Phase, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", name),
	}
}

func warmingFeedUpdate(step, total int, label string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Warming: %s...", step, total, label),
	}
}

func warmCompletedUpdate(step, total int, label string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d tracks)", step, total, label, tracks),
	}
}

func warmFailedUpdate(step, total int, label string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WarmFeed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, label, err),
	}
}
