package election

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// DeriveStatus computes the lifecycle state from the voting window.
// Both edges of the window count as active.
func DeriveStatus(start, end, now float64) Status {
	switch {
	case now < start:
		return StatusDraft
	case now <= end:
		return StatusActive
	default:
		return StatusClosed
	}
}

// ValidateWindow enforces end > start.
func ValidateWindow(start, end float64) error {
	if end <= start {
		return ErrInvalidWindow
	}
	return nil
}

// ListFilter narrows election listings. A nil ActiveAt lists everything.
type ListFilter struct {
	ActiveAt *float64
}

// ActiveAt selects elections whose window contains now:
// start_time <= now AND end_time >= now.
func ActiveAt(now float64) ListFilter {
	return ListFilter{ActiveAt: &now}
}

func (f ListFilter) Matches(e Election) bool {
	if f.ActiveAt == nil {
		return true
	}

	now := *f.ActiveAt
	return e.StartTime <= now && e.EndTime >= now
}
