package depgraph

import "time"

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusPlanning, StatusInProgress, StatusBlocked,
		StatusReview, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// ConnectionType classifies a directed relationship between two work items.
type ConnectionType string

const (
	ConnDependency  ConnectionType = "dependency"
	ConnBlocks      ConnectionType = "blocks"
	ConnEnables     ConnectionType = "enables"
	ConnComplements ConnectionType = "complements"
	ConnConflicts   ConnectionType = "conflicts"
	ConnRelatesTo   ConnectionType = "relates_to"
	ConnDuplicates  ConnectionType = "duplicates"
	ConnSupersedes  ConnectionType = "supersedes"
)

// Valid reports whether t is a known connection type.
func (t ConnectionType) Valid() bool {
	switch t {
	case ConnDependency, ConnBlocks, ConnEnables, ConnComplements,
		ConnConflicts, ConnRelatesTo, ConnDuplicates, ConnSupersedes:
		return true
	}
	return false
}

// Ordering reports whether t defines a directed precedence constraint.
// Only ordering types participate in cycle detection and CPM; the rest
// are advisory and only contribute to dependency-degree counts.
func (t ConnectionType) Ordering() bool {
	return t == ConnDependency || t == ConnBlocks || t == ConnEnables
}

// WorkItem is one unit of roadmap work handed to the engine by the caller.
// The schedule triple (StartDate, EndDate, DurationDays) is optional; items
// missing any part of it are excluded from CPM but still participate in
// cycle detection, blocking and risk scoring.
type WorkItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       Status     `json:"status"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	DurationDays *float64   `json:"duration_days,omitempty"`
}

// Scheduled reports whether the full schedule triple is present.
func (w WorkItem) Scheduled() bool {
	return w.StartDate != nil && w.EndDate != nil && w.DurationDays != nil
}

// Connection is a typed directed edge between two work items.
type Connection struct {
	ID              string         `json:"id"`
	SourceItemID    string         `json:"source_item_id"`
	TargetItemID    string         `json:"target_item_id"`
	ConnectionType  ConnectionType `json:"connection_type"`
	Status          string         `json:"status"`
	Strength        float64        `json:"strength"`
	Confidence      float64        `json:"confidence"`
	IsBidirectional bool           `json:"is_bidirectional"`
}

// Active reports whether the connection participates in any computation.
func (c Connection) Active() bool {
	return c.Status == "active"
}
