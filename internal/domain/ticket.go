package domain

import "time"

// TicketStatus enumerates lifecycle states for maintenance tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// StatusLabels maps statuses to the fixed display labels expected by
// existing stored data and the dashboard.
var StatusLabels = map[TicketStatus]string{
	TicketStatusOpen:       "Ouvert",
	TicketStatusInProgress: "En Cours",
	TicketStatusClosed:     "Archivé",
}

// StatusColors maps statuses to dashboard color keys.
var StatusColors = map[TicketStatus]string{
	TicketStatusOpen:       "blue",
	TicketStatusInProgress: "purple",
	TicketStatusClosed:     "slate",
}

// PriorityColors maps priorities to dashboard color keys.
var PriorityColors = map[TicketPriority]string{
	TicketPriorityLow:    "slate",
	TicketPriorityMedium: "slate",
	TicketPriorityHigh:   "red",
	TicketPriorityUrgent: "red",
}

// ValidPriority reports whether the value is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketDraft is the classifier's proposed ticket, immutable once produced.
type TicketDraft struct {
	Title       string
	Description string
	Urgency     TicketPriority
	Category    string
}

// Ticket is the persisted maintenance request. OwnerID is nil for guest
// submissions.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    string
	OwnerID     *string
	CreatedAt   time.Time
}

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusClosed, TicketStatusOpen},
	TicketStatusClosed:     {},
}

// ValidTransition reports whether a status change is allowed.
func ValidTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
