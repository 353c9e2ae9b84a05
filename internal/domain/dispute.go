package domain

import (
	"time"
)

// ReasonCode classifies why a dispute was opened.
type ReasonCode string

const (
	ReasonQualityGap    ReasonCode = "quality_gap"
	ReasonScopeMismatch ReasonCode = "scope_mismatch"
	ReasonDelay         ReasonCode = "delay"
	ReasonBilling       ReasonCode = "billing"
)

// DisputePriority ranks how urgently a dispute needs attention.
type DisputePriority string

const (
	PriorityLow    DisputePriority = "low"
	PriorityMedium DisputePriority = "medium"
	PriorityHigh   DisputePriority = "high"
)

// Dispute stages and statuses. Resolution happens outside this service;
// disputes only ever grow their timeline here.
const (
	DisputeStageIntake = "intake"
	DisputeStatusOpen  = "open"
)

// Actor types for dispute timeline events.
const (
	ActorTypeFreelancer = "freelancer"
	ActorTypeSystem     = "system"
)

// DisputeEvent is one entry in a dispute's append-only timeline.
type DisputeEvent struct {
	ID        string
	ActorType string
	Notes     string
	EventAt   time.Time
}

// Dispute is an escalation opened against a transaction. The events list
// is append-only and insertion order is significant.
type Dispute struct {
	ID            string
	TransactionID string
	FreelancerID  string
	ReasonCode    ReasonCode
	Priority      DisputePriority
	Stage         string
	Status        string
	Summary       string
	OpenedAt      time.Time
	Events        []DisputeEvent
	UpdatedAt     time.Time
}

// Validate validates a dispute opening request.
func (d *Dispute) Validate() error {
	if err := ValidateReasonCode(d.ReasonCode); err != nil {
		return err
	}

	return ValidatePriority(d.Priority)
}

// AppendEvent adds an event to the timeline. Prior events are never
// mutated or reordered.
func (d *Dispute) AppendEvent(event DisputeEvent) {
	d.Events = append(d.Events, event)
}
