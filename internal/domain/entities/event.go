package entities

import "time"

// Event is a registration scope identified by a human-readable code.
type Event struct {
	Code             string
	Name             string
	Description      string
	MaxParticipants  int
	ParticipantCount int
	CreatedAt        time.Time
	CreatedBy        string
	Active           bool
	DeactivatedAt    time.Time // zero = never deactivated
}

// IsFull reports whether admitting one more participant would exceed capacity.
func (e *Event) IsFull() bool {
	return e.ParticipantCount >= e.MaxParticipants
}

// EventUpdate lists the mutable event fields; nil means "leave unchanged".
// Code, CreatedAt and CreatedBy are immutable and deliberately absent.
type EventUpdate struct {
	Name            *string
	Description     *string
	MaxParticipants *int
	Active          *bool
	DeactivatedAt   *time.Time
}

// IsEmpty reports whether the update would change nothing.
func (u EventUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.MaxParticipants == nil &&
		u.Active == nil && u.DeactivatedAt == nil
}

// Apply copies the set fields of u onto e.
func (u EventUpdate) Apply(e *Event) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.MaxParticipants != nil {
		e.MaxParticipants = *u.MaxParticipants
	}
	if u.Active != nil {
		e.Active = *u.Active
	}
	if u.DeactivatedAt != nil {
		e.DeactivatedAt = *u.DeactivatedAt
	}
}
