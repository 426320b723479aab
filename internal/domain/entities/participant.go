package entities

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Participant is one registrant within an event.
type Participant struct {
	ParticipantID string
	EventCode     string
	Username      string
	UsernameLower string
	Active        bool
	RegisteredAt  time.Time // zero until registration completes
	CreatedAt     time.Time
	Profile       Profile
}

// Profile is the opaque payload attached to a participant: appearance,
// map position and uploaded asset URLs.
type Profile struct {
	SuitColor         string
	Appearance        string
	X                 int
	Y                 int
	LocationConfirmed bool
	PortraitURL       string
	IconURL           string
	EvidenceURLs      map[string]string
}

// IsRegistered reports whether registration completed.
func (p *Participant) IsRegistered() bool {
	return !p.RegisteredAt.IsZero()
}

// Listed reports whether the participant belongs on the public map.
func (p *Participant) Listed() bool {
	return p.Active && p.IsRegistered()
}

// LowerUsername derives the uniqueness key for a username using full Unicode
// lowercasing, final sigma included. A Caser is not safe for concurrent use.
func LowerUsername(username string) string {
	return cases.Lower(language.Und).String(username)
}

// ParticipantUpdate lists the mutable participant fields; nil means "leave
// unchanged". Username is immutable so username_lower never needs re-deriving.
type ParticipantUpdate struct {
	Active            *bool
	RegisteredAt      *time.Time
	SuitColor         *string
	Appearance        *string
	X                 *int
	Y                 *int
	LocationConfirmed *bool
	PortraitURL       *string
	IconURL           *string
	EvidenceURLs      map[string]string
}

// IsEmpty reports whether the update would change nothing.
func (u ParticipantUpdate) IsEmpty() bool {
	return u.Active == nil && u.RegisteredAt == nil && u.SuitColor == nil &&
		u.Appearance == nil && u.X == nil && u.Y == nil && u.LocationConfirmed == nil &&
		u.PortraitURL == nil && u.IconURL == nil && u.EvidenceURLs == nil
}

// Apply copies the set fields of u onto p.
func (u ParticipantUpdate) Apply(p *Participant) {
	if u.Active != nil {
		p.Active = *u.Active
	}
	if u.RegisteredAt != nil {
		p.RegisteredAt = *u.RegisteredAt
	}
	if u.SuitColor != nil {
		p.Profile.SuitColor = *u.SuitColor
	}
	if u.Appearance != nil {
		p.Profile.Appearance = *u.Appearance
	}
	if u.X != nil {
		p.Profile.X = *u.X
	}
	if u.Y != nil {
		p.Profile.Y = *u.Y
	}
	if u.LocationConfirmed != nil {
		p.Profile.LocationConfirmed = *u.LocationConfirmed
	}
	if u.PortraitURL != nil {
		p.Profile.PortraitURL = *u.PortraitURL
	}
	if u.IconURL != nil {
		p.Profile.IconURL = *u.IconURL
	}
	if u.EvidenceURLs != nil {
		p.Profile.EvidenceURLs = make(map[string]string, len(u.EvidenceURLs))
		for k, v := range u.EvidenceURLs {
			p.Profile.EvidenceURLs[k] = v
		}
	}
}
