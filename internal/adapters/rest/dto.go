package rest

import (
	"time"

	"waybackhome/internal/domain/entities"
)

type createEventRequest struct {
	Code            string `json:"code" binding:"required,eventcode"`
	Name            string `json:"name" binding:"required,min=3,max=100"`
	Description     string `json:"description"`
	MaxParticipants *int   `json:"max_participants" binding:"omitempty,min=10,max=10000"`
}

type eventResponse struct {
	Code             string     `json:"code"`
	Name             string     `json:"name"`
	Description      *string    `json:"description"`
	MaxParticipants  int        `json:"max_participants"`
	ParticipantCount int        `json:"participant_count"`
	CreatedAt        time.Time  `json:"created_at"`
	CreatedBy        string     `json:"created_by,omitempty"`
	Active           bool       `json:"active"`
	DeactivatedAt    *time.Time `json:"deactivated_at,omitempty"`
}

func toEventResponse(e *entities.Event) eventResponse {
	out := eventResponse{
		Code:             e.Code,
		Name:             e.Name,
		MaxParticipants:  e.MaxParticipants,
		ParticipantCount: e.ParticipantCount,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
		Active:           e.Active,
	}
	if e.Description != "" {
		d := e.Description
		out.Description = &d
	}
	if !e.DeactivatedAt.IsZero() {
		t := e.DeactivatedAt
		out.DeactivatedAt = &t
	}
	return out
}

type usernameCheckResponse struct {
	Available bool   `json:"available"`
	Username  string `json:"username"`
}

type deactivateResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	DeactivatedBy string `json:"deactivated_by"`
}

type createParticipantRequest struct {
	EventCode     string `json:"event_code" binding:"required,eventcode"`
	Username      string `json:"username" binding:"required,username"`
	ParticipantID string `json:"participant_id" binding:"omitempty,max=128"`
	SuitColor     string `json:"suit_color"`
	Appearance    string `json:"appearance"`
	X             *int   `json:"x" binding:"omitempty,min=0,max=100"`
	Y             *int   `json:"y" binding:"omitempty,min=0,max=100"`
}

type completeRegistrationRequest struct {
	ParticipantID string  `json:"participant_id" binding:"required"`
	SuitColor     *string `json:"suit_color"`
	Appearance    *string `json:"appearance"`
}

type locationQuery struct {
	X *int `form:"x" binding:"required,min=0,max=100"`
	Y *int `form:"y" binding:"required,min=0,max=100"`
}

type participantResponse struct {
	ParticipantID     string            `json:"participant_id"`
	EventCode         string            `json:"event_code"`
	Username          string            `json:"username"`
	SuitColor         string            `json:"suit_color,omitempty"`
	Appearance        string            `json:"appearance,omitempty"`
	X                 int               `json:"x"`
	Y                 int               `json:"y"`
	LocationConfirmed bool              `json:"location_confirmed"`
	PortraitURL       string            `json:"portrait_url,omitempty"`
	IconURL           string            `json:"icon_url,omitempty"`
	EvidenceURLs      map[string]string `json:"evidence_urls"`
	Active            bool              `json:"active"`
	RegisteredAt      *time.Time        `json:"registered_at"`
	CreatedAt         time.Time         `json:"created_at"`
}

func toParticipantResponse(p *entities.Participant) participantResponse {
	out := participantResponse{
		ParticipantID:     p.ParticipantID,
		EventCode:         p.EventCode,
		Username:          p.Username,
		SuitColor:         p.Profile.SuitColor,
		Appearance:        p.Profile.Appearance,
		X:                 p.Profile.X,
		Y:                 p.Profile.Y,
		LocationConfirmed: p.Profile.LocationConfirmed,
		PortraitURL:       p.Profile.PortraitURL,
		IconURL:           p.Profile.IconURL,
		EvidenceURLs:      p.Profile.EvidenceURLs,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
	}
	if out.EvidenceURLs == nil {
		out.EvidenceURLs = map[string]string{}
	}
	if p.IsRegistered() {
		t := p.RegisteredAt
		out.RegisteredAt = &t
	}
	return out
}

type avatarResponse struct {
	PortraitURL string `json:"portrait_url"`
	IconURL     string `json:"icon_url"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

type configResponse struct {
	APIBaseURL string `json:"api_base_url"`
	MapBaseURL string `json:"map_base_url"`
	Version    string `json:"version"`
}
