package database

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"waybackhome/internal/domain/entities"
)

var eventColumns = []string{
	"code", "name", "description", "max_participants", "participant_count",
	"created_at", "created_by", "active", "deactivated_at",
}

var participantColumns = []string{
	"participant_id", "event_code", "username", "username_lower", "active",
	"registered_at", "created_at", "suit_color", "appearance", "x", "y",
	"location_confirmed", "portrait_url", "icon_url", "evidence_urls",
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func scanEvent(row pgx.Row) (*entities.Event, error) {
	var (
		e             entities.Event
		description   pgtype.Text
		maxP, count   int32
		createdAt     pgtype.Timestamptz
		deactivatedAt pgtype.Timestamptz
	)
	err := row.Scan(&e.Code, &e.Name, &description, &maxP, &count,
		&createdAt, &e.CreatedBy, &e.Active, &deactivatedAt)
	if err != nil {
		return nil, err
	}
	e.Description = description.String
	e.MaxParticipants = int(maxP)
	e.ParticipantCount = int(count)
	e.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	e.DeactivatedAt = pgtypeTimestamptzToTime(deactivatedAt)
	return &e, nil
}

func scanParticipant(row pgx.Row) (*entities.Participant, error) {
	var (
		p            entities.Participant
		registeredAt pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		x, y         int32
		evidence     map[string]string
	)
	err := row.Scan(&p.ParticipantID, &p.EventCode, &p.Username, &p.UsernameLower, &p.Active,
		&registeredAt, &createdAt, &p.Profile.SuitColor, &p.Profile.Appearance, &x, &y,
		&p.Profile.LocationConfirmed, &p.Profile.PortraitURL, &p.Profile.IconURL, &evidence)
	if err != nil {
		return nil, err
	}
	p.RegisteredAt = pgtypeTimestamptzToTime(registeredAt)
	p.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	p.Profile.X = int(x)
	p.Profile.Y = int(y)
	p.Profile.EvidenceURLs = evidence
	return &p, nil
}

func evidenceOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
