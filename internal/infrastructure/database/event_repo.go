package database

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db  DBTX
	now func() time.Time
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *EventRepository) Get(ctx context.Context, code string) (*entities.Event, error) {
	sql, args, err := psql.Select(eventColumns...).From("events").Where(sq.Eq{"code": code}).ToSql()
	if err != nil {
		return nil, err
	}
	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get event", err)
	}
	return e, nil
}

// Create inserts the event unless the code is taken.
func (r *EventRepository) Create(ctx context.Context, event *entities.Event) (string, error) {
	q := psql.Insert("events").
		Columns(eventColumns...).
		Values(event.Code, event.Name, textOrNull(event.Description), event.MaxParticipants,
			event.ParticipantCount, event.CreatedAt, event.CreatedBy, event.Active,
			timeToPgtypeTimestamptz(event.DeactivatedAt)).
		Suffix("ON CONFLICT (code) DO NOTHING")
	tag, err := qExec(ctx, r.db, q)
	if err != nil {
		return "", storeErr("create event", err)
	}
	if tag.RowsAffected() == 0 {
		return "", domain.ErrEventCodeConflict
	}
	return event.Code, nil
}

func (r *EventRepository) Update(ctx context.Context, code string, update entities.EventUpdate) error {
	if update.IsEmpty() {
		e, err := r.Get(ctx, code)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrEventNotFound
		}
		return nil
	}

	q := psql.Update("events").Where(sq.Eq{"code": code})
	if update.Name != nil {
		q = q.Set("name", *update.Name)
	}
	if update.Description != nil {
		q = q.Set("description", textOrNull(*update.Description))
	}
	if update.MaxParticipants != nil {
		q = q.Set("max_participants", *update.MaxParticipants)
	}
	if update.Active != nil {
		q = q.Set("active", *update.Active)
	}
	if update.DeactivatedAt != nil {
		q = q.Set("deactivated_at", timeToPgtypeTimestamptz(*update.DeactivatedAt))
	}
	tag, err := qExec(ctx, r.db, q)
	if err != nil {
		return storeErr("update event", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// SoftDelete marks the event inactive. Repeating it only moves deactivated_at.
func (r *EventRepository) SoftDelete(ctx context.Context, code string) error {
	inactive := false
	now := r.now()
	return r.Update(ctx, code, entities.EventUpdate{Active: &inactive, DeactivatedAt: &now})
}

func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]entities.Event, error) {
	q := psql.Select(eventColumns...).From("events").OrderBy("created_at", "code")
	if activeOnly {
		q = q.Where(sq.Eq{"active": true})
	}
	rows, err := qQuery(ctx, r.db, q)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	defer rows.Close()

	var out []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, storeErr("scan event", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list events", err)
	}
	return out, nil
}

const incrementParticipantCountSQL = `UPDATE events SET participant_count = participant_count + 1 WHERE code = $1`

// IncrementParticipantCount is a single-statement atomic add.
func (r *EventRepository) IncrementParticipantCount(ctx context.Context, code string) error {
	return incrementParticipantCount(ctx, r.db, code)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func incrementParticipantCount(ctx context.Context, db execer, code string) error {
	tag, err := db.Exec(ctx, incrementParticipantCountSQL, code)
	if err != nil {
		return storeErr("increment participant count", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
