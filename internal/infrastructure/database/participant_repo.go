package database

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"waybackhome/internal/domain"
	"waybackhome/internal/domain/entities"
	"waybackhome/internal/ports/output"
)

var _ output.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository implements output.ParticipantRepository with pgx.
type ParticipantRepository struct {
	db DBTX
}

func NewParticipantRepository(db DBTX) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Get(ctx context.Context, participantID string) (*entities.Participant, error) {
	return r.getOne(ctx, "get participant", sq.Eq{"participant_id": participantID})
}

func (r *ParticipantRepository) getOne(ctx context.Context, op string, where sq.Eq) (*entities.Participant, error) {
	sql, args, err := psql.Select(participantColumns...).From("participants").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	p, err := scanParticipant(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	return p, nil
}

// Create inserts the participant and bumps the event counter in one
// transaction. The (event_code, username_lower) unique key makes the insert
// fail with domain.ErrUsernameTaken instead of admitting a duplicate.
func (r *ParticipantRepository) Create(ctx context.Context, participant *entities.Participant) (string, error) {
	participant.UsernameLower = entities.LowerUsername(participant.Username)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", storeErr("begin participant create", err)
	}
	if err := insertAndCount(ctx, tx, participant); err != nil {
		_ = tx.Rollback(ctx)
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", storeErr("commit participant create", err)
	}
	return participant.ParticipantID, nil
}

func insertAndCount(ctx context.Context, tx pgx.Tx, p *entities.Participant) error {
	q := psql.Insert("participants").
		Columns(participantColumns...).
		Values(p.ParticipantID, p.EventCode, p.Username, p.UsernameLower, p.Active,
			timeToPgtypeTimestamptz(p.RegisteredAt), p.CreatedAt, p.Profile.SuitColor,
			p.Profile.Appearance, p.Profile.X, p.Profile.Y, p.Profile.LocationConfirmed,
			p.Profile.PortraitURL, p.Profile.IconURL, evidenceOrEmpty(p.Profile.EvidenceURLs))
	if _, err := qExec(ctx, tx, q); err != nil {
		return participantInsertErr(err)
	}
	if err := incrementParticipantCount(ctx, tx, p.EventCode); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	return nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participantID string, update entities.ParticipantUpdate) error {
	if update.IsEmpty() {
		p, err := r.Get(ctx, participantID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrParticipantNotFound
		}
		return nil
	}

	q := psql.Update("participants").Where(sq.Eq{"participant_id": participantID})
	if update.Active != nil {
		q = q.Set("active", *update.Active)
	}
	if update.RegisteredAt != nil {
		q = q.Set("registered_at", timeToPgtypeTimestamptz(*update.RegisteredAt))
	}
	if update.SuitColor != nil {
		q = q.Set("suit_color", *update.SuitColor)
	}
	if update.Appearance != nil {
		q = q.Set("appearance", *update.Appearance)
	}
	if update.X != nil {
		q = q.Set("x", *update.X)
	}
	if update.Y != nil {
		q = q.Set("y", *update.Y)
	}
	if update.LocationConfirmed != nil {
		q = q.Set("location_confirmed", *update.LocationConfirmed)
	}
	if update.PortraitURL != nil {
		q = q.Set("portrait_url", *update.PortraitURL)
	}
	if update.IconURL != nil {
		q = q.Set("icon_url", *update.IconURL)
	}
	if update.EvidenceURLs != nil {
		q = q.Set("evidence_urls", update.EvidenceURLs)
	}
	tag, err := qExec(ctx, r.db, q)
	if err != nil {
		return storeErr("update participant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

const existsUsernameSQL = `SELECT EXISTS (SELECT 1 FROM participants WHERE event_code = $1 AND username_lower = $2 LIMIT 1)`

func (r *ParticipantRepository) ExistsUsername(ctx context.Context, eventCode, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, existsUsernameSQL, eventCode, entities.LowerUsername(username)).Scan(&exists)
	if err != nil {
		return false, storeErr("check username", err)
	}
	return exists, nil
}

func (r *ParticipantRepository) GetByUsername(ctx context.Context, eventCode, username string) (*entities.Participant, error) {
	return r.getOne(ctx, "get participant by username", sq.Eq{
		"event_code":     eventCode,
		"username_lower": entities.LowerUsername(username),
	})
}

func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventCode string) ([]entities.Participant, error) {
	q := psql.Select(participantColumns...).From("participants").
		Where(sq.Eq{"event_code": eventCode, "active": true}).
		OrderBy("created_at", "participant_id")
	rows, err := qQuery(ctx, r.db, q)
	if err != nil {
		return nil, storeErr("list participants", err)
	}
	defer rows.Close()

	var out []entities.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, storeErr("scan participant", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list participants", err)
	}
	return out, nil
}
