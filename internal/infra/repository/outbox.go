package repository

import (
	"context"
	"encoding/json"
	"time"

	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/notify"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxRepository enqueues notification rows inside a command transaction.
type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

func (r *OutboxRepository) Enqueue(ctx context.Context, msg notify.Message) error {
	params, err := json.Marshal(msg.Params)
	if err != nil {
		return infra.WrapRepoErr("failed to encode notification params", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO notification_outbox (
			id, event, subject_type, subject_id, recipient_name,
			recipient_email, recipient_phone, params, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		msg.ID, string(msg.Event), msg.SubjectType, msg.SubjectID,
		msg.RecipientName, msg.RecipientEmail, msg.RecipientPhone,
		params, msg.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue notification", err)
	}
	return nil
}

// OutboxStore is the dispatcher's pool-backed store. It runs outside command
// transactions; SKIP LOCKED keeps concurrent drain loops off each other's
// batches.
type OutboxStore struct {
	pool *pgxpool.Pool
}

func NewOutboxStore(pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{pool: pool}
}

// ClaimPending atomically stamps a batch of undispatched rows as claimed and
// returns them. A claim that never reaches MarkDispatched (crash mid-batch)
// becomes claimable again after the stale window.
func (s *OutboxStore) ClaimPending(ctx context.Context, limit int) ([]notify.Message, error) {
	rows, err := s.pool.Query(ctx,
		`UPDATE notification_outbox SET claimed_at = now()
		 WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE dispatched_at IS NULL
			  AND (claimed_at IS NULL OR claimed_at < now() - interval '5 minutes')
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id, event, subject_type, subject_id, recipient_name,
		           recipient_email, recipient_phone, params, created_at`,
		limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim outbox rows", err)
	}
	defer rows.Close()

	var msgs []notify.Message
	for rows.Next() {
		var (
			msg    notify.Message
			event  string
			params []byte
		)
		if err := rows.Scan(&msg.ID, &event, &msg.SubjectType, &msg.SubjectID,
			&msg.RecipientName, &msg.RecipientEmail, &msg.RecipientPhone,
			&params, &msg.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox row", err)
		}
		msg.Event = notify.EventType(event)
		if len(params) > 0 {
			if err := json.Unmarshal(params, &msg.Params); err != nil {
				return nil, infra.WrapRepoErr("failed to decode notification params", err)
			}
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read outbox rows", err)
	}
	return msgs, nil
}

func (s *OutboxStore) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notification_outbox SET dispatched_at = $1 WHERE id = $2`,
		time.Now().UTC(), id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification dispatched", err)
	}
	return nil
}

func (s *OutboxStore) AppendDeliveryLog(ctx context.Context, attempt notify.Attempt) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notification_delivery_log (
			subject_type, subject_id, channel, recipient, attempted_at,
			success, error_detail
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		attempt.SubjectType, attempt.SubjectID, string(attempt.Channel),
		attempt.Recipient, attempt.AttemptedAt, attempt.Success, attempt.ErrorDetail)
	if err != nil {
		return infra.WrapRepoErr("failed to append delivery log", err)
	}
	return nil
}
