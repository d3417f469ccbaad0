package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// PgMessageArchive is the durable side of the dual message store.
type PgMessageArchive struct {
	pool *pgxpool.Pool
}

func NewPgMessageArchive(pool *pgxpool.Pool) *PgMessageArchive {
	return &PgMessageArchive{pool: pool}
}

var _ repository.MessageArchive = (*PgMessageArchive)(nil)

func (r *PgMessageArchive) PushMessage(ctx context.Context, conversationID string, m chat.Message) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageArchive: nil pool")
	}
	sentAt, err := m.SentAt()
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, text, sent_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
	`, conversationID, m.Sender, m.Text, sentAt)
	return err
}

func (r *PgMessageArchive) GetMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageArchive: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT sender_id::text, text, sent_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY sent_at ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var (
			sender string
			text   string
			sentAt time.Time
		)
		if err := rows.Scan(&sender, &text, &sentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, chat.NewMessage(sender, text, sentAt))
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
