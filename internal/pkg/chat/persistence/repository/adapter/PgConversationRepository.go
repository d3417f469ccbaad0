package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// PgConversationRepository stores conversations and participant membership
// in PostgreSQL.
type PgConversationRepository struct {
	pool *pgxpool.Pool
}

func NewPgConversationRepository(pool *pgxpool.Pool) *PgConversationRepository {
	return &PgConversationRepository{pool: pool}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

func (r *PgConversationRepository) Create(ctx context.Context, title string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgConversationRepository: nil pool")
	}
	conv := chat.Conversation{CreatedAt: time.Now().UTC()}
	if title != "" {
		conv.Title = &title
	}
	err := r.pool.QueryRow(ctx,
		"INSERT INTO chat.conversation (title, created_at) VALUES (NULLIF($1, ''), $2) RETURNING id::text",
		title, conv.CreatedAt,
	).Scan(&conv.ID)
	return conv, err
}

func (r *PgConversationRepository) Get(ctx context.Context, id string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgConversationRepository: nil pool")
	}
	var conv chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, title, created_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, id).Scan(&conv.ID, &conv.Title, &conv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, fmt.Errorf("%w: %s", chat.ErrNotFound, id)
	}
	if err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

func (r *PgConversationRepository) Delete(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, "DELETE FROM chat.conversation WHERE id = $1::uuid", id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", chat.ErrNotFound, id)
	}
	return nil
}

func (r *PgConversationRepository) List(ctx context.Context) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, title, created_at
		FROM chat.conversation
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var conv chat.Conversation
		if err := rows.Scan(&conv.ID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return convs, nil
}

func (r *PgConversationRepository) AddParticipant(ctx context.Context, conversationID, userID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.participant (conversation_id, user_id)
		VALUES ($1::uuid, $2::uuid)
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`, conversationID, userID)
	return err
}

func (r *PgConversationRepository) RemoveParticipant(ctx context.Context, conversationID, userID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgConversationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		DELETE FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, conversationID, userID)
	return err
}

func (r *PgConversationRepository) ListParticipantIDs(ctx context.Context, conversationID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgConversationRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text
		FROM chat.participant
		WHERE conversation_id = $1::uuid
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ids, nil
}
