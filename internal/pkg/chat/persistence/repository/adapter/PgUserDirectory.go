package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "go-parley/internal/pkg/chat/domain"
	repository "go-parley/internal/pkg/chat/persistence/repository/port"
)

// PgUserDirectory reads display profiles from the users table owned by the
// identity service. The chat pipeline never writes here.
type PgUserDirectory struct {
	pool *pgxpool.Pool
}

func NewPgUserDirectory(pool *pgxpool.Pool) *PgUserDirectory {
	return &PgUserDirectory{pool: pool}
}

var _ repository.UserDirectory = (*PgUserDirectory)(nil)

const userColumns = `id::text, email, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(color, ''), COALESCE(avatar, '')`

func (r *PgUserDirectory) FindByID(ctx context.Context, id string) (chat.UserProfile, error) {
	if r == nil || r.pool == nil {
		return chat.UserProfile{}, errors.New("PgUserDirectory: nil pool")
	}
	var u chat.UserProfile
	err := r.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users.app_user WHERE id = $1::uuid", id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Color, &u.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.UserProfile{}, fmt.Errorf("%w: user %s", chat.ErrNotFound, id)
	}
	if err != nil {
		return chat.UserProfile{}, err
	}
	return u, nil
}

func (r *PgUserDirectory) FindByIDs(ctx context.Context, ids []string) ([]chat.UserProfile, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserDirectory: nil pool")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+userColumns+" FROM users.app_user WHERE id = ANY($1::uuid[])", ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []chat.UserProfile
	for rows.Next() {
		var u chat.UserProfile
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Color, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}
