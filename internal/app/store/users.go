package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rtchat/internal/app/identity"
)

// User status values.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
	StatusAway    = "away"
)

// User is a persisted user record, keyed by unique email. Records are
// upserted on join and flipped offline on disconnect; they are never deleted.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Status      string    `json:"status"`
	LastSeen    time.Time `json:"lastSeen"`
	Provider    string    `json:"provider"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateUserParams carries the fields accepted when creating a user directly.
type CreateUserParams struct {
	Email       string
	DisplayName string
	AvatarURL   string
	Provider    string
	Roles       []string
}

// UserStore persists user records keyed by unique email.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a UserStore backed by the given pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// UpsertOnJoin inserts the user on first sight with defaults, otherwise marks
// the record online, refreshes lastSeen, and updates displayName/avatarUrl
// from the latest identity when present. Existing non-empty profile fields are
// kept when the identity carries none.
func (s *UserStore) UpsertOnJoin(ctx context.Context, id identity.Identity) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (email, display_name, avatar_url, status, last_seen, provider)
		 VALUES ($1, $2, $3, $4, now(), $5)
		 ON CONFLICT (email) DO UPDATE SET
		     status = $4,
		     last_seen = now(),
		     display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), users.display_name),
		     avatar_url = COALESCE(NULLIF(EXCLUDED.avatar_url, ''), users.avatar_url),
		     updated_at = now()`,
		id.Email, id.DisplayName, id.AvatarURL, StatusOnline, id.Provider,
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", id.Email, err)
	}
	return nil
}

// SetOffline marks the user offline and refreshes lastSeen.
func (s *UserStore) SetOffline(ctx context.Context, email string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET status = $2, last_seen = now(), updated_at = now()
		 WHERE email = $1`,
		email, StatusOffline,
	)
	if err != nil {
		return fmt.Errorf("set user %s offline: %w", email, err)
	}
	return nil
}

// List returns up to limit user records, newest first.
func (s *UserStore) List(ctx context.Context, limit int) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, email, display_name, avatar_url, status, last_seen, provider, roles, created_at, updated_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	return users, nil
}

// Create inserts a new user record. A duplicate email surfaces as a unique
// constraint violation the caller can detect with db.IsUniqueViolation.
func (s *UserStore) Create(ctx context.Context, params CreateUserParams) (User, error) {
	if params.Provider == "" {
		params.Provider = identity.ProviderUnverified
	}
	if len(params.Roles) == 0 {
		params.Roles = []string{"user"}
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, display_name, avatar_url, provider, roles)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, display_name, avatar_url, status, last_seen, provider, roles, created_at, updated_at`,
		params.Email, params.DisplayName, params.AvatarURL, params.Provider, params.Roles,
	)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.Status,
		&u.LastSeen, &u.Provider, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("create user %s: %w", params.Email, err)
	}

	return u, nil
}

// scanUser maps a users row onto the User struct.
func scanUser(row pgx.CollectableRow) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.AvatarURL, &u.Status,
		&u.LastSeen, &u.Provider, &u.Roles, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
