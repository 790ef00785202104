// Package postgres implements the store interfaces against PostgreSQL using
// a pgx connection pool.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jwhitmore/portfolio-backend/types"
)

// PgxPool is the subset of *pgxpool.Pool used by the stores. It is satisfied
// by pgxmock.PgxPoolIface so the stores can be tested without a database.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// MessageStore implements store.MessageStore using PostgreSQL.
type MessageStore struct {
	pool PgxPool
}

// NewMessageStore creates a new MessageStore instance.
func NewMessageStore(pool PgxPool) *MessageStore {
	return &MessageStore{pool: pool}
}

// CreateMessage inserts a new contact message. The database assigns the
// identifier and creation timestamp; both are written back to msg.
func (s *MessageStore) CreateMessage(ctx context.Context, msg *types.Message) (int64, error) {
	query := `
		INSERT INTO messages (first_name, last_name, email, subject, body, source_ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	row := s.pool.QueryRow(ctx, query,
		msg.FirstName,
		msg.LastName,
		msg.Email,
		msg.Subject,
		msg.Body,
		msg.SourceIP,
	)

	if err := row.Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return 0, err
	}

	return msg.ID, nil
}

// ListMessages retrieves stored messages newest-first with the given page
// bounds.
func (s *MessageStore) ListMessages(ctx context.Context, limit, offset int) ([]types.Message, error) {
	query := `
		SELECT id, first_name, last_name, email, subject, body, source_ip, created_at
		FROM messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []types.Message
	for rows.Next() {
		var msg types.Message
		err := rows.Scan(
			&msg.ID,
			&msg.FirstName,
			&msg.LastName,
			&msg.Email,
			&msg.Subject,
			&msg.Body,
			&msg.SourceIP,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// CountMessages returns the total number of stored messages.
func (s *MessageStore) CountMessages(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ping verifies the pool can reach the database.
func (s *MessageStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
