package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// UsernameMissing is rendered wherever a submitter has no public username.
const UsernameMissing = "not provided"

// Request is a finalized purchase request. Records are immutable once inserted.
type Request struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Username  *string   `db:"username"`
	Amount    string    `db:"amount"`
	Link      string    `db:"link"`
	CreatedAt time.Time `db:"created_at"`
}

// DisplayName returns the username or the missing-value sentinel.
func (r Request) DisplayName() string {
	if r.Username != nil && *r.Username != "" {
		return *r.Username
	}
	return UsernameMissing
}

// Stats aggregates request counters for the admin panel.
type Stats struct {
	TotalRequests int64 `db:"total_requests"`
	UniqueUsers   int64 `db:"unique_users"`
}

// RequestRepo persists purchase requests in the requests table.
type RequestRepo struct {
	db *sqlx.DB
}

// NewRequestRepo builds a repository on top of an open connection pool.
func NewRequestRepo(db *sqlx.DB) *RequestRepo {
	return &RequestRepo{db: db}
}

// Insert stores a new request and returns its assigned id.
func (r *RequestRepo) Insert(ctx context.Context, userID int64, username, amount, link string) (int64, error) {
	var uname *string
	if username != "" {
		uname = &username
	}

	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO requests (user_id, username, amount, link)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, uname, amount, link,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}
	return id, nil
}

// RecentPage returns one page of requests, newest first, plus the total count.
func (r *RequestRepo) RecentPage(ctx context.Context, page, pageSize int) ([]Request, int64, error) {
	if pageSize <= 0 {
		return nil, 0, nil
	}
	if page < 0 {
		page = 0
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM requests`); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	var out []Request
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, user_id, username, amount, link, created_at
		 FROM requests
		 ORDER BY id DESC
		 LIMIT $1 OFFSET $2`,
		pageSize, page*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select requests page: %w", err)
	}
	return out, total, nil
}

// Counts returns aggregate statistics over all stored requests.
func (r *RequestRepo) Counts(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.db.GetContext(ctx, &s,
		`SELECT COUNT(*) AS total_requests,
		        COUNT(DISTINCT user_id) AS unique_users
		 FROM requests`,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("request stats: %w", err)
	}
	return s, nil
}
