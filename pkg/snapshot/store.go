// Package snapshot saves font pairs so a session can return to them later.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

// ErrNotFound is returned for an unknown snapshot ID.
var ErrNotFound = errors.New("snapshot: not found")

// DefaultLimit is how many snapshots a session keeps.
const DefaultLimit = 14

const snapshotRows = "`id`, `session_id`, `primary_family`, `secondary_family`, `lock`, `saved_at`"

// Snapshot is a saved pair and the lock mode it was saved under.
type Snapshot struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Primary   string    `json:"primary"`
	Secondary string    `json:"secondary"`
	Lock      string    `json:"lock"`
	SavedAt   time.Time `json:"savedAt"`
}

type snapshotRow struct {
	Id              string `db:"id"`
	SessionId       string `db:"session_id"`
	PrimaryFamily   string `db:"primary_family"`
	SecondaryFamily string `db:"secondary_family"`
	Lock            string `db:"lock"`
	SavedAt         int64  `db:"saved_at"`
}

func (r *snapshotRow) snapshot() *Snapshot {
	return &Snapshot{
		ID:        r.Id,
		SessionID: r.SessionId,
		Primary:   r.PrimaryFamily,
		Secondary: r.SecondaryFamily,
		Lock:      r.Lock,
		SavedAt:   time.UnixMilli(r.SavedAt).UTC(),
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLimit sets how many snapshots each session keeps.
func WithLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithClock overrides the time source for SavedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps snapshots in the snapshots table.
type Store struct {
	conn  sqlx.SqlConn
	limit int
	now   func() time.Time
}

// NewStore creates a store over conn.
func NewStore(conn sqlx.SqlConn, opts ...Option) *Store {
	s := &Store{conn: conn, limit: DefaultLimit, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limit returns the per-session snapshot limit.
func (s *Store) Limit() int {
	return s.limit
}

// Save records pair for sessionID. The oldest snapshots beyond the limit are
// dropped.
func (s *Store) Save(ctx context.Context, sessionID string, pair font.Pair, lock string) (*Snapshot, error) {
	if !pair.Valid() {
		return nil, fmt.Errorf("snapshot: invalid pair %q", pair.String())
	}

	row := &snapshotRow{
		Id:              uuid.NewString(),
		SessionId:       sessionID,
		PrimaryFamily:   pair.Primary.Family,
		SecondaryFamily: pair.Secondary.Family,
		Lock:            lock,
		SavedAt:         s.now().UnixMilli(),
	}

	err := s.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		insert := fmt.Sprintf("insert into `snapshots` (%s) values (?, ?, ?, ?, ?, ?)", snapshotRows)
		if _, err := session.ExecCtx(ctx, insert, row.Id, row.SessionId, row.PrimaryFamily,
			row.SecondaryFamily, row.Lock, row.SavedAt); err != nil {
			return err
		}

		prune := "delete from `snapshots` where `session_id` = ? and `id` not in " +
			"(select `id` from `snapshots` where `session_id` = ? order by `saved_at` desc, rowid desc limit ?)"
		_, err := session.ExecCtx(ctx, prune, sessionID, sessionID, s.limit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	return row.snapshot(), nil
}

// List returns the session's snapshots, newest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]*Snapshot, error) {
	var rows []*snapshotRow
	query := fmt.Sprintf("select %s from `snapshots` where `session_id` = ? order by `saved_at` desc, rowid desc limit ?", snapshotRows)
	if err := s.conn.QueryRowsCtx(ctx, &rows, query, sessionID, s.limit); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	out := make([]*Snapshot, len(rows))
	for i, r := range rows {
		out[i] = r.snapshot()
	}
	return out, nil
}

// Get returns one snapshot.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	var row snapshotRow
	query := fmt.Sprintf("select %s from `snapshots` where `id` = ? limit 1", snapshotRows)
	err := s.conn.QueryRowCtx(ctx, &row, query, id)
	switch {
	case err == nil:
		return row.snapshot(), nil
	case errors.Is(err, sqlx.ErrNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
}

// Remove deletes one snapshot.
func (s *Store) Remove(ctx context.Context, id string) error {
	result, err := s.conn.ExecCtx(ctx, "delete from `snapshots` where `id` = ?", id)
	if err != nil {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveSession deletes every snapshot saved by sessionID.
func (s *Store) RemoveSession(ctx context.Context, sessionID string) error {
	if _, err := s.conn.ExecCtx(ctx, "delete from `snapshots` where `session_id` = ?", sessionID); err != nil {
		return fmt.Errorf("remove session snapshots: %w", err)
	}
	return nil
}
