package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Kind names a user-visible activity.
type Kind string

const (
	KindListGenerated Kind = "list_generated"
	KindFridgeCheck   Kind = "fridge_check"
	KindItemToggled   Kind = "item_toggled"
	KindListCleared   Kind = "list_cleared"
	KindRecipeSaved   Kind = "recipe_saved"
)

// Event records a single activity of one owner.
type Event struct {
	OwnerID   string
	Kind      Kind
	ItemCount int
	Timestamp time.Time
}

// Store handles persistence of activity events to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves an event to the database.
func (s *Store) Record(ctx context.Context, e Event) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_events (owner_id, kind, item_count, timestamp) VALUES (?, ?, ?, ?)`,
		e.OwnerID, string(e.Kind), e.ItemCount, ts.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// DailyActivity represents event totals for a single day.
type DailyActivity struct {
	Date         string
	ListsCreated int
	FridgeChecks int
	ItemsToggled int
	ListsCleared int
	RecipesSaved int
	TotalEvents  int
}

// GetDailyActivity retrieves activity for the last N days, newest day first.
func (s *Store) GetDailyActivity(ctx context.Context, days int) ([]DailyActivity, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(timestampLayout)
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(timestamp, 1, 10) AS day,
			SUM(kind = ?), SUM(kind = ?), SUM(kind = ?), SUM(kind = ?), SUM(kind = ?),
			COUNT(*)
		FROM activity_events
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`,
		KindListGenerated, KindFridgeCheck, KindItemToggled, KindListCleared, KindRecipeSaved, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var results []DailyActivity
	for rows.Next() {
		var a DailyActivity
		if err := rows.Scan(&a.Date, &a.ListsCreated, &a.FridgeChecks, &a.ItemsToggled,
			&a.ListsCleared, &a.RecipesSaved, &a.TotalEvents); err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily activity: %w", err)
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(timestampLayout)
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_events WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up activity: %w", err)
	}
	return res.RowsAffected()
}
