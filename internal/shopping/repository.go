package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Repository handles persistence of shopping lists, one list per owner.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save stores the whole list for owner, replacing any previous list.
// Saving a nil list deletes the owner's list.
func (r *Repository) Save(ctx context.Context, ownerID string, list *ShoppingList) error {
	if list == nil {
		return r.Delete(ctx, ownerID)
	}

	items := list.Items
	if items == nil {
		items = []Item{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	createdAt := list.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (owner_id, items, created_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET items = excluded.items, created_at = excluded.created_at`,
		ownerID, string(itemsJSON), createdAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	return nil
}

// Load retrieves the owner's list. It returns nil, nil when there is none.
func (r *Repository) Load(ctx context.Context, ownerID string) (*ShoppingList, error) {
	var (
		itemsJSON string
		createdAt time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT items, created_at FROM shopping_lists WHERE owner_id = ?`, ownerID).Scan(&itemsJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No shopping list found
		}
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}

	var items []Item
	if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}

	return &ShoppingList{Items: items, CreatedAt: createdAt}, nil
}

// Delete removes the owner's list. Deleting a missing list is not an error.
func (r *Repository) Delete(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return nil
}
