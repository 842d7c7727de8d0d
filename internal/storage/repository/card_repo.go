package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
)

// ErrCardNotFound is returned when no card has the requested ID.
var ErrCardNotFound = errors.New("card not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CardRepository handles database operations for the card catalog.
type CardRepository interface {
	// Upsert inserts or replaces a card.
	Upsert(ctx context.Context, card cards.Card) error

	// GetByID retrieves a card by ID, or ErrCardNotFound.
	GetByID(ctx context.Context, id string) (cards.Card, error)

	// FindByName returns every printing with exactly this name,
	// case-insensitively, cheapest first.
	FindByName(ctx context.Context, name string) ([]cards.Card, error)

	// Search returns cards whose name contains query, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]cards.Card, error)

	// ListCheaperAlternatives returns priced cards of the given supertype at
	// or below maxPrice, excluding excludeID, cheapest first.
	ListCheaperAlternatives(ctx context.Context, supertype cards.Supertype, maxPrice float64, excludeID string, limit int) ([]cards.Card, error)

	// Count returns the number of stored cards.
	Count(ctx context.Context) (int, error)
}

type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Upsert(ctx context.Context, card cards.Card) error {
	if card.ID == "" {
		return fmt.Errorf("upsert card %q: empty id", card.Name)
	}
	payload, err := sonic.Marshal(card)
	if err != nil {
		return fmt.Errorf("encode card %s: %w", card.ID, err)
	}

	query := `
		INSERT INTO cards (id, name, name_lower, supertype, set_id, number, usd_price, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			name_lower = excluded.name_lower,
			supertype = excluded.supertype,
			set_id = excluded.set_id,
			number = excluded.number,
			usd_price = excluded.usd_price,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		card.ID,
		card.Name,
		strings.ToLower(card.Name),
		string(card.Supertype),
		card.SetID,
		card.Number,
		card.UnitPrice(),
		string(payload),
		time.Now().UTC().Format("2006-01-02 15:04:05.999999"),
	)
	if err != nil {
		return fmt.Errorf("upsert card %s: %w", card.ID, err)
	}
	return nil
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (cards.Card, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM cards WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return cards.Card{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if err != nil {
		return cards.Card{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return decodeCard(payload)
}

func (r *cardRepository) FindByName(ctx context.Context, name string) ([]cards.Card, error) {
	query := `
		SELECT payload FROM cards
		WHERE name_lower = ?
		ORDER BY usd_price ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, fmt.Errorf("find cards by name: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

func (r *cardRepository) Search(ctx context.Context, query string, limit int) ([]cards.Card, error) {
	q := `
		SELECT payload FROM cards
		WHERE name_lower LIKE ? ESCAPE '\'
		ORDER BY name_lower ASC, usd_price ASC
		LIMIT ?
	`
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	rows, err := r.db.QueryContext(ctx, q, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

func (r *cardRepository) ListCheaperAlternatives(ctx context.Context, supertype cards.Supertype, maxPrice float64, excludeID string, limit int) ([]cards.Card, error) {
	query := `
		SELECT payload FROM cards
		WHERE supertype = ? AND usd_price > 0 AND usd_price <= ? AND id <> ?
		ORDER BY usd_price ASC, id ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, string(supertype), maxPrice, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list cheaper alternatives: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanCards(rows)
}

func (r *cardRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return n, nil
}

func scanCards(rows *sql.Rows) ([]cards.Card, error) {
	out := make([]cards.Card, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card, err := decodeCard(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

func decodeCard(payload string) (cards.Card, error) {
	var card cards.Card
	if err := sonic.UnmarshalString(payload, &card); err != nil {
		return cards.Card{}, fmt.Errorf("decode card: %w", err)
	}
	return card, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
