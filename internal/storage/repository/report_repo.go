package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

// ErrReportNotFound is returned when no snapshot has the requested ID.
var ErrReportNotFound = errors.New("report not found")

// TimeLayout is the format of stored snapshot timestamps (UTC).
const TimeLayout = "2006-01-02 15:04:05.999999"

// Snapshot is a stored analysis report.
type Snapshot struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	DeckHash  string    `json:"deckHash"`
	Payload   []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Decode unmarshals the stored payload into v.
func (s *Snapshot) Decode(v any) error {
	if err := sonic.Unmarshal(s.Payload, v); err != nil {
		return fmt.Errorf("decode %s snapshot %s: %w", s.Kind, s.ID, err)
	}
	return nil
}

// ReportRepository stores analysis report snapshots.
type ReportRepository interface {
	// Save encodes report and stores it, returning the new snapshot ID.
	Save(ctx context.Context, kind, deckHash string, report any) (string, error)

	// Get retrieves a snapshot by ID, or ErrReportNotFound.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// ListByDeck returns the newest snapshots for a deck fingerprint.
	ListByDeck(ctx context.Context, deckHash string, limit int) ([]*Snapshot, error)
}

type reportRepository struct {
	db  DBTX
	now func() time.Time
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db DBTX) ReportRepository {
	return &reportRepository{db: db, now: time.Now}
}

func (r *reportRepository) Save(ctx context.Context, kind, deckHash string, report any) (string, error) {
	payload, err := sonic.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("encode %s report: %w", kind, err)
	}

	id := uuid.NewString()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO report_snapshots (id, kind, deck_hash, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, kind, deckHash, string(payload), r.now().UTC().Format(TimeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("save %s report: %w", kind, err)
	}
	return id, nil
}

func (r *reportRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, kind, deck_hash, payload, created_at FROM report_snapshots WHERE id = ?`, id)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return s, nil
}

func (r *reportRepository) ListByDeck(ctx context.Context, deckHash string, limit int) ([]*Snapshot, error) {
	query := `
		SELECT id, kind, deck_hash, payload, created_at
		FROM report_snapshots
		WHERE deck_hash = ?
		ORDER BY created_at DESC, id ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, deckHash, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]*Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var (
		s         Snapshot
		payload   string
		createdAt string
	)
	if err := row.Scan(&s.ID, &s.Kind, &s.DeckHash, &payload, &createdAt); err != nil {
		return nil, err
	}
	s.Payload = []byte(payload)

	t, err := time.Parse(TimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	s.CreatedAt = t
	return &s, nil
}
