package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// RetentionPolicy defines which report snapshots survive a prune.
type RetentionPolicy struct {
	// MinimumAge is the minimum age before any snapshot can be deleted.
	MinimumAge time.Duration

	// KeepPerDeck is the number of newest snapshots always kept for each
	// deck fingerprint and kind, regardless of age.
	KeepPerDeck int
}

// DefaultRetentionPolicy returns the default retention policy.
func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		MinimumAge:  30 * 24 * time.Hour,
		KeepPerDeck: 5,
	}
}

// CleanupResult contains statistics about a prune.
type CleanupResult struct {
	TotalSnapshots    int            `json:"totalSnapshots"`
	RemovedSnapshots  int            `json:"removedSnapshots"`
	RetainedSnapshots int            `json:"retainedSnapshots"`
	OldestSnapshot    time.Time      `json:"oldestSnapshot"`
	NewestSnapshot    time.Time      `json:"newestSnapshot"`
	DryRun            bool           `json:"dryRun"`
	RemovedByKind     map[string]int `json:"removedByKind"`
}

type snapshotMeta struct {
	id        string
	kind      string
	deckHash  string
	createdAt time.Time
}

func (s *Service) snapshotMetas(ctx context.Context) ([]snapshotMeta, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, kind, deck_hash, created_at FROM report_snapshots ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metas []snapshotMeta
	for rows.Next() {
		var (
			m         snapshotMeta
			createdAt string
		)
		if err := rows.Scan(&m.id, &m.kind, &m.deckHash, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if m.createdAt, err = time.Parse(repository.TimeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// PruneReports removes report snapshots the policy does not retain.
// If dryRun is true, it returns what would be deleted without deleting.
func (s *Service) PruneReports(ctx context.Context, policy RetentionPolicy, dryRun bool) (*CleanupResult, error) {
	return s.pruneReports(ctx, policy, dryRun, time.Now())
}

func (s *Service) pruneReports(ctx context.Context, policy RetentionPolicy, dryRun bool, now time.Time) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:        dryRun,
		RemovedByKind: make(map[string]int),
	}

	metas, err := s.snapshotMetas(ctx)
	if err != nil {
		return nil, err
	}
	result.TotalSnapshots = len(metas)
	if len(metas) == 0 {
		return result, nil
	}

	// Rows arrive newest first.
	result.NewestSnapshot = metas[0].createdAt
	result.OldestSnapshot = metas[len(metas)-1].createdAt

	type groupKey struct{ kind, deckHash string }
	seen := make(map[groupKey]int)

	var toDelete []string
	for _, m := range metas {
		key := groupKey{m.kind, m.deckHash}
		seen[key]++

		if seen[key] <= policy.KeepPerDeck || now.Sub(m.createdAt) < policy.MinimumAge {
			result.RetainedSnapshots++
			continue
		}
		result.RemovedSnapshots++
		result.RemovedByKind[m.kind]++
		toDelete = append(toDelete, m.id)
	}

	if dryRun || len(toDelete) == 0 {
		return result, nil
	}

	sort.Strings(toDelete)
	const batchSize = 100
	for i := 0; i < len(toDelete); i += batchSize {
		batch := toDelete[i:min(i+batchSize, len(toDelete))]
		if err := s.deleteSnapshotsBatch(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to delete batch: %w", err)
		}
	}
	return result, nil
}

func (s *Service) deleteSnapshotsBatch(ctx context.Context, ids []string) error {
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM report_snapshots WHERE id IN (`+placeholders+`)`, args...)
		return err
	})
}
