package storage

import (
	"context"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// Sentinel errors returned by the repositories.
var (
	ErrCardNotFound   = repository.ErrCardNotFound
	ErrReportNotFound = repository.ErrReportNotFound
)

// Service bundles the repositories over one database.
type Service struct {
	db      *DB
	cards   repository.CardRepository
	reports repository.ReportRepository
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{
		db:      db,
		cards:   repository.NewCardRepository(db.Conn()),
		reports: repository.NewReportRepository(db.Conn()),
	}
}

// Cards returns the card catalog repository.
func (s *Service) Cards() repository.CardRepository {
	return s.cards
}

// Reports returns the report snapshot repository.
func (s *Service) Reports() repository.ReportRepository {
	return s.reports
}

// Backup writes a verified copy of the database into dir, or next to the
// database when dir is empty.
func (s *Service) Backup(ctx context.Context, dir string) (*BackupInfo, error) {
	return s.db.Backup(ctx, dir)
}

// BackupDir returns the default backup directory.
func (s *Service) BackupDir() string {
	return s.db.BackupDir()
}

// Close closes the database connection.
func (s *Service) Close() error {
	return s.db.Close()
}
