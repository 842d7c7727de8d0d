package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards/cardtest"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

func TestBackupAndVerify(t *testing.T) {
	svc := NewTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Cards().Upsert(ctx, cardtest.Trainer("Iono", "Supporter")))

	dir := filepath.Join(t.TempDir(), "backups")
	info, err := svc.Backup(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(info.Path))
	assert.Len(t, info.Checksum, 64)
	assert.Positive(t, info.Size)

	require.NoError(t, VerifyBackup(info.Path))

	// The backup is a complete database.
	db, err := Open(DefaultConfig(info.Path))
	require.NoError(t, err)
	defer db.Close()
	card, err := repository.NewCardRepository(db.Conn()).GetByID(ctx, "iono")
	require.NoError(t, err)
	assert.Equal(t, "Iono", card.Name)

	backups, err := ListBackups(dir)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, info.Checksum, backups[0].Checksum)
}

func TestBackupDefaultDir(t *testing.T) {
	svc := NewTestService(t)
	assert.Equal(t, "backups", filepath.Base(svc.BackupDir()))

	info, err := svc.Backup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, svc.BackupDir(), filepath.Dir(info.Path))
}

func TestBackupInMemoryFails(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Backup(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestVerifyBackupRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.db")
	require.NoError(t, os.WriteFile(bad, []byte("not a database at all, just text padding it out"), 0o644))

	assert.Error(t, VerifyBackup(bad))
	assert.Error(t, VerifyBackup(filepath.Join(dir, "missing.db")))
}

func TestListBackupsMissingDir(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, backups)
}
