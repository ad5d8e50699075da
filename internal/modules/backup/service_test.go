package backup

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricemill/pos-backend/internal/database"
)

func newTestService(dir string) Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService("postgres://unused", dir, database.NewGate(), log)
}

func writeSnapshot(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("dump"), 0o644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestListIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, filePrefix+"20250310_120000.dump", time.Hour)
	writeSnapshot(t, dir, filePrefix+"20250311_120000.dump", 0)
	writeSnapshot(t, dir, "notes.txt", 0)

	snapshots, err := newTestService(dir).List()
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, filePrefix+"20250311_120000.dump", snapshots[0].Name, "newest first")
}

func TestListMissingDirIsEmpty(t *testing.T) {
	snapshots, err := newTestService(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestCleanOldKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		writeSnapshot(t, dir, filePrefix+time.Now().Add(-time.Duration(i)*time.Hour).Format("20060102_150405")+".dump",
			time.Duration(i)*time.Hour)
	}
	svc := newTestService(dir)

	deleted, err := svc.CleanOld(3)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	left, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, left, 3)

	// Keeping more than exist deletes nothing.
	deleted, err = svc.CleanOld(30)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = svc.CleanOld(0)
	require.Error(t, err)
}
