package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRestore_RoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "gymbro.db"), []byte("db-bytes"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "exports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "exports", "report.json"), []byte(`{"ok":true}`), 0o644))
	// WAL sidecars must not land in the archive.
	require.NoError(t, os.WriteFile(filepath.Join(src, "gymbro.db-wal"), []byte("wal"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "gymbro.db-shm"), []byte("shm"), 0o644))

	archive := filepath.Join(t.TempDir(), "backups", "snap.tar.gz")
	require.NoError(t, BackupDataDir(src, archive))

	dst := t.TempDir()
	require.NoError(t, RestoreDataDir(archive, dst))

	b, err := os.ReadFile(filepath.Join(dst, "gymbro.db"))
	require.NoError(t, err)
	assert.Equal(t, "db-bytes", string(b))

	b, err = os.ReadFile(filepath.Join(dst, "exports", "report.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(b))

	_, err = os.Stat(filepath.Join(dst, "gymbro.db-wal"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dst, "gymbro.db-shm"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupDataDir_SourceMustExist(t *testing.T) {
	err := BackupDataDir(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestBackupDataDir_SourceMustBeDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	err := BackupDataDir(f, filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestRestoreDataDir_MissingArchive(t *testing.T) {
	err := RestoreDataDir(filepath.Join(t.TempDir(), "missing.tar.gz"), t.TempDir())
	assert.Error(t, err)
}
