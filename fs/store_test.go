package fs_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/trialsum/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("writes to the temp directory until commit", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "results")

		err := store.Save("https://example.com/trial/1", testResult("One"))

		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(base, "results.tmp", "example.com", "trial", "1.json"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(base, "results"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("is safe for concurrent workers", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		store := fs.NewFileStore(base, "results")

		var wg sync.WaitGroup
		for _, u := range []string{"https://a.com/1", "https://a.com/2", "https://b.com/1", "https://b.com/2"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Save(u, testResult(u)))
			}()
		}
		wg.Wait()
		require.NoError(t, store.Commit())

		for _, p := range []string{"a.com/1.json", "a.com/2.json", "b.com/1.json", "b.com/2.json"} {
			_, err := os.Stat(filepath.Join(base, "results", filepath.FromSlash(p)))
			assert.NoError(t, err, p)
		}
	})
}

func TestFileStore_Commit(t *testing.T) {
	t.Parallel()

	t.Run("replaces the previous output", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		stale := filepath.Join(base, "results", "stale.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))

		store := fs.NewFileStore(base, "results")
		require.NoError(t, store.Save("https://example.com/new", testResult("New")))
		require.NoError(t, store.Commit())

		_, err := os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(base, "results", "example.com", "new.json"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(base, "results.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("drops files left by an interrupted batch", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		leftover := filepath.Join(base, "results.tmp", "old.com", "trial.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(leftover), 0755))
		require.NoError(t, os.WriteFile(leftover, []byte("{}"), 0644))

		store := fs.NewFileStore(base, "results")
		require.NoError(t, store.Save("https://example.com/new", testResult("New")))
		require.NoError(t, store.Commit())

		_, err := os.Stat(filepath.Join(base, "results", "old.com"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(base, "results", "example.com", "new.json"))
		require.NoError(t, err)
	})

	t.Run("commits an empty batch", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()

		require.NoError(t, fs.NewFileStore(base, "results").Commit())

		info, err := os.Stat(filepath.Join(base, "results"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestFileStore_Abort(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "results")
	require.NoError(t, store.Save("https://example.com/trial", testResult("T")))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "results.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "results"))
	assert.True(t, os.IsNotExist(err))
}
