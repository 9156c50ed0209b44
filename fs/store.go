package fs

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/trialsum"
)

// FileStore writes batch results with atomic update semantics.
// Results are saved to a temporary directory, then moved into place on
// Commit, so an interrupted batch never leaves a half-updated output.
type FileStore struct {
	baseDir string
	name    string

	mu      sync.Mutex
	started bool // temp dir cleared of an earlier interrupted batch
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the result for sourceURL into the temporary directory.
// It is safe to call from concurrent batch workers.
func (s *FileStore) Save(sourceURL string, result *trialsum.Result) error {
	relPath, err := URLToPath(sourceURL)
	if err != nil {
		return err
	}
	data, err := MarshalResult(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.start(); err != nil {
		return err
	}
	return WriteFile(filepath.Join(s.tempDir(), relPath), data)
}

// start removes a temp dir left by an earlier batch, once per store.
// The caller must hold s.mu.
func (s *FileStore) start() error {
	if s.started {
		return nil
	}
	if err := os.RemoveAll(s.tempDir()); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Commit replaces the output directory with the saved results.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.start(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved results.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}
