// Package filelock writes the report artifacts of a run atomically while holding an
// advisory lock on the output directory, so that concurrent runs targeting the same
// directory never interleave their artifacts or leave partial files behind.
package filelock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockPrefix names the lock files kept in the system temp directory.
const lockPrefix = "specific-grep-"

// dirLock is an exclusive advisory lock scoped to one output directory.
// The lock file lives in os.TempDir so the output directory only ever contains artifacts.
type dirLock struct {
	flock *flock.Flock
	dir   string
}

// forDir returns the lock guarding dir. Paths naming the same directory share a lock.
func forDir(dir string) (*dirLock, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	sum := sha256.Sum256([]byte(abs))
	lockPath := filepath.Join(os.TempDir(), lockPrefix+hex.EncodeToString(sum[:8])+".lock")
	return &dirLock{flock: flock.New(lockPath), dir: abs}, nil
}

func (l *dirLock) path() string { return l.flock.Path() }

// lock blocks until the lock is acquired.
func (l *dirLock) lock() error {
	if err := l.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for %s: %w", l.dir, err)
	}
	return nil
}

// tryLock returns false without blocking if another holder has the lock.
func (l *dirLock) tryLock() (bool, error) {
	acquired, err := l.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock for %s: %w", l.dir, err)
	}
	return acquired, nil
}

func (l *dirLock) unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock for %s: %w", l.dir, err)
	}
	return nil
}

// stage writes data to a synced temp file next to path and returns the temp file's path.
// Renaming it over path then replaces the file in one step, so readers see either the
// old content or the new. On failure nothing is left behind.
func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return "", fmt.Errorf("failed to set permissions: %w", err)
	}
	tempFile = nil
	return tempPath, nil
}

// Artifact is one file to be written by WriteArtifacts.
type Artifact struct {
	Path string
	Data []byte
}

// WriteArtifacts locks dir and writes every artifact as one unit: all contents are
// staged in temp files first and only then renamed into place. If any step fails,
// the artifacts of this call already renamed are removed again, so a failed call
// never leaves part of the set behind.
func WriteArtifacts(dir string, artifacts ...Artifact) error {
	lock, err := forDir(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	if err := lock.lock(); err != nil {
		return err
	}
	defer lock.unlock()

	staged := make([]string, 0, len(artifacts))
	defer func() {
		for _, tempPath := range staged {
			os.Remove(tempPath) // no-op once renamed
		}
	}()
	for _, a := range artifacts {
		tempPath, err := stage(a.Path, a.Data)
		if err != nil {
			return err
		}
		staged = append(staged, tempPath)
	}

	for i, a := range artifacts {
		if err := os.Rename(staged[i], a.Path); err != nil {
			for _, done := range artifacts[:i] {
				os.Remove(done.Path)
			}
			return fmt.Errorf("failed to rename temp file to %s: %w", a.Path, err)
		}
	}
	return nil
}
