package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/hilal/pkg/domain"
)

const HilalDir = ".hilal"
const ConfigFile = "config.yaml"
const EventsFile = "events.jsonl"
const DatabaseFile = "hilal.db"

// FilesystemStore keeps one JSON file per key under <root>/.hilal.
type FilesystemStore struct {
	root        string
	retryConfig retry.Config
}

var _ domain.Store = (*FilesystemStore)(nil)

func NewFilesystemStore(root string) *FilesystemStore {
	return &FilesystemStore{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemStore) Root() string {
	return r.root
}

// Dir returns the .hilal directory.
func (r *FilesystemStore) Dir() string {
	return filepath.Join(r.root, HilalDir)
}

// ResolvePath ensures the path is within the .hilal directory and prevents traversal.
func (r *FilesystemStore) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := r.Dir()
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	// Only direct children of .hilal are allowed
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemStore) Initialize() error {
	// G301: Use 0700 for directories
	if err := os.MkdirAll(r.Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", HilalDir, err)
	}
	return nil
}

func (r *FilesystemStore) IsInitialized() bool {
	_, err := os.Stat(r.Dir())
	return err == nil
}

func (r *FilesystemStore) keyPath(key string) (string, error) {
	if err := domain.ValidateKey(key); err != nil {
		return "", err
	}
	return r.ResolvePath(key + ".json")
}

type readResult struct {
	value string
	found bool
}

// Get reads the value stored under key. Transient read errors are retried.
func (r *FilesystemStore) Get(ctx context.Context, key string) (string, bool, error) {
	path, err := r.keyPath(key)
	if err != nil {
		return "", false, err
	}

	retryer := retry.New[readResult](r.retryConfig)
	res, err := retryer.Do(ctx, func(ctx context.Context) (readResult, error) {
		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return readResult{}, nil
		}
		if err != nil {
			return readResult{}, fmt.Errorf("failed to read %s: %w", key, err)
		}
		return readResult{value: string(data), found: true}, nil
	})
	if err != nil {
		return "", false, err
	}
	return res.value, res.found, nil
}

// Set writes value under key, replacing the file atomically.
func (r *FilesystemStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.keyPath(key)
	if err != nil {
		return err
	}
	if err := r.Initialize(); err != nil {
		return err
	}

	tmp := path + ".tmp"
	// G306: Use 0600 for files
	if err := os.WriteFile(tmp, []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key.
func (r *FilesystemStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(r.Dir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}
