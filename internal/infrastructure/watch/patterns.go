package watch

import (
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/storage"
)

// KeyFilter maps files in the store directory to the key or log they hold.
// Exclude patterns win over include patterns; both match the base name.
type KeyFilter struct {
	Include []string
	Exclude []string
}

// DefaultKeyFilter accepts key blobs and the audit log and skips the
// temporary files written during an atomic save.
func DefaultKeyFilter() *KeyFilter {
	return &KeyFilter{
		Include: []string{"*.json", storage.EventsFile},
		Exclude: []string{"*.tmp", ".*"},
	}
}

// Matches reports whether path passes the filter.
func (f *KeyFilter) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range f.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pattern := range f.Include {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Key returns the store key for a blob path, or the events file name for
// the audit log. ok is false for anything the filter rejects.
func (f *KeyFilter) Key(path string) (string, bool) {
	if !f.Matches(path) {
		return "", false
	}
	base := filepath.Base(path)
	if base == storage.EventsFile {
		return base, true
	}
	key := strings.TrimSuffix(base, ".json")
	if domain.ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}
