package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// keyPattern matches valid store keys: a letter followed by letters, digits,
// hyphens or underscores.
var keyPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateKey rejects store keys that cannot be used as a file or row name.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("store key cannot be empty")
	}
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key format: %s", key)
	}
	return nil
}
