package mediaid

import (
	"math/rand"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefix marks identifiers minted for uploaded files.
const Prefix = "upl_"

var (
	entropyMu   sync.Mutex
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

func newEntropy() *ulid.MonotonicEntropy {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	return entropy
}

// New returns an upl_* ULID string.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), newEntropy())
	return Prefix + strings.ToLower(id.String())
}

// Key returns a new storage key, keeping the given extension (".png" etc).
func Key(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return New() + ext
}

// IsValid reports whether the string is an upl_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, Prefix) {
		return false
	}
	_, err := Parse(value)
	return err == nil
}

// IsValidKey reports whether key is a single path segment made of an upl_* ULID
// and an optional extension.
func IsValidKey(key string) bool {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return false
	}
	stem := strings.TrimSuffix(key, path.Ext(key))
	return IsValid(stem)
}

// Parse strips the upl_ prefix and returns the ULID.
func Parse(value string) (ulid.ULID, error) {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, Prefix)
	return ulid.Parse(value)
}
