package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// Monotonic entropy keeps IDs minted in the same millisecond increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID for a trade created now.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose time component is t. Imports use the trade's
// own time so IDs of back-filled rows still sort chronologically.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	if t.IsZero() || t.Before(time.Unix(0, 0)) {
		t = time.Now()
	}
	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Monotonic entropy overflowed within one millisecond; fall back to
		// fresh entropy for this ID.
		id = ulid.MustNew(ulid.Timestamp(t.UTC()), cryptoRand.Reader)
	}
	return id.String()
}

// Valid reports whether s parses as a ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
