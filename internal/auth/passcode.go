package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// PasscodeStore keeps pending login codes keyed by identifier. A new Save for
// the same identifier supersedes the previous code; Consume removes the entry
// so each code verifies at most once. Codes are stored bcrypt-hashed.
type PasscodeStore interface {
	Save(ctx context.Context, identifier, codeHash string, ttl time.Duration) error
	Consume(ctx context.Context, identifier string) (codeHash string, err error)
}

// ErrNoPendingCode is returned by Consume when no live code exists for the
// identifier.
var ErrNoPendingCode = fmt.Errorf("no pending passcode")

const passcodeKeyPrefix = "passcode:"

// RedisPasscodeStore persists pending codes in Redis with a TTL.
type RedisPasscodeStore struct {
	client *redis.Client
}

// NewRedisPasscodeStore builds a store on the shared Redis client.
func NewRedisPasscodeStore(client *redis.Client) *RedisPasscodeStore {
	return &RedisPasscodeStore{client: client}
}

// Save writes the hash, overwriting any pending code for the identifier.
func (s *RedisPasscodeStore) Save(ctx context.Context, identifier, codeHash string, ttl time.Duration) error {
	return s.client.Set(ctx, passcodeKeyPrefix+identifier, codeHash, ttl).Err()
}

// Consume atomically reads and deletes the pending hash.
func (s *RedisPasscodeStore) Consume(ctx context.Context, identifier string) (string, error) {
	hash, err := s.client.GetDel(ctx, passcodeKeyPrefix+identifier).Result()
	if err == redis.Nil {
		return "", ErrNoPendingCode
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}

type pendingCode struct {
	hash      string
	expiresAt time.Time
}

// MemoryPasscodeStore is an in-process store for tests and redis-less dev
// runs. Last write wins per identifier; Consume is a single destructive read.
type MemoryPasscodeStore struct {
	mu      sync.Mutex
	pending map[string]pendingCode
	now     func() time.Time
}

// NewMemoryPasscodeStore builds an empty store.
func NewMemoryPasscodeStore() *MemoryPasscodeStore {
	return &MemoryPasscodeStore{pending: make(map[string]pendingCode), now: time.Now}
}

// Save stores the hash with an expiry.
func (s *MemoryPasscodeStore) Save(_ context.Context, identifier, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[identifier] = pendingCode{hash: codeHash, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume removes and returns the pending hash if it has not expired.
func (s *MemoryPasscodeStore) Consume(_ context.Context, identifier string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.pending[identifier]
	if !ok {
		return "", ErrNoPendingCode
	}
	delete(s.pending, identifier)
	if s.now().After(entry.expiresAt) {
		return "", ErrNoPendingCode
	}
	return entry.hash, nil
}

// GeneratePasscode returns a random six digit code.
func GeneratePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashPasscode hashes a code before storage.
func HashPasscode(code string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePasscode verifies a code against its stored hash.
func ComparePasscode(hashed, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(code))
}
