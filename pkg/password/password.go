// Package password hashes and verifies credentials with salted PBKDF2.
//
// Hashes use the "pbkdf2:<digest>:<iterations>$<salt>$<hex>" encoding, which is
// also what werkzeug produces, so credentials created by werkzeug based
// applications verify without a reset.
package password

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600_000
	DefaultSaltLength = 16
	DefaultDigest     = "sha256"

	// werkzeug 2.x default, used when a stored hash omits the iteration count
	legacyIterations = 260_000

	methodPrefix = "pbkdf2"
	saltChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrUnknownDigest = errors.New("unknown digest")

var digests = map[string]func() hash.Hash{
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

type Hasher struct {
	Digest     string
	Iterations int
	SaltLength int
}

func New(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{
		Digest:     DefaultDigest,
		Iterations: iterations,
		SaltLength: DefaultSaltLength,
	}
}

func (h *Hasher) Hash(plain string) (string, error) {
	newHash, ok := digests[h.Digest]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDigest, h.Digest)
	}

	salt, err := genSalt(h.SaltLength)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	sum := derive(plain, salt, h.Iterations, newHash)
	return fmt.Sprintf("%s:%s:%d$%s$%s", methodPrefix, h.Digest, h.Iterations, salt, sum), nil
}

// Verify reports whether plain matches the encoded hash. Malformed hashes
// never match.
func (h *Hasher) Verify(plain, encoded string) bool {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, want := parts[0], parts[1], parts[2]

	newHash, iterations, ok := parseMethod(method)
	if !ok {
		return false
	}

	got := derive(plain, salt, iterations, newHash)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func parseMethod(method string) (func() hash.Hash, int, bool) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || len(fields) > 3 || fields[0] != methodPrefix {
		return nil, 0, false
	}

	newHash, ok := digests[fields[1]]
	if !ok {
		return nil, 0, false
	}

	iterations := legacyIterations
	if len(fields) == 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil || n <= 0 {
			return nil, 0, false
		}
		iterations = n
	}
	return newHash, iterations, true
}

func derive(plain, salt string, iterations int, newHash func() hash.Hash) string {
	keyLen := newHash().Size()
	return hex.EncodeToString(pbkdf2.Key([]byte(plain), []byte(salt), iterations, keyLen, newHash))
}

func genSalt(n int) (string, error) {
	if n <= 0 {
		n = DefaultSaltLength
	}
	limit := big.NewInt(int64(len(saltChars)))

	var b strings.Builder
	b.Grow(n)
	for range n {
		i, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[i.Int64()])
	}
	return b.String(), nil
}
