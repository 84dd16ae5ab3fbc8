// Package password hashes and verifies user passwords.
// New hashes are argon2id; bcrypt hashes from older accounts are still accepted.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"planning_backend/internal/config"
)

// ErrInvalidHash signals a malformed argon2id hash string.
var ErrInvalidHash = errors.New("invalid argon2id hash")

// Result is the outcome of a verification.
type Result int

const (
	Failed Result = iota
	Success
	// SuccessRehashNeeded means the password matched a legacy or weaker hash.
	SuccessRehashNeeded
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case SuccessRehashNeeded:
		return "success_rehash_needed"
	default:
		return "failed"
	}
}

// Ok reports whether the password matched.
func (r Result) Ok() bool {
	return r == Success || r == SuccessRehashNeeded
}

const (
	saltLen = 16
	keyLen  = 32
)

type params struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

// Hasher produces argon2id hashes with the configured cost.
type Hasher struct {
	p params

	dummyOnce sync.Once
	dummy     string
}

func NewHasher(cfg config.PasswordConfig) *Hasher {
	p := params{
		memory:      cfg.ArgonMemoryKB,
		time:        cfg.ArgonTime,
		parallelism: cfg.ArgonParallelism,
	}
	if p.memory < 8 {
		p.memory = 8
	}
	if p.time < 1 {
		p.time = 1
	}
	if p.parallelism < 1 {
		p.parallelism = 1
	}
	return &Hasher{p: p}
}

// Hash returns an encoded argon2id hash.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.p.time, h.p.memory, h.p.parallelism, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.p.memory, h.p.time, h.p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify checks password against an encoded hash. Malformed hashes are Failed.
func (h *Hasher) Verify(encoded, password string) Result {
	if isBcrypt(encoded) {
		if bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) != nil {
			return Failed
		}
		return SuccessRehashNeeded
	}

	p, salt, key, err := decode(encoded)
	if err != nil {
		return Failed
	}
	computed := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, computed) != 1 {
		return Failed
	}
	if p.memory < h.p.memory || p.time < h.p.time || p.parallelism < h.p.parallelism {
		return SuccessRehashNeeded
	}
	return Success
}

// VerifyDummy spends the same work as a real verification. Used when the account does not exist.
func (h *Hasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = h.Hash("dummy-password-for-timing")
	})
	_ = h.Verify(h.dummy, password)
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func decode(encoded string) (params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return params{}, nil, nil, ErrInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return params{}, nil, nil, ErrInvalidHash
	}

	var p params
	for _, token := range strings.Split(parts[3], ",") {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return params{}, nil, nil, ErrInvalidHash
		}
		var err error
		switch key {
		case "m":
			var v uint64
			v, err = strconv.ParseUint(value, 10, 32)
			p.memory = uint32(v)
		case "t":
			var v uint64
			v, err = strconv.ParseUint(value, 10, 32)
			p.time = uint32(v)
		case "p":
			var v uint64
			v, err = strconv.ParseUint(value, 10, 8)
			p.parallelism = uint8(v)
		}
		if err != nil {
			return params{}, nil, nil, ErrInvalidHash
		}
	}
	if p.memory == 0 || p.time == 0 || p.parallelism == 0 {
		return params{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params{}, nil, nil, ErrInvalidHash
	}
	return p, salt, key, nil
}
