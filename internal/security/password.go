package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrCredentialFormat means a stored hash could not be parsed. It is fatal for
// that record only.
var ErrCredentialFormat = errors.New("malformed credential hash")

// Params are the argon2id cost settings embedded in every encoded hash.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Ceilings on what a stored hash may ask of the verifier. Anything above them
// is treated as corrupt rather than computed.
const (
	maxMemoryKiB   = 1 << 20
	maxIterations  = 16
	maxParallelism = 16
	maxSaltLength  = 64
	maxKeyLength   = 128
)

var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// HashPassword hashes a plain text password with argon2id and returns it in
// PHC string format.
func HashPassword(plain string) (string, error) {
	return HashPasswordWithParams(plain, DefaultParams)
}

func HashPasswordWithParams(plain string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)

	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword compares a plain text password with a stored hash.
// A mismatch is (false, nil); only an unreadable hash is an error.
func VerifyPassword(plain, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))

		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", ErrCredentialFormat, err)
		}
	}

	p, salt, key, err := decodeArgon2id(encoded)

	if err != nil {
		return false, err
	}

	other := argon2.IDKey([]byte(plain), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

// NeedsRehash reports whether encoded was produced by anything other than
// argon2id with the target parameters.
func NeedsRehash(encoded string, target Params) bool {
	p, _, _, err := decodeArgon2id(encoded)
	if err != nil {
		return true
	}

	return p.Memory != target.Memory ||
		p.Iterations != target.Iterations ||
		p.Parallelism != target.Parallelism ||
		p.KeyLength != target.KeyLength
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

func decodeArgon2id(encoded string) (p Params, salt, key []byte, err error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		err = ErrCredentialFormat
		return
	}

	var version int
	if _, scanErr := fmt.Sscanf(parts[2], "v=%d", &version); scanErr != nil || version != argon2.Version {
		err = ErrCredentialFormat
		return
	}

	if _, scanErr := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); scanErr != nil {
		err = ErrCredentialFormat
		return
	}

	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 ||
		p.Memory > maxMemoryKiB || p.Iterations > maxIterations || p.Parallelism > maxParallelism {
		err = ErrCredentialFormat
		return
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 || len(salt) > maxSaltLength {
		err = ErrCredentialFormat
		return
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 || len(key) > maxKeyLength {
		err = ErrCredentialFormat
		return
	}

	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return
}
