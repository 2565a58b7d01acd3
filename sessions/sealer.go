package sessions

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// Sealer transforms the serialized session before it reaches the Repo and back.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

type plainSealer struct{}

func (plainSealer) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }
func (plainSealer) Open(sealed []byte) ([]byte, error)    { return sealed, nil }

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
	argonTime = 3
	argonMem  = 64 * 1024
	argonPar  = 4
)

var errSealedTooShort = errors.New("sealed session too short")

// PassphraseSealer encrypts with AES-256-GCM under a key derived from a passphrase with Argon2id.
// Output format: [16-byte salt][12-byte nonce][ciphertext]
type PassphraseSealer struct {
	passphrase string
}

var _ Sealer = (*PassphraseSealer)(nil)

func NewPassphraseSealer(passphrase string) (*PassphraseSealer, error) {
	if passphrase == "" {
		return nil, errors.New("[NewPassphraseSealer] passphrase is required")
	}
	return &PassphraseSealer{passphrase: passphrase}, nil
}

func (p *PassphraseSealer) Seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := p.gcm(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (p *PassphraseSealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize+nonceSize {
		return nil, errSealedTooShort
	}
	salt := sealed[:saltSize]
	nonce := sealed[saltSize : saltSize+nonceSize]

	gcm, err := p.gcm(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, sealed[saltSize+nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt session: %w", err)
	}
	return plaintext, nil
}

func (p *PassphraseSealer) gcm(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(p.passphrase), salt, argonTime, argonMem, argonPar, keySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
