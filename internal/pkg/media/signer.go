package media

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/imageprocessor"
)

// SignatureParam is the query parameter carrying the thumbnail signature.
const SignatureParam = "s"

// signatureLen is the number of HMAC bytes kept in a URL.
const signatureLen = 16

// Signer authenticates thumbnail URLs so only sizes handed out by the
// resolver get rendered. A nil Signer signs nothing and accepts everything.
type Signer struct {
	key []byte
}

func NewSigner(key []byte) *Signer {
	return &Signer{key: key}
}

// NewRandomSigner creates a signer with a random key. URLs signed by it stay
// valid only for the lifetime of the process.
func NewRandomSigner() (*Signer, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail key: %w", err)
	}
	return NewSigner(key), nil
}

// Sign returns the signature of one thumbnail variant, "" for a nil signer.
func (s *Signer) Sign(key string, width, height int, mode imageprocessor.Mode) string {
	if s == nil {
		return ""
	}
	mac := hmac.New(sha256.New, s.key)
	fmt.Fprintf(mac, "%dx%d/%s/%s", width, height, mode, key)
	return hex.EncodeToString(mac.Sum(nil)[:signatureLen])
}

// Verify checks sig against the variant.
func (s *Signer) Verify(key string, width, height int, mode imageprocessor.Mode, sig string) bool {
	if s == nil {
		return true
	}
	return hmac.Equal([]byte(sig), []byte(s.Sign(key, width, height, mode)))
}
