package mask

import (
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
)

const (
	encPrefix = "[ENCRYPTED:"
	encSuffix = "]"
)

// DecryptionError reports a failed Decrypt: missing envelope markers, a
// missing key, or a token that does not verify (wrong key, tampered or
// corrupted payload).
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// encrypt produces the textual envelope around a fernet token for the
// matched literal.
func (m *Masker) encrypt(text string) string {
	if m.key == nil {
		return "[ENCRYPTION_ERROR]"
	}
	token, err := fernet.EncryptAndSign([]byte(text), m.key)
	if err != nil {
		return "[ENCRYPTION_ERROR]"
	}
	return encPrefix + string(token) + encSuffix
}

// Decrypt strips the [ENCRYPTED:...] envelope and decrypts the payload with
// the masker's key. The fernet token is authenticated, so any tampering
// surfaces as a *DecryptionError.
func (m *Masker) Decrypt(wrapped string) (string, error) {
	if !strings.HasPrefix(wrapped, encPrefix) || !strings.HasSuffix(wrapped, encSuffix) {
		return "", &DecryptionError{Reason: "text is not in encrypted format"}
	}
	if m.key == nil {
		return "", &DecryptionError{Reason: "no encryption key available"}
	}

	payload := wrapped[len(encPrefix) : len(wrapped)-len(encSuffix)]
	plaintext := fernet.VerifyAndDecrypt([]byte(payload), 0, []*fernet.Key{m.key})
	if plaintext == nil {
		return "", &DecryptionError{Reason: "invalid token or wrong key"}
	}
	return string(plaintext), nil
}
