package booking

import (
	"crypto/rand"
	"math/big"
)

const (
	confirmationCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	confirmationLength  = 8
	maxCodeAttempts     = 5
)

// GenerateConfirmationCode returns prefix followed by 8 random characters from A-Z0-9.
func GenerateConfirmationCode(prefix string) (string, error) {
	b := make([]byte, confirmationLength)
	max := big.NewInt(int64(len(confirmationCharset)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = confirmationCharset[n.Int64()]
	}
	return prefix + string(b), nil
}
