package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is what the API needs out of a verified token.
type Claims struct {
	UserID int64
	Role   string
}

func Issue(secret string, userID int64, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAuth verifies an Authorization header value. The "Bearer " prefix is optional.
func ParseAuth(authHeader string, secret string) (*Claims, error) {
	tokenStr := strings.TrimSpace(authHeader)
	if len(tokenStr) >= 6 && strings.EqualFold(tokenStr[:6], "bearer") &&
		(len(tokenStr) == 6 || tokenStr[6] == ' ' || tokenStr[6] == '\t') {
		tokenStr = strings.TrimSpace(tokenStr[6:])
	}
	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}

	sub, ok := mc["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: sub missing in claims", ErrInvalidToken)
	}
	role, _ := mc["role"].(string)

	return &Claims{UserID: int64(sub), Role: role}, nil
}
