package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RegularKeyword marks tokens issued to mini app users
const RegularKeyword = "regular"

var ErrInvalidToken = errors.New("could not validate credentials")

// Claims carries the token keyword: "regular" for users, the admin username for admins
type Claims struct {
	Keyword string `json:"keyword"`
	jwt.RegisteredClaims
}

// Issuer signs and checks HS256 tokens with one secret
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer whose tokens live for ttl
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for keyword
func (i *Issuer) Issue(keyword string) (string, error) {
	now := i.now()
	claims := Claims{
		Keyword: keyword,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns its keyword
func (i *Issuer) Parse(token string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Keyword, nil
}

// Verify checks that the token is valid and carries exactly keyword
func (i *Issuer) Verify(token, keyword string) error {
	got, err := i.Parse(token)
	if err != nil {
		return err
	}
	if got != keyword {
		return ErrInvalidToken
	}
	return nil
}

// CheckPassword compares a plain password with a bcrypt hash
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword produces the bcrypt hash stored in configuration
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
