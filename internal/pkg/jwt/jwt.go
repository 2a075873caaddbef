package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "contribution-hub"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the JWT claims
type Claims struct {
	UserID     string `json:"user_id"`
	MembNo     string `json:"memb_no"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	FirstLogin bool   `json:"first_login"`
	jwt.RegisteredClaims
}

// Identity is the subject of an access token
type Identity struct {
	UserID     string
	MembNo     string
	Name       string
	Role       string
	FirstLogin bool
}

// GenerateAccessToken generates a new access token
func GenerateAccessToken(id Identity, secret string, expiryMinutes int) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     id.UserID,
		MembNo:     id.MembNo,
		Name:       id.Name,
		Role:       id.Role,
		FirstLogin: id.FirstLogin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   id.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns claims
func ValidateAccessToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
