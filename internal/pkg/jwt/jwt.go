package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/leave-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Service verifies tokens minted by the external auth collaborator (shared
// HMAC secret) and mints the short-lived tokens this service hands out for
// the SSE stream, where browsers cannot set an Authorization header.
type Service interface {
	GenerateAccessToken(userID string, employeeID string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateAccessToken mints an access token carrying the actor claims the
// leave engine consumes. In production the auth collaborator mints these;
// this implementation exists for tests and local development.
func (j *JWTService) GenerateAccessToken(userID string, employeeID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken creates a short-lived token delivered via query parameter
func (j *JWTService) GenerateSSEToken(employeeID string) (token string, expiresIn int, err error) {
	expiresIn = 60 // seconds
	claims := map[string]interface{}{
		"employee_id": employeeID,
		"type":        "sse",
		"exp":         time.Now().Add(time.Duration(expiresIn) * time.Second).Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresIn, err
}

// ValidateSSEToken verifies an SSE token and returns the employee it scopes
func (j *JWTService) ValidateSSEToken(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", ErrInvalidToken
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "sse" {
		return "", ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", ErrInvalidToken
	}

	return employeeID, nil
}
