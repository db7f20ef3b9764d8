package jwt

import (
	"fmt"
	"time"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	// GenerateAccessToken signs the identity into a short-lived bearer token.
	GenerateAccessToken(identity user.Identity) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTTL string
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTTL: accessTokenExpirationTime,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(identity user.Identity) (string, int64, error) {
	ttl, err := time.ParseDuration(j.accessTTL)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access token lifetime %q: %w", j.accessTTL, err)
	}

	issuedAt := j.now()
	expiresAt := issuedAt.Add(ttl).Unix()
	claims := map[string]interface{}{
		"sub":     identity.UserID,
		"user_id": identity.UserID,
		"email":   identity.Email,
		"name":    identity.Name,
		"role":    string(identity.Role),
		"type":    tokenTypeAccess,
		"iat":     issuedAt.Unix(),
		"exp":     expiresAt,
	}

	_, token, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, expiresAt, nil
}
