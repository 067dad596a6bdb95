package security

import (
	"errors"
	"time"

	"portfolio_backend/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and verifies the two stateless token kinds. Access and
// refresh tokens are signed with distinct keys, so one can never stand in
// for the other.
type TokenService struct {
	AccessAuth  *jwtauth.JWTAuth
	RefreshAuth *jwtauth.JWTAuth
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

var Tokens *TokenService

func InitJWT() {
	Tokens = NewTokenService(
		config.AppConfig.AccessTokenKey,
		config.AppConfig.RefreshTokenKey,
		config.AppConfig.AccessTokenTTL,
		config.AppConfig.RefreshTokenTTL,
	)
}

func NewTokenService(accessKey, refreshKey []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		AccessAuth:  jwtauth.New("HS256", accessKey, nil),
		RefreshAuth: jwtauth.New("HS256", refreshKey, nil),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

func (ts *TokenService) AccessTTL() time.Duration  { return ts.accessTTL }
func (ts *TokenService) RefreshTTL() time.Duration { return ts.refreshTTL }

// IssueAccessToken carries both identity and role so authorization never
// needs a store round trip.
func (ts *TokenService) IssueAccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(ts.accessTTL).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := ts.AccessAuth.Encode(claims)
	return tokenString, err
}

// IssueRefreshToken carries identity only; the role is re-read from the
// store at refresh time.
func (ts *TokenService) IssueRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(ts.refreshTTL).Unix(),
		"iat":     now.Unix(),
	}
	_, tokenString, err := ts.RefreshAuth.Encode(claims)
	return tokenString, err
}

// VerifyRefresh checks signature and expiry and returns the subject user ID.
func (ts *TokenService) VerifyRefresh(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(ts.RefreshAuth, tokenString)
	if err != nil {
		return "", err
	}
	id, ok := token.PrivateClaims()["user_id"].(string)
	if !ok || id == "" {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

// Helper functions to extract claims, used by the auth middleware.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["user_id"].(string)
	if !ok {
		return "", errors.New("user_id claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
