package auth

import (
	"time"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type tokenClaims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService creates a TokenService signing HS256 tokens. Access and
// refresh tokens use separate secrets so one cannot stand in for the other.
func NewJWTService(cfg *config.Config) service.TokenService {
	accessTTL := defaultAccessTTL
	refreshTTL := defaultRefreshTTL
	if cfg.Auth != nil {
		if cfg.Auth.AccessTokenTTL > 0 {
			accessTTL = cfg.Auth.AccessTokenTTL
		}
		if cfg.Auth.RefreshTokenTTL > 0 {
			refreshTTL = cfg.Auth.RefreshTokenTTL
		}
	}

	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *jwtService) GenerateTokens(userID uuid.UUID) (string, string, error) {
	accessToken, err := s.sign(userID, tokenTypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "sign access token")
	}

	refreshToken, err := s.sign(userID, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", "", errors.Wrap(err, "sign refresh token")
	}

	return accessToken, refreshToken, nil
}

func (s *jwtService) ValidateAccessToken(token string) (uuid.UUID, error) {
	return s.validate(token, tokenTypeAccess, s.accessSecret)
}

func (s *jwtService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	return s.validate(token, tokenTypeRefresh, s.refreshSecret)
}

func (s *jwtService) RefreshTokenDuration() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) sign(userID uuid.UUID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *jwtService) validate(tokenString, wantType string, secret []byte) (uuid.UUID, error) {
	claims := new(tokenClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return secret, nil
	})
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "jwt.ParseWithClaims")
	}
	if !token.Valid {
		return uuid.Nil, errors.New("token is not valid")
	}
	if claims.TokenType != wantType {
		return uuid.Nil, errors.Errorf("unexpected token type %q", claims.TokenType)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "parse token subject")
	}

	return userID, nil
}
