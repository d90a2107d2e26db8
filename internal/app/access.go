package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// Roles granted by court access tokens.
const (
	RoleScorer    = "scorer"
	RoleSpectator = "spectator"
)

// accessTokenTTL bounds how long an issued court token stays valid.
const accessTokenTTL = 12 * time.Hour

// AccessClaims is the verified content of a court access token.
type AccessClaims struct {
	Court       string // normalized court name
	Role        string
	Fingerprint string // fingerprint of the password the token was issued against
}

// AccessService issues and verifies signed court access tokens. The
// enter-court flow exchanges the shared court password for a token; the
// match join attempt verifies it, so the password itself never rides in
// join metadata.
type AccessService struct {
	secret string
	issuer string
}

// NewAccessService constructs a token service with the given signing
// secret and issuer name.
func NewAccessService(secret, issuer string) *AccessService {
	return &AccessService{secret: secret, issuer: issuer}
}

// GenerateToken issues a signed token granting role on court.
func (s *AccessService) GenerateToken(court, role, fingerprint string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("access service is not configured")
	}
	if court == "" {
		return "", fmt.Errorf("court is required")
	}
	if role != RoleScorer && role != RoleSpectator {
		return "", fmt.Errorf("unknown role %q", role)
	}

	claims := jwt.MapClaims{
		"iss":   s.issuer,
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
		"court": court,
		"role":  role,
		"fp":    fingerprint,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken validates signature and expiry and extracts the claims.
func (s *AccessService) VerifyToken(tokenString string) (AccessClaims, error) {
	if s == nil || s.secret == "" {
		return AccessClaims{}, fmt.Errorf("access service is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return AccessClaims{}, fmt.Errorf("invalid access token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return AccessClaims{}, fmt.Errorf("invalid access token claims")
	}

	out := AccessClaims{}
	if v, ok := claims["court"].(string); ok {
		out.Court = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if v, ok := claims["fp"].(string); ok {
		out.Fingerprint = v
	}
	if out.Court == "" || (out.Role != RoleScorer && out.Role != RoleSpectator) {
		return AccessClaims{}, fmt.Errorf("access token missing court or role")
	}
	return out, nil
}

// PasswordFingerprint derives a short non-reversible identifier for a
// court password, used to detect concurrent password changes without
// embedding the password in tokens or broadcasts.
func PasswordFingerprint(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:8])
}
