package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialnet/internal/domain"
)

// minSigningKeyBytes es el largo minimo para HS256.
const minSigningKeyBytes = 32

var ErrSigningKeyInvalid = errors.New("jwt signing key invalid")

// SigningKey es la clave HMAC derivada una sola vez del secreto configurado.
type SigningKey struct {
	raw []byte
}

// NewSigningKey decodifica el secreto en base64 y valida su largo.
func NewSigningKey(base64Secret string) (SigningKey, error) {
	secret := strings.TrimSpace(base64Secret)
	if secret == "" {
		return SigningKey{}, ErrSigningKeyInvalid
	}
	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return SigningKey{}, ErrSigningKeyInvalid
	}
	if len(raw) < minSigningKeyBytes {
		return SigningKey{}, ErrSigningKeyInvalid
	}
	return SigningKey{raw: raw}, nil
}

// JWTService emite y valida tokens de sesion firmados con HS256.
type JWTService struct {
	key    SigningKey
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewJWTService(key SigningKey, ttl time.Duration) *JWTService {
	if ttl < 0 {
		ttl = 0
	}
	svc := &JWTService{
		key: key,
		ttl: ttl,
		now: func() time.Time { return time.Now().UTC() },
	}
	svc.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return svc.now() }),
	)
	return svc
}

// TTL devuelve la duracion de los tokens emitidos.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue emite un token con los claims por defecto {name, id}.
func (s *JWTService) Issue(user domain.User) (string, error) {
	return s.IssueWithClaims(user, map[string]any{
		"name": user.Username,
		"id":   user.ID,
	})
}

// IssueWithClaims emite un token para el usuario con claims adicionales.
// sub, iat y exp siempre los fija el servicio.
func (s *JWTService) IssueWithClaims(user domain.User, extra map[string]any) (string, error) {
	if len(s.key.raw) == 0 {
		return "", ErrSigningKeyInvalid
	}
	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = user.Username
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key.raw)
}

// ValidateSubject verifica firma y expiracion y devuelve el subject.
// Cualquier falla se reduce a ok=false.
func (s *JWTService) ValidateSubject(tokenString string) (string, bool) {
	if len(s.key.raw) == 0 {
		return "", false
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", false
	}
	claims := jwt.MapClaims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.key.raw, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", false
	}
	return subject, true
}
