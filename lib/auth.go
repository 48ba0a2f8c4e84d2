package lib

import (
	"fmt"

	"github.com/golang-jwt/jwt"

	C "github.com/lesiontracker/tracker-server/constant"
)

type JWTConfiguration struct {
	Secret   string
	Issuer   string
	Audience string
}

func (cfg *JWTConfiguration) String() string {
	return fmt.Sprintf(`[JWT]
Issuer:   %v
Audience: %v`, cfg.Issuer, cfg.Audience)
}

var (
	defaultConfiguration *JWTConfiguration = nil
)

func SetupAuthentication(config *JWTConfiguration) error {
	if config.Secret == "" {
		return fmt.Errorf("JWT secret is not configured")
	}

	defaultConfiguration = config

	return nil
}

func GetJWTConfiguration() *JWTConfiguration {
	return defaultConfiguration
}

// 閲覧者を表すトークンを発行する。
func CreateToken(subject string) (string, error) {
	cfg := defaultConfiguration

	claims := &jwt.StandardClaims{
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Subject:  subject,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// トークンを検証し、サブジェクトを返す。
func VerifyToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(defaultConfiguration.Secret), nil
	})

	if err != nil || !token.Valid {
		return "", C.NewUnauthorizedError(
			"invalid_token",
			"Parsed token is invalid",
			map[string]interface{}{},
		)
	}

	claims := token.Claims.(jwt.MapClaims)

	if !claims.VerifyIssuer(defaultConfiguration.Issuer, true) {
		return "", C.NewUnauthorizedError(
			"invalid_issuer",
			fmt.Sprintf("The issuer in your token is invalid: %v", claims["iss"]),
			map[string]interface{}{},
		)
	}

	if !claims.VerifyAudience(defaultConfiguration.Audience, true) {
		return "", C.NewUnauthorizedError(
			"invalid_audience",
			fmt.Sprintf("The audience in your token is invalid: %v", claims["aud"]),
			map[string]interface{}{},
		)
	}

	if sub, ok := claims["sub"].(string); !ok || sub == "" {
		return "", C.NewUnauthorizedError(
			"invalid_subject",
			fmt.Sprintf("The subject in your token is invalid: %v", claims["sub"]),
			map[string]interface{}{},
		)
	} else {
		return sub, nil
	}
}
