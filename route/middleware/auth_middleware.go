package middleware

import (
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"

	C "github.com/lesiontracker/tracker-server/constant"
	"github.com/lesiontracker/tracker-server/lib"
	"github.com/lesiontracker/tracker-server/route/shared"
)

const (
	authScheme string = "Bearer"
)

func tokenFromHeader(c echo.Context, header string, authScheme string) (string, error) {
	auth := c.Request().Header.Get(header)
	l := len(authScheme)
	if len(auth) > l+1 && auth[:l] == authScheme {
		return auth[l+1:], nil
	}
	return "", C.NewUnauthorizedError(
		"token_not_found",
		"Bearer token is missing or malformed",
		map[string]interface{}{},
	)
}

// SkipPattern Middlewareを実行しないパターン。
type SkipPattern struct {
	Methods   []string
	PathRegex *regexp.Regexp
}

type SkipPatterns []SkipPattern

func (p SkipPatterns) Match(c echo.Context) bool {
	for _, pattern := range p {
		for _, method := range pattern.Methods {
			if method == c.Request().Method {
				if matched := pattern.PathRegex.MatchString(c.Request().URL.Path); matched {
					return true
				}
			}
		}
	}
	return false
}

// 疎通確認は認証しない。
var DefaultSkipPatterns = SkipPatterns{
	{Methods: []string{http.MethodGet, http.MethodHead}, PathRegex: regexp.MustCompile(`^/1/health$`)},
}

// BearerAuth Authorizationヘッダのトークンを検証し、サブジェクトをコンテキストに設定する。
func BearerAuth(skip SkipPatterns) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip.Match(c) {
				return next(c)
			}

			raw, err := tokenFromHeader(c, echo.HeaderAuthorization, authScheme)
			if err != nil {
				return err
			}

			me, err := lib.VerifyToken(raw)
			if err != nil {
				return err
			}

			c.Set(shared.ContextMeKey, me)

			return next(c)
		}
	}
}
