package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/uia-acad/notas/core/grading"
)

const tokenLifetime = 8 * time.Hour

const (
	ctxClaimsKey = "claims"
)

// claims mirrors the token payload of the real API: subject plus the
// user_id/nombre/rol fields the front end reads without verification.
type claims struct {
	jwt.StandardClaims
	UserID int          `json:"user_id"`
	Name   string       `json:"nombre"`
	Role   grading.Role `json:"rol"`
}

func (s *server) issueToken(acct *account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   acct.Email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenLifetime).Unix(),
		},
		UserID: acct.ID,
		Name:   acct.Name,
		Role:   acct.Role,
	})
	return token.SignedString(s.opts.SigningKey)
}

// requireAuth parses and verifies the bearer token, stashing the claims
// in the request context. Anything short of a valid token is a 401.
func (s *server) requireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return errUnauthorized
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			clms := new(claims)
			token, err := jwt.ParseWithClaims(raw, clms, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errUnauthorized
				}
				return s.opts.SigningKey, nil
			})
			if err != nil || !token.Valid {
				return errUnauthorized
			}

			ctx.Set(ctxClaimsKey, clms)
			return next(ctx)
		}
	}
}

// requireAdmin gates administrator-only endpoints. Must run after
// requireAuth.
func requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !contextClaims(ctx).Role.IsAdmin() {
				return errForbidden
			}
			return next(ctx)
		}
	}
}

func contextClaims(ctx echo.Context) *claims {
	if clms, ok := ctx.Get(ctxClaimsKey).(*claims); ok {
		return clms
	}
	return &claims{}
}

func registerAuthAPI(g *echo.Group, s *server) {
	g.POST("/auth/login", s.login)
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// login authenticates form-urlencoded username/password credentials, the
// OAuth2 password-flow shape the real API uses.
func (s *server) login(ctx echo.Context) error {
	username := strings.TrimSpace(ctx.FormValue("username"))
	password := ctx.FormValue("password")

	acct := s.db.findAccount(strings.ToLower(username))
	if acct == nil || acct.Password != password {
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
	}

	token, err := s.issueToken(acct)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func pathID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errNotFound
	}
	return id, nil
}
