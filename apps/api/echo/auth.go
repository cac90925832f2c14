package echoapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/user"
)

var (
	contextUserKey = "user"

	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
)

// Claims represents the portal session transmitted via a JWT.
type Claims struct {
	jwt.RegisteredClaims
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  user.Role `json:"role"`
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.SessionExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Role:  usr.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(raw, secret string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// portalMiddleware resolves the identity of a portal request: the subject of a Bearer token when sent,
// the configured default identity of the role otherwise.
func portalMiddleware(role user.Role, deps ServerDeps) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id := deps.CourseSvc.CurrentProfessorID()
			if role == user.RoleStudent {
				id = deps.CourseSvc.CurrentStudentID()
			}

			if header := ctx.Request().Header.Get(echo.HeaderAuthorization); header != "" {
				raw := strings.TrimPrefix(header, "Bearer ")
				if raw == header {
					return errUnauthorized
				}
				claims, err := parseToken(raw, deps.Conf.SecretKey)
				if err != nil {
					return errUnauthorized
				}
				if claims.Role != role {
					return errHttpForbidden
				}
				id = claims.Subject
			}

			usr, err := deps.UserSvc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "finding portal user")
			}
			if usr.Role != role {
				return errHttpForbidden
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUsrNotFoundInCtx
}

type (
	authApi struct {
		conf *core.Config
		deps ServerDeps
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
		Home  string    `json:"home"`
	}
)

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{conf: deps.Conf, deps: deps}
	g.POST("/login", api.login)
}

// login is a stub: any well formed credentials open a session, see user.Service.Login.
func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	fallbackID := api.deps.CourseSvc.CurrentProfessorID()
	home := "/prof"
	if data.Role == user.RoleStudent {
		fallbackID = api.deps.CourseSvc.CurrentStudentID()
		home = "/student"
	}

	usr, err := api.deps.UserSvc.Login(ctx.Request().Context(), data, fallbackID)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	token, err := GenerateToken(GetUserClaims(usr, api.conf), api.conf.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr, Home: home})
}
