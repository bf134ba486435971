package auth

import (
	"context"
	"errors"
	"net/http"

	"cookbook-service/internal/domain/user"
	apperrors "cookbook-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// UserFinder is the slice of the user store the authenticator reads.
type UserFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type TokenVerifier interface {
	Verify(token string) (Subject, error)
}

// FailureObserver is told about every authentication failure.
type FailureObserver interface {
	ObserveAuthFailure(reason string)
}

// Failure is the error half of Result.
type Failure struct {
	Reason FailureReason
}

func (f *Failure) Error() string {
	return "authentication failed: " + string(f.Reason)
}

// Unwrap makes every failure an Unauthenticated error for the boundary
// translator, whatever its reason.
func (f *Failure) Unwrap() error {
	return apperrors.ErrUnauthenticated
}

// Result is either Ok(Identity) or Err(Failure).
type Result struct {
	identity Identity
	failure  *Failure
}

func Authenticated(id Identity) Result {
	return Result{identity: id}
}

func Failed(reason FailureReason) Result {
	return Result{failure: &Failure{Reason: reason}}
}

func (r Result) Identity() (Identity, bool) {
	return r.identity, r.failure == nil
}

func (r Result) Failure() *Failure {
	return r.failure
}

type Authenticator struct {
	tokens     TokenVerifier
	users      UserFinder
	cookieName string
	observer   FailureObserver
	logger     zerolog.Logger
}

type AuthenticatorOption func(*Authenticator)

func WithFailureObserver(o FailureObserver) AuthenticatorOption {
	return func(a *Authenticator) {
		a.observer = o
	}
}

func WithLogger(l zerolog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		a.logger = l
	}
}

func NewAuthenticator(tokens TokenVerifier, users UserFinder, cookieName string, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		tokens:     tokens,
		users:      users,
		cookieName: cookieName,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate runs extract, verify and load for one request. The returned
// error is reserved for store failures other than not-found; every
// credential problem is reported through the Result.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request, transport Transport) (Result, error) {
	raw, ok := NewExtractor(transport, a.cookieName).Extract(r)
	if !ok {
		return Failed(ReasonNoCredential), nil
	}

	subject, err := a.tokens.Verify(raw)
	if err != nil {
		return Failed(ReasonInvalidToken), nil
	}

	u, err := a.users.GetByID(ctx, subject.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Failed(ReasonUserNotFound), nil
		}
		return Result{}, apperrors.InternalServer(msgLoadIdentityFailed, err)
	}

	return Authenticated(IdentityFromUser(u)), nil
}

// Middleware returns the request-pipeline step for mode and transport.
func (a *Authenticator) Middleware(mode Mode, transport Transport) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := a.Authenticate(c.Request().Context(), c.Request(), transport)
			if err != nil {
				return err
			}

			if id, ok := result.Identity(); ok {
				setIdentity(c, id)
				return next(c)
			}

			failure := result.Failure()
			a.observe(c, mode, failure)

			if mode == ModeOptional {
				return next(c)
			}

			return &apperrors.AppError{
				Code:    apperrors.CodeUnauthenticated,
				Message: MsgUnauthorized,
				Err:     failure,
			}
		}
	}
}

// Require rejects unauthenticated requests.
func (a *Authenticator) Require(transport Transport) echo.MiddlewareFunc {
	return a.Middleware(ModeRequired, transport)
}

// Optional attaches an identity when one can be established.
func (a *Authenticator) Optional(transport Transport) echo.MiddlewareFunc {
	return a.Middleware(ModeOptional, transport)
}

func (a *Authenticator) observe(c echo.Context, mode Mode, failure *Failure) {
	// An anonymous visitor on an optional route is not a failure worth counting.
	if mode == ModeOptional && failure.Reason == ReasonNoCredential {
		return
	}

	if a.observer != nil {
		a.observer.ObserveAuthFailure(string(failure.Reason))
	}

	a.logger.Debug().
		Str("reason", string(failure.Reason)).
		Str("mode", string(mode)).
		Str("path", c.Path()).
		Msg("authentication failed")
}

// RequireRole must run after Require. It rejects identities without role.
func RequireRole(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := MustIdentity(c)
			if err != nil {
				return err
			}

			if id.Role != role {
				return apperrors.Forbidden(MsgForbidden)
			}

			return next(c)
		}
	}
}
