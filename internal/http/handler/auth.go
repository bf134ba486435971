package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cookbook-service/internal/audit"
	"cookbook-service/internal/auth"
	"cookbook-service/internal/domain/user"
	apperrors "cookbook-service/pkg/errors"
	"cookbook-service/pkg/validator"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type AuthHandler struct {
	users     UserAccounts
	hasher    PasswordHasher
	sessions  SessionIssuer
	audit     AuditRecorder
	transport auth.Transport
	logger    zerolog.Logger
}

func NewAuthHandler(users UserAccounts, hasher PasswordHasher, sessions SessionIssuer, recorder AuditRecorder, transport auth.Transport, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		hasher:    hasher,
		sessions:  sessions,
		audit:     recorder,
		transport: transport,
		logger:    logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

type sessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          *auth.Identity `json:"user,omitempty"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if req.Email == "" || req.Password == "" {
		return apperrors.BadRequest(msgMissingCredentials)
	}
	if err := validator.Email(req.Email); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return apperrors.Validation(err.Error())
	}
	if err := validator.DisplayName(req.Name); err != nil {
		return apperrors.Validation(err.Error())
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.InternalServer(msgHashPasswordFailed, err)
	}

	created, err := h.users.Create(c.Request().Context(), user.CreateUserInput{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailExists) {
			h.audit.Record(c, audit.Event{Action: audit.ActionRegister, Status: audit.StatusFailure, Email: req.Email, Reason: reasonDuplicateEmail})
		}
		return err
	}

	token, err := h.sessions.Issue(c, auth.IdentityFromUser(created))
	if err != nil {
		return apperrors.InternalServer(msgIssueSessionFailed, err)
	}

	h.audit.Record(c, audit.Event{Action: audit.ActionRegister, Status: audit.StatusSuccess, ActorID: &created.ID, Email: created.Email})

	return c.JSON(http.StatusCreated, authResponse{
		Message: fmt.Sprintf(msgUserCreatedFmt, created.ID),
		Token:   h.bearerToken(token),
	})
}

// Login answers an unknown email and a wrong password identically, and pays
// the bcrypt cost in both cases.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return apperrors.BadRequest(msgMissingCredentials)
	}

	ctx := c.Request().Context()

	u, err := h.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		h.hasher.VerifyDummy(req.Password)
		h.audit.Record(c, audit.Event{Action: audit.ActionLogin, Status: audit.StatusFailure, Email: req.Email, Reason: reasonUnknownEmail})
		return apperrors.InvalidCredentials(msgInvalidCredentials)
	}

	if !h.hasher.Verify(req.Password, u.PasswordHash) {
		h.audit.Record(c, audit.Event{Action: audit.ActionLogin, Status: audit.StatusFailure, ActorID: &u.ID, Email: req.Email, Reason: reasonWrongPassword})
		return apperrors.InvalidCredentials(msgInvalidCredentials)
	}

	h.rehash(c, u, req.Password)

	token, err := h.sessions.Issue(c, auth.IdentityFromUser(u))
	if err != nil {
		return apperrors.InternalServer(msgIssueSessionFailed, err)
	}

	h.audit.Record(c, audit.Event{Action: audit.ActionLogin, Status: audit.StatusSuccess, ActorID: &u.ID, Email: u.Email})

	return c.JSON(http.StatusOK, authResponse{
		Message: msgSuccess,
		Token:   h.bearerToken(token),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	h.audit.Record(c, audit.Event{Action: audit.ActionLogout, Status: audit.StatusSuccess})
	return respondMessage(c, http.StatusOK, msgSuccess)
}

// Session reports who the caller is. It runs behind optional authentication
// and never fails on a missing or stale credential.
func (h *AuthHandler) Session(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusOK, sessionResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, User: &identity})
}

// rehash upgrades a hash produced with an older cost. Failure only costs the
// upgrade, never the login.
func (h *AuthHandler) rehash(c echo.Context, u *user.User, password string) {
	needs, err := h.hasher.NeedsRehash(u.PasswordHash)
	if err != nil || !needs {
		return
	}

	hash, err := h.hasher.Hash(password)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", u.ID.String()).Msg("failed to rehash password")
		return
	}

	if err := h.users.Update(c.Request().Context(), u.ID, user.UpdateUserInput{PasswordHash: &hash}); err != nil {
		h.logger.Warn().Err(err).Str("user_id", u.ID.String()).Msg("failed to store rehashed password")
	}
}

func (h *AuthHandler) bearerToken(token string) string {
	if h.transport == auth.TransportBearer {
		return token
	}
	return ""
}
