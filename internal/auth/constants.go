package auth

import "time"

const (
	ContextKeyIdentity = "identity"
	ContextKeyResource = "resource"

	headerAuthorization = "Authorization"
	bearerScheme        = "Bearer"
	authHeaderParts     = 2

	paramID = "id"

	// SessionLifetime is the absolute lifetime of the session cookie.
	SessionLifetime = 7 * 24 * time.Hour
)

const (
	MsgUnauthorized     = "Unauthorized"
	MsgForbidden        = "Forbidden"
	msgResourceNotFound = "No resource found with id: %s"

	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgSigningSecretMissing    = "token signing secret is not configured"
	msgSignTokenFailed         = "failed to sign token: %w"
	msgInvalidIdentityCtx      = "invalid identity in context"
	msgLoadIdentityFailed      = "failed to load user for session"
)

type Mode string

const (
	// ModeRequired rejects the request on any authentication failure.
	ModeRequired Mode = "required"
	// ModeOptional lets the request through unauthenticated on failure.
	ModeOptional Mode = "optional"
)

// Transport is where a credential travels on the request.
type Transport string

const (
	TransportCookie Transport = "cookie"
	TransportBearer Transport = "bearer"
)

// FailureReason classifies an authentication failure for logs and metrics.
// It is never surfaced to clients.
type FailureReason string

const (
	ReasonNoCredential FailureReason = "no_credential"
	ReasonInvalidToken FailureReason = "invalid_token"
	ReasonUserNotFound FailureReason = "user_not_found"
)
