package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// TokenSigner issues a token for an identity.
type TokenSigner interface {
	Sign(identity Identity) (string, error)
}

type SessionObserver interface {
	ObserveSessionIssued()
}

// CookiePolicy carries the attributes that depend on the deployment.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// CookiePolicyFor returns the cookie policy for an APP_ENV value. Only
// production gets Secure and SameSite=Strict.
func CookiePolicyFor(env string) CookiePolicy {
	if env == "production" {
		return CookiePolicy{Secure: true, SameSite: http.SameSiteStrictMode}
	}
	return CookiePolicy{Secure: false, SameSite: http.SameSiteLaxMode}
}

// SessionIssuer writes and clears the session cookie.
type SessionIssuer struct {
	signer     TokenSigner
	cookieName string
	policy     CookiePolicy
	lifetime   time.Duration
	now        func() time.Time
	observer   SessionObserver
}

type SessionOption func(*SessionIssuer)

func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionIssuer) {
		s.now = now
	}
}

func WithSessionObserver(o SessionObserver) SessionOption {
	return func(s *SessionIssuer) {
		s.observer = o
	}
}

func NewSessionIssuer(signer TokenSigner, cookieName string, policy CookiePolicy, opts ...SessionOption) *SessionIssuer {
	s := &SessionIssuer{
		signer:     signer,
		cookieName: cookieName,
		policy:     policy,
		lifetime:   SessionLifetime,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for identity and sets it as an httpOnly cookie. The
// token is returned for bearer-transport clients.
func (s *SessionIssuer) Issue(c echo.Context, identity Identity) (string, error) {
	token, err := s.signer.Sign(identity)
	if err != nil {
		return "", err
	}

	c.SetCookie(s.cookie(token, s.now().Add(s.lifetime), int(s.lifetime.Seconds())))

	if s.observer != nil {
		s.observer.ObserveSessionIssued()
	}

	return token, nil
}

// Clear expires the session cookie on the client. Tokens already issued stay
// valid until their own expiry.
func (s *SessionIssuer) Clear(c echo.Context) {
	c.SetCookie(s.cookie("", time.Unix(0, 0), -1))
}

func (s *SessionIssuer) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.policy.Secure,
		SameSite: s.policy.SameSite,
	}
}
