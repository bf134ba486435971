package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const writeTimeout = 2 * time.Second

// Action is an account event worth keeping a trail of.
type Action string

const (
	ActionRegister      Action = "register"
	ActionLogin         Action = "login"
	ActionLogout        Action = "logout"
	ActionDeleteAccount Action = "delete_account"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

type Event struct {
	ID        uuid.UUID
	Action    Action
	Status    Status
	ActorID   *uuid.UUID
	Email     string
	IPAddress string
	UserAgent string
	Client    string
	RequestID string
	Reason    string
	CreatedAt time.Time
}

// Sink persists events.
type Sink interface {
	InsertAuditEvent(ctx context.Context, event Event) error
}

// Recorder writes events in the background so a slow or failing sink never
// holds up the request. A nil Recorder discards everything.
type Recorder struct {
	sink    Sink
	logger  zerolog.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewRecorder(sink Sink, logger zerolog.Logger) *Recorder {
	return &Recorder{
		sink:    sink,
		logger:  logger.With().Str("component", "audit").Logger(),
		now:     time.Now,
		timeout: writeTimeout,
	}
}

// Record fills in the request details from c and hands the event to the sink.
func (r *Recorder) Record(c echo.Context, event Event) {
	if r == nil {
		return
	}

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = r.now()
	}
	event.IPAddress = c.RealIP()
	event.UserAgent = c.Request().UserAgent()
	event.Client = describeClient(event.UserAgent)
	event.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)

	r.logger.Info().
		Str("action", string(event.Action)).
		Str("status", string(event.Status)).
		Str("request_id", event.RequestID).
		Str("client", event.Client).
		Str("reason", event.Reason).
		Msg("audit")

	if r.sink == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.sink.InsertAuditEvent(ctx, event); err != nil {
			r.logger.Error().Err(err).Str("event_id", event.ID.String()).Msg("audit write failed")
		}
	}()
}
