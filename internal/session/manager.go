package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/pkg/metrics"
)

const userIDKey = "session.userID"

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager ties the cookie to the store.
type Manager struct {
	store   Store
	codec   *Codec
	opts    Options
	metrics *metrics.Metrics
}

func NewManager(store Store, codec *Codec, opts Options, m *metrics.Metrics) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "cg.sid"
	}
	if m == nil {
		m = metrics.Noop()
	}
	return &Manager{store: store, codec: codec, opts: opts, metrics: m}
}

// Start opens a session for userID and sets the cookie.
func (m *Manager) Start(c *gin.Context, userID int64) error {
	id, err := m.store.Create(c.Request.Context(), userID, m.opts.TTL)
	if err != nil {
		return err
	}
	value, err := m.codec.Encode(id, m.opts.TTL)
	if err != nil {
		_ = m.store.Delete(c.Request.Context(), id)
		return err
	}
	m.setCookie(c, value, int(m.opts.TTL.Seconds()))
	m.metrics.SessionsCreated.Inc()
	return nil
}

// Load resolves the cookie to a user id. A missing, forged or expired
// cookie is ErrNoSession; store failures come back as they are.
func (m *Manager) Load(c *gin.Context) (int64, error) {
	value, err := c.Cookie(m.opts.CookieName)
	if err != nil || value == "" {
		return 0, ErrNoSession
	}
	id, err := m.codec.Decode(value)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session cookie")
		return 0, ErrNoSession
	}
	return m.store.Get(c.Request.Context(), id)
}

// End deletes the session and clears the cookie. Ending a session that
// does not exist is not an error.
func (m *Manager) End(c *gin.Context) error {
	defer m.setCookie(c, "", -1)
	value, err := c.Cookie(m.opts.CookieName)
	if err != nil || value == "" {
		return nil
	}
	id, err := m.codec.Decode(value)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(c.Request.Context(), id); err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	m.metrics.SessionsEnded.Inc()
	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}

// SetUserID stores the authenticated user on the request context.
func SetUserID(c *gin.Context, userID int64) {
	c.Set(userIDKey, userID)
}

// UserID returns the user set by the auth middleware.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
