// Package session owns the authentication state machine and the lifecycle of
// the aggregated customer profile.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/premiumclub/portal/internal/aggregator"
	"github.com/premiumclub/portal/internal/apperr"
	"github.com/premiumclub/portal/internal/credstore"
	"github.com/premiumclub/portal/internal/domain"
	"github.com/premiumclub/portal/internal/kv"
	"github.com/premiumclub/portal/internal/logger"
	"github.com/premiumclub/portal/internal/serviceclient"
)

var refreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "profile_refreshes_total",
		Help: "Profile aggregations by trigger and outcome",
	},
	[]string{"trigger", "outcome"},
)

// ErrNotAuthenticated is returned when refresh is requested outside an
// authenticated session.
var ErrNotAuthenticated = errors.New("no authenticated session")

const defaultPollInterval = 25 * time.Second

// Controller is the session state machine. It drives the credential store
// and the aggregator on startup, login, logout and refresh, and exposes the
// aggregate to the rest of the application.
//
// Published profiles are replaced as a whole and never mutated in place, so
// handing out the pointer from State is safe.
type Controller struct {
	identity *serviceclient.IdentityClient
	email    *serviceclient.EmailClient
	agg      *aggregator.Aggregator
	creds    *credstore.Store
	flags    kv.Store
	navigate func(target string)

	mu     sync.RWMutex
	state  domain.SessionState
	poller *Poller

	// seq orders aggregations: a result is only published while its sequence
	// number is still current, so a refresh racing a login, logout or newer
	// refresh is discarded instead of clobbering fresher state.
	seq        atomic.Uint64
	refreshing atomic.Bool
}

type Option func(*Controller)

// WithNavigate registers the navigation signal consumed by the routing
// collaborator. The controller itself knows nothing about routes beyond the
// target name it emits.
func WithNavigate(fn func(target string)) Option {
	return func(c *Controller) { c.navigate = fn }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.poller.interval = d
		}
	}
}

// New wires a controller. flags must be session-scoped storage: notification
// state is reset when the process ends.
func New(identity *serviceclient.IdentityClient, email *serviceclient.EmailClient, agg *aggregator.Aggregator, creds *credstore.Store, flags kv.Store, opts ...Option) *Controller {
	c := &Controller{
		identity: identity,
		email:    email,
		agg:      agg,
		creds:    creds,
		flags:    flags,
		state:    domain.SessionState{Status: domain.StatusUnauthenticated},
	}
	c.poller = NewPoller(defaultPollInterval, c.pollTick)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State is an idempotent read of the current session state, safe to call
// from any number of presentation components.
func (c *Controller) State() domain.SessionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Restore attempts a silent session restore at process start. Without a
// stored credential it settles on Unauthenticated synchronously, issuing no
// request at all. With one, it verifies via the identity service; a failed
// verification clears the credential and logs the session out.
func (c *Controller) Restore(ctx context.Context) {
	if _, ok := c.creds.Get(); !ok {
		return
	}

	c.mu.Lock()
	c.state = domain.SessionState{Status: domain.StatusVerifying}
	c.mu.Unlock()

	seq := c.seq.Add(1)
	identity, err := c.identity.Profile(ctx)
	if err != nil {
		logger.Log.Warn("session restore failed, clearing credential", "error", err)
		if clearErr := c.creds.Clear(); clearErr != nil {
			logger.Log.Error("failed to clear credential", "error", clearErr)
		}
		c.demote(seq)
		return
	}

	profile := c.agg.Aggregate(ctx, identity, nil)
	c.publish(seq, profile)
}

// Login authenticates against the identity service, stores the returned
// credential and publishes the aggregated profile. Failures come back as a
// structured result for the caller to translate into user-facing text.
func (c *Controller) Login(ctx context.Context, creds domain.Credentials) domain.LoginResult {
	seq := c.seq.Add(1)

	token, identity, err := c.identity.Login(ctx, creds)
	if err != nil {
		if clearErr := c.creds.Clear(); clearErr != nil {
			logger.Log.Error("failed to clear credential", "error", clearErr)
		}
		return loginFailure(err)
	}

	if err := c.creds.Set(token); err != nil {
		logger.Log.Error("failed to persist credential", "error", err)
		return domain.LoginResult{
			OK:      false,
			Failure: domain.FailureUnavailable,
			Message: "could not persist session credential",
		}
	}

	profile := c.agg.Aggregate(ctx, identity, nil)
	if !c.publish(seq, profile) {
		return domain.LoginResult{
			OK:      false,
			Failure: domain.FailureSuperseded,
			Message: "session changed while logging in",
		}
	}

	logger.Log.Info("customer logged in", "customer", profile.ID)
	return domain.LoginResult{OK: true, Profile: &profile}
}

func loginFailure(err error) domain.LoginResult {
	if apperr.IsNetwork(err) {
		return domain.LoginResult{
			OK:      false,
			Failure: domain.FailureUnavailable,
			Message: "identity service unavailable",
		}
	}
	return domain.LoginResult{
		OK:      false,
		Failure: domain.FailureRejected,
		Message: err.Error(),
	}
}

// Register forwards a sign-up to the identity service and asks the email
// service for a welcome email. The email is best-effort: its failure never
// fails the registration.
func (c *Controller) Register(ctx context.Context, reg domain.Registration) error {
	if err := c.identity.Register(ctx, reg); err != nil {
		return err
	}
	if c.email != nil {
		if err := c.email.SendWelcome(ctx, reg.Email, reg.FirstName); err != nil {
			logger.Log.Warn("welcome email failed", "email", reg.Email, "error", err)
		}
	}
	return nil
}

// Logout clears the credential and the notification flag, stops polling and
// transitions unconditionally to Unauthenticated. Safe to call from any
// state, any number of times.
func (c *Controller) Logout() {
	c.seq.Add(1)

	c.mu.Lock()
	if c.state.Profile != nil {
		_ = c.flags.Delete(notifKey(c.state.Profile.ID))
	}
	c.state = domain.SessionState{Status: domain.StatusUnauthenticated}
	c.mu.Unlock()

	c.poller.Stop()
	if err := c.creds.Clear(); err != nil {
		logger.Log.Error("failed to clear credential", "error", err)
	}
	if c.navigate != nil {
		c.navigate("/login")
	}
}

// AuthExpired is the 401 signal shared by every service client. It forces a
// logout unless the session is already gone; either way the credential store
// ends up empty.
func (c *Controller) AuthExpired() {
	c.mu.RLock()
	status := c.state.Status
	c.mu.RUnlock()

	if status == domain.StatusUnauthenticated {
		if err := c.creds.Clear(); err != nil {
			logger.Log.Error("failed to clear credential", "error", err)
		}
		return
	}
	logger.Log.Info("credential expired, forcing logout")
	c.Logout()
}

// Refresh re-runs the aggregation for the current identity and replaces the
// profile atomically. Only valid while authenticated.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, "manual")
}

func (c *Controller) pollTick(ctx context.Context) {
	if err := c.refresh(ctx, "poll"); err != nil && !errors.Is(err, ErrNotAuthenticated) {
		logger.Log.Warn("background refresh failed", "error", err)
	}
}

func (c *Controller) refresh(ctx context.Context, trigger string) error {
	c.mu.RLock()
	st := c.state
	c.mu.RUnlock()
	if st.Status != domain.StatusAuthenticated || st.Profile == nil {
		return ErrNotAuthenticated
	}

	// One aggregation in flight at a time; a tick or manual request arriving
	// while one runs is dropped, not queued.
	if !c.refreshing.CompareAndSwap(false, true) {
		refreshes.WithLabelValues(trigger, "dropped").Inc()
		return nil
	}
	defer c.refreshing.Store(false)

	seq := c.seq.Add(1)
	profile := c.agg.Aggregate(ctx, st.Profile.Identity, st.Profile)
	if !c.publish(seq, profile) {
		refreshes.WithLabelValues(trigger, "stale").Inc()
		return nil
	}
	refreshes.WithLabelValues(trigger, "ok").Inc()
	return nil
}

// PausePolling suspends automatic refreshes until ResumePolling; the session
// itself is untouched.
func (c *Controller) PausePolling() { c.poller.Pause() }

func (c *Controller) ResumePolling() { c.poller.Resume() }

// publish installs an aggregate if its sequence number is still current.
// Superseded results (a logout, login or newer refresh happened meanwhile)
// are discarded.
func (c *Controller) publish(seq uint64, profile domain.CustomerProfile) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq.Load() != seq {
		return false
	}
	c.state = domain.SessionState{Status: domain.StatusAuthenticated, Profile: &profile}
	c.poller.Start()
	return true
}

// demote settles on Unauthenticated unless a newer operation took over.
func (c *Controller) demote(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq.Load() != seq {
		return
	}
	c.state = domain.SessionState{Status: domain.StatusUnauthenticated}
}
