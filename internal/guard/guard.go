// Package guard enforces local login-attempt rate limiting with a timed
// lockout, independent of any server-side check. Attempt state is
// process-local and lockout decay is evaluated lazily on query, not on a
// timer; two processes sharing no channel each keep independent state, which
// is acceptable for a single-admin deployment.
package guard

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	// MaxAttempts is the number of consecutive failures that triggers a lockout.
	MaxAttempts = 5
	// BlockDuration is how long validation is rejected outright after a lockout.
	BlockDuration = 15 * time.Minute
	// ResetWindow is the inactivity span after which accumulated failures are forgiven.
	ResetWindow = time.Hour
)

// Credentials is the single configured credential record. Immutable after
// guard construction.
type Credentials struct {
	Username       string
	PasswordDigest string // fixed-length hex, see Digest
}

// LockedOutError is returned by Validate while a lockout is active. It is
// raised before any digest computation and carries the countdown for user
// messaging.
type LockedOutError struct {
	RemainingSeconds int
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("too many login attempts, try again in %d seconds", e.RemainingSeconds)
}

// Snapshot is a read-only view of the guard state for diagnostics.
type Snapshot struct {
	Attempts             int       `json:"attempts"`
	MaxAttempts          int       `json:"max_attempts"`
	IsLocked             bool      `json:"is_locked"`
	RemainingLockSeconds int       `json:"remaining_lock_seconds"`
	LastAttemptAt        time.Time `json:"last_attempt_at"`
}

// Guard counts failed validations and enforces the lockout window. All state
// transitions happen under one mutex; count and lock are always reset
// together, never separately.
type Guard struct {
	creds  Credentials
	digest DigestFunc
	now    func() time.Time
	logger *slog.Logger

	mu          sync.Mutex
	attempts    int
	lastAttempt time.Time
	lockedUntil time.Time
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithDigest replaces the digest primitive. Only LegacyDigest is a sanctioned
// alternative, and only for pre-existing legacy credential stores.
func WithDigest(fn DigestFunc) Option {
	return func(g *Guard) { g.digest = fn }
}

// New creates a Guard for the given credential record.
func New(creds Credentials, logger *slog.Logger, opts ...Option) *Guard {
	g := &Guard{
		creds:  creds,
		digest: Digest,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Validate checks the submitted credentials. While locked it returns a
// *LockedOutError without computing any digest. A mismatch increments the
// attempt count (reaching MaxAttempts starts the lockout) and returns
// (false, nil); a match resets count and lock together and returns (true, nil).
func (g *Guard) Validate(username, password string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lockedLocked() {
		remaining := g.remainingLocked()
		g.logger.Warn("login attempt rejected while locked",
			slog.Int("remaining_seconds", remaining))
		return false, &LockedOutError{RemainingSeconds: remaining}
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.creds.Username))
	passOK := subtle.ConstantTimeCompare([]byte(g.digest(password)), []byte(g.creds.PasswordDigest))
	if userOK&passOK == 1 {
		g.attempts = 0
		g.lockedUntil = time.Time{}
		g.logger.Info("login validated", slog.String("username", username))
		return true, nil
	}

	g.attempts++
	g.lastAttempt = g.now()
	if g.attempts >= MaxAttempts {
		g.lockedUntil = g.now().Add(BlockDuration)
		g.logger.Warn("login lockout engaged",
			slog.Int("attempts", g.attempts),
			slog.Time("locked_until", g.lockedUntil))
	} else {
		g.logger.Warn("login attempt failed",
			slog.Int("attempts", g.attempts),
			slog.Int("max_attempts", MaxAttempts))
	}
	return false, nil
}

// IsLocked reports whether a lockout is currently active. Querying it also
// applies the lazy reset: after a full ResetWindow with no attempts, count
// and lock decay to zero together.
func (g *Guard) IsLocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lockedLocked()
}

// RemainingLockSeconds returns 0 when unlocked, else the ceiling of seconds
// until the lockout expires.
func (g *Guard) RemainingLockSeconds() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.lockedLocked() {
		return 0
	}
	return g.remainingLocked()
}

// Snapshot returns a read-only copy of the guard state.
func (g *Guard) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	locked := g.lockedLocked()
	remaining := 0
	if locked {
		remaining = g.remainingLocked()
	}
	return Snapshot{
		Attempts:             g.attempts,
		MaxAttempts:          MaxAttempts,
		IsLocked:             locked,
		RemainingLockSeconds: remaining,
		LastAttemptAt:        g.lastAttempt,
	}
}

// Reset forgives all recorded failures and clears any lockout.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attempts = 0
	g.lastAttempt = time.Time{}
	g.lockedUntil = time.Time{}
}

// lockedLocked evaluates the lock and applies the lazy reset window.
// Caller must hold g.mu.
func (g *Guard) lockedLocked() bool {
	now := g.now()
	if g.lockedUntil.After(now) {
		return true
	}
	if !g.lastAttempt.IsZero() && now.Sub(g.lastAttempt) > ResetWindow {
		g.attempts = 0
		g.lockedUntil = time.Time{}
	}
	return false
}

// remainingLocked returns the ceiling of seconds until unlock.
// Caller must hold g.mu and have verified the lock is active.
func (g *Guard) remainingLocked() int {
	return int(math.Ceil(g.lockedUntil.Sub(g.now()).Seconds()))
}
