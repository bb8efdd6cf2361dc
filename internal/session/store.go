package session

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// Operation identifies one of the store's account operations for loading and
// error tracking. Overlapping calls of different operations each track their
// own state.
type Operation int

const (
	OpSignup Operation = iota
	OpLogin
	OpFetchUser
)

func (op Operation) String() string {
	switch op {
	case OpSignup:
		return "signup"
	case OpLogin:
		return "login"
	case OpFetchUser:
		return "fetch_user"
	default:
		return ""
	}
}

// AuthAPI is the slice of the gateway the store needs. Implemented by
// gateway.Client.
type AuthAPI interface {
	Signup(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context) (*models.User, error)
}

// Store exposes the account operations over a Session.
//
// Signup and Login follow the same contract: on success the issued token is
// installed and persisted and the call returns true; on any failure the prior
// session state is untouched, a human-readable message is recorded, and the
// call returns false. Neither ever propagates an error to the caller.
type Store struct {
	session *Session
	api     AuthAPI
	logger  *log.Logger

	mu      sync.Mutex
	loading map[Operation]int
	errs    map[Operation]string
}

// NewStore creates a Store over the given session and auth endpoints.
func NewStore(session *Session, api AuthAPI, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Store{
		session: session,
		api:     api,
		logger:  logger,
		loading: make(map[Operation]int),
		errs:    make(map[Operation]string),
	}
}

// Session returns the session this store mutates.
func (st *Store) Session() *Session {
	return st.session
}

// Signup creates an account and authenticates the session with the returned
// token. Returns true on success.
func (st *Store) Signup(ctx context.Context, email, username, password string) bool {
	st.begin(OpSignup)
	defer st.end(OpSignup)

	token, err := st.api.Signup(ctx, email, username, password)
	if err != nil {
		st.fail(OpSignup, err)
		return false
	}

	st.session.setToken(token)
	st.logger.Info("account created", "email", email)
	return true
}

// Login authenticates the session with existing credentials. Returns true on
// success.
func (st *Store) Login(ctx context.Context, email, password string) bool {
	st.begin(OpLogin)
	defer st.end(OpLogin)

	token, err := st.api.Login(ctx, email, password)
	if err != nil {
		st.fail(OpLogin, err)
		return false
	}

	st.session.setToken(token)
	st.logger.Info("logged in", "email", email)
	return true
}

// Logout clears the session and the durable token slot. It is synchronous, has
// no network effect, and always succeeds.
func (st *Store) Logout() {
	st.session.Invalidate()
	st.logger.Info("logged out")
}

// FetchCurrentUser refreshes the user record behind the current token. This is
// best-effort: failure is logged for observability and never surfaced as a
// store-level error.
func (st *Store) FetchCurrentUser(ctx context.Context) {
	st.begin(OpFetchUser)
	defer st.end(OpFetchUser)

	user, err := st.api.Me(ctx)
	if err != nil {
		st.logger.Warn("failed to fetch current user", "err", err)
		return
	}

	st.session.setUser(user)
}

// Loading reports whether at least one call of the given operation is in
// flight.
func (st *Store) Loading(op Operation) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.loading[op] > 0
}

// Err returns the message recorded by the most recent failure of the given
// operation, or an empty string after a success.
func (st *Store) Err(op Operation) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.errs[op]
}

func (st *Store) begin(op Operation) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loading[op]++
	delete(st.errs, op)
}

func (st *Store) end(op Operation) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.loading[op]--
}

func (st *Store) fail(op Operation, err error) {
	st.mu.Lock()
	st.errs[op] = err.Error()
	st.mu.Unlock()

	st.logger.Error("operation failed", "op", op.String(), "err", err)
}
