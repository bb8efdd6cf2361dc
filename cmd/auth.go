package main

import (
	"context"
	"fmt"

	"github.com/desertmoss/mrx/internal/session"
	"github.com/desertmoss/mrx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthSignup creates an account and starts a session.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	username := cmd.String("username")
	password := cmd.String("password")

	r.logger.Info("creating account", "email", email)

	if !r.auth.Signup(ctx, email, username, password) {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, r.auth.Err(session.OpSignup))
	}

	r.auth.FetchCurrentUser(ctx)

	r.writePlain("✓ Account created\n")
	if user := r.session.User(); user != nil {
		r.writePlain("Logged in as %s (%s)\n", user.Username, user.Email)
	}
	return nil
}

// AuthLogin logs in and persists the session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Info("logging in", "email", email)

	if !r.auth.Login(ctx, email, password) {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, r.auth.Err(session.OpLogin))
	}

	r.auth.FetchCurrentUser(ctx)

	r.writePlain("✓ Logged in\n")
	if user := r.session.User(); user != nil {
		r.writePlain("Welcome back, %s\n", user.Username)
	}
	return nil
}

// AuthLogout ends the session and clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.session.IsAuthenticated() {
		return r.writePlain("Not logged in\n")
	}

	r.auth.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoAmI shows the current user, fetching the profile if necessary.
func (r *Runner) AuthWhoAmI(ctx context.Context, cmd *cli.Command) error {
	if !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'mrx auth login' first", shared.ErrNotAuthenticated)
	}

	if r.session.User() == nil {
		r.auth.FetchCurrentUser(ctx)
	}

	user := r.session.User()
	if user == nil {
		return fmt.Errorf("%w: could not fetch profile", shared.ErrAPIRequest)
	}

	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("User ID: %s\n", user.ID)
	if !user.CreatedAt.IsZero() {
		r.writePlain("Member since: %s\n", user.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// AuthStatus checks backend health and the local session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	health, err := r.api.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	status, ok := health["status"].(string)
	if !ok {
		status = "unknown"
	}
	r.writePlain("✓ Backend reachable\n")
	r.writePlain("Status: %s\n", status)

	if r.session.IsAuthenticated() {
		r.writePlain("Session: ✓ Authenticated\n")
		if user := r.session.User(); user != nil {
			r.writePlain("User: %s\n", user.Username)
		}
	} else {
		r.writePlain("Session: ✗ Not authenticated\n")
	}
	return nil
}
