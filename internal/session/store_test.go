package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertmoss/mrx/internal/models"
	"github.com/desertmoss/mrx/internal/shared"
)

// stubAuthAPI implements AuthAPI with canned responses.
type stubAuthAPI struct {
	signupToken string
	signupErr   error
	loginToken  string
	loginErr    error
	meUser      *models.User
	meErr       error

	// block, when non-nil, is received from before any call returns.
	block chan struct{}
}

func (a *stubAuthAPI) Signup(ctx context.Context, email, username, password string) (string, error) {
	a.wait()
	return a.signupToken, a.signupErr
}

func (a *stubAuthAPI) Login(ctx context.Context, email, password string) (string, error) {
	a.wait()
	return a.loginToken, a.loginErr
}

func (a *stubAuthAPI) Me(ctx context.Context) (*models.User, error) {
	a.wait()
	return a.meUser, a.meErr
}

func (a *stubAuthAPI) wait() {
	if a.block != nil {
		<-a.block
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("Success Authenticates And Persists", func(t *testing.T) {
			slot := &memorySlot{}
			s := Restore(slot, nil)
			st := NewStore(s, &stubAuthAPI{loginToken: "tok1"}, nil)

			if ok := st.Login(ctx, "a@b.com", "pw"); !ok {
				t.Fatal("expected login to succeed")
			}

			if tok, _ := s.Token(); tok != "tok1" {
				t.Errorf("expected token tok1, got %q", tok)
			}
			if slot.value != "tok1" {
				t.Errorf("expected durable slot tok1, got %q", slot.value)
			}
			if st.Err(OpLogin) != "" {
				t.Errorf("expected no recorded error, got %q", st.Err(OpLogin))
			}
		})

		t.Run("Failure Leaves Prior Session Untouched", func(t *testing.T) {
			slot := &memorySlot{value: "old"}
			s := Restore(slot, nil)
			api := &stubAuthAPI{loginErr: fmt.Errorf("%w: Incorrect email or password", shared.ErrAuthFailed)}
			st := NewStore(s, api, nil)

			if ok := st.Login(ctx, "a@b.com", "bad"); ok {
				t.Fatal("expected login to fail")
			}

			if tok, _ := s.Token(); tok != "old" {
				t.Errorf("prior token must be untouched, got %q", tok)
			}
			if st.Err(OpLogin) == "" {
				t.Error("expected a recorded error message")
			}
		})

		t.Run("Failure Never Panics Or Errors", func(t *testing.T) {
			s := Restore(&memorySlot{}, nil)
			st := NewStore(s, &stubAuthAPI{loginErr: errors.New("connection refused")}, nil)

			if ok := st.Login(ctx, "a@b.com", "pw"); ok {
				t.Error("expected false on network failure")
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			slot := &memorySlot{}
			s := Restore(slot, nil)
			st := NewStore(s, &stubAuthAPI{signupToken: "fresh"}, nil)

			if ok := st.Signup(ctx, "a@b.com", "ana", "pw"); !ok {
				t.Fatal("expected signup to succeed")
			}
			if !s.IsAuthenticated() {
				t.Error("expected authenticated session after signup")
			}
		})

		t.Run("Duplicate Account", func(t *testing.T) {
			s := Restore(&memorySlot{}, nil)
			api := &stubAuthAPI{signupErr: fmt.Errorf("%w: Email already registered", shared.ErrAPIRequest)}
			st := NewStore(s, api, nil)

			if ok := st.Signup(ctx, "a@b.com", "ana", "pw"); ok {
				t.Fatal("expected signup to fail")
			}
			if s.IsAuthenticated() {
				t.Error("failed signup must not authenticate")
			}
			if st.Err(OpSignup) == "" {
				t.Error("expected a recorded error message")
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		slot := &memorySlot{value: "tok1"}
		s := Restore(slot, nil)
		s.setUser(&models.User{ID: "u1"})
		st := NewStore(s, &stubAuthAPI{}, nil)

		st.Logout()

		if s.IsAuthenticated() {
			t.Error("expected unauthenticated session after logout")
		}
		if s.User() != nil {
			t.Error("expected user cleared after logout")
		}
		if slot.value != "" {
			t.Error("expected durable slot removed after logout")
		}
	})

	t.Run("FetchCurrentUser", func(t *testing.T) {
		t.Run("Populates User", func(t *testing.T) {
			s := Restore(&memorySlot{value: "tok1"}, nil)
			api := &stubAuthAPI{meUser: &models.User{ID: "u1", Username: "ana", Email: "a@b.com"}}
			st := NewStore(s, api, nil)

			st.FetchCurrentUser(ctx)

			user := s.User()
			if user == nil || user.Username != "ana" {
				t.Errorf("expected user ana, got %+v", user)
			}
		})

		t.Run("Failure Leaves User Unchanged", func(t *testing.T) {
			s := Restore(&memorySlot{value: "tok1"}, nil)
			s.setUser(&models.User{ID: "u1", Username: "ana"})
			st := NewStore(s, &stubAuthAPI{meErr: errors.New("timeout")}, nil)

			st.FetchCurrentUser(ctx)

			user := s.User()
			if user == nil || user.Username != "ana" {
				t.Errorf("expected prior user retained, got %+v", user)
			}
			if st.Err(OpFetchUser) != "" {
				t.Error("best-effort refresh must not record a store error")
			}
		})
	})

	t.Run("Loading Flags", func(t *testing.T) {
		block := make(chan struct{})
		api := &stubAuthAPI{loginToken: "tok1", block: block}
		st := NewStore(Restore(&memorySlot{}, nil), api, nil)

		done := make(chan struct{})
		go func() {
			st.Login(ctx, "a@b.com", "pw")
			close(done)
		}()

		// Wait for the goroutine to enter the call.
		deadline := time.After(2 * time.Second)
		for !st.Loading(OpLogin) {
			select {
			case <-deadline:
				t.Fatal("login never reported loading")
			default:
				time.Sleep(time.Millisecond)
			}
		}

		if st.Loading(OpFetchUser) {
			t.Error("other operations must track their own loading state")
		}

		close(block)
		<-done

		if st.Loading(OpLogin) {
			t.Error("expected loading cleared after call settles")
		}
	})
}
