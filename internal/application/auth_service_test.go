package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"chirper/internal/domain/entity"
	repo "chirper/internal/domain/repository"
	"chirper/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTokenRepo, *fakeEnqueuer) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo()
	mail := &fakeEnqueuer{}
	jwtm := helpers.NewJWTManager("access-secret", "refresh-secret", 3*time.Hour, 168*time.Hour)
	svc := NewAuthService(users, tokens, jwtm, mail, nil, testLogger(), "http://localhost:3000", true)
	return svc, users, tokens, mail
}

func validSignup() SignupInput {
	return SignupInput{
		FirstName: "Jack",
		LastName:  "Bourne",
		Username:  "jackb",
		Email:     "jack@example.com",
		Password:  "Passw0rd",
	}
}

func TestSignupCreatesInactiveUserWithTokenAndEmail(t *testing.T) {
	svc, users, tokens, mail := newAuthFixture(t)

	u, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Active {
		t.Error("new account must start inactive")
	}
	if u.Role != entity.RoleUser {
		t.Errorf("role = %q, want %q", u.Role, entity.RoleUser)
	}
	if u.Password == "Passw0rd" {
		t.Error("password stored in plain text")
	}
	if _, err := users.GetByEmail(context.Background(), "jack@example.com"); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if got := tokens.count(); got != 1 {
		t.Errorf("token count = %d, want 1", got)
	}
	if got := mail.count(); got != 1 {
		t.Errorf("email job count = %d, want 1", got)
	}
}

func TestSignupRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SignupInput)
		wantErr error
	}{
		{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }, ErrInvalidEmail},
		{"short password", func(in *SignupInput) { in.Password = "Ab1" }, ErrWeakPassword},
		{"no digit", func(in *SignupInput) { in.Password = "Password" }, ErrWeakPassword},
		{"no upper", func(in *SignupInput) { in.Password = "passw0rd" }, ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, tokens, _ := newAuthFixture(t)
			in := validSignup()
			tt.mutate(&in)

			if _, err := svc.Signup(context.Background(), in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if _, err := users.GetByEmail(context.Background(), in.Email); !errors.Is(err, repo.ErrNotFound) {
				t.Error("rejected signup must not create a record")
			}
			if tokens.count() != 0 {
				t.Error("rejected signup must not create a token")
			}
		})
	}
}

func TestSignupUsernameCheckedBeforeEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	// Same username AND same email: the username collision must win.
	if _, err := svc.Signup(ctx, validSignup()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want %v", err, ErrUsernameTaken)
	}

	in := validSignup()
	in.Username = "other"
	if _, err := svc.Signup(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want %v", err, ErrEmailTaken)
	}
}

func TestConfirmActivatesAndBurnsToken(t *testing.T) {
	svc, users, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	tok, err := tokens.GetByBodyAndType(ctx, tokenBody(t, tokens), entity.TokenConfirmEmail)
	if err != nil {
		t.Fatalf("token lookup: %v", err)
	}

	activated, err := svc.Confirm(ctx, tok.Body)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !activated.Active {
		t.Error("confirm must activate the account")
	}
	stored, _ := users.GetByID(ctx, u.ID)
	if !stored.Active {
		t.Error("activation not persisted")
	}

	// Second redemption: the token is gone.
	if _, err := svc.Confirm(ctx, tok.Body); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second redemption err = %v, want %v", err, ErrNotFound)
	}
}

func TestConfirmRejectsExpiredToken(t *testing.T) {
	svc, users, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	u := entity.NewUser("Jack", "Bourne", "jackb", "jack@example.com", "hash")
	if err := users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}
	tok := entity.NewToken("stale-token", u.ID, entity.TokenConfirmEmail)
	tok.CreatedAt = time.Now().UTC().Add(-entity.TokenLifetime - time.Minute)
	if err := tokens.Create(ctx, tok); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Confirm(ctx, "stale-token"); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want %v", err, ErrTokenExpired)
	}
	stored, _ := users.GetByID(ctx, u.ID)
	if stored.Active {
		t.Error("expired token must not activate the account")
	}
}

func TestSigninRejectsInactiveAccount(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := svc.Signin(ctx, "jack@example.com", "Passw0rd"); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("err = %v, want %v", err, ErrAccountInactive)
	}
}

func TestSigninByEmailOrUsername(t *testing.T) {
	svc, _ := signupAndConfirm(t)
	ctx := context.Background()

	for _, login := range []string{"jack@example.com", "jackb"} {
		u, pair, err := svc.Signin(ctx, login, "Passw0rd")
		if err != nil {
			t.Fatalf("signin %q: %v", login, err)
		}
		if u.Username != "jackb" {
			t.Errorf("resolved user = %q", u.Username)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Error("signin must mint both tokens")
		}
	}

	if _, _, err := svc.Signin(ctx, "jackb", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestRefreshRotatesPair(t *testing.T) {
	svc, _ := signupAndConfirm(t)
	ctx := context.Background()

	_, pair, err := svc.Signin(ctx, "jackb", "Passw0rd")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	fresh, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if fresh.AccessToken == "" || fresh.RefreshToken == "" {
		t.Error("refresh must mint a full pair")
	}
	if _, err := svc.Refresh(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("access token must not pass as refresh token, err = %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	svc, tokens := signupAndConfirm(t)
	ctx := context.Background()

	// Unknown email: silent success, no token.
	before := tokens.count()
	if err := svc.ResetPasswordInit(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("init unknown: %v", err)
	}
	if tokens.count() != before {
		t.Error("unknown email must not mint a token")
	}

	if err := svc.ResetPasswordInit(ctx, "jack@example.com"); err != nil {
		t.Fatalf("init: %v", err)
	}
	tok, err := tokens.GetByBodyAndType(ctx, tokenBody(t, tokens), entity.TokenResetPassword)
	if err != nil {
		t.Fatalf("token lookup: %v", err)
	}

	if err := svc.ResetPasswordConfirm(ctx, tok.Body, "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password err = %v", err)
	}
	if err := svc.ResetPasswordConfirm(ctx, tok.Body, "NewPassw0rd"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, _, err := svc.Signin(ctx, "jackb", "NewPassw0rd"); err != nil {
		t.Fatalf("signin with new password: %v", err)
	}
	if _, _, err := svc.Signin(ctx, "jackb", "Passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password must stop working")
	}
}

func signupAndConfirm(t *testing.T) (*AuthService, *fakeTokenRepo) {
	t.Helper()
	svc, _, tokens, _ := newAuthFixture(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Confirm(ctx, tokenBody(t, tokens)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return svc, tokens
}

// tokenBody pulls the single stored token's body out of the fake.
func tokenBody(t *testing.T, tokens *fakeTokenRepo) string {
	t.Helper()
	tokens.mu.Lock()
	defer tokens.mu.Unlock()
	if len(tokens.tokens) != 1 {
		t.Fatalf("token count = %d, want 1", len(tokens.tokens))
	}
	for _, tok := range tokens.tokens {
		return tok.Body
	}
	return ""
}
