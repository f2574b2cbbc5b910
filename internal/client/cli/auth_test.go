package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/common"
)

// stubInputs replaces the interactive input seams. getSimpleText answers the
// username first and the avatar path on the following call.
func stubInputs(t *testing.T, username, avatarPath string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	calls := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		calls++
		if calls == 1 {
			return username, nil
		}
		return avatarPath, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		line := ""
		for i, a := range args {
			if i > 0 {
				line += " "
			}
			if s, ok := a.(string); ok {
				line += s
			}
		}
		lines = append(lines, line)
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

type fakeStore struct {
	signInUser   string
	signInPass   string
	signInAvatar string
	signInErr    error
	account      *accounts.Account

	signOutCalled bool
	signOutErr    error
	current       *accounts.Account
}

func (f *fakeStore) SignInOrRegister(_ context.Context, username, password, avatarRef string) (*accounts.Account, error) {
	f.signInUser, f.signInPass, f.signInAvatar = username, password, avatarRef
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.account, nil
}

func (f *fakeStore) SignOut(context.Context) error {
	f.signOutCalled = true
	return f.signOutErr
}

func (f *fakeStore) CurrentAccount() *accounts.Account { return f.current }

func TestSignIn_Success(t *testing.T) {
	silencePrintln(t)
	restore := stubInputs(t, "gamer1", "", []byte("password1"))
	defer restore()

	f := &fakeStore{account: &accounts.Account{ID: "id-1", DisplayName: "gamer1"}}
	a := &App{store: f}

	if err := a.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn err: %v", err)
	}
	if f.signInUser != "gamer1" {
		t.Fatalf("username mismatch: %q", f.signInUser)
	}
	if f.signInPass != "password1" {
		t.Fatalf("password mismatch: %q", f.signInPass)
	}
	if f.signInAvatar != "" {
		t.Fatalf("unexpected avatar: %q", f.signInAvatar)
	}
}

func TestSignIn_CredentialErrorIsReportedNotReturned(t *testing.T) {
	lines := silencePrintln(t)
	restore := stubInputs(t, "gamer1", "", []byte("wrongpass"))
	defer restore()

	f := &fakeStore{signInErr: common.ErrorUnauthorized}
	a := &App{store: f}

	if err := a.SignIn(context.Background()); err != nil {
		t.Fatalf("credential errors must not escape the handler, got %v", err)
	}
	if len(*lines) == 0 {
		t.Fatal("expected a user-facing message")
	}
}

func TestSignIn_ValidationErrorIsReportedNotReturned(t *testing.T) {
	lines := silencePrintln(t)
	restore := stubInputs(t, "ab", "", []byte("password1"))
	defer restore()

	f := &fakeStore{signInErr: common.ErrorInvalidLoginFormat}
	a := &App{store: f}

	if err := a.SignIn(context.Background()); err != nil {
		t.Fatalf("validation errors must not escape the handler, got %v", err)
	}
	if len(*lines) == 0 {
		t.Fatal("expected a user-facing message")
	}
}

func TestSignOut(t *testing.T) {
	silencePrintln(t)

	f := &fakeStore{}
	a := &App{store: f}

	if err := a.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut err: %v", err)
	}
	if !f.signOutCalled {
		t.Fatal("store.SignOut not called")
	}
}

func TestSignOut_ErrorPropagates(t *testing.T) {
	silencePrintln(t)

	f := &fakeStore{signOutErr: errors.New("disk fail")}
	a := &App{store: f}

	if err := a.SignOut(context.Background()); err == nil {
		t.Fatal("want error from store.SignOut")
	}
}

func TestWhoAmI(t *testing.T) {
	lines := silencePrintln(t)

	f := &fakeStore{}
	a := &App{store: f}

	if err := a.WhoAmI(context.Background()); err != nil {
		t.Fatalf("WhoAmI err: %v", err)
	}
	if len(*lines) != 1 || (*lines)[0] != "Not signed in" {
		t.Fatalf("unexpected output: %+v", *lines)
	}

	f.current = &accounts.Account{DisplayName: "gamer1", Role: accounts.RoleUser}
	if err := a.WhoAmI(context.Background()); err != nil {
		t.Fatalf("WhoAmI err: %v", err)
	}
	if len(*lines) < 3 {
		t.Fatalf("expected account details, got: %+v", *lines)
	}
}
