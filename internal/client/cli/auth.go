package cli

import (
	"context"
	"errors"
	"os"

	"github.com/avoronin/accountkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// SignIn prompts for a username and password and signs in, registering the
// account if the username has never been seen. An optional avatar image can
// be attached on first registration.
//
// Validation and credential errors are reported to the user and swallowed;
// the REPL stays usable. I/O errors are returned unchanged. The password
// byte slice is securely wiped before returning.
func (a *App) SignIn(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	avatarPath, err := getSimpleText(a.reader, "Avatar image path (optional)", os.Stdout)
	if err != nil {
		return err
	}

	var avatarRef string
	if avatarPath != "" {
		avatarRef, err = EncodeAvatar(avatarPath)
		if err != nil {
			printlnFn("Cannot read avatar:", err.Error())
			return nil
		}
	}

	account, err := a.store.SignInOrRegister(ctx, username, string(password), avatarRef)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidLoginFormat):
			printlnFn("Username must be at least 3 characters")
		case errors.Is(err, common.ErrorInvalidPasswordFormat):
			printlnFn("Password must be at least 6 characters")
		case errors.Is(err, common.ErrorUnauthorized):
			printlnFn("Wrong password for this username")
		default:
			printlnFn("Sign-in failed:", err.Error())
		}
		return nil
	}

	printlnFn("Signed in as", account.DisplayName)
	return nil
}

// WhoAmI prints the current account, if any.
func (a *App) WhoAmI(ctx context.Context) error {
	account := a.store.CurrentAccount()
	if account == nil {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn("Username:", account.DisplayName)
	printlnFn("Role:", string(account.Role))
	printlnFn("Created:", account.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

// SignOut clears the current session. Safe to call when signed out.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.store.SignOut(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}
