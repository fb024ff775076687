package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/stakr/internal/client/client"
	"github.com/dmitrijs2005/stakr/internal/common"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getOptionalText = GetOptionalText
	getPassword     = GetPassword
)

var errNotLoggedIn = errors.New("not logged in")

// Register prompts for an email, a password and the optional profile fields
// and creates the account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	req := client.RegisterRequest{Email: email, Password: string(password)}
	if req.FirstName, err = getOptionalText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getOptionalText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if req.JobTitle, err = getOptionalText(a.reader, "Job title", a.out); err != nil {
		return err
	}

	u, err := a.api.Register(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrEmailInUse) {
			return errors.New("email already in use")
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. Use 'login' to sign in.\n", u.Email)
	return nil
}

// Login prompts for credentials and keeps the returned token in memory.
// A failed attempt leaves any previous session untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("incorrect email or password")
		}
		return err
	}

	a.setSession(email, token)
	fmt.Fprintln(a.out, "Success!")
	return nil
}

// Me prints the authenticated account. A rejected token ends the session.
func (a *App) Me(ctx context.Context) error {
	_, token := a.session()
	if token == "" {
		return errNotLoggedIn
	}

	u, err := a.api.Me(ctx, token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.setSession("", "")
			return errors.New("session expired, please log in again")
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:        %s\n", u.ID)
	fmt.Fprintf(a.out, "Email:     %s\n", u.Email)
	fmt.Fprintf(a.out, "Active:    %t\n", u.IsActive)
	fmt.Fprintf(a.out, "Name:      %s %s\n", deref(u.FirstName), deref(u.LastName))
	fmt.Fprintf(a.out, "Job title: %s\n", deref(u.JobTitle))
	fmt.Fprintf(a.out, "Since:     %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

// Logout drops the in-memory token; the server keeps no session state.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	a.setSession("", "")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
