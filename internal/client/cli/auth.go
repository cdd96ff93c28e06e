package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ddubrovin/jobtrack/internal/client/query"
	"github.com/ddubrovin/jobtrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for an email and password and attempts to
// create a new account.
//
// The password byte slice is securely wiped before returning. Any I/O or
// service error is returned unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignUp(ctx, email, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Account created, you can now log in.")
	return nil
}

// Login prompts for credentials, authenticates and hydrates the session:
// cached data first, with a remote fetch now or in the background depending
// on snapshot age.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.auth.SignIn(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}
	log.Printf("Login successful")

	if err := a.jobs.Load(ctx); err != nil {
		log.Printf("Loading data unsuccessful: %s", err.Error())
		return err
	}
	return nil
}

// Logout revokes the session and wipes the locally cached data.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	a.view = query.NewState()
	fmt.Println("Logged out.")
	return nil
}
