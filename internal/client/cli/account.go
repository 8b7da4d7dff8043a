package cli

import (
	"context"
	"os"
)

// Account updates the account email.
func (a *App) Account(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "New email", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.client.UpdateAccount(ctx, email)
	if err != nil {
		printlnFn("Update failed:", err.Error())
		return err
	}

	// refresh the stored identity so the prompt shows the new email
	if err := a.session.SetAuth(ctx, a.session.AccessToken(), a.session.RefreshToken(), user); err != nil {
		return err
	}
	printlnFn("Account updated.")
	return nil
}

// Deactivate disables the account after an explicit confirmation and clears
// the local session.
func (a *App) Deactivate(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Deactivate your account? This hides you from everyone. Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.client.Deactivate(ctx); err != nil {
		printlnFn("Deactivation failed:", err.Error())
		return err
	}

	printlnFn("Account deactivated.")
	return a.Logout(ctx)
}
