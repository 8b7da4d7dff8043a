package cli

import (
	"context"
	"fmt"
	"os"
)

const adminPageSize = 20

// Report files a report against the n-th candidate from the last feed.
func (a *App) Report(ctx context.Context, arg string) error {
	p, err := a.feedEntry(arg)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	reason, err := getSimpleText(a.reader, "Reason (spam, harassment, fake, other)", os.Stdout)
	if err != nil {
		return err
	}
	details, err := getSimpleText(a.reader, "Details (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.client.ReportUser(ctx, p.UserID, reason, details); err != nil {
		printlnFn("Report failed:", err.Error())
		return err
	}
	printlnFn("Report filed. Thank you.")
	return nil
}

// Block blocks the n-th candidate from the last feed.
func (a *App) Block(ctx context.Context, arg string) error {
	p, err := a.feedEntry(arg)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if err := a.client.BlockUser(ctx, p.UserID); err != nil {
		printlnFn("Block failed:", err.Error())
		return err
	}
	printlnFn("Blocked", p.FirstName+". They will not appear again.")
	return nil
}

// Reports lists pending moderation reports (admin only).
func (a *App) Reports(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin only.")
		return nil
	}

	page, err := a.client.Reports(ctx, 1, adminPageSize)
	if err != nil {
		printlnFn("Could not load reports:", err.Error())
		return err
	}

	if len(page.Items) == 0 {
		printlnFn("No reports.")
		return nil
	}
	for _, r := range page.Items {
		printlnFn(fmt.Sprintf("%s  reported=%s  reason=%s  status=%s", r.ID, r.ReportedID, r.Reason, r.Status))
	}
	printlnFn(fmt.Sprintf("Total: %d", page.Total))
	return nil
}

// Users lists accounts, optionally filtered by a search term (admin only).
func (a *App) Users(ctx context.Context, search string) error {
	if !a.isAdmin() {
		printlnFn("Admin only.")
		return nil
	}

	page, err := a.client.Users(ctx, 1, adminPageSize, search)
	if err != nil {
		printlnFn("Could not load users:", err.Error())
		return err
	}

	for _, u := range page.Items {
		state := "active"
		if !u.IsActive {
			state = "inactive"
		}
		printlnFn(fmt.Sprintf("%s  %s  %s  %s", u.ID, u.Email, u.Role, state))
	}
	printlnFn(fmt.Sprintf("Total: %d", page.Total))
	return nil
}

// UserInfo shows one account's details and recent activity (admin only).
func (a *App) UserInfo(ctx context.Context, userID string) error {
	if !a.isAdmin() {
		printlnFn("Admin only.")
		return nil
	}

	details, err := a.client.UserDetails(ctx, userID)
	if err != nil {
		printlnFn("Could not load user:", err.Error())
		return err
	}

	printlnFn("Email:", details.User.Email, " role:", string(details.User.Role), " active:", details.User.IsActive)
	if details.Profile != nil {
		printlnFn("Profile:", describeProfile(*details.Profile))
	}

	activity, err := a.client.UserActivity(ctx, userID, 1, adminPageSize)
	if err != nil {
		printlnFn("Could not load activity:", err.Error())
		return err
	}
	for _, act := range activity.Items {
		printlnFn(fmt.Sprintf("%s  %s", act.CreatedAt.Format("2006-01-02 15:04"), act.Action))
	}
	return nil
}

// Action takes a moderation action against a user (admin only).
func (a *App) Action(ctx context.Context) error {
	if !a.isAdmin() {
		printlnFn("Admin only.")
		return nil
	}

	target, err := getSimpleText(a.reader, "Target user id", os.Stdout)
	if err != nil {
		return err
	}
	actionType, err := getSimpleText(a.reader, "Action (warn, suspend, ban, dismiss)", os.Stdout)
	if err != nil {
		return err
	}
	reason, err := getSimpleText(a.reader, "Reason", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.TakeAction(ctx, target, actionType, reason); err != nil {
		printlnFn("Action failed:", err.Error())
		return err
	}
	printlnFn("Done.")
	return nil
}
