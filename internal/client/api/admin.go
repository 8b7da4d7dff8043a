package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avetisovm/amora/internal/client/models"
)

// Admin endpoints. Role gating happens server-side; a non-admin caller gets
// the usual 403 treatment (terminal, session cleared).

func pageQuery(page, size int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return query
}

func (c *HTTPClient) Reports(ctx context.Context, page, size int) (*models.ReportsPage, error) {
	var result models.ReportsPage
	if err := c.do(ctx, http.MethodGet, "/admin/reports", pageQuery(page, size), nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) TakeAction(ctx context.Context, targetUserID, actionType, reason string) error {
	body, err := json.Marshal(map[string]string{
		"target_user_id": targetUserID,
		"action_type":    actionType,
		"reason":         reason,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/admin/action", nil, body, contentTypeJSON, nil)
}

func (c *HTTPClient) ReportUser(ctx context.Context, reportedID, reason, details string) (*models.Report, error) {
	body, err := json.Marshal(map[string]string{
		"reported_id": reportedID,
		"reason":      reason,
		"details":     details,
	})
	if err != nil {
		return nil, err
	}

	var report models.Report
	if err := c.do(ctx, http.MethodPost, "/admin/report", nil, body, contentTypeJSON, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) BlockUser(ctx context.Context, blockedID string) error {
	body, err := json.Marshal(map[string]string{"blocked_id": blockedID})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/admin/block", nil, body, contentTypeJSON, nil)
}

func (c *HTTPClient) Users(ctx context.Context, page, size int, search string) (*models.UsersPage, error) {
	query := pageQuery(page, size)
	if search != "" {
		query.Set("search", search)
	}

	var result models.UsersPage
	if err := c.do(ctx, http.MethodGet, "/admin/users", query, nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UserDetails(ctx context.Context, userID string) (*models.UserDetails, error) {
	var result models.UserDetails
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+userID, nil, nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UserActivity(ctx context.Context, userID string, page, size int) (*models.ActivityPage, error) {
	var result models.ActivityPage
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+userID+"/activity", pageQuery(page, size), nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}
