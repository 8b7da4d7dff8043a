package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avetisovm/amora/internal/client/models"
)

// Like sends a like (or superlike) to another user. The result reports
// whether it completed a mutual match.
func (c *HTTPClient) Like(ctx context.Context, toUserID string, superlike bool) (*models.LikeResult, error) {
	body, err := json.Marshal(map[string]any{
		"to_user_id":   toUserID,
		"is_superlike": superlike,
	})
	if err != nil {
		return nil, err
	}

	var result models.LikeResult
	if err := c.do(ctx, http.MethodPost, "/matches/like", nil, body, contentTypeJSON, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Matches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := c.do(ctx, http.MethodGet, "/matches/", nil, nil, "", &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// Messages fetches a page of conversation history, newest-first.
func (c *HTTPClient) Messages(ctx context.Context, matchID string, limit, offset int) ([]models.Message, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/chat/"+matchID+"/messages", query, nil, "", &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
