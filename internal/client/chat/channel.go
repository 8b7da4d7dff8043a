package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"

	"github.com/avetisovm/amora/internal/client/models"
	"github.com/avetisovm/amora/internal/client/session"
	"github.com/avetisovm/amora/internal/common"
	"github.com/avetisovm/amora/internal/logging"
)

const (
	redialBaseDelay = 500 * time.Millisecond
	redialCap       = 10 * time.Second
)

// Channel maintains the single live connection for one open conversation.
// A channel is bound to its match id for life: leaving the conversation (or
// switching token) means Close and a fresh Channel, never reuse.
//
// Outbound frames are raw message text; inbound frames are JSON message
// objects. The server delivers inbound messages only to the peer and never
// echoes to the sender, which is why Send must insert the optimistic local
// copy itself.
type Channel struct {
	wsBase  string
	matchID string
	session *session.Store
	cache   *Cache
	log     logging.Logger

	// OnMessage, when set before Open, is invoked for every inbound message
	// after it has been cached. The CLI uses it to print live messages.
	OnMessage func(models.Message)

	active atomic.Bool
	closed atomic.Bool

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewChannel(wsBase, matchID string, store *session.Store, cache *Cache, log logging.Logger) *Channel {
	return &Channel{
		wsBase:  wsBase,
		matchID: matchID,
		session: store,
		cache:   cache,
		log:     log.With("component", "chat", "match_id", matchID),
	}
}

// Open dials the conversation socket and starts the inbound loop. It
// requires a valid access token and match id.
func (c *Channel) Open(ctx context.Context) error {
	if c.session.AccessToken() == "" || c.matchID == "" {
		return common.ErrUnauthorized
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: open chat channel: %v", common.ErrUnavailable, err)
	}

	go c.readLoop(ctx, conn)
	return nil
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	token := c.session.AccessToken()
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	u := fmt.Sprintf("%s/%s?token=%s", c.wsBase, c.matchID, url.QueryEscape(token))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return conn, nil
}

func (c *Channel) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if c.closed.Load() || ctx.Err() != nil {
				return
			}
			c.log.Warn(ctx, "chat connection lost, reconnecting", "error", err)
			conn = c.redial(ctx)
			if conn == nil {
				return
			}
			continue
		}
		c.handleFrame(ctx, data)
	}
}

// redial re-establishes the connection with capped exponential backoff.
// Returns nil once the channel is closed or the context is done.
func (c *Channel) redial(ctx context.Context) *websocket.Conn {
	var conn *websocket.Conn

	backoff := retry.WithCappedDuration(redialCap, retry.NewExponential(redialBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if c.closed.Load() {
			return nil
		}
		dialed, err := c.dial(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = dialed
		return nil
	})
	if err != nil || c.closed.Load() {
		return nil
	}
	if conn != nil {
		c.log.Info(ctx, "chat connection restored")
	}
	return conn
}

// handleFrame parses one inbound frame. Malformed frames are logged and
// dropped; the connection stays up.
func (c *Channel) handleFrame(ctx context.Context, data []byte) {
	var msg models.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Warn(ctx, "dropping malformed chat frame", "error", err)
		return
	}

	c.cache.Prepend(c.matchID, msg)
	if !c.active.Load() {
		c.cache.MarkUnread(c.matchID, true)
	}
	if c.OnMessage != nil {
		c.OnMessage(msg)
	}
}

// Send inserts an optimistic local copy of the message into the cache
// (always, so the UI reflects the send with zero latency) and then transmits
// the raw content if the connection is currently open. The returned flag
// reports whether the frame actually went out; the optimistic copy stays in
// the cache either way.
//
// Without a token and match id Send is a no-op.
func (c *Channel) Send(content string) bool {
	token := c.session.AccessToken()
	if token == "" || c.matchID == "" {
		return false
	}

	senderID, err := session.SubjectFromToken(token)
	if err != nil {
		// display-only value; an undecodable token degrades the label, not
		// the send
		c.log.Warn(context.Background(), "could not decode own user id from token", "error", err)
	}

	c.cache.PrependOptimistic(c.matchID, models.Message{
		ID:        uuid.NewString(),
		MatchID:   c.matchID,
		SenderID:  senderID,
		Content:   content,
		IsRead:    true,
		CreatedAt: time.Now(),
	})

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.log.Warn(context.Background(), "chat connection not open, message kept local")
		return false
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(content)); err != nil {
		c.log.Warn(context.Background(), "chat send failed, message kept local", "error", err)
		return false
	}
	return true
}

// SetActive marks whether the user is currently viewing this conversation.
// Opening the view clears its unread flag; inbound messages while inactive
// set it.
func (c *Channel) SetActive(active bool) {
	c.active.Store(active)
	if active {
		c.cache.MarkUnread(c.matchID, false)
	}
}

// Close tears the connection down unconditionally. The channel cannot be
// reopened.
func (c *Channel) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}
