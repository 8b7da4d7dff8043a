// Package chat holds the per-conversation message cache and the realtime
// channel that feeds it.
package chat

import (
	"sync"
	"time"

	"github.com/avetisovm/amora/internal/client/models"
)

// reconcileWindow bounds how far apart in time an optimistic message and a
// server-assigned copy of the same logical message may be and still be
// treated as one.
const reconcileWindow = 10 * time.Second

type conversation struct {
	// messages is kept newest-first; consumers render in reverse.
	messages []models.Message
	unread   bool
	// optimistic tracks ids this client generated locally, pending adoption
	// of a server-assigned id.
	optimistic map[string]struct{}
}

// Cache is the in-memory message store shared by the history fetch flow and
// the realtime channel. Entries are created lazily and live until Clear.
// All methods are safe for concurrent use; the idempotent insert is what
// makes history/realtime interleaving harmless.
type Cache struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
}

func NewCache() *Cache {
	return &Cache{conversations: make(map[string]*conversation)}
}

func (c *Cache) conversation(matchID string) *conversation {
	conv, ok := c.conversations[matchID]
	if !ok {
		conv = &conversation{optimistic: make(map[string]struct{})}
		c.conversations[matchID] = conv
	}
	return conv
}

// Replace overwrites the conversation with fetched history (newest-first).
// History is authoritative: pending optimistic ids are dropped with it.
func (c *Cache) Replace(matchID string, messages []models.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := c.conversation(matchID)
	conv.messages = append([]models.Message(nil), messages...)
	conv.optimistic = make(map[string]struct{})
}

// Prepend inserts a message at the newest end. The insert is idempotent: a
// message whose id is already present leaves the list unchanged. A
// server-assigned message that matches a pending optimistic entry (same
// sender, same content, created within reconcileWindow) is adopted into that
// entry instead of duplicating it.
//
// Returns true when the cache changed.
func (c *Cache) Prepend(matchID string, msg models.Message) bool {
	return c.insert(matchID, msg, false)
}

// PrependOptimistic inserts a locally created, not-yet-confirmed message and
// remembers its temporary id for later reconciliation.
func (c *Cache) PrependOptimistic(matchID string, msg models.Message) bool {
	return c.insert(matchID, msg, true)
}

func (c *Cache) insert(matchID string, msg models.Message, optimistic bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	conv := c.conversation(matchID)
	for i := range conv.messages {
		if conv.messages[i].ID == msg.ID {
			return false
		}
	}

	if !optimistic && c.adopt(conv, msg) {
		return true
	}

	conv.messages = append([]models.Message{msg}, conv.messages...)
	if optimistic {
		conv.optimistic[msg.ID] = struct{}{}
	}
	return true
}

// adopt looks for a pending optimistic entry carrying the same logical
// message and rewrites its id to the server-assigned one.
func (c *Cache) adopt(conv *conversation, msg models.Message) bool {
	for i := range conv.messages {
		existing := &conv.messages[i]
		if _, ok := conv.optimistic[existing.ID]; !ok {
			continue
		}
		if existing.SenderID != msg.SenderID || existing.Content != msg.Content {
			continue
		}
		delta := existing.CreatedAt.Sub(msg.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta > reconcileWindow {
			continue
		}

		delete(conv.optimistic, existing.ID)
		existing.ID = msg.ID
		existing.CreatedAt = msg.CreatedAt
		return true
	}
	return false
}

// MarkUnread toggles the unread flag: false when the conversation view
// opens, true when a message arrives for a conversation not in view.
func (c *Cache) MarkUnread(matchID string, unread bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversation(matchID).unread = unread
}

func (c *Cache) Unread(matchID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conv, ok := c.conversations[matchID]
	return ok && conv.unread
}

// Messages returns a newest-first snapshot of the conversation.
func (c *Cache) Messages(matchID string) []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conv, ok := c.conversations[matchID]
	if !ok {
		return nil
	}
	return append([]models.Message(nil), conv.messages...)
}

// Clear drops every conversation. Called when the session is cleared.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversations = make(map[string]*conversation)
}
