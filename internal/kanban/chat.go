package kanban

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/ponto/internal/model"
)

// ChatLog buffers messages sent during this session. It is append-only and
// never touches card status. Messages the server already knows (same id)
// are not duplicated when a thread is read.
type ChatLog struct {
	mu      sync.Mutex
	threads map[string][]model.ChatMessage
	now     func() time.Time
}

// NewChatLog returns an empty log stamping messages with now.
func NewChatLog(now func() time.Time) *ChatLog {
	if now == nil {
		now = time.Now
	}
	return &ChatLog{threads: map[string][]model.ChatMessage{}, now: now}
}

// Append adds a message to the card's thread and returns it.
func (c *ChatLog) Append(cardID, author, text string) model.ChatMessage {
	msg := model.ChatMessage{
		ID:     uuid.NewString(),
		CardID: cardID,
		Author: author,
		Text:   text,
		SentAt: c.now(),
	}
	c.mu.Lock()
	c.threads[cardID] = append(c.threads[cardID], msg)
	c.mu.Unlock()
	return msg
}

// Thread merges the server's messages for a card with the locally buffered
// ones, ordered by send time.
func (c *ChatLog) Thread(cardID string, server []model.ChatMessage) []model.ChatMessage {
	c.mu.Lock()
	local := append([]model.ChatMessage(nil), c.threads[cardID]...)
	c.mu.Unlock()

	seen := make(map[string]bool, len(server))
	out := make([]model.ChatMessage, 0, len(server)+len(local))
	for _, m := range server {
		seen[m.ID] = true
		out = append(out, m)
	}
	for _, m := range local {
		if !seen[m.ID] {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out
}

// Drop forgets the buffered thread of a card.
func (c *ChatLog) Drop(cardID string) {
	c.mu.Lock()
	delete(c.threads, cardID)
	c.mu.Unlock()
}
