package usecase

import (
	"context"
	"time"

	"github.com/prasetyoadi/rolodex/internal/journal/entity"
	"github.com/prasetyoadi/rolodex/internal/pkg/valueobject"
)

// StreamEvent represents a journal entry sent over SSE.
type StreamEvent struct {
	ID        int64               `json:"id"`
	ContactID int64               `json:"contact_id"`
	Action    string              `json:"action"`
	Payload   valueobject.JSONMap `json:"payload"`
	CreatedAt time.Time           `json:"created_at"`
}

type subscriber struct {
	ch chan StreamEvent
}

// StreamEntries registers a live stream and closes it when ctx is done.
// The channel is closed under the write lock so publishEntry, which
// sends under the read lock, can never send on a closed channel.
func (s *Usecase) StreamEntries(ctx context.Context) <-chan StreamEvent {
	sub := &subscriber{ch: make(chan StreamEvent, 10)}

	s.streamMu.Lock()
	s.streams[sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		delete(s.streams, sub)
		close(sub.ch)
		s.streamMu.Unlock()
	}()

	return sub.ch
}

func (s *Usecase) publishEntry(evt StreamEvent) {
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	// Non-blocking sends, a slow consumer drops events instead of
	// stalling the consumer loop.
	for sub := range s.streams {
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

func (s *Usecase) buildStreamEvent(e entity.CreateEntry) StreamEvent {
	return StreamEvent{
		ID:        e.ID,
		ContactID: e.ContactID,
		Action:    e.Action.String(),
		Payload:   e.Payload,
		CreatedAt: s.clock.Now(),
	}
}
