package commands

import (
	"context"
	"sync"

	"pulsarbot/models"
)

// recordingResponder captures replies that reach the platform
type recordingResponder struct {
	mutex   sync.Mutex
	replies []models.Reply
	err     error
}

func (r *recordingResponder) Respond(_ context.Context, reply models.Reply) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.replies = append(r.replies, reply)
	return r.err
}

func (r *recordingResponder) Replies() []models.Reply {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]models.Reply(nil), r.replies...)
}

func newTestInteraction(name string, options ...models.OptionValue) (*models.Interaction, *recordingResponder) {
	responder := &recordingResponder{}
	return models.NewInteraction("inv_test", name, options, responder), responder
}
