package views

import (
	"context"
	"sync"

	"github.com/zekrotja/hermans/internal/model"
)

const FeedbackAck = "Danke für dein Feedback!"

// FeedbackForm backs the feedback modal.
type FeedbackForm struct {
	API API

	mu      sync.Mutex
	open    bool
	typ     string
	message string
	page    string
}

func (f *FeedbackForm) Open(page string) {
	f.mu.Lock()
	f.open = true
	f.page = page
	f.mu.Unlock()
}

func (f *FeedbackForm) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *FeedbackForm) SetType(t string) {
	f.mu.Lock()
	f.typ = t
	f.mu.Unlock()
}

func (f *FeedbackForm) SetMessage(m string) {
	f.mu.Lock()
	f.message = m
	f.mu.Unlock()
}

// Fields returns type, message and page as currently entered.
func (f *FeedbackForm) Fields() (typ, message, page string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.typ, f.message, f.page
}

// Submit posts the form. On success the form is cleared and closed and the
// acknowledgment returned; on failure every field is kept.
func (f *FeedbackForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	fb := &model.Feedback{Type: f.typ, Message: f.message, Page: f.page}
	f.mu.Unlock()

	if _, err := f.API.SubmitFeedback(ctx, fb); err != nil {
		return "", err
	}

	f.mu.Lock()
	f.typ = ""
	f.message = ""
	f.open = false
	f.mu.Unlock()
	return FeedbackAck, nil
}
