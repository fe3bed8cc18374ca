// File: internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/config"
	"github.com/xkilldash9x/wasend-cli/internal/events"
	"github.com/xkilldash9x/wasend-cli/internal/model"
)

func TestChatURL(t *testing.T) {
	tests := []struct {
		name        string
		phone       string
		countryCode string
		want        string
	}{
		{
			name:  "digits pass through",
			phone: "14155551234",
			want:  "https://web.whatsapp.com/send?phone=14155551234&type=phone_number&app_absent=0",
		},
		{
			name:  "plus sign stripped",
			phone: "+14155551234",
			want:  "https://web.whatsapp.com/send?phone=14155551234&type=phone_number&app_absent=0",
		},
		{
			name:        "country code prepended",
			phone:       "4155551234",
			countryCode: "1",
			want:        "https://web.whatsapp.com/send?phone=14155551234&type=phone_number&app_absent=0",
		},
		{
			name:        "country code not doubled",
			phone:       "14155551234",
			countryCode: "1",
			want:        "https://web.whatsapp.com/send?phone=14155551234&type=phone_number&app_absent=0",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ChatURL("https://web.whatsapp.com", tc.phone, tc.countryCode)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChatURLTrimsTrailingSlash(t *testing.T) {
	got := ChatURL("https://web.whatsapp.com/", "14155551234", "")
	assert.Equal(t, "https://web.whatsapp.com/send?phone=14155551234&type=phone_number&app_absent=0", got)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"one line"}, splitLines("one line"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\nb\nc"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
}

// fakeSession scripts the outcome of successive Run calls and records how
// many the dispatcher issued.
type fakeSession struct {
	loggedIn   bool
	runErrs    []error
	runCalls   int
	ensureErr  error
	ensured    int
	defaultErr error
}

func (f *fakeSession) Run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	defer func() { f.runCalls++ }()
	if f.runCalls < len(f.runErrs) {
		return f.runErrs[f.runCalls]
	}
	return f.defaultErr
}

func (f *fakeSession) EnsureSession(ctx context.Context, mode browser.Mode) error {
	f.ensured++
	if f.ensureErr == nil {
		f.loggedIn = true
	}
	return f.ensureErr
}

func (f *fakeSession) IsLoggedIn() bool   { return f.loggedIn }
func (f *fakeSession) Mode() browser.Mode { return browser.ModeGUI }

func newTestDispatcher(s *fakeSession, sink events.Sink) *Dispatcher {
	cfg := config.NewDefaultConfig()
	cfg.WhatsApp.SettleDelay = 0
	cfg.WhatsApp.TypeSettleDelay = 0
	cfg.WhatsApp.PostSendDelay = 0
	d := New(s, cfg, zap.NewNop(), sink)
	d.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return d
}

func TestSendHappyPath(t *testing.T) {
	var got []events.Event
	s := &fakeSession{loggedIn: true}
	d := newTestDispatcher(s, func(e events.Event) { got = append(got, e) })

	contact := model.Contact{Phone: "14155551234", Name: "Ada"}
	err := d.Send(context.Background(), contact, model.Message{Text: "Hi %NAME%"}, "")
	require.NoError(t, err)

	require.NotEmpty(t, got)
	assert.Equal(t, events.KindStatus, got[len(got)-1].Kind)
	assert.Contains(t, got[len(got)-1].Message, "Ada")
	assert.Zero(t, s.ensured, "logged-in session must not be re-established")
}

func TestSendEstablishesSessionWhenNeeded(t *testing.T) {
	s := &fakeSession{loggedIn: false}
	d := newTestDispatcher(s, nil)

	err := d.Send(context.Background(), model.Contact{Phone: "14155551234"}, model.Message{Text: "hi"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, s.ensured)
}

func TestSendWrapsSessionFailure(t *testing.T) {
	boom := errors.New("chrome refused to start")
	s := &fakeSession{loggedIn: false, ensureErr: boom}
	d := newTestDispatcher(s, nil)

	contact := model.Contact{Phone: "14155551234", Name: "Ada"}
	err := d.Send(context.Background(), contact, model.Message{Text: "hi"}, "")

	var sendErr *SendFailedError
	require.ErrorAs(t, err, &sendErr)
	assert.Equal(t, contact.Phone, sendErr.Contact.Phone)
	assert.ErrorIs(t, err, boom)
}

func TestSendReportsComposerNotFound(t *testing.T) {
	timeout := errors.New("context deadline exceeded")
	s := &fakeSession{
		loggedIn: true,
		// Navigation succeeds, then every composer strategy and the
		// invalid-number probe time out.
		runErrs:    []error{nil},
		defaultErr: timeout,
	}
	d := newTestDispatcher(s, nil)

	err := d.Send(context.Background(), model.Contact{Phone: "999"}, model.Message{Text: "hi"}, "")

	var composerErr *ComposerNotFoundError
	require.ErrorAs(t, err, &composerErr)
	var sendErr *SendFailedError
	assert.ErrorAs(t, err, &sendErr)
}

func TestSendRejectsMissingAttachmentFile(t *testing.T) {
	s := &fakeSession{loggedIn: true}
	d := newTestDispatcher(s, nil)

	msg := model.Message{Text: "hi"}
	msg.AddAttachment("/nonexistent/file.pdf")
	err := d.Send(context.Background(), model.Contact{Phone: "14155551234"}, msg, "")

	var attErr *AttachmentError
	require.ErrorAs(t, err, &attErr)
	assert.Contains(t, attErr.Path, "file.pdf")
}
