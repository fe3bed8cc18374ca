// File: internal/dispatch/dispatcher.go
// Description: Delivers one message to one contact through an existing
// session. Each send starts from a fresh navigation; no page state is
// restored between sends.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/config"
	"github.com/xkilldash9x/wasend-cli/internal/events"
	"github.com/xkilldash9x/wasend-cli/internal/model"
)

// ladderStepTimeout bounds each rung of a click/upload fallback ladder.
// These are deliberately short: the element is either already rendered or a
// later rung (or the Enter fallback) must get its turn.
const ladderStepTimeout = 3 * time.Second

// Session is the slice of the session manager the dispatcher needs.
type Session interface {
	browser.Runner
	EnsureSession(ctx context.Context, mode browser.Mode) error
	IsLoggedIn() bool
	Mode() browser.Mode
}

// Dispatcher drives the composer for single sends.
type Dispatcher struct {
	session Session
	cfg     *config.Config
	logger  *zap.Logger
	sink    events.Sink
	now     func() time.Time
}

// New creates a dispatcher bound to a session.
func New(session Session, cfg *config.Config, logger *zap.Logger, sink events.Sink) *Dispatcher {
	if sink == nil {
		sink = events.Discard
	}
	return &Dispatcher{
		session: session,
		cfg:     cfg,
		logger:  logger.Named("dispatch"),
		sink:    sink,
		now:     time.Now,
	}
}

// Send delivers one personalized message. Every fault is converted into a
// SendFailedError carrying the contact; nothing propagates raw.
func (d *Dispatcher) Send(ctx context.Context, contact model.Contact, message model.Message, countryCode string) error {
	if !d.session.IsLoggedIn() {
		d.sink(events.Status("Checking login status..."))
		if err := d.session.EnsureSession(ctx, d.session.Mode()); err != nil {
			return d.fail(contact, err)
		}
	}

	text := message.Personalize(contact.Name, contact.Phone, d.now())
	url := ChatURL(d.cfg.WhatsApp.BaseURL, contact.Phone, countryCode)

	d.sink(events.Status(fmt.Sprintf("Sending message to %s...", contact)))
	d.logger.Info("Dispatching message", zap.String("phone", contact.Phone))

	if err := d.openChat(ctx, url); err != nil {
		return d.fail(contact, err)
	}

	composer, err := d.waitComposer(ctx)
	if err != nil {
		return d.fail(contact, err)
	}

	if message.HasAttachments() {
		for _, attachment := range message.Attachments {
			if err := d.uploadAttachment(ctx, attachment); err != nil {
				return d.fail(contact, err)
			}
		}
	}

	if err := d.typeText(ctx, composer.Locator.Query, text); err != nil {
		return d.fail(contact, err)
	}

	if err := d.triggerSend(ctx, composer.Locator.Query); err != nil {
		return d.fail(contact, err)
	}

	d.sink(events.Status(fmt.Sprintf("Message sent successfully to %s", contact.DisplayName())))
	d.logger.Info("Message sent", zap.String("phone", contact.Phone))
	return nil
}

func (d *Dispatcher) fail(contact model.Contact, cause error) error {
	err := &SendFailedError{Contact: contact, Cause: cause}
	d.logger.Error("Send failed", zap.String("phone", contact.Phone), zap.Error(cause))
	return err
}

// openChat navigates to the deep link and lets the page settle. The
// beforeunload hook is cleared first so WhatsApp's leave-site prompt cannot
// block the navigation.
func (d *Dispatcher) openChat(ctx context.Context, url string) error {
	return d.session.Run(ctx, d.cfg.WhatsApp.ComposerTimeout,
		chromedp.Evaluate(`window.onbeforeunload = null;`, nil),
		chromedp.Navigate(url),
		chromedp.Sleep(d.cfg.WhatsApp.SettleDelay),
	)
}

// waitComposer waits for the message input to become interactive, trying
// the locator variants in priority order.
func (d *Dispatcher) waitComposer(ctx context.Context) (browser.Match, error) {
	match, err := browser.WaitVisibleAny(ctx, d.session, d.logger,
		browser.ComposerLocators, d.cfg.WhatsApp.ComposerTimeout)
	if err == nil {
		return match, nil
	}

	// The composer never appearing usually means the deep link pointed at
	// a number that is not on WhatsApp; surface that cause when visible.
	var notice string
	_ = d.session.Run(ctx, ladderStepTimeout,
		chromedp.Text(browser.InvalidPhoneLocator.Query, &notice, chromedp.BySearch))
	if notice != "" {
		return browser.Match{}, &ComposerNotFoundError{Cause: fmt.Errorf("invalid phone number: %s", notice)}
	}
	return browser.Match{}, &ComposerNotFoundError{Cause: err}
}

// uploadAttachment runs the upload sequence for one attachment: open the
// attach menu, inject the file path into the input variant matching the
// media type, wait for the preview, and confirm with the media send control.
func (d *Dispatcher) uploadAttachment(ctx context.Context, attachment model.Attachment) error {
	absPath, err := filepath.Abs(attachment.FilePath)
	if err != nil {
		return &AttachmentError{Path: attachment.FilePath, Cause: err}
	}
	if _, err := os.Stat(absPath); err != nil {
		return &AttachmentError{Path: attachment.FilePath, Cause: err}
	}

	d.logger.Debug("Uploading attachment",
		zap.String("path", absPath), zap.String("media_type", attachment.MediaType.String()))

	// The file inputs exist in the DOM whether or not the menu opened, so a
	// failed menu click is survivable; a failed upload is not.
	if _, err := browser.ClickAny(ctx, d.session, d.logger, browser.AttachButtonLocators, ladderStepTimeout); err != nil {
		d.logger.Warn("Could not open attach menu; trying direct file input", zap.Error(err))
	}

	inputs := browser.DocumentFileInputLocators
	if attachment.MediaType == model.MediaImage || attachment.MediaType == model.MediaVideo {
		inputs = browser.MediaFileInputLocators
	}
	if _, err := browser.UploadAny(ctx, d.session, d.logger, inputs, ladderStepTimeout, absPath); err != nil {
		return &AttachmentError{Path: attachment.FilePath, Cause: err}
	}

	// Wait for the preview modal to render before confirming.
	if err := d.session.Run(ctx, d.cfg.WhatsApp.UploadSettleDelay+time.Second,
		chromedp.Sleep(d.cfg.WhatsApp.UploadSettleDelay)); err != nil {
		return &AttachmentError{Path: attachment.FilePath, Cause: err}
	}

	if _, err := browser.ClickAny(ctx, d.session, d.logger, browser.MediaSendLocators, ladderStepTimeout); err != nil {
		return &AttachmentError{Path: attachment.FilePath, Cause: err}
	}

	return d.session.Run(ctx, d.cfg.WhatsApp.PostSendDelay+time.Second,
		chromedp.Sleep(d.cfg.WhatsApp.PostSendDelay))
}

// typeText clears the composer and types the message, issuing a soft
// newline (shift+enter) between segments so a multi-line message stays one
// message.
func (d *Dispatcher) typeText(ctx context.Context, composerQuery, text string) error {
	actions := []chromedp.Action{
		chromedp.Click(composerQuery, chromedp.BySearch),
		// Select-all plus backspace clears any draft left in the composer.
		chromedp.KeyEvent("a", chromedp.KeyModifiers(input.ModifierCtrl)),
		chromedp.KeyEvent(kb.Backspace),
	}

	lines := splitLines(text)
	for i, line := range lines {
		if line != "" {
			actions = append(actions, chromedp.SendKeys(composerQuery, line, chromedp.BySearch))
		}
		if i < len(lines)-1 {
			actions = append(actions, chromedp.KeyEvent(kb.Enter, chromedp.KeyModifiers(input.ModifierShift)))
		}
	}
	actions = append(actions, chromedp.Sleep(d.cfg.WhatsApp.TypeSettleDelay))

	return d.session.Run(ctx, d.cfg.WhatsApp.ComposerTimeout, actions...)
}

// triggerSend clicks the send control, falling back from the primary button
// to the media-specific one, and finally to an Enter keystroke on the
// composer. The three tiers are a deliberate resilience property.
func (d *Dispatcher) triggerSend(ctx context.Context, composerQuery string) error {
	_, err := browser.ClickAny(ctx, d.session, d.logger, browser.SendButtonLocators, ladderStepTimeout)
	if err != nil {
		if !errors.Is(err, browser.ErrNotFound) {
			return err
		}
		d.logger.Warn("Send buttons absent; submitting with Enter keystroke")
		if err := d.session.Run(ctx, ladderStepTimeout,
			chromedp.Click(composerQuery, chromedp.BySearch),
			chromedp.KeyEvent(kb.Enter),
		); err != nil {
			return err
		}
	}
	return d.session.Run(ctx, d.cfg.WhatsApp.PostSendDelay+time.Second,
		chromedp.Sleep(d.cfg.WhatsApp.PostSendDelay))
}
