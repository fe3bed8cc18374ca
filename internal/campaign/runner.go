// File: internal/campaign/runner.go
// Description: Sequential bulk-send orchestration. One runner owns one
// campaign; contacts are dispatched strictly in input order, and per-contact
// failures never abort the run.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/wasend-cli/internal/browser"
	"github.com/xkilldash9x/wasend-cli/internal/config"
	"github.com/xkilldash9x/wasend-cli/internal/events"
	"github.com/xkilldash9x/wasend-cli/internal/model"
)

// Dispatcher is the single-send dependency of the runner.
type Dispatcher interface {
	Send(ctx context.Context, contact model.Contact, message model.Message, countryCode string) error
}

// Result is the final tally of one campaign run.
type Result struct {
	RunID     string
	Total     int
	Attempted int
	Successes int
	Failures  int
	Cancelled bool
}

// Runner executes one bulk campaign. Cancellation is cooperative: the flag
// is consulted between contacts only, never mid-send.
type Runner struct {
	dispatcher Dispatcher
	cfg        *config.Config
	logger     *zap.Logger
	sink       events.Sink

	runID     string
	cancelled atomic.Bool

	// sleep is swappable so tests run without real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner for a single campaign.
func NewRunner(dispatcher Dispatcher, cfg *config.Config, logger *zap.Logger, sink events.Sink) *Runner {
	if sink == nil {
		sink = events.Discard
	}
	id := uuid.NewString()
	return &Runner{
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.Named("campaign").With(zap.String("run_id", id)),
		sink:       sink,
		runID:      id,
		sleep:      sleepCtx,
	}
}

// RunID identifies this campaign in events and logs.
func (r *Runner) RunID() string { return r.runID }

// Cancel requests a cooperative stop. The in-flight send, if any, completes
// before the runner observes the flag.
func (r *Runner) Cancel() {
	if r.cancelled.CompareAndSwap(false, true) {
		r.logger.Info("Cancellation requested")
		r.sink(events.Status("Stopping bulk send..."))
	}
}

// Run dispatches the message to every contact in order. A session-level
// fault ends the run early; per-contact faults are tallied and skipped.
// Exactly one Completed event is emitted, on every path out.
func (r *Runner) Run(ctx context.Context, contactList []model.Contact, message model.Message, delay time.Duration) (Result, error) {
	result := Result{RunID: r.runID, Total: len(contactList)}

	if len(contactList) == 0 {
		return result, errors.New("no contacts to send to")
	}
	if err := message.Validate(); err != nil {
		return result, fmt.Errorf("invalid message: %w", err)
	}
	if delay <= 0 {
		delay = r.cfg.Campaign.DefaultDelay
	}

	limiter := r.newLimiter()

	r.logger.Info("Starting bulk send",
		zap.Int("contacts", len(contactList)), zap.Duration("delay", delay))
	r.sink(events.Status(fmt.Sprintf("Starting bulk send to %d contacts...", len(contactList))))

	defer func() {
		r.sink(events.Completed(r.runID, result.Successes, result.Failures))
		r.logger.Info("Bulk send finished",
			zap.Int("successes", result.Successes),
			zap.Int("failures", result.Failures),
			zap.Bool("cancelled", result.Cancelled))
	}()

	for i, contact := range contactList {
		if r.cancelled.Load() || ctx.Err() != nil {
			result.Cancelled = true
			return result, nil
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				result.Cancelled = true
				return result, nil
			}
		}

		err := r.dispatcher.Send(ctx, contact, message, r.cfg.WhatsApp.CountryCode)
		result.Attempted++
		if err != nil {
			result.Failures++
			r.logger.Warn("Contact skipped after send failure",
				zap.String("phone", contact.Phone), zap.Error(err))
		} else {
			result.Successes++
		}
		r.sink(events.ContactResult(r.runID, contact.Phone, err))
		r.sink(events.Progress(r.runID, (i+1)*100/len(contactList)))

		if terminal(err) {
			r.sink(events.Error(err))
			return result, err
		}

		if i < len(contactList)-1 {
			if err := r.sleep(ctx, delay); err != nil {
				result.Cancelled = true
				return result, nil
			}
		}
	}

	return result, nil
}

// newLimiter converts the configured messages-per-minute cap into a rate
// limiter, or nil when uncapped.
func (r *Runner) newLimiter() *rate.Limiter {
	perMinute := r.cfg.Campaign.RatePerMinute
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
}

// terminal reports whether a send failure implies the whole session is gone,
// making further attempts pointless.
func terminal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, browser.ErrSessionLost) || errors.Is(err, browser.ErrLoginTimeout) {
		return true
	}
	var initErr *browser.DriverInitError
	return errors.As(err, &initErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
