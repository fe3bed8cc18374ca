// File: internal/browser/session.go
// Description: Owns the single browser handle and the login state machine.
// All other components reach WhatsApp Web exclusively through this manager;
// there is at most one session and one flow driving it at a time, so the
// discipline is single-owner by construction rather than lock-based.
package browser

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/wasend-cli/internal/config"
	"github.com/xkilldash9x/wasend-cli/internal/events"
)

// Mode selects how the Chrome instance renders.
type Mode string

const (
	// ModeGUI runs a visible window, required for the QR scan.
	ModeGUI Mode = "gui"
	// ModeHeadless runs without a window for unattended sends.
	ModeHeadless Mode = "headless"
)

// State is the session manager's position in its lifecycle.
type State int

const (
	// StateNoSession: no browser process is alive.
	StateNoSession State = iota
	// StateAwaitingLogin: a browser is up but login is not verified.
	StateAwaitingLogin
	// StateLoggedIn: the login confirmation locator was observed in the
	// current handle's lifetime.
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateAwaitingLogin:
		return "awaiting_login"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "no_session"
	}
}

// launchProbeTimeout bounds the startup check that the browser process is
// alive and responsive.
const launchProbeTimeout = 30 * time.Second

// Manager guarantees that, for any send attempt, either a usable
// authenticated browser handle exists or a typed failure is raised.
type Manager struct {
	cfg    *config.Config
	logger *zap.Logger
	sink   events.Sink

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mode  Mode
	state State
}

// NewManager creates a session manager. No browser is started until
// EnsureSession is called.
func NewManager(cfg *config.Config, logger *zap.Logger, sink events.Sink) *Manager {
	if sink == nil {
		sink = events.Discard
	}
	return &Manager{
		cfg:    cfg,
		logger: logger.Named("session"),
		sink:   sink,
		state:  StateNoSession,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// Mode returns the mode of the active handle, or the configured default
// when no handle exists.
func (m *Manager) Mode() Mode {
	if m.browserCtx == nil {
		if m.cfg.Browser.Headless {
			return ModeHeadless
		}
		return ModeGUI
	}
	return m.mode
}

// IsLoggedIn reports whether the login confirmation was observed in the
// current handle's lifetime.
func (m *Manager) IsLoggedIn() bool { return m.state == StateLoggedIn }

// EnsureSession guarantees a logged-in browser handle in the desired mode.
// An existing handle in another mode is torn down and recreated, then login
// is re-verified; absence of the confirmation surfaces ErrSessionLost. With
// no handle at all, a fresh login flow runs: short probe, then the long QR
// wait, then ErrLoginTimeout.
func (m *Manager) EnsureSession(ctx context.Context, desired Mode) error {
	if m.browserCtx != nil {
		if m.mode == desired {
			if m.state == StateLoggedIn {
				return nil
			}
			return m.login(ctx)
		}
		return m.recreate(ctx, desired)
	}

	if err := m.launch(desired); err != nil {
		return err
	}
	return m.login(ctx)
}

// SwitchToHeadless tears down a GUI session and recreates it headless,
// re-verifying login. Used after an interactive QR login so subsequent
// sends avoid a visible window.
func (m *Manager) SwitchToHeadless(ctx context.Context) error {
	if m.browserCtx != nil && m.mode == ModeHeadless && m.state == StateLoggedIn {
		return nil
	}
	return m.EnsureSession(ctx, ModeHeadless)
}

// Run executes chromedp actions against the live session, bounded by the
// given timeout and the caller's context.
func (m *Manager) Run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if m.browserCtx == nil {
		return fmt.Errorf("no active browser session: %w", ErrNotLoggedIn)
	}
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(m.browserCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(m.browserCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Close tears down the handle if present and resets the login state.
// It is idempotent.
func (m *Manager) Close() {
	if m.browserCancel != nil {
		m.logger.Info("Closing browser session")
		m.browserCancel()
		m.browserCancel = nil
		m.browserCtx = nil
	}
	if m.allocCancel != nil {
		m.allocCancel()
		m.allocCancel = nil
		m.allocCtx = nil
	}
	m.state = StateNoSession
}

// launch starts a Chrome process in the given mode and verifies it responds.
func (m *Manager) launch(mode Mode) error {
	m.sink(events.Status("Initializing browser..."))
	m.logger.Info("Launching browser", zap.String("mode", string(mode)))

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), m.allocatorOptions(mode)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	probeCtx, probeCancel := context.WithTimeout(browserCtx, launchProbeTimeout)
	err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank"))
	probeCancel()
	if err != nil {
		browserCancel()
		allocCancel()
		m.state = StateNoSession
		initErr := &DriverInitError{Cause: err}
		m.sink(events.Error(initErr))
		return initErr
	}

	m.allocCtx = allocCtx
	m.allocCancel = allocCancel
	m.browserCtx = browserCtx
	m.browserCancel = browserCancel
	m.mode = mode
	m.state = StateAwaitingLogin
	m.logger.Info("Browser launched and responsive")
	return nil
}

// login navigates to WhatsApp Web and drives the login state machine:
// probe shortly for a restored session, otherwise prompt for the QR scan
// and wait the long timeout.
func (m *Manager) login(ctx context.Context) error {
	m.sink(events.Status("Opening WhatsApp Web..."))
	if err := m.Run(ctx, launchProbeTimeout, chromedp.Navigate(m.cfg.WhatsApp.BaseURL)); err != nil {
		m.Close()
		initErr := &DriverInitError{Cause: err}
		m.sink(events.Error(initErr))
		return initErr
	}

	// A persisted profile usually restores the session; probe briefly.
	if m.verifyLogin(ctx, m.cfg.WhatsApp.LoginProbeTimeout) {
		m.state = StateLoggedIn
		m.sink(events.LoggedIn())
		m.sink(events.Status("Already logged in to WhatsApp Web (session restored)"))
		m.logger.Info("Session restored from persistent profile")
		return nil
	}

	m.sink(events.LoginRequired())
	m.sink(events.Status("Please scan the QR code to login..."))
	m.logger.Info("QR code scan required",
		zap.Duration("wait", m.cfg.WhatsApp.LoginWaitTimeout))

	if m.verifyLogin(ctx, m.cfg.WhatsApp.LoginWaitTimeout) {
		m.state = StateLoggedIn
		m.sink(events.LoggedIn())
		m.logger.Info("Logged in after QR scan")
		return nil
	}

	m.Close()
	m.sink(events.Error(ErrLoginTimeout))
	return ErrLoginTimeout
}

// recreate tears down the current handle and brings up a new one in the
// desired mode, re-verifying login with the short probe only. Failure to
// re-verify is a session loss, not a reason to start a fresh QR flow.
func (m *Manager) recreate(ctx context.Context, desired Mode) error {
	m.sink(events.Status(fmt.Sprintf("Switching browser to %s mode...", desired)))
	m.logger.Info("Recreating session",
		zap.String("from", string(m.mode)), zap.String("to", string(desired)))
	m.Close()

	if err := m.launch(desired); err != nil {
		return err
	}
	if err := m.Run(ctx, launchProbeTimeout, chromedp.Navigate(m.cfg.WhatsApp.BaseURL)); err != nil {
		m.Close()
		initErr := &DriverInitError{Cause: err}
		m.sink(events.Error(initErr))
		return initErr
	}
	if !m.verifyLogin(ctx, m.cfg.WhatsApp.LoginProbeTimeout) {
		m.Close()
		m.sink(events.Error(ErrSessionLost))
		return ErrSessionLost
	}

	m.state = StateLoggedIn
	m.sink(events.LoggedIn())
	return nil
}

// verifyLogin waits for any login confirmation locator. The total timeout
// is shared across the strategy list.
func (m *Manager) verifyLogin(ctx context.Context, timeout time.Duration) bool {
	perStrategy := timeout / time.Duration(len(LoginLocators))
	if perStrategy < time.Second {
		perStrategy = time.Second
	}
	_, err := WaitVisibleAny(ctx, m, m.logger, LoginLocators, perStrategy)
	return err == nil
}

// allocatorOptions assembles the Chrome launch flags for the given mode.
func (m *Manager) allocatorOptions(mode Mode) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", mode == ModeHeadless),
		// Hide the automation tell-tales from the page.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-gpu", mode == ModeHeadless),
		chromedp.WindowSize(m.cfg.Browser.WindowWidth, m.cfg.Browser.WindowHeight),
	)

	if m.cfg.Browser.PersistSession && m.cfg.Browser.ProfileDir != "" {
		if err := os.MkdirAll(m.cfg.Browser.ProfileDir, 0o755); err != nil {
			m.logger.Warn("Could not create profile directory; session will not persist",
				zap.String("dir", m.cfg.Browser.ProfileDir), zap.Error(err))
		} else {
			opts = append(opts, chromedp.UserDataDir(m.cfg.Browser.ProfileDir))
		}
	}

	if m.cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.Browser.ExecPath))
	}

	// Extra operator-supplied flags, "--name=value" or "--name".
	for _, arg := range m.cfg.Browser.Args {
		parts := strings.SplitN(arg, "=", 2)
		name := strings.TrimPrefix(parts[0], "--")
		if len(parts) == 2 {
			opts = append(opts, chromedp.Flag(name, parts[1]))
		} else {
			opts = append(opts, chromedp.Flag(name, true))
		}
	}

	// Flags required when running inside containers.
	if runtime.GOOS == "linux" {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}

	return opts
}
