// File: internal/browser/locator_test.go
package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner scripts the outcome of successive Run calls.
type fakeRunner struct {
	results []error
	calls   int
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	defer func() { f.calls++ }()
	if f.calls < len(f.results) {
		return f.results[f.calls]
	}
	return errors.New("unexpected call")
}

var testLocators = []Locator{
	{Name: "primary", Query: `//div[@id='a']`},
	{Name: "fallback", Query: `//div[@id='b']`},
	{Name: "last-resort", Query: `//div[@id='c']`},
}

func TestWaitVisibleAnyPrimaryMatch(t *testing.T) {
	r := &fakeRunner{results: []error{nil}}
	m, err := WaitVisibleAny(context.Background(), r, zap.NewNop(), testLocators, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Index)
	assert.Equal(t, "primary", m.Locator.Name)
	assert.Equal(t, 1, r.calls, "must stop at the first match")
}

func TestWaitVisibleAnyFallbackOrder(t *testing.T) {
	timeout := errors.New("context deadline exceeded")
	r := &fakeRunner{results: []error{timeout, timeout, nil}}
	m, err := WaitVisibleAny(context.Background(), r, zap.NewNop(), testLocators, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Index)
	assert.Equal(t, "last-resort", m.Locator.Name)
	assert.Equal(t, 3, r.calls, "strategies must be tried in priority order")
}

func TestWaitVisibleAnyNotFound(t *testing.T) {
	timeout := errors.New("context deadline exceeded")
	r := &fakeRunner{results: []error{timeout, timeout, timeout}}
	_, err := WaitVisibleAny(context.Background(), r, zap.NewNop(), testLocators, time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaitVisibleAnyEmptyList(t *testing.T) {
	_, err := WaitVisibleAny(context.Background(), &fakeRunner{}, zap.NewNop(), nil, time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaitVisibleAnyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRunner{results: []error{nil}}
	_, err := WaitVisibleAny(ctx, r, zap.NewNop(), testLocators, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.calls, "no strategy may run after cancellation")
}

func TestClickAnyUsesFallback(t *testing.T) {
	miss := errors.New("node not visible")
	r := &fakeRunner{results: []error{miss, nil}}
	m, err := ClickAny(context.Background(), r, zap.NewNop(), testLocators, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Index)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "no_session", StateNoSession.String())
	assert.Equal(t, "awaiting_login", StateAwaitingLogin.String())
	assert.Equal(t, "logged_in", StateLoggedIn.String())
}
