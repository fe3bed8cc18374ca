// File: internal/events/events_test.go
package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	assert.Equal(t, KindStatus, Status("hello").Kind)
	assert.Equal(t, KindLoginRequired, LoginRequired().Kind)
	assert.Equal(t, KindLoggedIn, LoggedIn().Kind)

	p := Progress("run-1", 40)
	assert.Equal(t, KindProgress, p.Kind)
	assert.Equal(t, "run-1", p.CampaignID)
	assert.Equal(t, 40, p.Percent)

	ok := ContactResult("run-1", "123", nil)
	assert.True(t, ok.OK)
	fail := ContactResult("run-1", "123", errors.New("boom"))
	assert.False(t, fail.OK)

	done := Completed("run-1", 3, 1)
	assert.Equal(t, "Bulk sending completed: 3 successful, 1 failed", done.Message)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	ch := make(chan Event, 1)
	sink := ChannelSink(ch)

	sink(Status("first"))
	sink(Status("second")) // dropped, never blocks

	assert.Len(t, ch, 1)
	assert.Equal(t, "first", (<-ch).Message)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "status", KindStatus.String())
	assert.Equal(t, "completed", KindCompleted.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
