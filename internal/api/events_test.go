package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanejobs/arcanejobs/internal/job"
)

func TestEvents_PublishFansOut(t *testing.T) {
	e := NewEvents()
	a, b := e.Subscribe(), e.Subscribe()

	e.Publish(job.Change{Kind: job.ChangeCreated, ID: "x", Total: 1})

	for _, ch := range []chan Event{a, b} {
		require.Len(t, ch, 1, "subscriber should have one event")
		ev := <-ch
		assert.Equal(t, "change", ev.Event)
		assert.JSONEq(t, `{"kind":"created","id":"x","total":1}`, ev.Data)
	}
}

func TestEvents_UnsubscribeStopsDelivery(t *testing.T) {
	e := NewEvents()
	ch := e.Subscribe()
	e.Unsubscribe(ch)

	e.Publish(job.Change{Kind: job.ChangeDeleted, ID: "x"})

	assert.Empty(t, ch)
}

func TestEvents_SlowSubscriberDoesNotBlock(t *testing.T) {
	e := NewEvents()
	ch := e.Subscribe()

	for range cap(ch) + 10 {
		e.Publish(job.Change{Kind: job.ChangeUpdated, ID: "x"})
	}
	assert.Len(t, ch, cap(ch))
}
