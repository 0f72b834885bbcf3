package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByType(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var created, all []EventType

	d.Subscribe(EventUserCreated, func(_ context.Context, e Event) error {
		created = append(created, e.Type)
		return nil
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.Type)
		return nil
	})

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, Event{Type: EventUserCreated}))
	require.NoError(t, d.Publish(ctx, Event{Type: EventUserLoggedOut}))

	assert.Equal(t, []EventType{EventUserCreated}, created)
	assert.Equal(t, []EventType{EventUserCreated, EventUserLoggedOut}, all)
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	calls := 0
	d.Subscribe(EventOTPSent, func(context.Context, Event) error {
		calls++
		return errors.New("bus down")
	})
	d.Subscribe(EventOTPSent, func(context.Context, Event) error {
		calls++
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventOTPSent}))
	assert.Equal(t, 2, calls)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "auth.user.signed_in", Subject("auth", EventUserSignedIn))
	assert.Equal(t, "user.signed_in", Subject("", EventUserSignedIn))
}
