package headless

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glyph/internal/pubsub"
	"github.com/zjrosen/glyph/internal/vis"
)

func TestEngine_ParseNilSpec(t *testing.T) {
	eng := New()

	_, err := eng.Parse(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilSpec)
}

func TestEngine_ParseRejectsDuplicateDataNames(t *testing.T) {
	eng := New()
	spec := &vis.Spec{Data: []vis.Data{
		{Name: "cars"},
		{Name: "cars"},
	}}

	_, err := eng.Parse(context.Background(), spec)
	require.ErrorIs(t, err, ErrDuplicateData)
	require.Contains(t, err.Error(), "cars")
}

func TestEngine_ParseRejectsUnknownSource(t *testing.T) {
	eng := New()
	spec := &vis.Spec{Data: []vis.Data{
		{Name: "derived", Source: "missing"},
	}}

	_, err := eng.Parse(context.Background(), spec)
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestEngine_ParseCancelledContext(t *testing.T) {
	eng := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Parse(ctx, &vis.Spec{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_TupleIDResets(t *testing.T) {
	eng := New()

	require.Equal(t, int64(1), eng.NextTupleID())
	require.Equal(t, int64(2), eng.NextTupleID())

	eng.ResetTupleID()
	require.Equal(t, int64(1), eng.NextTupleID())
}

func TestView_SignalsSeededFromSpec(t *testing.T) {
	eng := New()
	spec := &vis.Spec{Signals: []vis.Signal{
		{Name: "mode", Init: "handles"},
		{Name: "cell", Init: nil},
	}}

	factory, err := eng.Parse(context.Background(), spec)
	require.NoError(t, err)

	view := factory("#chart")
	v, ok := view.Signal("mode")
	require.True(t, ok)
	require.Equal(t, "handles", v)

	_, ok = view.Signal("unknown")
	require.False(t, ok)
}

func TestView_SetSignalNotifiesHandlers(t *testing.T) {
	view := newTestView(t)

	var gotName string
	var gotValue any
	view.OnSignal("mode", func(name string, value any) {
		gotName, gotValue = name, value
	})

	view.SetSignal("mode", "connectors")
	require.Equal(t, "mode", gotName)
	require.Equal(t, "connectors", gotValue)

	v, ok := view.Signal("mode")
	require.True(t, ok)
	require.Equal(t, "connectors", v)
}

func TestView_OffSignalByIdentity(t *testing.T) {
	view := newTestView(t)

	var aCount, bCount int
	a := func(string, any) { aCount++ }
	b := func(string, any) { bCount++ }
	view.OnSignal("mode", a)
	view.OnSignal("mode", b)

	view.OffSignal("mode", a)
	view.SetSignal("mode", "x")

	require.Zero(t, aCount)
	require.Equal(t, 1, bCount)
}

func TestView_OffSignalNilRemovesAll(t *testing.T) {
	view := newTestView(t)

	var count int
	view.OnSignal("mode", func(string, any) { count++ })
	view.OnSignal("mode", func(string, any) { count++ })

	view.OffSignal("mode", nil)
	view.SetSignal("mode", "x")
	require.Zero(t, count)
}

func TestView_DestroyedIsInert(t *testing.T) {
	view := newTestView(t)

	var count int
	view.OnSignal("mode", func(string, any) { count++ })

	view.Destroy()
	require.True(t, view.Destroyed())

	view.SetSignal("mode", "x")
	view.Update()
	view.OnSignal("mode", func(string, any) { count++ })

	require.Zero(t, count)
	require.Zero(t, view.Renders())

	// Destroy is idempotent.
	view.Destroy()
}

func TestView_UpdateCountsRenders(t *testing.T) {
	view := newTestView(t)

	view.Update()
	view.Update()
	require.Equal(t, 2, view.Renders())
}

func TestEngine_PublishesSignalChanges(t *testing.T) {
	eng := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := eng.Events().Subscribe(ctx)

	factory, err := eng.Parse(context.Background(), &vis.Spec{})
	require.NoError(t, err)
	view := factory("#chart")

	view.SetSignal("mode", "handles")

	select {
	case event := <-ch:
		require.Equal(t, pubsub.SignalChangedEvent, event.Type)
		require.Equal(t, "mode", event.Payload.Signal)
		require.Equal(t, "handles", event.Payload.Value)
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for signal change event")
	}
}

func newTestView(t *testing.T) *View {
	t.Helper()
	factory, err := New().Parse(context.Background(), &vis.Spec{})
	require.NoError(t, err)
	return factory("#chart").(*View)
}
