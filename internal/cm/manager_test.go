package cm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/relaydesk/internal/ipc"
)

// fakeEvents feeds events through a channel that closes with the context,
// like the D-Bus subscription.
type fakeEvents struct {
	in  chan ipc.Event
	err error
}

func newFakeEvents() *fakeEvents { return &fakeEvents{in: make(chan ipc.Event)} }

func (f *fakeEvents) Subscribe(ctx context.Context) (<-chan ipc.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(chan ipc.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-f.in:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

type fakeControls struct {
	mu         sync.Mutex
	authorized []uint32
	closed     []uint32
	err        error
}

func (f *fakeControls) Authorize(_ context.Context, id uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authorized = append(f.authorized, id)
	return f.err
}

func (f *fakeControls) CloseClient(_ context.Context, id uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return f.err
}

type countingRinger struct {
	mu    sync.Mutex
	rings int
}

func (r *countingRinger) Ring() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rings++
	return true
}

func (r *countingRinger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rings
}

func TestManager_TracksClients(t *testing.T) {
	events := newFakeEvents()
	ringer := &countingRinger{}
	m := New(events, &fakeControls{}, ringer, nil)
	t0 := time.Unix(1000, 0)
	tick := 0
	m.now = func() time.Time {
		tick++
		return t0.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, m.Start())
	defer m.Detach()

	assert.Equal(t, "No clients connected", m.Summary())

	events.in <- ipc.Event{Kind: ipc.EventConnected, ClientID: 1, PeerID: "111", Name: "alice"}
	events.in <- ipc.Event{Kind: ipc.EventConnected, ClientID: 2, PeerID: "222"}
	require.Eventually(t, func() bool { return len(m.Clients()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, "2 clients: alice, 222", m.Summary())
	assert.Eventually(t, func() bool { return ringer.count() == 2 }, time.Second, 5*time.Millisecond)

	events.in <- ipc.Event{Kind: ipc.EventDisconnected, ClientID: 1}
	require.Eventually(t, func() bool { return len(m.Clients()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "1 client: 222", m.Summary())
}

func TestManager_AuthorizeAndClose(t *testing.T) {
	events := newFakeEvents()
	controls := &fakeControls{}
	m := New(events, controls, nil, nil)
	require.NoError(t, m.Start())
	defer m.Detach()

	events.in <- ipc.Event{Kind: ipc.EventConnected, ClientID: 7, PeerID: "777"}
	require.Eventually(t, func() bool { return len(m.Clients()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Authorize(7))
	assert.True(t, m.Clients()[0].Authorized)

	require.NoError(t, m.Close(7))
	assert.Equal(t, []uint32{7}, controls.closed)
	assert.Len(t, m.Clients(), 1, "removed only when the service reports the disconnect")

	controls.err = errors.New("no such client")
	assert.ErrorContains(t, m.Authorize(9), "no such client")
	assert.Error(t, m.Close(9))
}

func TestManager_SubscribeFailure(t *testing.T) {
	events := &fakeEvents{err: ipc.ErrNotConnected}
	m := New(events, &fakeControls{}, nil, nil)
	assert.ErrorIs(t, m.Start(), ipc.ErrNotConnected)
	assert.NotPanics(t, m.Detach)
}

func TestManager_DetachStopsLoop(t *testing.T) {
	m := New(newFakeEvents(), &fakeControls{}, nil, nil)
	require.NoError(t, m.Start())

	done := make(chan struct{})
	go func() {
		m.Detach()
		m.Detach()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("detach did not return")
	}
}

func TestManager_InstancesAreIndependent(t *testing.T) {
	events := newFakeEvents()
	a := New(events, &fakeControls{}, nil, nil)
	b := New(newFakeEvents(), &fakeControls{}, nil, nil)
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	defer a.Detach()
	defer b.Detach()

	events.in <- ipc.Event{Kind: ipc.EventConnected, ClientID: 1, PeerID: "111"}
	require.Eventually(t, func() bool { return len(a.Clients()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, b.Clients())
}
