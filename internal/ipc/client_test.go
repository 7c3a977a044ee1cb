package ipc

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/relaydesk/internal/launch"
	"github.com/jmylchreest/relaydesk/internal/session"
)

type recordedCall struct {
	method string
	args   []any
}

// fakeObject answers method calls from a canned table.
type fakeObject struct {
	replies map[string][]any
	errs    map[string]error
	calls   []recordedCall
}

func (f *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	return &dbus.Call{Method: method, Args: args, Body: f.replies[method], Err: f.errs[method]}
}

func method(name string) string { return Interface + "." + name }

func TestClient_StringQueries(t *testing.T) {
	obj := &fakeObject{replies: map[string][]any{
		method("GetID"):                {"123456789"},
		method("GetTemporaryPassword"): {"abc123"},
		method("GetFingerprint"):       {"ab:cd"},
	}}
	c := newClientWithCaller(obj, nil)
	ctx := context.Background()

	id, err := c.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123456789", id)

	pw, err := c.TemporaryPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", pw)

	fp, err := c.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ab:cd", fp)
}

func TestClient_CallError(t *testing.T) {
	obj := &fakeObject{errs: map[string]error{method("GetUUID"): errors.New("service unknown")}}
	c := newClientWithCaller(obj, nil)

	_, err := c.UUID(context.Background())
	assert.ErrorContains(t, err, "GetUUID")
	assert.ErrorContains(t, err, "service unknown")
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(nil, nil)
	_, err := c.ID(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.Subscribe(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.NoError(t, c.Close())
}

func TestClient_ChangeID(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr string
	}{
		{"accepted", "", ""},
		{"rejected", "id already taken", "id already taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &fakeObject{replies: map[string][]any{method("ChangeID"): {tt.reply}}}
			err := newClientWithCaller(obj, nil).ChangeID(context.Background(), "newid1")
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
			require.Len(t, obj.calls, 1)
			assert.Equal(t, []any{"newid1"}, obj.calls[0].args)
		})
	}
}

func TestClient_ConnectStatus(t *testing.T) {
	obj := &fakeObject{replies: map[string][]any{
		method("GetConnectStatus"): {int32(1), true, "123"},
	}}
	st, err := newClientWithCaller(obj, nil).ConnectStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ConnectStatus{Status: 1, KeyConfirmed: true, ID: "123"}, st)
}

func TestClient_ReplyShapeMismatch(t *testing.T) {
	obj := &fakeObject{replies: map[string][]any{method("HasValid2FA"): {}}}
	_, err := newClientWithCaller(obj, nil).HasValid2FA(context.Background())
	assert.ErrorContains(t, err, "decode reply")
}

func TestConnector_OpenAndClose(t *testing.T) {
	obj := &fakeObject{replies: map[string][]any{method("OpenSession"): {uint32(7)}}}
	conn := NewConnector(newClientWithCaller(obj, nil))

	c, err := conn.Open(context.Background(), session.Params{Kind: launch.KindRDP, PeerID: "peer", Password: "pw"})
	require.NoError(t, err)

	require.Len(t, obj.calls, 1)
	assert.Equal(t, []any{"rdp", "peer", "pw", []string{}}, obj.calls[0].args)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.Len(t, obj.calls, 2, "close is sent once")
	assert.Equal(t, method("CloseSession"), obj.calls[1].method)
	assert.Equal(t, []any{uint32(7)}, obj.calls[1].args)
}

func TestConnector_OpenFailure(t *testing.T) {
	obj := &fakeObject{errs: map[string]error{method("OpenSession"): errors.New("peer offline")}}
	_, err := NewConnector(newClientWithCaller(obj, nil)).Open(context.Background(), session.Params{PeerID: "p"})
	assert.ErrorContains(t, err, "peer offline")
}
