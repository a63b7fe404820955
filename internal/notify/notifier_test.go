package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	name string
	err  error
	sent []string
}

func (f *fakeSender) Send(ctx context.Context, title, message string) error {
	f.sent = append(f.sent, title)
	return f.err
}

func (f *fakeSender) Name() string { return f.name }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifyNoSendersIsNoOp(t *testing.T) {
	n := New(nil, nil, testLogger())
	assert.NoError(t, n.Notify(context.Background(), EventOrderPlaced, "t", "m"))
}

func TestNotifyFansOutToAllSenders(t *testing.T) {
	a := &fakeSender{name: "telegram"}
	b := &fakeSender{name: "discord"}
	n := New([]Sender{a, b}, nil, testLogger())

	require.NoError(t, n.Notify(context.Background(), EventOrderPlaced, "Order placed", "msg"))
	assert.Equal(t, []string{"Order placed"}, a.sent)
	assert.Equal(t, []string{"Order placed"}, b.sent)
}

func TestNotifyFiltersByEvent(t *testing.T) {
	s := &fakeSender{name: "telegram"}
	n := New([]Sender{s}, []string{EventTradingHalted}, testLogger())

	require.NoError(t, n.Notify(context.Background(), EventOrderPlaced, "t", "m"))
	assert.Empty(t, s.sent, "filtered event is not delivered")

	require.NoError(t, n.Notify(context.Background(), EventTradingHalted, "t", "m"))
	assert.Len(t, s.sent, 1)
}

func TestNotifyJoinsSenderFailures(t *testing.T) {
	ok := &fakeSender{name: "discord"}
	bad := &fakeSender{name: "telegram", err: errors.New("chat not found")}
	n := New([]Sender{bad, ok}, nil, testLogger())

	err := n.Notify(context.Background(), EventError, "t", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
	assert.Len(t, ok.sent, 1, "one failing channel does not block the others")
}
