// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

type fakeSensor struct {
	err    error
	m      young32400.Measurements
	polls  int
	closed bool
}

func (f *fakeSensor) Poll() error {
	f.polls++
	return f.err
}

func (f *fakeSensor) Measurements() young32400.Measurements { return f.m }
func (f *fakeSensor) DataValid() bool                       { return f.err == nil }

func (f *fakeSensor) Close() error {
	f.closed = true
	return nil
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Interval: time.Second}, &fakeSensor{}, nil)
	assert.Error(t, err)

	_, err = New(Config{UnitID: "u1"}, &fakeSensor{}, nil)
	assert.Error(t, err)

	_, err = New(Config{UnitID: "u1", Interval: time.Second}, nil, nil)
	assert.Error(t, err)
}

func TestPollOnce_Success(t *testing.T) {
	s := &fakeSensor{m: young32400.Measurements{WindSpeedTenths: 42}}
	p, err := New(Config{UnitID: "u1", Interval: time.Second}, s, nil)
	require.NoError(t, err)

	res := p.PollOnce()

	require.NoError(t, res.Err)
	assert.Equal(t, "u1", res.UnitID)
	assert.True(t, res.Valid)
	assert.Equal(t, uint16(42), res.Measurements.WindSpeedTenths)
	assert.False(t, res.At.IsZero())
}

func TestPollOnce_FailureKeepsSensor(t *testing.T) {
	s := &fakeSensor{err: &young32400.Error{Reason: young32400.ReasonTimeout}}
	opened := 0
	factory := func() (Sensor, error) {
		opened++
		return &fakeSensor{}, nil
	}
	p, err := New(Config{UnitID: "u1", Interval: time.Second}, s, factory)
	require.NoError(t, err)

	res := p.PollOnce()
	assert.ErrorIs(t, res.Err, young32400.ErrTimeout)

	p.PollOnce()
	assert.Equal(t, 2, s.polls)
	assert.Equal(t, 0, opened, "a timeout is not transport death")
	assert.False(t, s.closed)
}

func TestPollOnce_TransportErrorReopens(t *testing.T) {
	dead := &fakeSensor{err: &young32400.Error{Reason: young32400.ReasonTransport, Err: errors.New("eof")}}
	fresh := &fakeSensor{m: young32400.Measurements{VIN1: 4000}}
	factory := func() (Sensor, error) { return fresh, nil }

	p, err := New(Config{UnitID: "u1", Interval: time.Second}, dead, factory)
	require.NoError(t, err)

	res := p.PollOnce()
	assert.ErrorIs(t, res.Err, young32400.ErrTransport)
	assert.True(t, dead.closed)

	res = p.PollOnce()
	require.NoError(t, res.Err)
	assert.Equal(t, uint16(4000), res.Measurements.VIN1)
	assert.Equal(t, 1, fresh.polls)
}

func TestPollOnce_ReopenFailure(t *testing.T) {
	factory := func() (Sensor, error) { return nil, errors.New("no such port") }
	p, err := New(Config{UnitID: "u1", Interval: time.Second}, nil, factory)
	require.NoError(t, err)

	res := p.PollOnce()
	assert.ErrorContains(t, res.Err, "no such port")
}

func TestRun_EmitsUntilCancelled(t *testing.T) {
	s := &fakeSensor{}
	p, err := New(Config{UnitID: "u1", Interval: 5 * time.Millisecond}, s, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case res := <-out:
			assert.NoError(t, res.Err)
		case <-time.After(time.Second):
			t.Fatalf("no result after %d polls", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
