// internal/young32400/client_test.go
package young32400

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

// fakeChannel holds stale bytes until the request is written, then
// queues the scripted reply.
type fakeChannel struct {
	rx      []byte
	reply   []byte
	written []byte

	writeErr error
	readErr  error
	reads    int
}

func newFakeChannel(stale, reply string) *fakeChannel {
	return &fakeChannel{rx: []byte(stale), reply: []byte(reply)}
}

func (f *fakeChannel) Available() int { return len(f.rx) }

func (f *fakeChannel) ReadByte() (byte, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	if len(f.rx) == 0 {
		return 0, errors.New("fake: empty")
	}
	b := f.rx[0]
	f.rx = f.rx[1:]
	f.reads++
	return b, nil
}

func (f *fakeChannel) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, p...)
	f.rx = append(f.rx, f.reply...)
	return len(p), nil
}

// stepClock advances by step on every reading.
type stepClock struct {
	now  time.Duration
	step time.Duration
}

func (c *stepClock) Now() time.Duration {
	n := c.now
	c.now += c.step
	return n
}

func newTestClient(ch ByteChannel) *Client {
	return New(ch, DefaultAddress, WithClock(&stepClock{step: time.Millisecond}))
}

const sampleFrame = "32400!0123,1805,4000,0500,2500,3000\n"

// ---- tests ----

func TestNew_Defaults(t *testing.T) {
	ch := newFakeChannel("", "")
	c := New(ch, 'A')

	assert.Equal(t, byte('A'), c.Address())
	assert.Equal(t, time.Second, c.Timeout())
	assert.False(t, c.DataValid())
	assert.Empty(t, c.LastError())
	assert.Equal(t, Measurements{}, c.Measurements())
	assert.Empty(t, ch.written, "construction must not touch the channel")
}

func TestSetTimeout(t *testing.T) {
	c := newTestClient(newFakeChannel("", ""))
	c.SetTimeout(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, c.Timeout())
}

func TestPoll_EndToEnd(t *testing.T) {
	ch := newFakeChannel("", sampleFrame)
	c := newTestClient(ch)

	require.NoError(t, c.Poll())

	assert.True(t, c.DataValid())
	assert.Empty(t, c.LastError())
	assert.Equal(t, 12.3, c.WindSpeed())
	assert.Equal(t, 180.5, c.WindDirection())
	assert.Equal(t, uint16(4000), c.VIN1Raw())
	assert.Equal(t, uint16(500), c.VIN2Raw())
	assert.Equal(t, uint16(2500), c.VIN3Raw())
	assert.Equal(t, uint16(3000), c.VIN4Raw())
	assert.Equal(t, 1000.0, c.VIN1MilliVolts())
	assert.Equal(t, 125.0, c.VIN2MilliVolts())
	assert.Equal(t, 3125.0, c.VIN3MilliVolts())
	assert.Equal(t, 3750.0, c.VIN4MilliVolts())
	assert.Equal(t, 50.0, c.TemperatureVIN1())
	assert.Equal(t, -37.5, c.TemperatureVIN2())
}

func TestPoll_WritesRequestFrame(t *testing.T) {
	for _, addr := range []byte{'0', '7', 'A', 'F'} {
		ch := newFakeChannel("", sampleFrame)
		c := New(ch, addr, WithClock(&stepClock{step: time.Millisecond}))
		require.NoError(t, c.Poll())
		assert.Equal(t, []byte{'M', addr, '!'}, ch.written)
	}
}

func TestPoll_DrainsStaleInput(t *testing.T) {
	ch := newFakeChannel("32400!9,9,9,9,9,9\n", sampleFrame)
	c := newTestClient(ch)

	require.NoError(t, c.Poll())
	assert.Equal(t, uint16(123), c.Measurements().WindSpeedTenths)
}

func TestPoll_PrefixIsOptional(t *testing.T) {
	with := newTestClient(newFakeChannel("", sampleFrame))
	without := newTestClient(newFakeChannel("", strings.TrimPrefix(sampleFrame, ResponsePrefix)))

	require.NoError(t, with.Poll())
	require.NoError(t, without.Poll())
	assert.Equal(t, with.Measurements(), without.Measurements())
}

func TestPoll_LeadingNoiseAndEcho(t *testing.T) {
	// command echo "M0!" starts the frame at '0'; the prefix search recovers
	ch := newFakeChannel("", "\x00\xff?M0!"+sampleFrame)
	c := newTestClient(ch)

	require.NoError(t, c.Poll())
	assert.Equal(t, uint16(1805), c.Measurements().WindDirectionTenths)
}

func TestPoll_SingleCROrLFTerminates(t *testing.T) {
	for _, term := range []string{"\r", "\n", "\r\n"} {
		body := strings.TrimSuffix(sampleFrame, "\n")
		c := newTestClient(newFakeChannel("", body+term))
		require.NoError(t, c.Poll(), "terminator %q", term)
		assert.Equal(t, uint16(3000), c.VIN4Raw())
	}
}

func TestPoll_ExtraTokensIgnored(t *testing.T) {
	c := newTestClient(newFakeChannel("", "32400!1,2,3,4,5,6,7,8\n"))
	require.NoError(t, c.Poll())
	assert.Equal(t, Measurements{1, 2, 3, 4, 5, 6}, c.Measurements())
}

func TestPoll_NonNumericTokenIsZero(t *testing.T) {
	c := newTestClient(newFakeChannel("", "32400!abc,0,0,0,0,0\n"))
	require.NoError(t, c.Poll())
	assert.True(t, c.DataValid())
	assert.Equal(t, uint16(0), c.Measurements().WindSpeedTenths)
}

func TestPoll_EmptyTokensAreZero(t *testing.T) {
	c := newTestClient(newFakeChannel("", "32400!5,,7,,,9\n"))
	require.NoError(t, c.Poll())
	assert.Equal(t, Measurements{5, 0, 7, 0, 0, 9}, c.Measurements())
}

func TestPoll_IncompleteKeepsPreviousValues(t *testing.T) {
	ch := newFakeChannel("", sampleFrame)
	c := newTestClient(ch)
	require.NoError(t, c.Poll())
	before := c.Measurements()

	ch.reply = []byte("32400!1,2,3\n")
	err := c.Poll()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Equal(t, "Incomplete data received", c.LastError())
	assert.False(t, c.DataValid())
	assert.Equal(t, before, c.Measurements(), "a short frame must not overwrite anything")
}

func TestPoll_FiveTokensIsIncomplete(t *testing.T) {
	c := newTestClient(newFakeChannel("", "32400!1,2,3,4,5\n"))
	err := c.Poll()
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestPoll_Timeout(t *testing.T) {
	clk := &stepClock{step: time.Millisecond}
	c := New(newFakeChannel("", "32400!1,2,3"), DefaultAddress, WithClock(clk))
	c.SetTimeout(50 * time.Millisecond)

	err := c.Poll()

	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "Timeout waiting for response", c.LastError())
	assert.GreaterOrEqual(t, clk.now, 50*time.Millisecond)
}

func TestPoll_TimeoutWallClock(t *testing.T) {
	c := New(newFakeChannel("", ""), DefaultAddress)
	c.SetTimeout(30 * time.Millisecond)

	begin := time.Now()
	err := c.Poll()
	elapsed := time.Since(begin)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestPoll_TimeoutNeverEarly(t *testing.T) {
	c := New(newFakeChannel("", ""), DefaultAddress)
	c.SetTimeout(5 * time.Millisecond)

	for i := 0; i < 20; i++ {
		// spread the start across a millisecond boundary
		time.Sleep(time.Duration(i*50) * time.Microsecond)
		begin := time.Now()
		require.ErrorIs(t, c.Poll(), ErrTimeout)
		assert.GreaterOrEqual(t, time.Since(begin), 5*time.Millisecond, "poll %d", i)
	}
}

func TestPoll_TimeoutKeepsDataValid(t *testing.T) {
	ch := newFakeChannel("", sampleFrame)
	c := newTestClient(ch)
	require.NoError(t, c.Poll())

	ch.reply = nil
	require.Error(t, c.Poll())
	assert.True(t, c.DataValid(), "only a parse failure clears DataValid")
	assert.Equal(t, 12.3, c.WindSpeed())
}

func TestPoll_Overflow(t *testing.T) {
	reply := "1" + strings.Repeat("2", 500)
	ch := newFakeChannel("", reply)
	c := newTestClient(ch)

	err := c.Poll()

	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, "Response buffer overflow", c.LastError())
	assert.Equal(t, ResponseBufferSize-1, ch.reads, "overflow must stop reading at the bound")
}

func TestPoll_ErrorClearedOnSuccess(t *testing.T) {
	ch := newFakeChannel("", "")
	c := newTestClient(ch)
	c.SetTimeout(5 * time.Millisecond)
	require.Error(t, c.Poll())
	require.NotEmpty(t, c.LastError())

	ch.reply = []byte(sampleFrame)
	require.NoError(t, c.Poll())
	assert.Empty(t, c.LastError())
}

func TestPoll_WriteError(t *testing.T) {
	ch := newFakeChannel("", sampleFrame)
	ch.writeErr = errors.New("port closed")
	c := newTestClient(ch)

	err := c.Poll()

	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Transport error: port closed", c.LastError())
}

func TestPoll_ReadError(t *testing.T) {
	ch := newFakeChannel("junk", "")
	ch.readErr = errors.New("io")
	c := newTestClient(ch)

	assert.ErrorIs(t, c.Poll(), ErrTransport)
}
