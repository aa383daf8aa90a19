package tm1637

import (
	"errors"
	"math/bits"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// frame is a command as seen on the wire, bit reversed.
type frame struct {
	cmd  byte
	data []byte
}

// fakeBus records frames and fails the Command call with index failAt.
type fakeBus struct {
	frames   []frame
	reads    []byte
	readData []byte
	failAt   int
	openErr  error
	closeErr error
	readErr  error
	opened   int
	closed   int
}

var errBus = errors.New("bus error")

func newFakeBus() *fakeBus {
	return &fakeBus{failAt: -1}
}

func (b *fakeBus) String() string { return "fake bus" }

func (b *fakeBus) Open() error {
	b.opened++
	return b.openErr
}

func (b *fakeBus) Close() error {
	b.closed++
	return b.closeErr
}

func (b *fakeBus) Command(cmd byte, data ...byte) error {
	if b.failAt == len(b.frames) {
		b.failAt = -1
		return errBus
	}
	b.frames = append(b.frames, frame{cmd: cmd, data: append([]byte{}, data...)})
	return nil
}

func (b *fakeBus) Read(cmd byte, p []byte) error {
	if b.readErr != nil {
		return b.readErr
	}
	b.reads = append(b.reads, cmd)
	copy(p, b.readData)
	return nil
}

// sent returns the recorded frames with their bit order restored.
func (b *fakeBus) sent() []frame {
	out := make([]frame, len(b.frames))
	for i, f := range b.frames {
		out[i] = frame{cmd: Reverse(f.cmd), data: make([]byte, len(f.data))}
		for j, v := range f.data {
			out[i].data[j] = Reverse(v)
		}
	}
	return out
}

func (b *fakeBus) reset() {
	b.frames = nil
	b.reads = nil
}

func newTestDev(bus Bus) *Dev {
	log := zerolog.Nop()
	return &Dev{
		Bus:   bus,
		Clock: clockwork.NewFakeClock(),
		Log:   &log,
	}
}

func initTestDev(t *testing.T) (*Dev, *fakeBus) {
	t.Helper()
	bus := newFakeBus()
	d := newTestDev(bus)
	require.NoError(t, d.Init())
	return d, bus
}

func TestReverse(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{0x00, 0x00},
		{0xff, 0xff},
		{0b10000000, 0b00000001},
		{0b00000001, 0b10000000},
		{0x40, 0x02},
		{0x8f, 0xf1},
		{0xc0, 0x03},
		{0x3f, 0xfc},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Reverse(tt.in), "Reverse(%#02x)", tt.in)
	}
}

func TestPropertyReverseInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.Byte().Draw(t, "b")
		if got := Reverse(Reverse(b)); got != b {
			t.Fatalf("Reverse(Reverse(%#02x)) = %#02x", b, got)
		}
		if got, want := Reverse(b), bits.Reverse8(b); got != want {
			t.Fatalf("Reverse(%#02x) = %#02x, want %#02x", b, got, want)
		}
	})
}

func TestWriteReversesFrame(t *testing.T) {
	d, bus := initTestDev(t)

	require.NoError(t, d.SetReg(0xc0, 0x3f, 0x06))
	require.Len(t, bus.frames, 1)
	assert.Equal(t, byte(0x03), bus.frames[0].cmd)
	assert.Equal(t, []byte{0xfc, 0x60}, bus.frames[0].data)
}

func TestWriteTooLong(t *testing.T) {
	d, bus := initTestDev(t)

	err := d.SetReg(0xc0, make([]byte, maxTransfer+1)...)
	assert.ErrorIs(t, err, ErrFailed)
	assert.Empty(t, bus.frames)

	assert.NoError(t, d.SetReg(0xc0, make([]byte, maxTransfer)...))
}

func TestReadReversesResult(t *testing.T) {
	d, bus := initTestDev(t)
	bus.readData = []byte{Reverse(0x12), Reverse(0x34)}

	p := make([]byte, 2)
	require.NoError(t, d.GetReg(0x42, p))
	assert.Equal(t, []byte{0x12, 0x34}, p)
	assert.Equal(t, []byte{Reverse(0x42)}, bus.reads)
}

func TestReadError(t *testing.T) {
	d, bus := initTestDev(t)
	bus.readErr = errBus

	err := d.GetReg(0x42, make([]byte, 1))
	assert.ErrorIs(t, err, ErrFailed)
	assert.ErrorIs(t, err, errBus)
}
