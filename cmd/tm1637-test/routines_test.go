package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BeatGlow/tm1637"
	"github.com/BeatGlow/tm1637/segment"
)

// recordBus keeps the commands it was sent with their bit order restored.
type recordBus struct {
	cmds   []byte
	data   [][]byte
	reads  []byte
	scan   byte
	closed int
}

func (b *recordBus) String() string { return "record bus" }
func (b *recordBus) Open() error    { return nil }

func (b *recordBus) Close() error {
	b.closed++
	return nil
}

func (b *recordBus) Command(cmd byte, data ...byte) error {
	b.cmds = append(b.cmds, tm1637.Reverse(cmd))
	p := make([]byte, len(data))
	for i, v := range data {
		p[i] = tm1637.Reverse(v)
	}
	b.data = append(b.data, p)
	return nil
}

func (b *recordBus) Read(cmd byte, p []byte) error {
	b.reads = append(b.reads, tm1637.Reverse(cmd))
	p[0] = tm1637.Reverse(b.scan)
	return nil
}

func newRoutineDev(bus tm1637.Bus, buf *bytes.Buffer) (*tm1637.Dev, *clockwork.FakeClock) {
	log := zerolog.New(buf)
	clock := clockwork.NewFakeClock()
	return &tm1637.Dev{Bus: bus, Clock: clock, Log: &log}, clock
}

// drive advances the clock past every pause until run returns.
func drive(t *testing.T, ctx context.Context, clock *clockwork.FakeClock, pauses int, run func() error) {
	t.Helper()
	errc := make(chan error, 1)
	go func() {
		errc <- run()
	}()
	for i := 0; i < pauses; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(modePause)
	}
	require.NoError(t, <-errc)
}

func TestRunWrite(t *testing.T) {
	var buf bytes.Buffer
	bus := new(recordBus)
	dev, clock := newRoutineDev(bus, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	drive(t, ctx, clock, 7, func() error { return runWrite(ctx, dev) })

	assert.Equal(t, []byte{
		0x87,       // 14/16, display still off
		0x40, 0x40, // auto increment, test mode off
		0x40, 0xc0, // clear
		0x8f,       // display on
		0x40, 0xc0, // 0..5
		0x44,                                     // fixed address
		0x44, 0xc0, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, // 1..6
		0x8d, 0x8b, 0x89, // 12/16, 10/16, 2/16
		0x81,       // display off
		0x87, 0x8f, // 14/16, display on
		0x87, // close
	}, bus.cmds)

	assert.Equal(t, make([]byte, 6), bus.data[4])
	assert.Equal(t, segment.Digits[0:6], bus.data[7])
	for i := 0; i < 6; i++ {
		assert.Equal(t, []byte{segment.Digits[i+1]}, bus.data[10+i])
	}
	assert.Equal(t, 1, bus.closed)
	assert.Contains(t, buf.String(), "finish write test")
}

func TestRunRead(t *testing.T) {
	var buf bytes.Buffer
	bus := &recordBus{scan: 0b00011010}
	dev, clock := newRoutineDev(bus, &buf)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	drive(t, ctx, clock, 2, func() error { return runRead(ctx, dev, 2) })

	assert.Equal(t, []byte{0x42, 0x42}, bus.reads)
	assert.Equal(t, []byte{0x80}, bus.cmds)
	assert.Equal(t, 1, bus.closed)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"seg":2,"k":3`)))
	assert.Contains(t, buf.String(), "finish read test")
}

func TestRunReadCanceled(t *testing.T) {
	var buf bytes.Buffer
	bus := new(recordBus)
	dev, _ := newRoutineDev(bus, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, runRead(ctx, dev, 3), context.Canceled)
	assert.Empty(t, bus.reads)
	assert.Equal(t, 1, bus.closed)
}
