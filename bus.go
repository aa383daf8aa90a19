package tm1637

import (
	"fmt"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("TM1637_DEBUG") != ""
}

// maxTransfer is the largest payload the transport accepts in one frame.
const maxTransfer = 16

// Bus is the two-wire connection to the chip. Bytes handed to a Bus are
// already bit reversed, so the implementation shifts them out MSB first.
type Bus interface {
	String() string

	// Open the bus.
	Open() error

	// Close the bus.
	Close() error

	// Command sends a command byte followed by optional data bytes in one
	// start/stop frame.
	Command(byte, ...byte) error

	// Read sends a command byte and reads len(p) bytes back.
	Read(byte, []byte) error
}

// Reverse returns b with its bit order reversed.
func Reverse(b byte) byte {
	b = b<<4 | b>>4
	b = (b<<2)&0xcc | (b>>2)&0x33
	b = (b<<1)&0xaa | (b>>1)&0x55
	return b
}

func (d *Dev) write(cmd byte, data ...byte) error {
	if len(data) > maxTransfer {
		return fmt.Errorf("%w: %d bytes exceeds transfer limit of %d", ErrFailed, len(data), maxTransfer)
	}

	var buf [maxTransfer]byte
	for i, b := range data {
		buf[i] = Reverse(b)
	}
	if debug {
		d.Log.Debug().Hex("cmd", []byte{cmd}).Hex("data", data).Msg("tm1637: write")
	}
	if err := d.Bus.Command(Reverse(cmd), buf[:len(data)]...); err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
	return nil
}

func (d *Dev) read(cmd byte, p []byte) error {
	if err := d.Bus.Read(Reverse(cmd), p); err != nil {
		return fmt.Errorf("%w: %w", ErrFailed, err)
	}
	for i := range p {
		p[i] = Reverse(p[i])
	}
	if debug {
		d.Log.Debug().Hex("cmd", []byte{cmd}).Hex("data", p).Msg("tm1637: read")
	}
	return nil
}
