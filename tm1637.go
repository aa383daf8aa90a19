// Package tm1637 drives a Titan Micro TM1637 LED controller with up to six
// 7-segment digits.
//
// The chip is connected through a two-wire bus that shifts bytes out least
// significant bit first. The driver builds command bytes, reverses their bit
// order and hands them to a Bus, which only has to frame and clock them.
//
// A Dev is not safe for concurrent use.
package tm1637

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Dev is a handle to a TM1637. Bind Bus, Clock and Log, then call Init.
type Dev struct {
	Bus   Bus             // required, command framing
	Clock clockwork.Clock // required, used for delays
	Log   *zerolog.Logger // required, diagnostics

	inited  bool
	display DisplayConfig
	data    DataConfig
}

func (d *Dev) String() string {
	if d == nil || d.Bus == nil {
		return "TM1637"
	}
	return fmt.Sprintf("TM1637 on %s", d.Bus)
}

func (d *Dev) ready() error {
	if d == nil {
		return ErrNilHandle
	}
	if !d.inited {
		return ErrNotInitialized
	}
	return nil
}

func (d *Dev) fail(msg string, err error) error {
	d.Log.Error().Err(err).Msg("tm1637: " + msg)
	return err
}

// Init checks the bindings and opens the bus. Both configuration registers
// start out zeroed: display off at 1/16 pulse width, auto increment
// addressing, test mode off.
func (d *Dev) Init() error {
	if d == nil {
		return ErrNilHandle
	}
	if d.Log == nil {
		return fmt.Errorf("%w: log", ErrMissingBinding)
	}
	if d.Bus == nil {
		return d.fail("bus is nil", fmt.Errorf("%w: bus", ErrMissingBinding))
	}
	if d.Clock == nil {
		return d.fail("clock is nil", fmt.Errorf("%w: clock", ErrMissingBinding))
	}
	if err := d.Bus.Open(); err != nil {
		return d.fail("bus init failed", fmt.Errorf("%w: %w", ErrFailed, err))
	}

	d.display = DisplayConfig{}
	d.data = DataConfig{}
	d.inited = true
	return nil
}

// Close powers down the display and closes the bus.
func (d *Dev) Close() error {
	if err := d.ready(); err != nil {
		return err
	}

	conf := d.display
	conf.On = false
	if err := d.write(conf.command()); err != nil {
		return d.fail("power down failed", err)
	}
	d.display = conf

	if err := d.Bus.Close(); err != nil {
		return d.fail("bus deinit failed", fmt.Errorf("%w: %w", ErrFailed, err))
	}
	d.inited = false
	return nil
}

func (d *Dev) setDisplay(conf DisplayConfig) error {
	if err := d.write(conf.command()); err != nil {
		return d.fail("write failed", err)
	}
	d.display = conf
	return nil
}

func (d *Dev) setData(conf DataConfig) error {
	if err := d.write(conf.command()); err != nil {
		return d.fail("write failed", err)
	}
	d.data = conf
	return nil
}

// SetPulseWidth sets the segment drive duty cycle (brightness).
func (d *Dev) SetPulseWidth(width PulseWidth) error {
	if err := d.ready(); err != nil {
		return err
	}
	if width >= numPulseWidths {
		return d.fail("invalid pulse width", fmt.Errorf("%w: pulse width %d", ErrRange, width))
	}
	conf := d.display
	conf.PulseWidth = width
	return d.setDisplay(conf)
}

// PulseWidth returns the last pulse width written to the chip.
func (d *Dev) PulseWidth() (PulseWidth, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	return d.display.PulseWidth, nil
}

// SetDisplay turns the display on or off.
func (d *Dev) SetDisplay(on bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	conf := d.display
	conf.On = on
	return d.setDisplay(conf)
}

// DisplayEnabled reports whether the display was last switched on.
func (d *Dev) DisplayEnabled() (bool, error) {
	if err := d.ready(); err != nil {
		return false, err
	}
	return d.display.On, nil
}

// SetAddressMode selects auto increment or fixed addressing for segment
// writes.
func (d *Dev) SetAddressMode(mode AddressMode) error {
	if err := d.ready(); err != nil {
		return err
	}
	if mode >= numAddressModes {
		return d.fail("invalid address mode", fmt.Errorf("%w: address mode %d", ErrRange, mode))
	}
	conf := d.data
	conf.Mode = mode
	return d.setData(conf)
}

// AddressMode returns the last address mode written to the chip.
func (d *Dev) AddressMode() (AddressMode, error) {
	if err := d.ready(); err != nil {
		return 0, err
	}
	return d.data.Mode, nil
}

// SetTestMode enables or disables the chip's test mode.
func (d *Dev) SetTestMode(enable bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	conf := d.data
	conf.Test = enable
	return d.setData(conf)
}

// TestMode reports whether test mode was last enabled.
func (d *Dev) TestMode() (bool, error) {
	if err := d.ready(); err != nil {
		return false, err
	}
	return d.data.Test, nil
}

// WriteSegment writes raw segment bytes starting at digit addr (0-5). Each
// byte lights the segments of one digit, bit 0 being segment A.
//
// On failure some digits may already have been written.
func (d *Dev) WriteSegment(addr uint8, data []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if int(addr)+len(data) > numDigits {
		return d.fail("addr + len > 6", fmt.Errorf("%w: address %d with %d bytes", ErrRange, addr, len(data)))
	}
	return d.writeSegment(addr, data)
}

// ClearSegment blanks all six digits.
func (d *Dev) ClearSegment() error {
	if err := d.ready(); err != nil {
		return err
	}
	var blank [numDigits]byte
	return d.writeSegment(0, blank[:])
}

func (d *Dev) writeSegment(addr uint8, data []byte) error {
	// The data command latches the addressing mode before any address command.
	if err := d.write(d.data.command()); err != nil {
		return d.fail("write failed", err)
	}

	if d.data.Mode == FixedAddress {
		for i, b := range data {
			if err := d.write(addressCommand(addr+uint8(i)), b); err != nil {
				return d.fail("write failed", err)
			}
		}
		return nil
	}

	if err := d.write(addressCommand(addr), data...); err != nil {
		return d.fail("write failed", err)
	}
	return nil
}

// ReadSegment reads the key scan register. seg is the 3-bit field of the
// lowest bits and k the 2-bit field above it.
func (d *Dev) ReadSegment() (seg, k uint8, err error) {
	if err = d.ready(); err != nil {
		return
	}
	var buf [1]byte
	if err = d.read(d.data.command()|dataRead, buf[:]); err != nil {
		return 0, 0, d.fail("read failed", err)
	}
	seg = buf[0] & 0x07
	k = (buf[0] >> 3) & 0x03
	return
}

// SetReg sends a raw command byte with optional data, bypassing the cached
// configuration.
func (d *Dev) SetReg(cmd byte, data ...byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.write(cmd, data...); err != nil {
		return d.fail("write failed", err)
	}
	return nil
}

// GetReg sends a raw command byte and reads len(p) bytes into p.
func (d *Dev) GetReg(cmd byte, p []byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.read(cmd, p); err != nil {
		return d.fail("read failed", err)
	}
	return nil
}
