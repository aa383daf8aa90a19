package tm1637

import (
	"context"
	"fmt"
	"time"

	"github.com/BeatGlow/tm1637/segment"
)

// Opts are the settings applied by Open.
type Opts struct {
	// AddressMode used for segment writes.
	AddressMode AddressMode

	// PulseWidth (brightness) of the display.
	PulseWidth PulseWidth
}

// DefaultOpts are used when Open is called without options.
var DefaultOpts = Opts{
	AddressMode: AutoIncrement,
	PulseWidth:  PulseWidth10of16,
}

// Display is a TM1637 set up for showing digits.
type Display struct {
	dev *Dev
}

// Open initializes dev and brings the display up blank and switched on. If
// any step fails, the device is closed again.
func Open(dev *Dev, opts *Opts) (*Display, error) {
	if opts == nil {
		opts = new(Opts)
		*opts = DefaultOpts
	}

	if err := dev.Init(); err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return dev.SetAddressMode(opts.AddressMode) },
		func() error { return dev.SetTestMode(false) },
		func() error { return dev.SetPulseWidth(opts.PulseWidth) },
		dev.ClearSegment,
		func() error { return dev.SetDisplay(true) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if cerr := dev.Close(); cerr != nil {
				dev.Log.Error().Err(cerr).Msg("tm1637: close after failed open")
			}
			return nil, err
		}
	}

	return &Display{dev: dev}, nil
}

func (d *Display) String() string {
	return d.dev.String()
}

// Dev returns the underlying device.
func (d *Display) Dev() *Dev {
	return d.dev
}

// Close turns the display off and releases the bus.
func (d *Display) Close() error {
	return d.dev.Close()
}

// Write writes raw segment bytes starting at digit addr.
func (d *Display) Write(addr uint8, data ...byte) error {
	return d.dev.WriteSegment(addr, data)
}

// Clear blanks all digits.
func (d *Display) Clear() error {
	return d.dev.ClearSegment()
}

// Show toggles the display on or off.
func (d *Display) Show(on bool) error {
	return d.dev.SetDisplay(on)
}

// SetBrightness adjusts the pulse width.
func (d *Display) SetBrightness(width PulseWidth) error {
	return d.dev.SetPulseWidth(width)
}

// Read returns the key scan fields.
func (d *Display) Read() (seg, k uint8, err error) {
	return d.dev.ReadSegment()
}

// Print shows s left aligned, blanking the digits it doesn't cover. See
// segment.Encode for how s is translated.
func (d *Display) Print(s string) error {
	glyphs := segment.Encode(s)
	if len(glyphs) > numDigits {
		return d.dev.fail("text too long", fmt.Errorf("%w: %q needs %d digits", ErrRange, s, len(glyphs)))
	}
	var buf [numDigits]byte
	copy(buf[:], glyphs)
	return d.dev.WriteSegment(0, buf[:])
}

// PrintInt shows v right aligned.
func (d *Display) PrintInt(v int) error {
	return d.Print(fmt.Sprintf("%*d", numDigits, v))
}

// Blink switches the display off and on again times times, holding each
// state for period.
func (d *Display) Blink(ctx context.Context, times int, period time.Duration) error {
	for i := 0; i < times; i++ {
		if err := d.Show(false); err != nil {
			return err
		}
		if err := d.sleep(ctx, period); err != nil {
			return err
		}
		if err := d.Show(true); err != nil {
			return err
		}
		if err := d.sleep(ctx, period); err != nil {
			return err
		}
	}
	return nil
}

func (d *Display) sleep(ctx context.Context, period time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.dev.Clock.After(period):
		return nil
	}
}
