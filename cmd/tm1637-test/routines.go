package main

import (
	"context"
	"time"

	"github.com/BeatGlow/tm1637"
	"github.com/BeatGlow/tm1637/segment"
)

// Pauses between the steps of the routines, long enough to eyeball the display.
var (
	modePause  = 5 * time.Second
	stepPause  = 3 * time.Second
	readPause  = 3 * time.Second
	writeSteps = []tm1637.PulseWidth{
		tm1637.PulseWidth12of16,
		tm1637.PulseWidth10of16,
		tm1637.PulseWidth2of16,
	}
)

// runWrite exercises both address modes, steps the pulse width down and
// toggles the display. The device is initialized and closed here.
func runWrite(ctx context.Context, dev *tm1637.Dev) (err error) {
	log := dev.Log
	log.Info().Msg("start write test")

	if err = dev.Init(); err != nil {
		return err
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	log.Info().Msg("address auto increment mode")
	for _, step := range []func() error{
		func() error { return dev.SetPulseWidth(tm1637.PulseWidth14of16) },
		func() error { return dev.SetAddressMode(tm1637.AutoIncrement) },
		func() error { return dev.SetTestMode(false) },
		dev.ClearSegment,
		func() error { return dev.SetDisplay(true) },
		func() error { return dev.WriteSegment(0, segment.Digits[0:6]) },
	} {
		if err = step(); err != nil {
			return err
		}
	}
	if err = pause(ctx, dev, modePause); err != nil {
		return err
	}

	log.Info().Msg("address fix mode")
	if err = dev.SetAddressMode(tm1637.FixedAddress); err != nil {
		return err
	}
	if err = dev.WriteSegment(0, segment.Digits[1:7]); err != nil {
		return err
	}
	if err = pause(ctx, dev, modePause); err != nil {
		return err
	}

	for _, width := range writeSteps {
		log.Info().Stringer("width", width).Msg("set pulse width")
		if err = dev.SetPulseWidth(width); err != nil {
			return err
		}
		if err = pause(ctx, dev, stepPause); err != nil {
			return err
		}
	}

	log.Info().Msg("display off")
	if err = dev.SetDisplay(false); err != nil {
		return err
	}
	if err = pause(ctx, dev, stepPause); err != nil {
		return err
	}

	log.Info().Msg("display on")
	if err = dev.SetPulseWidth(tm1637.PulseWidth14of16); err != nil {
		return err
	}
	if err = dev.SetDisplay(true); err != nil {
		return err
	}
	if err = pause(ctx, dev, stepPause); err != nil {
		return err
	}

	log.Info().Msg("finish write test")
	return nil
}

// runRead polls the key scan times times.
func runRead(ctx context.Context, dev *tm1637.Dev, times int) (err error) {
	log := dev.Log
	log.Info().Msg("start read test")

	if err = dev.Init(); err != nil {
		return err
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for i := 0; i < times; i++ {
		if err = pause(ctx, dev, readPause); err != nil {
			return err
		}
		var seg, k uint8
		if seg, k, err = dev.ReadSegment(); err != nil {
			return err
		}
		log.Info().Uint8("seg", seg).Uint8("k", k).Msg("key scan")
	}

	log.Info().Msg("finish read test")
	return nil
}

func pause(ctx context.Context, dev *tm1637.Dev, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-dev.Clock.After(d):
		return nil
	}
}
