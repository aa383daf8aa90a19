package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/tm1637"
	"github.com/BeatGlow/tm1637/conn"
)

func main() {
	configFlag := flag.String("config", "", "TOML configuration file")
	textFlag := flag.String("text", "123456", "Text to show")
	blinkFlag := flag.Int("blink", 3, "Number of times to blink the display")
	periodFlag := flag.Duration("period", 500*time.Millisecond, "Blink period")
	infoFlag := flag.Bool("info", false, "Print chip information and exit")
	testFlag := flag.String("test", "", "Run a test routine instead of the demo (write, read)")
	timesFlag := flag.Int("times", 3, "Number of key scans for the read test")
	flag.Parse()

	switch *testFlag {
	case "", "write", "read":
	default:
		fatal(fmt.Errorf("unknown test %q", *testFlag))
	}

	if *infoFlag {
		info := tm1637.GetInfo()
		fmt.Printf("chip name:       %s\n", info.ChipName)
		fmt.Printf("manufacturer:    %s\n", info.ManufacturerName)
		fmt.Printf("interface:       %s\n", info.Interface)
		fmt.Printf("supply voltage:  %.1fV - %.1fV\n", info.SupplyVoltageMin, info.SupplyVoltageMax)
		fmt.Printf("max current:     %.1fmA\n", info.MaxCurrent)
		fmt.Printf("temperature:     %.1fC - %.1fC\n", info.TemperatureMin, info.TemperatureMax)
		fmt.Printf("driver version:  %d.%d\n", info.DriverVersion/1000, info.DriverVersion%1000/100)
		return
	}

	config, err := loadConfig(afero.NewOsFs(), *configFlag)
	if err != nil {
		fatal(err)
	}
	if flag.NArg() > 0 {
		config.Bus = flag.Arg(0)
		if err = config.validate(); err != nil {
			fatal(err)
		}
	}

	log := newLogger(&config)

	var bus tm1637.Bus
	switch config.Bus {
	case "serial":
		bus = conn.NewSerial(config.serialConfig())
	case "spi":
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		spiConfig := &conn.SPIConfig{
			Port:  config.SPI.Port,
			Speed: physic.Frequency(config.SPI.SpeedHz) * physic.Hertz,
		}
		if config.SPI.Power != "" {
			if spiConfig.Power = gpioreg.ByName(config.SPI.Power); spiConfig.Power == nil {
				fatal(fmt.Errorf("GPIO pin %s not found", config.SPI.Power))
			}
		}
		bus = conn.NewSPI(spiConfig)
	}
	log.Info().Msgf("using connection: %s", bus)

	dev := &tm1637.Dev{
		Bus:   bus,
		Clock: clockwork.NewRealClock(),
		Log:   &log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *testFlag {
	case "write":
		if err = runWrite(ctx, dev); err != nil {
			log.Error().Err(err).Msg("write test failed")
		}
		return
	case "read":
		if err = runRead(ctx, dev, *timesFlag); err != nil {
			log.Error().Err(err).Msg("read test failed")
		}
		return
	}

	output, err := tm1637.Open(dev, config.opts())
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := output.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()
	log.Info().Msgf("using driver: %s", output)

	if err = output.Print(*textFlag); err != nil {
		log.Error().Err(err).Msg("print failed")
		return
	}

	seg, k, err := output.Read()
	if err != nil {
		log.Error().Err(err).Msg("read failed")
		return
	}
	log.Info().Uint8("seg", seg).Uint8("k", k).Msg("key scan")

	if err = output.Blink(ctx, *blinkFlag, *periodFlag); err != nil {
		log.Error().Err(err).Msg("blink failed")
	}
}

func newLogger(config *Config) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}}
	if config.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    1,
			MaxBackups: 2,
		})
	}

	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp().Logger()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
