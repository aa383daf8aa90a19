package main

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/tm1637"
	"github.com/BeatGlow/tm1637/conn"
)

// Config is the test harness configuration file.
type Config struct {
	Bus     string        `toml:"bus" validate:"oneof=serial spi"`
	Serial  SerialConfig  `toml:"serial"`
	SPI     SPIConfig     `toml:"spi"`
	Display DisplayConfig `toml:"display"`
	LogFile string        `toml:"log_file,omitempty"`
	Debug   bool          `toml:"debug"`
}

type SerialConfig struct {
	Port      string `toml:"port" validate:"required"`
	BaudRate  int    `toml:"baud_rate" validate:"gte=1200"`
	TimeoutMS int    `toml:"timeout_ms" validate:"gt=0"`
}

type SPIConfig struct {
	Port    string `toml:"port"`
	SpeedHz int64  `toml:"speed_hz" validate:"gt=0,lte=500000"`
	Power   string `toml:"power,omitempty"`
}

type DisplayConfig struct {
	PulseWidth  uint8  `toml:"pulse_width" validate:"lte=7"`
	AddressMode string `toml:"address_mode" validate:"oneof=auto fixed"`
}

var defaultConfig = Config{
	Bus: "serial",
	Serial: SerialConfig{
		Port:      conn.DefaultSerialConfig.Port,
		BaudRate:  conn.DefaultSerialConfig.BaudRate,
		TimeoutMS: int(conn.DefaultSerialConfig.Timeout / time.Millisecond),
	},
	SPI: SPIConfig{
		SpeedHz: int64(conn.DefaultSPIConfig.Speed / physic.Hertz),
	},
	Display: DisplayConfig{
		PulseWidth:  uint8(tm1637.DefaultOpts.PulseWidth),
		AddressMode: "auto",
	},
}

// loadConfig reads path on top of the defaults. An empty path returns the
// defaults.
func loadConfig(fs afero.Fs, path string) (Config, error) {
	config := defaultConfig
	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return config, fmt.Errorf("failed to read config file: %w", err)
		}
		if err = toml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	return config, config.validate()
}

func (c *Config) validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) opts() *tm1637.Opts {
	mode := tm1637.AutoIncrement
	if c.Display.AddressMode == "fixed" {
		mode = tm1637.FixedAddress
	}
	return &tm1637.Opts{
		AddressMode: mode,
		PulseWidth:  tm1637.PulseWidth(c.Display.PulseWidth),
	}
}

func (c *Config) serialConfig() *conn.SerialConfig {
	return &conn.SerialConfig{
		Port:     c.Serial.Port,
		BaudRate: c.Serial.BaudRate,
		Timeout:  time.Duration(c.Serial.TimeoutMS) * time.Millisecond,
	}
}
