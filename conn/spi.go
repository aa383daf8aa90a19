package conn

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// SPIConfig describes the SPI port the chip hangs off.
type SPIConfig struct {
	// Port name as registered in spireg, empty for the first available port.
	Port string

	// Speed of the clock.
	Speed physic.Frequency

	// Power pin, driven high while the bus is open (optional).
	Power gpio.PinOut
}

// DefaultSPIConfig are the default configuration values. The TM1637 tops out
// at 500kHz.
var DefaultSPIConfig = SPIConfig{
	Speed: 250 * physic.KiloHertz,
}

// SPI is a bus on a periph.io SPI port.
//
// The TM1637 is not an SPI device: it needs start and stop conditions and
// pulls DIO low on the ninth clock to acknowledge each byte. A bare SPI port
// generates none of these, so the port has to sit behind a bridge that frames
// each transfer (a small MCU or CPLD, with level shifting on a 3.3V host).
// MOSI drives DIO through the bridge, SCLK drives CLK.
type SPI struct {
	config SPIConfig
	open   func(string) (spi.PortCloser, error)
	port   spi.PortCloser
	bus    *Periph
}

// NewSPI returns a closed SPI bus; tm1637.Dev.Init opens it.
func NewSPI(config *SPIConfig) *SPI {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}
	if config.Speed == 0 {
		config.Speed = DefaultSPIConfig.Speed
	}
	if config.Power == gpio.INVALID {
		config.Power = nil
	}
	return &SPI{
		config: *config,
		open:   spireg.Open,
	}
}

func (s *SPI) String() string {
	name := s.config.Port
	if name == "" {
		name = "default"
	}
	return fmt.Sprintf("SPI port %s at %s", name, s.config.Speed)
}

func (s *SPI) Open() error {
	if s.config.Power != nil {
		if err := s.config.Power.Out(gpio.High); err != nil {
			return fmt.Errorf("conn: power on: %w", err)
		}
	}

	port, err := s.open(s.config.Port)
	if err != nil {
		return errors.Join(err, s.powerOff())
	}
	c, err := port.Connect(s.config.Speed, spi.Mode0, 8)
	if err != nil {
		return errors.Join(err, port.Close(), s.powerOff())
	}

	s.port = port
	s.bus = NewPeriph(c)
	return nil
}

func (s *SPI) Close() error {
	if s.port == nil {
		return ErrNotOpen
	}
	err := s.port.Close()
	s.port, s.bus = nil, nil
	return errors.Join(err, s.powerOff())
}

func (s *SPI) powerOff() error {
	if s.config.Power == nil {
		return nil
	}
	if err := s.config.Power.Out(gpio.Low); err != nil {
		return fmt.Errorf("conn: power off: %w", err)
	}
	return nil
}

func (s *SPI) Command(cmnd byte, data ...byte) error {
	if s.bus == nil {
		return ErrNotOpen
	}
	return s.bus.Command(cmnd, data...)
}

func (s *SPI) Read(cmnd byte, b []byte) error {
	if s.bus == nil {
		return ErrNotOpen
	}
	return s.bus.Read(cmnd, b)
}
