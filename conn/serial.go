package conn

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Serial bridge opcodes. A request is the opcode, the command byte and a
// length, followed by the data bytes for a write. The bridge answers with a
// status byte (0 is acknowledged) followed by the data bytes for a read.
const (
	serialWrite = 'W'
	serialRead  = 'R'
	serialAck   = 0x00
)

// Serial errors.
var (
	ErrSerialTimeout = errors.New("conn: serial bridge timed out")
	ErrSerialNack    = errors.New("conn: serial bridge did not acknowledge")
)

// SerialPort is the subset of serial.Port used by the bridge.
type SerialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

// SerialConfig describes the serial line to a bus bridge, typically a small
// microcontroller bit-banging the chip's CLK and DIO lines.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyUSB0.
	Port string

	// BaudRate of the line.
	BaudRate int

	// Timeout waiting for the bridge to answer.
	Timeout time.Duration
}

// DefaultSerialConfig are the default configuration values.
var DefaultSerialConfig = SerialConfig{
	Port:     "/dev/ttyUSB0",
	BaudRate: 115200,
	Timeout:  500 * time.Millisecond,
}

// Serial is a bus behind a USB-serial bridge.
type Serial struct {
	config SerialConfig
	open   func(string, *serial.Mode) (SerialPort, error)
	port   SerialPort
}

func openSerialPort(name string, mode *serial.Mode) (SerialPort, error) {
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("conn: failed to open serial port: %w", err)
	}
	return port, nil
}

// NewSerial returns a closed serial bus; tm1637.Dev.Init opens it.
func NewSerial(config *SerialConfig) *Serial {
	if config == nil {
		config = new(SerialConfig)
		*config = DefaultSerialConfig
	}
	if config.BaudRate == 0 {
		config.BaudRate = DefaultSerialConfig.BaudRate
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultSerialConfig.Timeout
	}
	return &Serial{
		config: *config,
		open:   openSerialPort,
	}
}

func (s *Serial) String() string {
	return fmt.Sprintf("serial bridge %s at %d baud", s.config.Port, s.config.BaudRate)
}

func (s *Serial) Open() error {
	port, err := s.open(s.config.Port, &serial.Mode{
		BaudRate: s.config.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return err
	}
	if err = port.SetReadTimeout(s.config.Timeout); err != nil {
		_ = port.Close()
		return err
	}
	s.port = port
	return nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return ErrNotOpen
	}
	err := s.port.Close()
	s.port = nil
	return err
}

func (s *Serial) Command(cmnd byte, data ...byte) error {
	if s.port == nil {
		return ErrNotOpen
	}
	if len(data) > 0xff {
		return fmt.Errorf("conn: %d bytes exceed a bridge frame", len(data))
	}
	frame := append([]byte{serialWrite, cmnd, byte(len(data))}, data...)
	if _, err := s.port.Write(frame); err != nil {
		return err
	}
	return s.status()
}

func (s *Serial) Read(cmnd byte, b []byte) error {
	if s.port == nil {
		return ErrNotOpen
	}
	if len(b) > 0xff {
		return fmt.Errorf("conn: %d bytes exceed a bridge frame", len(b))
	}
	if _, err := s.port.Write([]byte{serialRead, cmnd, byte(len(b))}); err != nil {
		return err
	}
	if err := s.status(); err != nil {
		return err
	}
	return s.readFull(b)
}

func (s *Serial) status() error {
	var status [1]byte
	if err := s.readFull(status[:]); err != nil {
		return err
	}
	if status[0] != serialAck {
		return fmt.Errorf("%w: status %#02x", ErrSerialNack, status[0])
	}
	return nil
}

// readFull is io.ReadFull for ports that report a read timeout as zero bytes
// without an error.
func (s *Serial) readFull(b []byte) error {
	for off := 0; off < len(b); {
		n, err := s.port.Read(b[off:])
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrSerialTimeout
		}
		off += n
	}
	return nil
}
