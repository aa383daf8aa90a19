package tm1637

import "fmt"

// Command classes, the top two bits of every command byte.
const (
	commandData    = 1 << 6 // data command setting
	commandDisplay = 2 << 6 // display and control command setting
	commandAddress = 3 << 6 // address command setting
)

const (
	dataRead        = 1 << 1
	dataFixedAddr   = 1 << 2
	dataTestMode    = 1 << 3
	displayEnable   = 1 << 3
	pulseWidthMask  = 0x07
	numDigits       = 6
	numPulseWidths  = 8
	numAddressModes = 2
)

// PulseWidth is the duty cycle used to drive the segments, which sets the
// display brightness.
type PulseWidth uint8

// Supported pulse widths.
const (
	PulseWidth1of16  PulseWidth = iota // 1/16
	PulseWidth2of16                    // 2/16
	PulseWidth4of16                    // 4/16
	PulseWidth10of16                   // 10/16
	PulseWidth11of16                   // 11/16
	PulseWidth12of16                   // 12/16
	PulseWidth13of16                   // 13/16
	PulseWidth14of16                   // 14/16
)

var pulseWidthSixteenths = [numPulseWidths]int{1, 2, 4, 10, 11, 12, 13, 14}

func (w PulseWidth) String() string {
	if w >= numPulseWidths {
		return fmt.Sprintf("PulseWidth(%d)", uint8(w))
	}
	return fmt.Sprintf("%d/16", pulseWidthSixteenths[w])
}

// AddressMode selects how the chip advances its display address on writes.
type AddressMode uint8

// Address modes.
const (
	AutoIncrement AddressMode = iota // address increments after every data byte
	FixedAddress                     // every data byte is preceded by its address
)

func (m AddressMode) String() string {
	switch m {
	case AutoIncrement:
		return "auto increment"
	case FixedAddress:
		return "fixed address"
	default:
		return fmt.Sprintf("AddressMode(%d)", uint8(m))
	}
}

// DisplayConfig is the state carried by the display control command.
type DisplayConfig struct {
	On         bool
	PulseWidth PulseWidth
}

func (c DisplayConfig) bits() byte {
	b := byte(c.PulseWidth) & pulseWidthMask
	if c.On {
		b |= displayEnable
	}
	return b
}

func (c DisplayConfig) command() byte {
	return commandDisplay | c.bits()
}

// DataConfig is the state carried by the data command.
type DataConfig struct {
	Mode AddressMode
	Test bool
}

func (c DataConfig) bits() byte {
	var b byte
	if c.Mode == FixedAddress {
		b |= dataFixedAddr
	}
	if c.Test {
		b |= dataTestMode
	}
	return b
}

func (c DataConfig) command() byte {
	return commandData | c.bits()
}

func addressCommand(addr uint8) byte {
	return commandAddress | addr
}
