// Package conn contains tm1637.Bus implementations.
package conn

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
)

// ErrNotOpen is returned when a bus is used before Open.
var ErrNotOpen = errors.New("conn: bus is not open")

// Periph adapts an open periph.io connection whose transactions are framed
// by the underlying driver.
type Periph struct {
	c conn.Conn
}

// NewPeriph wraps c. Open and Close are no-ops, the owner of c manages its
// lifetime.
func NewPeriph(c conn.Conn) *Periph {
	return &Periph{c: c}
}

func (p *Periph) String() string {
	return fmt.Sprintf("periph %s", p.c)
}

func (p *Periph) Open() error {
	return nil
}

func (p *Periph) Close() error {
	return nil
}

func (p *Periph) Command(cmnd byte, data ...byte) error {
	return p.c.Tx(append([]byte{cmnd}, data...), nil)
}

func (p *Periph) Read(cmnd byte, b []byte) error {
	if p.c.Duplex() != conn.Full {
		return p.c.Tx([]byte{cmnd}, b)
	}

	// Full duplex transfers clock in while the command clocks out.
	w := make([]byte, len(b)+1)
	r := make([]byte, len(w))
	w[0] = cmnd
	if err := p.c.Tx(w, r); err != nil {
		return err
	}
	copy(b, r[1:])
	return nil
}
