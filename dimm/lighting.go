package dimm

import "fmt"

const (
	// LEDCount is the number of addressable LEDs on a bar.
	LEDCount = 8

	regLEDBase  = 0xb0 // three registers per LED: red, green, blue
	regLEDApply = 0xa0 // write 0x01 to latch the staged colors
)

// Color is an RGB triplet for one LED.
type Color struct {
	R, G, B uint8
}

// SetColor paints the whole bar a single color.
func (m *Module) SetColor(c Color) error {
	colors := make([]Color, LEDCount)
	for i := range colors {
		colors[i] = c
	}

	return m.SetColors(colors)
}

// SetColors stages one color per LED and latches them in one go. The
// bar keeps displaying its previous colors until the latch.
func (m *Module) SetColors(colors []Color) error {
	if len(colors) != LEDCount {
		return fmt.Errorf("need %d colors, got %d", LEDCount, len(colors))
	}

	addr := m.ledAddr()
	for i, c := range colors {
		reg := uint8(regLEDBase + 3*i)
		if err := m.bus.WriteByte(addr, reg, c.R); err != nil {
			return fmt.Errorf("slot %d led %d: %w", m.slot, i, err)
		}
		if err := m.bus.WriteByte(addr, reg+1, c.G); err != nil {
			return fmt.Errorf("slot %d led %d: %w", m.slot, i, err)
		}
		if err := m.bus.WriteByte(addr, reg+2, c.B); err != nil {
			return fmt.Errorf("slot %d led %d: %w", m.slot, i, err)
		}
	}

	if err := m.bus.WriteByte(addr, regLEDApply, 0x01); err != nil {
		return fmt.Errorf("slot %d latch: %w", m.slot, err)
	}

	if m.log != nil {
		m.log.Debugf("Latched %d LED colors on slot %d", LEDCount, m.slot)
	}

	return nil
}
