package dimm

import "fmt"

const regTemperature = 0x05

// Temperature reads the on-module thermal sensor in degrees Celsius.
func (m *Module) Temperature() (float64, error) {
	word, err := m.bus.ReadWord(m.tempAddr(), regTemperature)
	if err != nil {
		return 0, fmt.Errorf("slot %d temperature: %w", m.slot, err)
	}

	if m.log != nil {
		m.log.Debugf("Slot %d temperature word %#04x", m.slot, word)
	}

	return DecodeTemperature(word), nil
}

// DecodeTemperature converts a raw sensor word to degrees Celsius.
// The sensor register is big-endian so an SMBus word read hands it
// back byte-swapped. Thirteen bits of two's complement at 1/16 degree
// per step, alarm flags in the top three bits.
func DecodeTemperature(word uint16) float64 {
	raw := int32(word>>8|word<<8) & 0x1fff
	if raw&0x1000 != 0 {
		raw -= 0x2000
	}

	return float64(raw) / 16
}
