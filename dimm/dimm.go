// Package dimm drives Icetrail Lumera RGB memory modules. Each module
// answers on two SMBus addresses derived from its slot: a JEDEC
// thermal sensor and a lighting controller.
package dimm

import (
	"errors"
	"fmt"

	"github.com/mdouchement/logger"
)

const (
	// SlotCount is the number of DIMM slots a board can expose.
	SlotCount = 8

	tempBase = 0x18 // thermal sensor, one address per slot
	ledBase  = 0x60 // lighting controller, one address per slot
)

var ErrNotPresent = errors.New("no module in slot")

// Bus is the SMBus access the driver needs. *smbus.Bus satisfies it.
type Bus interface {
	ReadWord(addr, reg uint8) (uint16, error)
	WriteByte(addr, reg, value uint8) error
}

// Module is a Lumera bar seated in one slot.
type Module struct {
	bus  Bus
	slot int
	log  logger.Logger
}

// At opens the module in the given slot. The thermal sensor doubles as
// the presence probe, a slot whose sensor stays silent is empty.
func At(bus Bus, slot int) (*Module, error) {
	if slot < 0 || slot >= SlotCount {
		return nil, fmt.Errorf("slot %d out of range", slot)
	}

	m := &Module{bus: bus, slot: slot}
	if _, err := m.bus.ReadWord(m.tempAddr(), regTemperature); err != nil {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrNotPresent)
	}

	return m, nil
}

// Scan probes every slot and returns the modules that answered.
func Scan(bus Bus) []*Module {
	modules := make([]*Module, 0, SlotCount)
	for slot := 0; slot < SlotCount; slot++ {
		m, err := At(bus, slot)
		if err != nil {
			continue
		}

		fmt.Printf("Found Lumera module in slot %d\n", slot)
		modules = append(modules, m)
	}

	return modules
}

func (m *Module) SetLogger(l logger.Logger) {
	m.log = l
}

// Slot returns the slot the module is seated in.
func (m *Module) Slot() int {
	return m.slot
}

func (m *Module) tempAddr() uint8 {
	return tempBase + uint8(m.slot)
}

func (m *Module) ledAddr() uint8 {
	return ledBase + uint8(m.slot)
}
