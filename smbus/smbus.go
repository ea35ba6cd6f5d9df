// Package smbus drives I2C adapters through the Linux i2c-dev
// interface, restricted to the SMBus subset our devices speak.
package smbus

import (
	"fmt"
	"os"
)

type Adapter struct {
	Number int    `json:"number" cbor:"1,keyasint"`
	Name   string `json:"name" cbor:"2,keyasint,omitempty,omitzero"`
}

type Bus struct {
	file *os.File
	addr int // currently bound slave address, -1 when unbound
}

func Open(number int) (*Bus, error) {
	file, err := os.OpenFile(devicePath(number), os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open adapter %d: %w", number, err)
	}

	return &Bus{file: file, addr: -1}, nil
}

func (b *Bus) Close() error {
	return b.file.Close()
}

// ReadByte reads a one byte register of a slave.
func (b *Bus) ReadByte(addr, reg uint8) (uint8, error) {
	var data smbusData
	if err := b.transfer(addr, smbusRead, reg, smbusByteData, &data); err != nil {
		return 0, err
	}

	return data[0], nil
}

// WriteByte writes a one byte register of a slave.
func (b *Bus) WriteByte(addr, reg, value uint8) error {
	var data smbusData
	data[0] = value
	return b.transfer(addr, smbusWrite, reg, smbusByteData, &data)
}

// ReadWord reads a two byte register of a slave. SMBus words travel
// least significant byte first.
func (b *Bus) ReadWord(addr, reg uint8) (uint16, error) {
	var data smbusData
	if err := b.transfer(addr, smbusRead, reg, smbusWordData, &data); err != nil {
		return 0, err
	}

	return uint16(data[0]) | uint16(data[1])<<8, nil
}

// WriteWord writes a two byte register of a slave.
func (b *Bus) WriteWord(addr, reg uint8, value uint16) error {
	var data smbusData
	data[0], data[1] = byte(value), byte(value>>8)
	return b.transfer(addr, smbusWrite, reg, smbusWordData, &data)
}
