package smbus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unsafe"

	"github.com/icetrail/coolerd/smbus/environment"
	"golang.org/x/sys/unix"
)

// Values lifted from the kernel's i2c-dev userspace interface.
// https://www.kernel.org/doc/Documentation/i2c/dev-interface
const (
	ioctlSlave = 0x0703
	ioctlSMBus = 0x0720

	smbusWrite = 0
	smbusRead  = 1

	smbusByte     = 1
	smbusByteData = 2
	smbusWordData = 3

	smbusBlockMax = 32
)

// smbusData mirrors union i2c_smbus_data, sized for a block transfer
// plus length and PEC bytes.
type smbusData [smbusBlockMax + 2]byte

// smbusIoctlData mirrors struct i2c_smbus_ioctl_data.
type smbusIoctlData struct {
	readWrite uint8
	command   uint8
	_         [2]byte
	size      uint32
	data      unsafe.Pointer
}

func devicePath(number int) string {
	return environment.GetEnvPath(environment.KeyHostDev, "/dev", fmt.Sprintf("i2c-%d", number))
}

// Enumerate lists the I2C adapters registered with the kernel.
func Enumerate() ([]Adapter, error) {
	pattern := environment.GetEnvPath(environment.KeyHostSys, "/sys", "class", "i2c-adapter", "i2c-*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("enumerate adapters: %w", err)
	}

	adapters := make([]Adapter, 0, len(matches))
	for _, match := range matches {
		number, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(match), "i2c-"))
		if err != nil {
			continue
		}

		adapter := Adapter{Number: number}
		if name, err := os.ReadFile(filepath.Join(match, "name")); err == nil {
			adapter.Name = strings.TrimSpace(string(name))
		}
		adapters = append(adapters, adapter)
	}
	sort.Slice(adapters, func(i, j int) bool { return adapters[i].Number < adapters[j].Number })

	return adapters, nil
}

// Probe checks whether a slave answers at the given address.
func (b *Bus) Probe(addr uint8) bool {
	var data smbusData
	return b.transfer(addr, smbusRead, 0, smbusByte, &data) == nil
}

// bind points the adapter at a slave address. The kernel remembers the
// binding per file descriptor so rebinding to the same slave is skipped.
func (b *Bus) bind(addr uint8) error {
	if b.addr == int(addr) {
		return nil
	}

	if err := b.ioctl(ioctlSlave, uintptr(addr)); err != nil {
		return fmt.Errorf("bind slave 0x%02x: %w", addr, err)
	}
	b.addr = int(addr)

	return nil
}

func (b *Bus) transfer(addr, readWrite, reg uint8, size uint32, data *smbusData) error {
	if err := b.bind(addr); err != nil {
		return err
	}

	req := smbusIoctlData{
		readWrite: readWrite,
		command:   reg,
		size:      size,
		data:      unsafe.Pointer(data),
	}
	if err := b.ioctl(ioctlSMBus, uintptr(unsafe.Pointer(&req))); err != nil {
		return fmt.Errorf("smbus transfer 0x%02x/0x%02x: %w", addr, reg, err)
	}

	return nil
}

func (b *Bus) ioctl(cmd, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.file.Fd(), cmd, arg)
	if errno != 0 {
		return errno
	}

	return nil
}
