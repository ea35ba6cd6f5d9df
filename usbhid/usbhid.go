// Package usbhid drives the USB HID endpoints of Icetrail coolers.
// Commands travel on the control interface as 64-byte reports and
// display data on the bulk interface as 512-byte reports.
package usbhid

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/karalabe/hid"
	"github.com/mdouchement/logger"
)

var (
	ErrNotFound   = errors.New("device not found/plugged")
	ErrNoResponse = errors.New("no matching response from device")
	ErrOversized  = errors.New("payload larger than report length")
)

const (
	// ControlLength is the report size of the command interface.
	ControlLength = 64
	// BulkLength is the report size of the display data interface.
	BulkLength = 512

	// A device busy with unrelated traffic (sensor polls from another
	// process, stale frames) may interleave reports. Responses are
	// matched by header; unrelated frames are skipped up to this count.
	readAttempts = 12

	controlInterface = 0
	bulkInterface    = 1
)

type DeviceInfo struct {
	Path      string
	Serial    string
	Product   string
	VendorID  uint16
	ProductID uint16
}

// Enumerate lists the plugged devices matching vendor/product identifiers.
// A zero pid matches any product of the vendor.
func Enumerate(vid, pid uint16) []DeviceInfo {
	var devices []DeviceInfo
	for _, info := range hid.Enumerate(vid, pid) {
		if info.Interface != controlInterface {
			continue
		}

		devices = append(devices, DeviceInfo{
			Path:      info.Path,
			Serial:    info.Serial,
			Product:   info.Product,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
		})
	}

	return devices
}

type Device struct {
	sync    sync.Mutex
	info    DeviceInfo
	control *hid.Device
	bulk    *hid.Device
	log     logger.Logger
	wbuf    []byte
	rbuf    []byte
	bbuf    []byte
}

// Open claims both HID interfaces of the device described by info.
// Firmwares exposing a single interface get their control endpoint
// reused for bulk transfers.
func Open(info DeviceInfo) (*Device, error) {
	d := &Device{
		info: info,
		wbuf: make([]byte, ControlLength),
		rbuf: make([]byte, ControlLength),
		bbuf: make([]byte, BulkLength),
	}

	for _, candidate := range hid.Enumerate(info.VendorID, info.ProductID) {
		if info.Serial != "" && candidate.Serial != info.Serial {
			continue
		}

		var err error
		switch candidate.Interface {
		case controlInterface:
			if d.control != nil {
				continue
			}
			d.control, err = candidate.Open()
		case bulkInterface:
			if d.bulk != nil {
				continue
			}
			d.bulk, err = candidate.Open()
		default:
			continue
		}
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open interface %d: %w", candidate.Interface, err)
		}
	}

	if d.control == nil {
		d.Close()
		return nil, ErrNotFound
	}
	if d.bulk == nil {
		d.bulk = d.control
	}

	return d, nil
}

func (d *Device) SetLogger(l logger.Logger) {
	d.log = l
}

func (d *Device) Info() DeviceInfo {
	return d.info
}

// Request writes payload as a zero-padded control report and reads
// until a response starting with expect shows up. An empty expect
// returns the first report read.
func (d *Device) Request(expect, payload []byte) ([]byte, error) {
	if len(payload) > ControlLength {
		return nil, ErrOversized
	}

	d.sync.Lock()
	defer d.sync.Unlock()

	clear(d.wbuf)
	copy(d.wbuf, payload)

	n, err := d.control.Write(d.wbuf)
	if err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	if n != ControlLength && d.log != nil {
		d.log.Warnf("Invalid write: %d of %d", n, ControlLength)
	}

	for range readAttempts {
		n, err = d.control.Read(d.rbuf)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		if !bytes.HasPrefix(d.rbuf[:n], expect) {
			if d.log != nil {
				d.log.Debugf("Skipping unrelated report % x", d.rbuf[:min(n, 8)])
			}
			continue
		}

		response := make([]byte, n)
		copy(response, d.rbuf[:n])
		return response, nil
	}

	return nil, fmt.Errorf("% x: %w", expect, ErrNoResponse)
}

// BulkWrite sends p as a single zero-padded bulk report.
func (d *Device) BulkWrite(p []byte) error {
	if len(p) > BulkLength {
		return ErrOversized
	}

	d.sync.Lock()
	defer d.sync.Unlock()

	clear(d.bbuf)
	copy(d.bbuf, p)

	n, err := d.bulk.Write(d.bbuf)
	if err != nil {
		return fmt.Errorf("bulk write: %w", err)
	}
	if n != BulkLength && d.log != nil {
		d.log.Warnf("Invalid bulk write: %d of %d", n, BulkLength)
	}

	return nil
}

func (d *Device) Close() error {
	var errs []error

	if d.bulk != nil && d.bulk != d.control {
		errs = append(errs, d.bulk.Close())
	}
	if d.control != nil {
		errs = append(errs, d.control.Close())
	}
	d.control = nil
	d.bulk = nil

	return errors.Join(errs...)
}
