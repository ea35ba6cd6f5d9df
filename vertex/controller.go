// Package vertex drives Icetrail Vertex liquid coolers: sensors, pump
// and fan speed tables, lighting and the LCD asset store.
package vertex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/icetrail/coolerd/usbhid"
	"github.com/mdouchement/logger"
)

var (
	ErrNotFound          = errors.New("device not found/plugged")
	ErrInvalidDuty       = errors.New("invalid duty value")
	ErrInvalidBrightness = errors.New("invalid brightness value")
	ErrCommandRejected   = errors.New("command rejected by firmware")
)

// Transport carries control requests and bulk display data to a
// device. usbhid.Device is the hardware implementation.
type Transport interface {
	// Request writes a control report and returns the first response
	// starting with expect.
	Request(expect, payload []byte) ([]byte, error)
	// BulkWrite sends one display data report.
	BulkWrite(p []byte) error
	Close() error
}

type Controller struct {
	sync   sync.Mutex
	t      Transport
	name   string
	serial string
	log    logger.Logger
	strict bool
}

// OpenAuto opens the first supported cooler found on the bus.
func OpenAuto() (*Controller, error) {
	for _, info := range usbhid.Enumerate(VendorID, 0) {
		name, ok := SupportedDevices[info.ProductID]
		if !ok {
			continue
		}

		fmt.Printf("Found %s on %s - PID: %04x - VID: %04x - SN: %s\n",
			name, info.Path, info.ProductID, info.VendorID, info.Serial)
		return open(info, name)
	}

	return nil, ErrNotFound
}

// Open opens the supported cooler carrying the given serial number.
func Open(serial string) (*Controller, error) {
	for _, info := range usbhid.Enumerate(VendorID, 0) {
		name, ok := SupportedDevices[info.ProductID]
		if !ok || info.Serial != serial {
			continue
		}

		return open(info, name)
	}

	return nil, ErrNotFound
}

func open(info usbhid.DeviceInfo, name string) (*Controller, error) {
	device, err := usbhid.Open(info)
	if err != nil {
		return nil, err
	}

	return &Controller{
		t:      device,
		name:   name,
		serial: info.Serial,
	}, nil
}

// NewController wraps an already open transport. Used with custom
// transports and in tests.
func NewController(t Transport) *Controller {
	return &Controller{t: t}
}

func (c *Controller) SetLogger(l logger.Logger) {
	c.log = l
	if d, ok := c.t.(*usbhid.Device); ok {
		d.SetLogger(l)
	}
}

// SetStrict makes rejected commands fail instead of being logged.
// Rejections of cosmetic commands are harmless on most firmwares, the
// default is to carry on.
func (c *Controller) SetStrict(strict bool) {
	c.strict = strict
}

func (c *Controller) Name() string {
	return c.name
}

func (c *Controller) Serial() string {
	return c.serial
}

func (c *Controller) Close() error {
	return c.t.Close()
}

// Status reads the sensor snapshot: liquid temperature, pump and fan
// speeds and their current duties.
func (c *Controller) Status() (*Status, error) {
	response, err := c.Run(CommandStatus)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if len(response) < replyHeaderLength+9 {
		return nil, fmt.Errorf("status: invalid response length %d", len(response))
	}

	return &Status{
		Liquid:   float64(response[15]) + float64(response[16])/10,
		PumpRPM:  binary.LittleEndian.Uint16(response[17:19]),
		PumpDuty: response[19],
		FanRPM:   binary.LittleEndian.Uint16(response[20:22]),
		FanDuty:  response[22],
	}, nil
}

// FirmwareVersion reads the firmware release running on the cooler.
func (c *Controller) FirmwareVersion() (Version, error) {
	response, err := c.Run(CommandFirmwareInfo)
	if err != nil {
		return Version{}, fmt.Errorf("firmware_info: %w", err)
	}
	if len(response) < replyHeaderLength+6 {
		return Version{}, fmt.Errorf("firmware_info: invalid response length %d", len(response))
	}

	return Version{
		Major: response[17],
		Minor: response[18],
		Patch: response[19],
	}, nil
}

// SetFixedSpeed pins a channel to a single duty whatever the liquid
// temperature.
func (c *Controller) SetFixedSpeed(channel Channel, duty int) error {
	if duty < 0 || duty > 100 {
		return ErrInvalidDuty
	}

	var table [SpeedTableLength]uint8
	for i := range table {
		table[i] = uint8(duty)
	}

	return c.sendSpeedTable(channel, table)
}

// SetSpeedProfile programs a temperature/duty profile on a channel.
// The firmware interpolates nothing, each duty holds until the next
// point temperature is reached.
func (c *Controller) SetSpeedProfile(channel Channel, points []SpeedPoint) error {
	table, err := SpeedTable(points)
	if err != nil {
		return fmt.Errorf("set_speed: %w", err)
	}

	return c.sendSpeedTable(channel, table)
}

func (c *Controller) sendSpeedTable(channel Channel, table [SpeedTableLength]uint8) error {
	payload := append([]byte{0x00, 0x00}, table[:]...)
	response, err := c.Run(commandSetSpeed(channel), payload...)
	if err != nil {
		return fmt.Errorf("set_speed: %w", err)
	}

	return c.checkAck("set_speed", response)
}

// SetColor paints a lighting zone. The number of colors must match the
// LED count of the zone.
func (c *Controller) SetColor(channel LightChannel, colors []Color) error {
	if len(colors) != LEDCount(channel) {
		return fmt.Errorf("set_color: %s zone wants %d colors, got %d", channel, LEDCount(channel), len(colors))
	}

	payload := []byte{byte(channel), 0x00, byte(len(colors))}
	for _, color := range colors {
		payload = append(payload, color.R, color.G, color.B)
	}

	response, err := c.Run(CommandSetColor, payload...)
	if err != nil {
		return fmt.Errorf("set_color: %w", err)
	}

	return c.checkAck("set_color", response)
}

// Run sends a raw command and returns the matching response report.
func (c *Controller) Run(command Command, payload ...byte) ([]byte, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	request := make([]byte, 0, 2+len(payload))
	request = append(request, command[:]...)
	request = append(request, payload...)

	response, err := c.t.Request(command.reply(), request)
	if err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debugf("% x -> % x", request, response[:min(len(response), 24)])
	}

	return response, nil
}

func (c *Controller) bulkWrite(p []byte) error {
	c.sync.Lock()
	defer c.sync.Unlock()

	return c.t.BulkWrite(p)
}

// checkAck enforces the firmware status byte of simple commands. When
// not strict a rejection is only logged.
func (c *Controller) checkAck(op string, response []byte) error {
	if acked(response) {
		return nil
	}
	if c.strict {
		return fmt.Errorf("%s: %w", op, ErrCommandRejected)
	}
	if c.log != nil {
		c.log.Warnf("%s: command rejected by firmware", op)
	}

	return nil
}

func acked(response []byte) bool {
	return len(response) > replyHeaderLength && response[replyHeaderLength] == ackOK
}
