package coolerd

import (
	"sync"

	"github.com/icetrail/coolerd/vertex"
	"github.com/mdouchement/logger"
)

// A DummyCooler should only be used for dev & tests.
type DummyCooler struct {
	sync   sync.Mutex
	duties map[vertex.Channel]int
	log    logger.Logger
}

func NewDummyCooler() *DummyCooler {
	return &DummyCooler{
		duties: map[vertex.Channel]int{
			vertex.ChannelPump: 60,
			vertex.ChannelFan:  40,
		},
	}
}

func (c *DummyCooler) SetLogger(l logger.Logger) {
	c.log = l
}

func (c *DummyCooler) Name() string {
	return "Icetrail Vertex (dummy)"
}

func (c *DummyCooler) Serial() string {
	return "x-testing"
}

func (c *DummyCooler) Close() error {
	return nil
}

func (c *DummyCooler) FirmwareVersion() (vertex.Version, error) {
	return vertex.Version{Major: 0, Minor: 0, Patch: 1}, nil
}

func (c *DummyCooler) Status() (*vertex.Status, error) {
	c.sync.Lock()
	defer c.sync.Unlock()

	pump := c.duties[vertex.ChannelPump]
	fan := c.duties[vertex.ChannelFan]

	return &vertex.Status{
		Liquid:   32.5,
		PumpRPM:  uint16(2800 * float32(pump) / 100),
		PumpDuty: uint8(pump),
		FanRPM:   uint16(1800 * float32(fan) / 100),
		FanDuty:  uint8(fan),
	}, nil
}

func (c *DummyCooler) SetFixedSpeed(channel vertex.Channel, duty int) error {
	if duty < 0 || duty > 100 {
		return vertex.ErrInvalidDuty
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	c.duties[channel] = duty
	return nil
}

func (c *DummyCooler) SetSpeedProfile(channel vertex.Channel, points []vertex.SpeedPoint) error {
	if _, err := vertex.SpeedTable(points); err != nil {
		return err
	}

	c.sync.Lock()
	defer c.sync.Unlock()

	c.duties[channel] = points[0].Duty
	return nil
}

func (c *DummyCooler) SetColor(channel vertex.LightChannel, colors []vertex.Color) error {
	if len(colors) != vertex.LEDCount(channel) {
		return vertex.ErrCommandRejected
	}
	return nil
}

func (c *DummyCooler) SetBrightness(percent int) error {
	if percent < 0 || percent > 100 {
		return vertex.ErrInvalidBrightness
	}
	return nil
}
