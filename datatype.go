package coolerd

import (
	"time"

	"github.com/icetrail/coolerd/vertex"
	"github.com/mdouchement/logger"
)

// Cooler is the device surface the daemon drives. *vertex.Controller
// implements it, DummyCooler fakes it for development.
type Cooler interface {
	Name() string
	Serial() string
	FirmwareVersion() (vertex.Version, error)
	Status() (*vertex.Status, error)
	SetSpeedProfile(channel vertex.Channel, points []vertex.SpeedPoint) error
	SetColor(channel vertex.LightChannel, colors []vertex.Color) error
	SetBrightness(percent int) error
	SetLogger(l logger.Logger)
	Close() error
}

// Sample is one polled device reading, streamed to monitor watchers.
type Sample struct {
	At     time.Time     `json:"at" cbor:"1,keyasint,omitempty,omitzero"`
	Device string        `json:"device" cbor:"2,keyasint,omitempty,omitzero"`
	Status vertex.Status `json:"status" cbor:"3,keyasint,omitempty,omitzero"`
}

func ToPtr[T any](v T) *T {
	return &v
}

const (
	eventUpdateStatus    = "update-status"
	eventWatch           = "watch"
	eventRefreshWatchers = "refresh-watchers"
	eventUnwatch         = "unwatch"
)

type event struct {
	name      string
	sample    Sample
	monitorID int64
	monitor   chan<- []byte
}

func genID() int64 {
	time.Sleep(time.Nanosecond)
	return time.Now().UnixNano()
}
