package vertex

import "fmt"

type (
	// Command is the two-byte header opening every control request.
	// Replies repeat it with the first byte incremented.
	Command [2]byte

	// Channel designates a speed-controlled output.
	Channel uint8

	// LightChannel designates an addressable lighting zone.
	LightChannel uint8

	// AssetKind is the payload type byte of a display asset.
	AssetKind uint8
)

func (c Command) reply() []byte {
	return []byte{c[0] + 1, c[1]}
}

const (
	ChannelPump Channel = 0x01
	ChannelFan  Channel = 0x02
)

const (
	LightRing LightChannel = 0x01 // 8 LEDs around the block
	LightLogo LightChannel = 0x02 // single LED behind the cap logo
)

const (
	AssetAnimated AssetKind = 0x01 // GIF stream played by the firmware
	AssetStatic   AssetKind = 0x02 // single full frame
)

func (c Channel) String() string {
	switch c {
	case ChannelPump:
		return "pump"
	case ChannelFan:
		return "fan"
	}
	return fmt.Sprintf("channel(%#02x)", uint8(c))
}

// ParseChannel converts a configuration or command line name.
func ParseChannel(name string) (Channel, error) {
	switch name {
	case "pump":
		return ChannelPump, nil
	case "fan":
		return ChannelFan, nil
	}
	return 0, fmt.Errorf("unknown speed channel: %s", name)
}

func (c LightChannel) String() string {
	switch c {
	case LightRing:
		return "ring"
	case LightLogo:
		return "logo"
	}
	return fmt.Sprintf("light(%#02x)", uint8(c))
}

// ParseLightChannel converts a configuration or command line name.
func ParseLightChannel(name string) (LightChannel, error) {
	switch name {
	case "ring":
		return LightRing, nil
	case "logo":
		return LightLogo, nil
	}
	return 0, fmt.Errorf("unknown lighting channel: %s", name)
}

// LEDCount returns the number of addressable LEDs of a zone.
func LEDCount(c LightChannel) int {
	switch c {
	case LightRing:
		return 8
	case LightLogo:
		return 1
	}
	return 0
}

func (k AssetKind) String() string {
	switch k {
	case AssetAnimated:
		return "animated"
	case AssetStatic:
		return "static"
	}
	return fmt.Sprintf("kind(%#02x)", uint8(k))
}

// Asset is a display payload ready for upload. Data is sent as is, the
// firmware does the decoding.
type Asset struct {
	Kind AssetKind
	Data []byte
}

type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

type Version struct {
	Major uint8 `json:"major" cbor:"1,keyasint,omitempty,omitzero"`
	Minor uint8 `json:"minor" cbor:"2,keyasint,omitempty,omitzero"`
	Patch uint8 `json:"patch" cbor:"3,keyasint,omitempty,omitzero"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Status is a snapshot of the cooler sensors and duties.
type Status struct {
	Liquid   float64 `json:"liquid_celsius" cbor:"1,keyasint,omitempty,omitzero"`
	PumpRPM  uint16  `json:"pump_rpm" cbor:"2,keyasint,omitempty,omitzero"`
	PumpDuty uint8   `json:"pump_duty" cbor:"3,keyasint,omitempty,omitzero"`
	FanRPM   uint16  `json:"fan_rpm" cbor:"4,keyasint,omitempty,omitzero"`
	FanDuty  uint8   `json:"fan_duty" cbor:"5,keyasint,omitempty,omitzero"`
}

// SpeedPoint maps a liquid temperature to a duty percentage.
type SpeedPoint struct {
	Temp int `json:"temp" yaml:"temp"`
	Duty int `json:"duty" yaml:"duty"`
}
