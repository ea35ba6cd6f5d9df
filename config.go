package coolerd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/icetrail/coolerd/vertex"
	"go.yaml.in/yaml/v4"
)

type Config struct {
	Debug      bool                           `yaml:"debug"`
	Socket     string                         `yaml:"socket"`
	Polling    Duration                       `yaml:"polling"`
	Device     Device                         `yaml:"device"`
	Brightness *int                           `yaml:"brightness"`
	Colors     map[string]vertex.Color        `yaml:"colors"`
	Profiles   map[string][]vertex.SpeedPoint `yaml:"profiles"`
}

type Device struct {
	Serial     string `yaml:"serial"`
	StrictAcks bool   `yaml:"strict_acks"`
}

func Load(path string) (Config, error) {
	var c Config

	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	codec := yaml.NewDecoder(f)
	err = codec.Decode(&c)
	if err != nil {
		return c, err
	}

	//

	if c.Socket == "" {
		return c, errors.New("no socket path provided")
	}

	if c.Polling.Duration == 0 {
		c.Polling.Duration = 2 * time.Second
	}
	if c.Polling.Duration < 100*time.Millisecond {
		return c, fmt.Errorf("polling: %s is too fast", c.Polling)
	}

	if c.Brightness != nil && (*c.Brightness < 0 || *c.Brightness > 100) {
		return c, fmt.Errorf("brightness: %d%% out of range", *c.Brightness)
	}

	for name := range c.Colors {
		if _, err := vertex.ParseLightChannel(name); err != nil {
			return c, fmt.Errorf("colors: %w", err)
		}
	}

	for name, points := range c.Profiles {
		if _, err := vertex.ParseChannel(name); err != nil {
			return c, fmt.Errorf("profiles: %w", err)
		}
		if len(points) == 0 {
			return c, fmt.Errorf("profiles: %s: no points provided", name)
		}
		if _, err := vertex.SpeedTable(points); err != nil {
			return c, fmt.Errorf("profiles: %s: %w", name, err)
		}

		var prev int
		for _, point := range points {
			if point.Duty < prev {
				return c, fmt.Errorf("profiles: %s: duty %d%% lower than the previous point", name, point.Duty)
			}
			prev = point.Duty
		}
	}

	return c, nil
}
