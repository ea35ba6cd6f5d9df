package coolerd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/icetrail/coolerd/vertex"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coolerd.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
debug: true
socket: /run/coolerd/coolerd.sock
polling: 500ms
device:
  serial: AB12CD34
  strict_acks: true
brightness: 80
colors:
  ring: {r: 0, g: 175, b: 255}
  logo: {r: 255, g: 255, b: 255}
profiles:
  pump:
    - {temp: 20, duty: 60}
    - {temp: 35, duty: 100}
  fan:
    - {temp: 20, duty: 25}
    - {temp: 32, duty: 60}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug not decoded")
	}
	if cfg.Socket != "/run/coolerd/coolerd.sock" {
		t.Errorf("Socket = %s", cfg.Socket)
	}
	if cfg.Polling.Duration != 500*time.Millisecond {
		t.Errorf("Polling = %s, want 500ms", cfg.Polling)
	}
	if cfg.Device.Serial != "AB12CD34" || !cfg.Device.StrictAcks {
		t.Errorf("Device = %+v", cfg.Device)
	}
	if cfg.Brightness == nil || *cfg.Brightness != 80 {
		t.Errorf("Brightness = %v, want 80", cfg.Brightness)
	}
	if cfg.Colors["ring"] != (vertex.Color{R: 0, G: 175, B: 255}) {
		t.Errorf("ring color = %+v", cfg.Colors["ring"])
	}
	if got := cfg.Profiles["pump"][1]; got != (vertex.SpeedPoint{Temp: 35, Duty: 100}) {
		t.Errorf("pump point = %+v", got)
	}
}

func TestLoad_PollingDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "socket: /tmp/coolerd.sock\n"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Polling.Duration != 2*time.Second {
		t.Errorf("Polling = %s, want the 2s default", cfg.Polling)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing socket",
			content: "debug: true\n",
			wantErr: "no socket path",
		},
		{
			name:    "polling too fast",
			content: "socket: /tmp/s.sock\npolling: 10ms\n",
			wantErr: "too fast",
		},
		{
			name:    "brightness out of range",
			content: "socket: /tmp/s.sock\nbrightness: 150\n",
			wantErr: "out of range",
		},
		{
			name:    "unknown lighting zone",
			content: "socket: /tmp/s.sock\ncolors:\n  strip: {r: 1, g: 2, b: 3}\n",
			wantErr: "unknown lighting channel",
		},
		{
			name:    "unknown speed channel",
			content: "socket: /tmp/s.sock\nprofiles:\n  aux:\n    - {temp: 20, duty: 10}\n",
			wantErr: "unknown speed channel",
		},
		{
			name:    "profile without points",
			content: "socket: /tmp/s.sock\nprofiles:\n  pump: []\n",
			wantErr: "no points provided",
		},
		{
			name:    "temperature out of range",
			content: "socket: /tmp/s.sock\nprofiles:\n  pump:\n    - {temp: 10, duty: 10}\n",
			wantErr: "out of table range",
		},
		{
			name:    "temperatures not increasing",
			content: "socket: /tmp/s.sock\nprofiles:\n  pump:\n    - {temp: 25, duty: 10}\n    - {temp: 25, duty: 20}\n",
			wantErr: "must increase",
		},
		{
			name:    "duty above 100",
			content: "socket: /tmp/s.sock\nprofiles:\n  pump:\n    - {temp: 25, duty: 150}\n",
			wantErr: "invalid duty",
		},
		{
			name:    "duty not monotonic",
			content: "socket: /tmp/s.sock\nprofiles:\n  fan:\n    - {temp: 20, duty: 50}\n    - {temp: 30, duty: 40}\n",
			wantErr: "lower than the previous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
