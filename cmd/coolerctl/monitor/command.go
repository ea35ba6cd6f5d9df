package monitor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icetrail/coolerd"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Start the TUI monitor display",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			socket, err := findSocket()
			if err != nil {
				return err
			}

			client := &http.Client{
				Transport: &http.Transport{
					DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
						var d net.Dialer
						return d.DialContext(ctx, "unix", socket)
					},
					DisableCompression: false,
				},
			}

			resp, err := client.Get("http://unix/monitor")
			if err != nil {
				return err
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 { // Should never happen
				b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
				return fmt.Errorf("sse bad status: %s body=%q", resp.Status, string(b))
			}
			defer resp.Body.Close()

			m := newTUI()
			tui := tea.NewProgram(m, tea.WithAltScreen())

			go func() {
				var event []byte

				for {
					event, err = coolerd.ReadSSE(resp.Body)
					if err != nil {
						tui.Quit()
						fmt.Println("ERR:", err)
						os.Exit(1)
					}
					if len(event) == 0 {
						continue
					}

					var sample coolerd.Sample
					err = json.Unmarshal(event, &sample)
					if err != nil {
						tui.Quit()
						fmt.Println("ERR:", err)
						os.Exit(1)
					}

					tui.Send(sample)
				}
			}()

			_, err = tui.Run()
			return err
		},
	}
}

//
//
//

type config struct {
	Socket string `yaml:"socket"`
}

func findSocket() (string, error) {
	socket := "/run/coolerd/coolerd.sock"
	if _, err := os.Stat(socket); err == nil {
		return socket, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", err
	}

	var cfg config
	cpath := filepath.Join(u.HomeDir, ".config", "coolerctl", "coolerctl.yml") // Does not follow XDG..
	if _, err := os.Stat(cpath); err == nil {
		p, err := os.ReadFile(cpath)
		if err != nil {
			return "", err
		}

		err = yaml.Unmarshal(p, &cfg)
		if err != nil {
			return "", err
		}

		if _, err = os.Stat(cfg.Socket); err == nil {
			return cfg.Socket, nil
		}

		fmt.Println("Invalid socket path:", cfg.Socket)
	}

	fmt.Print("Enter a socket path: ")
	r := bufio.NewReader(os.Stdin)
	socket, err = r.ReadString('\n')
	if err != nil {
		return "", err
	}

	socket = strings.TrimSpace(socket)

	if err = os.MkdirAll(filepath.Dir(cpath), 0o755); err != nil {
		return "", err
	}

	cfg.Socket = socket
	p, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	return socket, os.WriteFile(cpath, p, 0o600)
}
