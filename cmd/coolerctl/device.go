package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/icetrail/coolerd/usbhid"
	"github.com/icetrail/coolerd/vertex"
	"github.com/spf13/cobra"
)

func listCommand() *cobra.Command {
	var asCBOR bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the supported coolers plugged to this host",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			type record struct {
				Name   string `json:"name" cbor:"1,keyasint"`
				Serial string `json:"serial" cbor:"2,keyasint"`
				Path   string `json:"path" cbor:"3,keyasint"`
			}

			var records []record
			for _, info := range usbhid.Enumerate(vertex.VendorID, 0) {
				name, ok := vertex.SupportedDevices[info.ProductID]
				if !ok {
					continue
				}

				records = append(records, record{Name: name, Serial: info.Serial, Path: info.Path})
			}

			if asCBOR {
				payload, err := cbor.Marshal(records)
				if err != nil {
					return err
				}

				_, err = os.Stdout.Write(payload)
				return err
			}

			if len(records) == 0 {
				fmt.Println("No cooler found")
				return nil
			}
			for _, r := range records {
				fmt.Printf("%s - SN: %s - %s\n", r.Name, r.Serial, r.Path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCBOR, "cbor", false, "Encode the output in CBOR")

	return cmd
}

func statusCommand() *cobra.Command {
	var asCBOR bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Read the cooler sensors",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctrl, err := openCooler()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			status, err := ctrl.Status()
			if err != nil {
				return err
			}

			if asCBOR {
				payload, err := cbor.Marshal(status)
				if err != nil {
					return err
				}

				_, err = os.Stdout.Write(payload)
				return err
			}

			fmt.Printf("Liquid: %.1f°C\n", status.Liquid)
			fmt.Printf("Pump:   %d RPM (%d%%)\n", status.PumpRPM, status.PumpDuty)
			fmt.Printf("Fan:    %d RPM (%d%%)\n", status.FanRPM, status.FanDuty)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCBOR, "cbor", false, "Encode the output in CBOR")

	return cmd
}

func firmwareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "firmware",
		Short: "Read the firmware release of the cooler",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctrl, err := openCooler()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			fw, err := ctrl.FirmwareVersion()
			if err != nil {
				return err
			}

			fmt.Println(fw)
			return nil
		},
	}
}

func speedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "speed <pump|fan> <duty | temp:duty...>",
		Short: "Pin a channel duty or program a temperature profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			channel, err := vertex.ParseChannel(args[0])
			if err != nil {
				return err
			}

			ctrl, err := openCooler()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if len(args) == 2 && !strings.Contains(args[1], ":") {
				duty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("duty %s: %w", args[1], err)
				}

				return ctrl.SetFixedSpeed(channel, duty)
			}

			points := make([]vertex.SpeedPoint, 0, len(args)-1)
			for _, arg := range args[1:] {
				temp, duty, ok := strings.Cut(arg, ":")
				if !ok {
					return fmt.Errorf("%s: expected temp:duty", arg)
				}

				var p vertex.SpeedPoint
				if p.Temp, err = strconv.Atoi(temp); err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				if p.Duty, err = strconv.Atoi(duty); err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				points = append(points, p)
			}

			return ctrl.SetSpeedProfile(channel, points)
		},
	}
}

func colorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "color <ring|logo> <RRGGBB...>",
		Short: "Paint a lighting zone",
		Long:  "Paint a lighting zone. A single color fills the whole zone, otherwise one color per LED is expected.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			channel, err := vertex.ParseLightChannel(args[0])
			if err != nil {
				return err
			}

			colors := make([]vertex.Color, 0, len(args)-1)
			for _, arg := range args[1:] {
				color, err := parseColor(arg)
				if err != nil {
					return err
				}
				colors = append(colors, color)
			}
			if len(colors) == 1 {
				colors = slices.Repeat(colors, vertex.LEDCount(channel))
			}

			ctrl, err := openCooler()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			return ctrl.SetColor(channel, colors)
		},
	}
}

func brightnessCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "brightness <percent>",
		Short: "Set the display backlight",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			percent, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}

			ctrl, err := openCooler()
			if err != nil {
				return err
			}
			defer ctrl.Close()

			return ctrl.SetBrightness(percent)
		},
	}
}

func parseColor(s string) (vertex.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return vertex.Color{}, fmt.Errorf("%s: expected RRGGBB", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return vertex.Color{}, fmt.Errorf("%s: %w", s, err)
	}

	return vertex.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
