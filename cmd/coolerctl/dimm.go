package main

import (
	"errors"
	"fmt"

	"github.com/icetrail/coolerd/dimm"
	"github.com/icetrail/coolerd/smbus"
	"github.com/spf13/cobra"
)

func dimmCommand() *cobra.Command {
	var bus int

	cmd := &cobra.Command{
		Use:   "dimm",
		Short: "Drive Lumera memory modules over SMBus",
	}
	cmd.PersistentFlags().IntVarP(&bus, "bus", "b", -1, "I2C adapter number (see dimm adapters)")

	cmd.AddCommand(&cobra.Command{
		Use:   "adapters",
		Short: "List the I2C adapters of this host",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			adapters, err := smbus.Enumerate()
			if err != nil {
				return err
			}

			for _, a := range adapters {
				fmt.Printf("i2c-%d: %s\n", a.Number, a.Name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report the temperature of each module",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			modules, b, err := scanModules(bus)
			if err != nil {
				return err
			}
			defer b.Close()

			for _, m := range modules {
				temp, err := m.Temperature()
				if err != nil {
					return err
				}
				fmt.Printf("slot %d: %.2f°C\n", m.Slot(), temp)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "color <RRGGBB>",
		Short: "Paint every module a single color",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c, err := parseColor(args[0])
			if err != nil {
				return err
			}

			modules, b, err := scanModules(bus)
			if err != nil {
				return err
			}
			defer b.Close()

			for _, m := range modules {
				if err := m.SetColor(dimm.Color{R: c.R, G: c.G, B: c.B}); err != nil {
					return err
				}
			}
			return nil
		},
	})

	return cmd
}

func scanModules(bus int) ([]*dimm.Module, *smbus.Bus, error) {
	if bus < 0 {
		return nil, nil, errors.New("no bus given, list them with `coolerctl dimm adapters`")
	}

	b, err := smbus.Open(bus)
	if err != nil {
		return nil, nil, err
	}

	modules := dimm.Scan(b)
	if len(modules) == 0 {
		b.Close()
		return nil, nil, errors.New("no Lumera module found on this bus")
	}

	return modules, b, nil
}
