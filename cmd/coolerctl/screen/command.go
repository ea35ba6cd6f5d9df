package screen

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/icetrail/coolerd/vertex"
	"github.com/mattn/go-sixel"
	"github.com/spf13/cobra"
)

// Command groups the LCD operations. open is shared with the other
// device commands so every sub command targets the same cooler.
func Command(open func() (*vertex.Controller, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Manage the LCD of the cooler",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(uploadCommand(open))
	cmd.AddCommand(infoCommand(open))
	cmd.AddCommand(builtinCommand(open))
	cmd.AddCommand(resetCommand(open))
	cmd.AddCommand(previewCommand())

	return cmd
}

func uploadCommand(open func() (*vertex.Controller, error)) *cobra.Command {
	var kind string
	var strict bool

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload an image to the LCD",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			asset := vertex.Asset{
				Kind: vertex.DetectAssetKind(data),
				Data: data,
			}
			switch kind {
			case "":
			case "static":
				asset.Kind = vertex.AssetStatic
			case "animated":
				asset.Kind = vertex.AssetAnimated
			default:
				return fmt.Errorf("unknown kind %s", kind)
			}

			cooler, err := open()
			if err != nil {
				return err
			}
			defer cooler.Close()
			cooler.SetStrict(strict)

			err = cooler.UploadScreen(asset)
			if err != nil {
				return err
			}

			fmt.Printf("Displayed %s (%s, %d bytes)\n", args[0], asset.Kind, len(asset.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Force the asset kind (static|animated)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort the upload on any rejected command")

	return cmd
}

func infoCommand(open func() (*vertex.Controller, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the asset directory of the LCD",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cooler, err := open()
			if err != nil {
				return err
			}
			defer cooler.Close()

			dir, err := cooler.ReadDirectory()
			if err != nil {
				return err
			}

			var used uint16
			for _, b := range dir.Buckets {
				if !b.Occupied {
					fmt.Printf("bucket %2d: free\n", b.Index)
					continue
				}

				used += b.MemorySize
				fmt.Printf("bucket %2d: %5d units at %5d\n", b.Index, b.MemorySize, b.MemoryOffset)
			}
			fmt.Printf("%d/%d units used\n", used, vertex.MemoryTotal)

			return nil
		},
	}
}

func builtinCommand(open func() (*vertex.Controller, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "builtin",
		Short: "Display the builtin animation",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cooler, err := open()
			if err != nil {
				return err
			}
			defer cooler.Close()

			return cooler.DisplayBuiltin()
		},
	}
}

func resetCommand(open func() (*vertex.Controller, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Display the builtin animation and release all the buckets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cooler, err := open()
			if err != nil {
				return err
			}
			defer cooler.Close()

			return cooler.ResetDisplay()
		},
	}
}

func previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview FILE",
		Short: "Render an image in the terminal without any device",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			m, _, err := image.Decode(f)
			if err != nil {
				return err
			}

			return sixel.NewEncoder(os.Stdout).Encode(m)
		},
	}
}
