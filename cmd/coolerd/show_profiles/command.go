package showprofiles

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/go-analyze/charts"
	"github.com/icetrail/coolerd"
	"github.com/icetrail/coolerd/vertex"
	"github.com/mattn/go-sixel"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	var cpath string
	var resolution int

	cmd := &cobra.Command{
		Use:   "show-profiles",
		Short: "Show the duty table each configured profile programs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := coolerd.Load(cpath)
			if err != nil {
				return err
			}
			if len(cfg.Profiles) == 0 {
				return errors.New("no profiles configured")
			}

			var set charts.LineSeriesList
			for _, name := range slices.Sorted(maps.Keys(cfg.Profiles)) {
				table, err := vertex.SpeedTable(cfg.Profiles[name])
				if err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}

				ls := charts.LineSeries{Name: name}
				for _, duty := range table {
					ls.Values = append(ls.Values, float64(duty))
				}
				set = append(set, ls)
			}

			opt := charts.NewLineChartOptionWithSeries(set)
			opt.Theme = charts.GetTheme(charts.ThemeVividDark)
			opt.Padding = charts.NewBox(20, 20, 20, 20)
			opt.Title.Text = "Device speed tables"
			opt.Title.FontStyle.FontSize = 16
			opt.Title.Offset = charts.OffsetLeft
			opt.Legend = charts.LegendOption{
				Show:     coolerd.ToPtr(true),
				Offset:   charts.OffsetCenter,
				Vertical: coolerd.ToPtr(true),
				Padding:  charts.NewBox(0, 0, 0, 20),
			}
			opt.Symbol = charts.SymbolNone
			opt.LineStrokeWidth = 2
			opt.XAxis.Show = coolerd.ToPtr(true)
			opt.XAxis.Title = "°C liquid"
			opt.XAxis.Labels = []string{}
			for i := range vertex.SpeedTableLength {
				opt.XAxis.Labels = append(opt.XAxis.Labels, strconv.Itoa(vertex.SpeedTableFloor+i))
			}
			opt.XAxis.LabelCount = 8
			opt.YAxis = []charts.YAxisOption{
				{
					Show:                   coolerd.ToPtr(true),
					Title:                  "%",
					Min:                    coolerd.ToPtr(float64(0)),
					Max:                    coolerd.ToPtr(float64(100)),
					RangeValuePaddingScale: coolerd.ToPtr(float64(0)),
					Unit:                   10,
				},
			}

			p := charts.NewPainter(charts.PainterOptions{
				OutputFormat: charts.ChartOutputPNG,
				Width:        resolution,
				Height:       int(float64(resolution) / (16.0 / 9.0)),
			})

			if err := p.LineChart(opt); err != nil {
				return err
			}

			mPNG, err := p.Bytes()
			if err != nil {
				return err
			}

			m, _, err := image.Decode(bytes.NewReader(mPNG))
			if err != nil {
				return err
			}

			return sixel.NewEncoder(os.Stdout).Encode(m)
		},
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "/etc/coolerd/coolerd.yml", "Configfile path")
	cmd.Flags().IntVarP(&resolution, "resolution", "r", 1000, "The width size in pixel of the graph")

	return cmd
}
