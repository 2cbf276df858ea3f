// Command shade computes the sun exposure of a point among buildings
// and trees.
//
// A scene file names the site, the test point and the obstacles. The
// obstacles are boxes, spheres and triangle meshes read from binary STL
// files (for example, SketchUp exports, which are in inches).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/aclements/bvol"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("shade: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

type rootFlags struct {
	config   string
	cacheDir string
	noCache  bool
}

func newRootCmd() *cobra.Command {
	f := new(rootFlags)
	root := &cobra.Command{
		Use:           "shade",
		Short:         "Compute the sun exposure of a point among obstacles",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "scene.toml", "scene `file`")
	pf.StringVar(&f.cacheDir, "cache-dir", ".cache", "directory for cached sun traces")
	pf.BoolVar(&f.noCache, "no-cache", false, "always recompute sun traces")

	root.AddCommand(
		newPlotCmd(f, "heatmap", "Plot global intensity over the year", func(o *IntensityOverTime) (*plot.Plot, error) {
			return o.HeatMap(), nil
		}),
		newPlotCmd(f, "runs", "Plot stretches of direct sun over the year", (*IntensityOverTime).RunsPlot),
		newPlotCmd(f, "hours", "Plot hours of direct sun per day", (*IntensityOverTime).HoursPlot),
		newProbeCmd(f),
		newPOVCmd(f),
	)
	return root
}

func (f *rootFlags) load() (*Config, *ShadeModel, error) {
	cfg, err := LoadConfig(f.config)
	if err != nil {
		return nil, nil, err
	}
	m, err := cfg.Model()
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}

func (f *rootFlags) cache() *Cache {
	if f.noCache {
		return nil
	}
	return NewCache(f.cacheDir)
}

func newPlotCmd(f *rootFlags, name, short string, mk func(*IntensityOverTime) (*plot.Plot, error)) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, m, err := f.load()
			if err != nil {
				return err
			}
			inc, err := cfg.IncrementDuration()
			if err != nil {
				return err
			}
			o, err := m.IntensityOverYear(cmd.Context(), f.cache(), cfg.Year, inc, cfg.TestPoint())
			if err != nil {
				return err
			}
			log.Print(o)
			plt, err := mk(o)
			if err != nil {
				return err
			}
			return plt.Save(20*vg.Centimeter, 15*vg.Centimeter, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", name+".png", "output image `file`; the extension selects the format")
	return cmd
}

func newProbeCmd(f *rootFlags) *cobra.Command {
	var (
		dir, origin []float64
		at          string
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Cast one ray and print where it enters and leaves each obstacle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, m, err := f.load()
			if err != nil {
				return err
			}
			o := cfg.TestPoint()
			if cmd.Flags().Changed("origin") {
				if o, err = vecFlag("origin", origin); err != nil {
					return err
				}
			}
			var d r3.Vec
			switch {
			case cmd.Flags().Changed("dir"):
				if d, err = vecFlag("dir", dir); err != nil {
					return err
				}
			default:
				t, err := parseTime(at, cfg.Year)
				if err != nil {
					return err
				}
				sun := GetSunPos(t, m.lat, m.lon)
				fmt.Fprintf(cmd.OutOrStdout(), "sun at %s: altitude %.2f°, azimuth %.2f°\n", t.Format(time.RFC3339), sun.Altitude, sun.Azimuth)
				d = sun.Dir()
			}
			if d == (r3.Vec{}) {
				return fmt.Errorf("zero ray direction")
			}
			return m.Probe(cmd.OutOrStdout(), bvol.NewRay(o, d))
		},
	}
	fl := cmd.Flags()
	fl.Float64SliceVar(&dir, "dir", nil, "ray direction `x,y,z` (default toward the sun)")
	fl.Float64SliceVar(&origin, "origin", nil, "ray origin `x,y,z` (default test_pos)")
	addTimeFlag(fl, &at)
	return cmd
}

func newPOVCmd(f *rootFlags) *cobra.Command {
	var (
		out, at string
		camera  []float64
	)
	cmd := &cobra.Command{
		Use:   "pov",
		Short: "Write a POV-Ray scene of the obstacles and the sun",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, m, err := f.load()
			if err != nil {
				return err
			}
			t, err := parseTime(at, cfg.Year)
			if err != nil {
				return err
			}
			offset, err := vecFlag("camera", camera)
			if err != nil {
				return err
			}
			w, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := m.WritePOV(w, cfg.TestPoint(), offset, t); err != nil {
				w.Close()
				return err
			}
			return w.Close()
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&out, "output", "o", "scene.pov", "output `file`")
	fl.Float64SliceVar(&camera, "camera", []float64{-20 * 12, -20 * 12, 10 * 12}, "camera offset `x,y,z` from the test point")
	addTimeFlag(fl, &at)
	return cmd
}

func addTimeFlag(fl *pflag.FlagSet, at *string) {
	fl.StringVar(at, "time", "", "local `time` of the sun position, as RFC 3339 or \"2006-01-02 15:04\" (default noon on the June solstice)")
}

// parseTime parses a --time flag. An empty string means noon on the
// June solstice of year.
func parseTime(s string, year int) (time.Time, error) {
	if s == "" {
		return time.Date(year, 6, 21, 12, 0, 0, 0, time.Local), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
	}
	return t, nil
}

func vecFlag(name string, v []float64) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}
