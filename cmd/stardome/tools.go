package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AlexApps99/stardome/internal/config"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/timescale"
)

func convertCmd() *cobra.Command {
	var dut1 float64
	var decimals int

	c := &cobra.Command{
		Use:   "convert <utc>",
		Short: "Show a UTC instant on every time scale",
		Example: "  stardome convert 2004-04-06T07:51:28.386\n" +
			"  stardome convert 2016-12-31T23:59:60.5 --dut1 0.4",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := timescale.ParseUTC(args[0])
			if err != nil {
				return err
			}
			return printScales(cmd.OutOrStdout(), u, dut1, decimals)
		},
	}

	c.Flags().Float64Var(&dut1, "dut1", 0, "UT1-UTC in seconds")
	c.Flags().IntVar(&decimals, "decimals", timescale.DefaultDecimals, "decimal places of seconds")
	return c
}

func nowCmd() *cobra.Command {
	var dut1 float64

	c := &cobra.Command{
		Use:   "now",
		Short: "Show the system clock on every time scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printScales(cmd.OutOrStdout(), timescale.Now(), dut1, timescale.DefaultDecimals)
		},
	}

	c.Flags().Float64Var(&dut1, "dut1", 0, "UT1-UTC in seconds")
	return c
}

func printScales(out io.Writer, u timescale.UTC, dut1 float64, decimals int) error {
	conv := timescale.Default
	tai, err := conv.UTCToTAI(u)
	if err != nil {
		return err
	}
	ut1, err := conv.UTCToUT1(u, dut1)
	if err != nil {
		return err
	}
	dat, err := conv.LeapOffset(u)
	if err != nil {
		return err
	}
	tt := conv.TAIToTT(tai)
	dtr := iau.DtdbApprox(tt.Whole, tt.Frac)
	tdb := conv.TTToTDB(tt, dtr)

	rows := []struct {
		name   string
		format func(int) (string, error)
		jd     float64
	}{
		{"UTC", u.Format, u.JD()},
		{"TAI", tai.Format, tai.JD()},
		{"TT", tt.Format, tt.JD()},
		{"UT1", ut1.Format, ut1.JD()},
		{"TDB", tdb.Format, tdb.JD()},
		{"TCG", conv.TTToTCG(tt).Format, conv.TTToTCG(tt).JD()},
		{"TCB", conv.TDBToTCB(tdb).Format, conv.TDBToTCB(tdb).JD()},
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCALE\tTIME\tJD")
	for _, r := range rows {
		s, err := r.format(decimals)
		if err != nil {
			return fmt.Errorf("%s: %w", r.name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.9f\n", r.name, s, r.jd)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "TAI-UTC\t%g s\n", dat)
	fmt.Fprintf(tw, "TDB-TT\t%.6f ms\n", dtr*1e3)
	fmt.Fprintf(tw, "MJD (UTC)\t%.9f\n", u.MJD())
	return tw.Flush()
}

// paramFlags are explicit Earth-orientation parameters. Any that are not
// given come from the cached EOP series.
type paramFlags struct {
	xp, yp, dut1, dx, dy float64
}

func (f *paramFlags) register(c *cobra.Command) {
	c.Flags().Float64Var(&f.xp, "xp", 0, "polar motion x in arcsec")
	c.Flags().Float64Var(&f.yp, "yp", 0, "polar motion y in arcsec")
	c.Flags().Float64Var(&f.dut1, "dut1", 0, "UT1-UTC in seconds")
	c.Flags().Float64Var(&f.dx, "dx", 0, "celestial pole offset dX in mas")
	c.Flags().Float64Var(&f.dy, "dy", 0, "celestial pole offset dY in mas")
}

func (f *paramFlags) resolve(fl *pflag.FlagSet, cfg config.Config, logger *slog.Logger, u timescale.UTC) (eop.Params, string, error) {
	var p eop.Params
	source := "flags"

	if !fl.Changed("xp") || !fl.Changed("yp") || !fl.Changed("dut1") {
		store := eop.NewStore()
		r := eop.NewRefresher(nil, eop.NewCache(cfg.EOP.CacheDir, cfg.EOP.MaxFiles), store, logger)
		if _, err := r.LoadCached(); err != nil {
			return p, "", fmt.Errorf("no EOP data in %s, give --xp, --yp and --dut1: %w", cfg.EOP.CacheDir, err)
		}
		var err error
		if p, err = store.At(u); err != nil {
			return p, "", err
		}
		source = "eop cache"
	}

	if fl.Changed("xp") {
		p.XP = frame.ArcsecToRad(f.xp)
	}
	if fl.Changed("yp") {
		p.YP = frame.ArcsecToRad(f.yp)
	}
	if fl.Changed("dut1") {
		p.DUT1 = f.dut1
	}
	if fl.Changed("dx") {
		p.DX = frame.MasToRad(f.dx)
	}
	if fl.Changed("dy") {
		p.DY = frame.MasToRad(f.dy)
	}
	return p, source, nil
}

// instantArg parses the optional UTC argument, defaulting to now.
func instantArg(args []string) (timescale.UTC, error) {
	if len(args) == 0 {
		return timescale.Now(), nil
	}
	return timescale.ParseUTC(args[0])
}

func orientCmd(g *globals) *cobra.Command {
	var pf paramFlags

	c := &cobra.Command{
		Use:   "orient [utc]",
		Short: "Print the GCRS to ITRS rotation and Earth model matrix as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := instantArg(args)
			if err != nil {
				return err
			}
			cfg, logger, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p, source, err := pf.resolve(cmd.Flags(), cfg, logger, u)
			if err != nil {
				return err
			}

			snap, err := orient.Standard.Compute(u, p)
			if err != nil {
				return err
			}
			snap.Timestamp = u.WallClock()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				orient.View
				ParamsSource string `json:"params_source"`
			}{snap.View(), source})
		},
	}

	pf.register(c)
	return c
}

func temeCmd(g *globals) *cobra.Command {
	var pf paramFlags
	var rArg, vArg string

	c := &cobra.Command{
		Use:   "teme --r x,y,z [--v vx,vy,vz] [utc]",
		Short: "Convert an SGP4 TEME state to the Earth-fixed frame",
		Example: "  stardome teme 2004-04-06T07:51:28.386 --xp -0.140682 --yp 0.333309 --dut1 -0.4399619 \\\n" +
			"    --r 5094.18016210,6127.64465950,6380.34453270 --v -4.746131487,0.785818041,5.531931288",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseTriple(rArg)
			if err != nil {
				return fmt.Errorf("--r: %w", err)
			}
			var v []float64
			if vArg != "" {
				if v, err = parseTriple(vArg); err != nil {
					return fmt.Errorf("--v: %w", err)
				}
			}

			u, err := instantArg(args)
			if err != nil {
				return err
			}
			cfg, logger, err := g.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			p, _, err := pf.resolve(cmd.Flags(), cfg, logger, u)
			if err != nil {
				return err
			}

			rTEME := frame.Vec[frame.TEME](r[0], r[1], r[2])
			var vTEME frame.Vector[frame.TEME]
			if len(v) == 3 {
				vTEME = frame.Vec[frame.TEME](v[0], v[1], v[2])
			}
			ri, vi, err := orient.Standard.TEMEToITRS(u, p, rTEME, vTEME)
			if err != nil {
				return err
			}

			geo := frame.ToGeodetic(ri)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "r_itrs   % .7f % .7f % .7f km\n", ri.X, ri.Y, ri.Z)
			if len(v) == 3 {
				fmt.Fprintf(out, "v_itrs   % .9f % .9f % .9f km/s\n", vi.X, vi.Y, vi.Z)
			}
			fmt.Fprintf(out, "geodetic lat %.6f lon %.6f alt %.3f km\n", geo.LatDeg, geo.LonDeg, geo.AltM/1000)
			if !frame.PlausibleOrbit(ri) {
				fmt.Fprintln(out, "warning: position is not a plausible Earth orbit")
			}
			return nil
		},
	}

	c.Flags().StringVar(&rArg, "r", "", "TEME position in km, as x,y,z")
	c.Flags().StringVar(&vArg, "v", "", "TEME velocity in km/s, as vx,vy,vz")
	_ = c.MarkFlagRequired("r")
	pf.register(c)
	return c
}

func parseTriple(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("want 3 comma-separated components, got %d", len(parts))
	}
	out := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
