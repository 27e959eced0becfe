// Command diag prints the reduction of Vallado's example 3-15 step by step
// and checks the TEME conversion against go-satellite.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/timescale"
)

func main() {
	at := time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC)
	p := eop.Params{
		XP:   frame.ArcsecToRad(-0.140682),
		YP:   frame.ArcsecToRad(0.333309),
		DUT1: -0.4399619,
		DX:   frame.MasToRad(-0.205),
		DY:   frame.MasToRad(-0.136),
	}
	u := timescale.FromWallClock(at)

	snap, err := orient.Standard.Compute(u, p)
	if err != nil {
		fmt.Println("ERROR computing orientation:", err)
		os.Exit(1)
	}

	fmt.Printf("UTC  %s  (MJD %.9f)\n", snap.UTC, snap.UTC.MJD())
	fmt.Printf("TT   %s\n", snap.TT)
	fmt.Printf("UT1  %s\n", snap.UT1)
	fmt.Printf("TDB  %s\n", snap.TDB)
	fmt.Println("\nGCRS -> ITRS:")
	for _, row := range snap.C2T.M {
		fmt.Printf("  % .15f % .15f % .15f\n", row[0], row[1], row[2])
	}
	fmt.Printf("orthonormality error: %.3g\n", snap.C2T.M.OrthonormalityError())

	r := frame.Vec[frame.TEME](5094.18016210, 6127.64465950, 6380.34453270)
	v := frame.Vec[frame.TEME](-4.746131487, 0.785818041, 5.531931288)
	ri, vi, err := orient.Standard.TEMEToITRS(u, p, r, v)
	if err != nil {
		fmt.Println("ERROR converting TEME state:", err)
		os.Exit(1)
	}

	want := frame.Vec[frame.ITRS](-1033.4793830, 7901.2952754, 6380.3565958)
	fmt.Printf("\nr_itrs  % .7f % .7f % .7f km\n", ri.X, ri.Y, ri.Z)
	fmt.Printf("v_itrs  % .9f % .9f % .9f km/s\n", vi.X, vi.Y, vi.Z)
	fmt.Printf("Vallado residual: %.3f m\n", ri.Sub(want).Norm()*1000)

	// go-satellite ignores polar motion and takes GMST from UTC, so a few
	// hundred metres of disagreement are expected.
	gmst := satellite.GSTimeFromDate(at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute(), at.Second())
	ref := satellite.ECIToECEF(satellite.Vector3{X: r.X, Y: r.Y, Z: r.Z}, gmst)
	d := math.Sqrt((ri.X-ref.X)*(ri.X-ref.X) + (ri.Y-ref.Y)*(ri.Y-ref.Y) + (ri.Z-ref.Z)*(ri.Z-ref.Z))
	fmt.Printf("go-satellite ECIToECEF: % .7f % .7f % .7f km (diff %.3f km)\n", ref.X, ref.Y, ref.Z, d)

	geo := frame.ToGeodetic(ri)
	fmt.Printf("\ngeodetic: lat %.6f lon %.6f alt %.3f km\n", geo.LatDeg, geo.LonDeg, geo.AltM/1000)
}
