package frame

import (
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// OmegaEarth is Earth's rotation rate in rad/s (IAU value).
const OmegaEarth = 7.292115146706979e-5

// ArcsecToRad converts arcseconds to radians.
func ArcsecToRad(as float64) float64 { return as * iau.DAS2R }

// MasToRad converts milliarcseconds to radians.
func MasToRad(mas float64) float64 { return mas * iau.DAS2R / 1000.0 }

// Pipeline composes the Earth-orientation primitives into frame rotations.
// It is stateless and infallible: out-of-range parameters produce a
// well-formed but meaningless matrix.
type Pipeline struct {
	p iau.EarthOrientationProvider
}

// NewPipeline returns a Pipeline backed by p.
func NewPipeline(p iau.EarthOrientationProvider) Pipeline {
	return Pipeline{p: p}
}

// Standard is the Pipeline backed by the iau package.
var Standard = NewPipeline(iau.Standard{})

// GCRSToCIRS builds the celestial-to-intermediate rotation for a TT instant.
// The CIP corrections dx, dy (radians) are added to the modelled X, Y; the
// CIO locator is evaluated on the modelled coordinates.
func (p Pipeline) GCRSToCIRS(tt timescale.TT, dx, dy float64) Rotation[GCRS, CIRS] {
	x, y := p.p.Xy06(tt.Whole, tt.Frac)
	s := p.p.S06(tt.Whole, tt.Frac, x, y)
	x += dx
	y += dy
	return Rotation[GCRS, CIRS]{M: p.p.C2ixys(x, y, s)}
}

// CIRSToTIRS is the Earth rotation: a turn of the frame by the ERA about
// the CIP.
func (p Pipeline) CIRSToTIRS(ut1 timescale.UT1) Rotation[CIRS, TIRS] {
	era := p.p.Era00(ut1.Whole, ut1.Frac)
	return Rotation[CIRS, TIRS]{M: p.p.Rz(era, iau.Identity())}
}

// TIRSToITRS is the polar-motion rotation for pole coordinates xp, yp
// (radians), including the TIO locator s'.
func (p Pipeline) TIRSToITRS(tt timescale.TT, xp, yp float64) Rotation[TIRS, ITRS] {
	sp := p.p.Sp00(tt.Whole, tt.Frac)
	return Rotation[TIRS, ITRS]{M: p.p.Pom00(xp, yp, sp)}
}

// GCRSToITRS returns the celestial-to-terrestrial rotation
// W(xp, yp, s') · R(ERA) · C(X+dX, Y+dY, s).
func (p Pipeline) GCRSToITRS(tt timescale.TT, ut1 timescale.UT1, xp, yp, dx, dy float64) Rotation[GCRS, ITRS] {
	c2i := p.GCRSToCIRS(tt, dx, dy)
	era := p.CIRSToTIRS(ut1)
	pom := p.TIRSToITRS(tt, xp, yp)
	return Then(Then(c2i, era), pom)
}

// TEMEToPEF rotates TEME into the pseudo-Earth-fixed frame by GMST82. PEF
// differs from TIRS only by the neglected TIO locator, so TIRS is used as
// the target tag.
func (p Pipeline) TEMEToPEF(ut1 timescale.UT1) Rotation[TEME, TIRS] {
	gmst := p.p.Gmst82(ut1.Whole, ut1.Frac)
	return Rotation[TEME, TIRS]{M: p.p.Rz(gmst, iau.Identity())}
}

// TEMEToITRS is the legacy low-precision path: GMST82 rotation followed by
// polar motion without the TIO locator.
func (p Pipeline) TEMEToITRS(ut1 timescale.UT1, xp, yp float64) Rotation[TEME, ITRS] {
	pef := p.TEMEToPEF(ut1)
	pom := Rotation[TIRS, ITRS]{M: p.p.Pom00(xp, yp, 0)}
	return Then(pef, pom)
}

// TEMEToTOD rotates TEME onto the true equinox of date by the equation of
// the equinoxes (IAU 1980 nutation, no kinematic terms). ddpsi is the
// observed nutation correction in longitude, radians; pass 0 for the model
// value alone.
func (p Pipeline) TEMEToTOD(tt timescale.TT, ddpsi float64) Rotation[TEME, TOD] {
	eqeq := p.p.EqeqTEME(tt.Whole, tt.Frac, ddpsi)
	return Rotation[TEME, TOD]{M: p.p.Rz(-eqeq, iau.Identity())}
}

// TEMEStateToITRS transforms a TEME position (km) and velocity (km/s) to
// ITRS, removing the Earth-rotation term from the velocity:
//
//	v_PEF  = R3(θ)·v_TEME − ω × r_PEF
//	v_ITRS = W·v_PEF
func (p Pipeline) TEMEStateToITRS(ut1 timescale.UT1, xp, yp float64, r, v Vector[TEME]) (Vector[ITRS], Vector[ITRS]) {
	gmst := p.p.Gmst82(ut1.Whole, ut1.Frac)
	return temeStateWithGMST(gmst, Rotation[TIRS, ITRS]{M: p.p.Pom00(xp, yp, 0)}, r, v)
}

func temeStateWithGMST(gmst float64, pom Rotation[TIRS, ITRS], r, v Vector[TEME]) (Vector[ITRS], Vector[ITRS]) {
	pef := Rotation[TEME, TIRS]{M: iau.Rz(gmst, iau.Identity())}

	rPEF := pef.Apply(r)
	vRot := pef.Apply(v)

	// ω × r = [-ω*y, ω*x, 0]
	vPEF := Vector[TIRS]{
		X: vRot.X + OmegaEarth*rPEF.Y,
		Y: vRot.Y - OmegaEarth*rPEF.X,
		Z: vRot.Z,
	}
	return pom.Apply(rPEF), pom.Apply(vPEF)
}
