package orient

import (
	"time"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// View is the JSON form of a Snapshot, shared by the HTTP API and the
// stream. EarthModel is column-major, ready for a WebGL uniform.
type View struct {
	Timestamp  string            `json:"t"`
	UTC        string            `json:"utc"`
	MJD        float64           `json:"mjd_utc"`
	TT         timescale.Instant `json:"tt"`
	UT1        timescale.Instant `json:"ut1"`
	TDB        timescale.Instant `json:"tdb"`
	Params     eop.Params        `json:"params"`
	C2T        iau.Matrix3       `json:"gcrs_to_itrs"`
	EarthModel [16]float64       `json:"earth_model"`
	Reused     bool              `json:"reused,omitempty"`
}

// View returns the JSON form of s.
func (s *Snapshot) View() View {
	return View{
		Timestamp:  s.Timestamp.UTC().Format(time.RFC3339Nano),
		UTC:        s.UTC.String(),
		MJD:        s.UTC.MJD(),
		TT:         s.TT.Instant,
		UT1:        s.UT1.Instant,
		TDB:        s.TDB.Instant,
		Params:     s.Params,
		C2T:        s.C2T.M,
		EarthModel: s.EarthModel().Flatten(),
		Reused:     s.Reused,
	}
}
