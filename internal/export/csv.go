package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/geodesim/internal/orbit"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

// WriteCSV writes one row per sample with its Cartesian projection.
func WriteCSV(w io.Writer, t *orbit.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "phi", "r", "x", "y"}); err != nil {
		return err
	}
	if t != nil {
		for i, s := range t.Samples {
			row := []string{
				strconv.Itoa(i),
				formatFloat(s.Phi),
				formatFloat(s.R),
				formatFloat(s.R * math.Cos(s.Phi)),
				formatFloat(s.R * math.Sin(s.Phi)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
