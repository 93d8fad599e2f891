package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dtsim/internal/loop"
)

// Plot renders a finished run as stacked ascii charts: reference against
// plant output on top, the actuation below.
func Plot(result *loop.Result, width, height int) string {
	if result == nil || result.Steps == 0 {
		return "(empty run)"
	}

	var s strings.Builder

	tracking := asciigraph.PlotMany(
		[][]float64{result.Refs, result.Outputs},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("reference vs output"),
		asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Green),
	)
	s.WriteString(tracking)
	s.WriteString("\n\n")

	control := asciigraph.Plot(result.Controls,
		asciigraph.Height(height/2),
		asciigraph.Width(width),
		asciigraph.Caption("control signal"),
	)
	s.WriteString(control)
	s.WriteString("\n")

	if len(result.Metrics) > 0 {
		s.WriteString("\n")
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.WriteString(fmt.Sprintf("%-16s %.6f\n", name, result.Metrics[name]))
		}
	}

	return s.String()
}
