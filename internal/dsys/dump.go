package dsys

import (
	"fmt"
	"io"
)

// Format selects the textual form produced by Dump.
type Format int

const (
	// FormatTSV writes a tab-separated table: a header line then one
	// "k<TAB>u(k)<TAB>y(k)" row per sample.
	FormatTSV Format = iota
	// FormatMatlab writes a matrix literal loadable from MATLAB or Octave.
	FormatMatlab
)

// Dump writes the buffered samples to w in chronological order, oldest
// first, regardless of the internal circular layout. It never mutates the
// system.
func (s *System) Dump(w io.Writer, f Format) error {
	if s.buf.count == 0 {
		_, err := fmt.Fprintln(w, "# empty buffer")
		return err
	}

	switch f {
	case FormatMatlab:
		return s.dumpMatlab(w)
	default:
		return s.dumpTSV(w)
	}
}

func (s *System) dumpTSV(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "# k\tu(k)\ty(k)"); err != nil {
		return err
	}
	var err error
	s.buf.each(func(smp Sample) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%d\t%g\t%g\n", smp.K, smp.In, smp.Out)
	})
	return err
}

func (s *System) dumpMatlab(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "% columns: k u y"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "data = ["); err != nil {
		return err
	}
	var err error
	i := 0
	s.buf.each(func(smp Sample) {
		if err != nil {
			return
		}
		if i > 0 {
			_, err = fmt.Fprint(w, "; ")
			if err != nil {
				return
			}
		}
		_, err = fmt.Fprintf(w, "%d %g %g", smp.K, smp.In, smp.Out)
		i++
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "];"); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "% usage: k = data(:,1); u = data(:,2); y = data(:,3);")
	return err
}
