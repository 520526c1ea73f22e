package viz

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Matrix is an immutable rectangular grid of spectrogram values.
// Row 0 is the lowest frequency bin, columns are time frames.
type Matrix struct {
	dense *mat.Dense
}

// NewMatrix copies data into a Matrix. Empty or ragged input is rejected
// with ErrMalformedMatrix.
func NewMatrix(data [][]float64) (*Matrix, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedMatrix)
	}
	cols := len(data[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: row 0 is empty", ErrMalformedMatrix)
	}

	flat := make([]float64, 0, len(data)*cols)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrMalformedMatrix, i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return &Matrix{dense: mat.NewDense(len(data), cols, flat)}, nil
}

func (m *Matrix) Rows() int {
	r, _ := m.dense.Dims()
	return r
}

func (m *Matrix) Cols() int {
	_, c := m.dense.Dims()
	return c
}

// Dims returns (rows, cols).
func (m *Matrix) Dims() (int, int) {
	return m.dense.Dims()
}

func (m *Matrix) At(r, c int) float64 {
	return m.dense.At(r, c)
}

// Row returns a view of row r. Callers must not modify it.
func (m *Matrix) Row(r int) []float64 {
	return m.dense.RawRowView(r)
}

// Slices returns a copy of the matrix as nested rows.
func (m *Matrix) Slices() [][]float64 {
	rows, cols := m.dense.Dims()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		copy(out[r], m.dense.RawRowView(r))
	}
	return out
}

// Summary holds whole-matrix statistics over the finite values.
type Summary struct {
	Min, Max     float64
	Mean, StdDev float64
	NonFinite    int
}

func (m *Matrix) Summary() Summary {
	raw := m.dense.RawMatrix().Data
	finite := make([]float64, 0, len(raw))
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	s := Summary{NonFinite: len(raw) - len(finite)}
	if len(finite) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	if len(finite) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(finite, nil)
	} else {
		s.Mean = finite[0]
	}
	return s
}

// Spectrogram is one analysis result: the matrix plus the parameters needed
// to map cells back to time and frequency.
type Spectrogram struct {
	Matrix         *Matrix
	SampleRate     int
	HopLength      int
	Duration       float64
	TimeAxisLabels []float64
}

// FrameSeconds is the time covered by all frames, cols*hop/sampleRate.
func (s *Spectrogram) FrameSeconds() float64 {
	if s == nil || s.Matrix == nil || s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Matrix.Cols()*s.HopLength) / float64(s.SampleRate)
}

// DurationSeconds prefers the reported duration and falls back to FrameSeconds.
func (s *Spectrogram) DurationSeconds() float64 {
	if s == nil {
		return 0
	}
	if s.Duration > 0 {
		return s.Duration
	}
	return s.FrameSeconds()
}

// NativeSize is the raster size the matrix renders to.
func (s *Spectrogram) NativeSize() Size {
	if s == nil || s.Matrix == nil {
		return Size{}
	}
	return Size{Width: float64(s.Matrix.Cols()), Height: float64(s.Matrix.Rows())}
}
