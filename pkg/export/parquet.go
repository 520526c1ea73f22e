package export

import (
	"fmt"
	"io"

	parquet "github.com/parquet-go/parquet-go"

	"sonoviz/pkg/viz"
)

// Cell is one matrix value in long format.
type Cell struct {
	Frame       int32   `parquet:"frame"`
	Bin         int32   `parquet:"bin"`
	TimeSeconds float64 `parquet:"time_seconds"`
	Value       float64 `parquet:"value"`
}

// EncodeParquet writes every matrix cell as a zstd-compressed parquet row,
// written frame by frame. It returns the number of rows written.
func EncodeParquet(w io.Writer, sg *viz.Spectrogram) (int, error) {
	if sg == nil || sg.Matrix == nil {
		return 0, viz.ErrNoData
	}
	pw := parquet.NewGenericWriter[Cell](w, parquet.Compression(&parquet.Zstd))

	rows, cols := sg.Matrix.Dims()
	frameSec := 0.0
	if sg.SampleRate > 0 {
		frameSec = float64(sg.HopLength) / float64(sg.SampleRate)
	}

	batch := make([]Cell, rows)
	total := 0
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			batch[r] = Cell{
				Frame:       int32(c),
				Bin:         int32(r),
				TimeSeconds: float64(c) * frameSec,
				Value:       sg.Matrix.At(r, c),
			}
		}
		n, err := pw.Write(batch)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return total, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return total, nil
}
