package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter writes one row per series point.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Date", "Balance"}); err != nil {
		return nil, err
	}
	for _, pt := range r.Series {
		if err := w.Write([]string{pt.Date.String(), strconv.FormatFloat(pt.Balance, 'f', 2, 64)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
