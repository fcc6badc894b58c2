package usgs

import (
	"bufio"
	"io"
	"strings"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
)

// maxLineSize bounds a single rdb line. Station names are short, but the
// bufio default of 64 KiB is not a guarantee the source makes.
const maxLineSize = 1 << 20

// Rows reads tab-delimited rdb lines one at a time. Fields are a raw split on
// the tab character: no quoting or escaping rules apply.
type Rows struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// NewRows wraps an rdb body. Closing the Rows closes the body.
func NewRows(body io.ReadCloser) *Rows {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Rows{body: body, scanner: scanner}
}

// Next returns the next row, or io.EOF when the stream is exhausted.
// Line terminators (LF or CRLF) are not part of any field.
func (r *Rows) Next() (domain.RawRow, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return domain.RawRow(strings.Split(r.scanner.Text(), "\t")), nil
}

func (r *Rows) Close() error {
	return r.body.Close()
}
