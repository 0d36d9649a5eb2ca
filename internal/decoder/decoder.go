// Package decoder turns proprietary marine-electronics files into the
// canonical model. It detects the vendor format of a byte buffer, routes it
// to the matching decoder and returns a ParseResult that carries success,
// partial data and diagnostics as plain values. The decode path performs no
// I/O beyond the bytes handed to it.
package decoder

import (
	"errors"
	"fmt"
	"time"

	"github.com/marinelog/decoder/internal/models"
)

var errInvalidSonarConfig = errors.New("sonar config without frequency or range")

// Decoder decodes one vendor's file formats.
type Decoder interface {
	// Name returns the decoder's short name, e.g. "lowrance".
	Name() string
	// Extensions returns the file extensions the decoder owns, without dots,
	// in canonical order.
	Extensions() []string
	// Decode parses data into the canonical model. It never returns a Go
	// error: fatal failures are carried in the ParseResult and recoverable
	// record faults in the warning slice.
	Decode(data []byte, filename string) (*models.ParseResult, []*models.DecodeWarning)
}

// corruptSkip is the fixed cursor advance applied after a record fails to
// decode. 64 bytes clears a damaged record in every known vendor layout;
// realignment is best-effort, not guaranteed.
const corruptSkip = 64

// Decode runs the default registry against data. filenameHint may be empty;
// detection then falls back to content sniffing.
func Decode(data []byte, filenameHint string) (*models.ParseResult, []*models.DecodeWarning) {
	return DefaultRegistry().Decode(data, filenameHint)
}

func warnAt(offset int, record string, err error) *models.DecodeWarning {
	return &models.DecodeWarning{Offset: offset, Record: record, Reason: err.Error()}
}

func warnf(offset int, record, format string, args ...interface{}) *models.DecodeWarning {
	return &models.DecodeWarning{Offset: offset, Record: record, Reason: fmt.Sprintf(format, args...)}
}

// unixTime converts a raw Unix-seconds field to UTC, mapping the zero
// sentinel to the zero time.
func unixTime(sec uint32) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}

func unixTimePtr(sec uint32) *time.Time {
	if sec == 0 {
		return nil
	}
	t := time.Unix(int64(sec), 0).UTC()
	return &t
}
