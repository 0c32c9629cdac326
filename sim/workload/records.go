package workload

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/partsim/partsim/sim"
)

// FieldsPerRecord is the number of integers in one process record:
// id, size, arrival, processing time, I/O frequency, I/O duration.
const FieldsPerRecord = 6

// ErrMalformedRecord is returned when a record field is not an integer.
var ErrMalformedRecord = errors.New("malformed process record")

// splitRecord tokenizes a line on commas and whitespace.
func splitRecord(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ReadRecords parses process records, one per line. Blank lines and lines
// starting with '#' are ignored. Lines with fewer than six fields are skipped
// with a warning; fields past the sixth are ignored.
func ReadRecords(r io.Reader) ([]sim.ProcessSpec, error) {
	var specs []sim.ProcessSpec
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitRecord(line)
		if len(fields) < FieldsPerRecord {
			logrus.Warnf("line %d: expected %d fields, got %d; skipping %q", lineNo, FieldsPerRecord, len(fields), line)
			continue
		}
		var values [FieldsPerRecord]int64
		for i := range values {
			v, err := strconv.ParseInt(fields[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d field %d: %q is not an integer", ErrMalformedRecord, lineNo, i+1, fields[i])
			}
			values[i] = v
		}
		specs = append(specs, sim.ProcessSpec{
			ID:             int(values[0]),
			Size:           values[1],
			ArrivalTime:    values[2],
			ProcessingTime: values[3],
			IOFrequency:    values[4],
			IODuration:     values[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading process records: %w", err)
	}
	return specs, nil
}

// ParseRecords parses a text workload held in memory.
func ParseRecords(data []byte) ([]sim.ProcessSpec, error) {
	return ReadRecords(bytes.NewReader(data))
}

// WriteRecords writes specs in the comma-separated text format read by ReadRecords.
func WriteRecords(w io.Writer, specs []sim.ProcessSpec) error {
	for _, s := range specs {
		if _, err := fmt.Fprintf(w, "%d, %d, %d, %d, %d, %d\n",
			s.ID, s.Size, s.ArrivalTime, s.ProcessingTime, s.IOFrequency, s.IODuration); err != nil {
			return fmt.Errorf("writing process records: %w", err)
		}
	}
	return nil
}
