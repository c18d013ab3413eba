// Package geonames reads the GeoNames "geoname" table dump and selects places from it.
//
// The dump is a UTF-8 tab-separated file without header and with these columns
// (see https://download.geonames.org/export/dump/readme.txt):
//
//	 0: geonameid
//	 1: name
//	 2: asciiname
//	 3: alternatenames
//	 4: latitude
//	 5: longitude
//	 6: feature class
//	 7: feature code
//	 8: country code
//	 9: cc2
//	10: admin1 code
//	11: admin2 code
//	12: admin3 code
//	13: admin4 code
//	14: population
//	15: elevation
//	16: dem
//	17: timezone
//	18: modification date
package geonames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// NumColumns is the fixed number of columns of the dump.
const NumColumns = 19

// Columns lists the column names in file order.
var Columns = [NumColumns]string{
	"geonameid", "name", "asciiname", "alternatenames", "latitude", "longitude",
	"feature_class", "feature_code", "country_code", "cc2", "admin1_code",
	"admin2_code", "admin3_code", "admin4_code", "population", "elevation",
	"dem", "timezone", "modification_date",
}

// ErrFieldCount is returned for rows that do not have exactly NumColumns fields.
var ErrFieldCount = errors.New("wrong number of fields")

// alternatenames alone can run to several kilobytes.
const maxLineSize = 1 << 20

// Scanner reads records from a GeoNames dump one line at a time.
type Scanner struct {
	lines  *bufio.Scanner
	line   int
	record models.Record
	err    error
}

func NewScanner(r io.Reader) *Scanner {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{lines: lines}
}

// Scan advances to the next record. It returns false at the end of the input
// or on the first error, which is then available from Err.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.lines.Scan() {
		s.line++
		text := strings.TrimSuffix(s.lines.Text(), "\r")
		if text == "" {
			continue
		}
		record, err := parseRecord(strings.Split(text, "\t"))
		if err != nil {
			s.err = fmt.Errorf("line %d: %w", s.line, err)
			return false
		}
		s.record = record
		return true
	}
	s.err = s.lines.Err()
	return false
}

func (s *Scanner) Record() models.Record {
	return s.record
}

func (s *Scanner) Err() error {
	return s.err
}

// ReadAll parses every record of r into memory.
func ReadAll(r io.Reader) ([]models.Record, error) {
	var records []models.Record
	s := NewScanner(r)
	for s.Scan() {
		records = append(records, s.Record())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func parseRecord(xs []string) (models.Record, error) {
	if len(xs) != NumColumns {
		return models.Record{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(xs), NumColumns)
	}
	record := models.Record{
		Name:             xs[1],
		ASCIIName:        xs[2],
		AlternateNames:   xs[3],
		FeatureClass:     xs[6],
		FeatureCode:      xs[7],
		CountryCode:      xs[8],
		CC2:              xs[9],
		Admin1Code:       xs[10],
		Admin2Code:       xs[11],
		Admin3Code:       xs[12],
		Admin4Code:       xs[13],
		Elevation:        xs[15],
		Timezone:         xs[17],
		ModificationDate: xs[18],
	}

	var err error
	if record.GeonameID, err = strconv.ParseInt(xs[0], 10, 64); err != nil {
		return models.Record{}, fmt.Errorf("geonameid: %w", err)
	}
	if record.Latitude, err = parseCoordinate(xs[4]); err != nil {
		return models.Record{}, fmt.Errorf("latitude: %w", err)
	}
	if record.Longitude, err = parseCoordinate(xs[5]); err != nil {
		return models.Record{}, fmt.Errorf("longitude: %w", err)
	}
	if record.Population, err = parseOptionalInt(xs[14]); err != nil {
		return models.Record{}, fmt.Errorf("population: %w", err)
	}
	if record.DEM, err = parseOptionalInt(xs[16]); err != nil {
		return models.Record{}, fmt.Errorf("dem: %w", err)
	}
	return record, nil
}

// parseCoordinate maps an empty field to NaN. Range is not checked.
func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptionalInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
