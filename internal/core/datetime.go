package core

// datetime.go handles the "DD-MM-YYYY HH:MM" timestamps of station exports.
//
// Exports use "24:MM" for the end of a day. NormalizeDatetime rewrites those
// as "00:MM" of the following day so every timestamp parses with a standard
// layout and sorts correctly.

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DatetimeLayout is the Go layout of "DD-MM-YYYY HH:MM".
const DatetimeLayout = "02-01-2006 15:04"

var (
	// timestampTokenRegex accepts hours 00-24; anything else is not a timeseries row.
	timestampTokenRegex = regexp.MustCompile(`^\d{2}-\d{2}-\d{4} ([01]\d|2[0-4]):\d{2}$`)

	datetimeRegex = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4}) (\d{2}):(\d{2})$`)
)

// IsTimestampToken reports whether s is a "DD-MM-YYYY HH:MM" token with hour 00-24.
func IsTimestampToken(s string) bool {
	return timestampTokenRegex.MatchString(s)
}

// NormalizeDatetime converts "DD-MM-YYYY 24:MM" to "DD-MM-YYYY 00:MM" of the next day.
// Other valid timestamps are re-rendered unchanged. Strings that do not match the
// layout, or name an impossible date or time, are returned as-is; callers
// that need to reject the latter check the result with ParseDatetime.
func NormalizeDatetime(s string) string {
	m := datetimeRegex.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	days := 0
	if hour == 24 {
		hour = 0
		days = 1
	}
	if hour > 23 || minute > 59 {
		return s
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	// time.Date normalizes overflow; a changed date means the input was impossible
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return s
	}

	return t.AddDate(0, 0, days).Format(DatetimeLayout)
}

// ParseDatetime parses a normalized datetime value.
// Returns invalid for missing, non-string or unparseable values.
func ParseDatetime(v any) pgtype.Timestamp {
	s, ok := v.(string)
	if !ok {
		return pgtype.Timestamp{Valid: false}
	}
	t, err := time.Parse(DatetimeLayout, s)
	if err != nil {
		return pgtype.Timestamp{Valid: false}
	}
	return pgtype.Timestamp{Time: t, Valid: true}
}

// NormalizeTimes rewrites every string datetime value in place.
// A value with the "DD-MM-YYYY HH:MM" shape that names an impossible date or
// time fails with ErrInvalidDatetime. Values of any other shape are left alone.
func (d *Dataset) NormalizeTimes() error {
	for i, r := range d.Rows {
		s, ok := r.Values[DatetimeColumn].(string)
		if !ok {
			continue
		}
		norm := NormalizeDatetime(s)
		if datetimeRegex.MatchString(s) && !ParseDatetime(norm).Valid {
			return fmt.Errorf("%w: row %d: %q", ErrInvalidDatetime, i+1, s)
		}
		r.Values[DatetimeColumn] = norm
	}
	return nil
}

// SortByTime orders rows ascending by datetime. Rows whose datetime is missing
// or unparseable keep their relative order after all dated rows.
func (d *Dataset) SortByTime() {
	keys := make([]pgtype.Timestamp, len(d.Rows))
	idx := make([]int, len(d.Rows))
	for i, r := range d.Rows {
		keys[i] = ParseDatetime(r.Values[DatetimeColumn])
		idx[i] = i
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if !ka.Valid || !kb.Valid {
			return ka.Valid && !kb.Valid
		}
		return ka.Time.Before(kb.Time)
	})

	sorted := make([]Row, len(d.Rows))
	for i, j := range idx {
		sorted[i] = d.Rows[j]
	}
	d.Rows = sorted
}
