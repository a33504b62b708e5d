// Package ticks converts calendar dates to the .NET tick counts used in
// station portal download URLs, and stores downloaded responses.
//
// A tick is 100 nanoseconds; tick 0 is 0001-01-01T00:00:00Z.
package ticks

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// DateLayout is the accepted input format, "YYYY-MM-DD".
const DateLayout = "2006-01-02"

const (
	// PerSecond is the number of ticks in one second.
	PerSecond = int64(time.Second / 100)

	// unixEpochSeconds is 1970-01-01 expressed in seconds since 0001-01-01.
	unixEpochSeconds = int64(62135596800)
)

// DateToTicks parses a "YYYY-MM-DD" date as UTC midnight and returns the
// number of ticks since 0001-01-01T00:00:00Z.
func DateToTicks(date string) (int64, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", date, err)
	}
	return FromTime(t), nil
}

// DateToTicksString is DateToTicks rendered as a decimal string for URLs.
func DateToTicksString(date string) (string, error) {
	n, err := DateToTicks(date)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// FromTime returns the tick count of t.
func FromTime(t time.Time) int64 {
	t = t.UTC()
	return (t.Unix()+unixEpochSeconds)*PerSecond + int64(t.Nanosecond())/100
}

// TicksToTime is the inverse of FromTime. n must not be negative.
func TicksToTime(n int64) time.Time {
	sec := n/PerSecond - unixEpochSeconds
	nsec := (n % PerSecond) * 100
	return time.Unix(sec, nsec).UTC()
}

// SaveResponseBody writes the response body to filename unchanged and closes
// the body. The status code is not checked.
func SaveResponseBody(resp *http.Response, filename string) (err error) {
	if resp == nil || resp.Body == nil {
		return errors.New("save response: no body")
	}
	defer func() { _ = resp.Body.Close() }()

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("save response: %w", cerr)
		}
	}()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}
