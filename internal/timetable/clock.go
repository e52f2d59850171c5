package timetable

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^(?:[01]\d|2[0-3]):[0-5]\d$`)
)

// IsValidDate reports whether s is a real calendar date in strict
// "YYYY-MM-DD" form. The regexp gate rejects loose layouts that
// time.Parse would tolerate (e.g. a missing leading zero).
func IsValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// IsValidTime reports whether s is an "HH:MM" wall-clock time with
// hour 00-23 and minute 00-59.
func IsValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// Minutes converts a valid "HH:MM" string to minutes since midnight.
// All time ordering and duration arithmetic in this package is same-day:
// journeys crossing midnight are not representable.
func Minutes(t string) int {
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	return h*60 + m
}

// Weekday returns the operating-day number of a valid "YYYY-MM-DD" date:
// Monday=1 .. Sunday=7.
func Weekday(date string) int {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	if wd := int(d.Weekday()); wd != 0 {
		return wd
	}
	return 7 // time.Sunday is 0
}
