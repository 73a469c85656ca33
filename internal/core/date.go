package core

import (
	"strconv"
	"strings"
)

// DateForm tags which of the two accepted textual shapes produced a Date.
type DateForm int

const (
	FormInvalid DateForm = iota
	FormNamed            // "18 Mar 2025"
	FormSlashed          // "18/03/2025"
)

// Date is a normalized calendar date. A Date with FormInvalid carries no
// usable components; check Valid before comparing or bucketing.
type Date struct {
	Day   int
	Month int // 1-12
	Year  int
	Form  DateForm
}

// monthAbbr maps the twelve fixed abbreviations the entry form emits.
// Matching is case-sensitive on purpose: the app is the only producer of
// these strings.
var monthAbbr = map[string]int{
	"Jan": 1, "Feb": 2, "Mar": 3, "Apr": 4, "May": 5, "Jun": 6,
	"Jul": 7, "Aug": 8, "Sep": 9, "Oct": 10, "Nov": 11, "Dec": 12,
}

var monthName = [13]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ParseDate normalizes the two date formats the app itself produces:
// "DD Mon YYYY" and "DD/MM/YYYY" (day first). Anything else yields an
// invalid Date, never an error. This is deliberately not a general date
// parser; do not teach it new shapes.
func ParseDate(text string) Date {
	if parts := strings.Split(text, " "); len(parts) == 3 {
		month, ok := monthAbbr[parts[1]]
		day, errD := strconv.Atoi(parts[0])
		year, errY := strconv.Atoi(parts[2])
		if ok && errD == nil && errY == nil && day != 0 && year != 0 {
			return Date{Day: day, Month: month, Year: year, Form: FormNamed}
		}
	}

	if parts := strings.Split(text, "/"); len(parts) == 3 {
		day, errD := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		year, errY := strconv.Atoi(parts[2])
		if errD == nil && errM == nil && errY == nil &&
			day != 0 && month >= 1 && month <= 12 && year != 0 {
			return Date{Day: day, Month: month, Year: year, Form: FormSlashed}
		}
	}

	return Date{}
}

func (d Date) Valid() bool {
	return d.Form != FormInvalid
}

// MonthLabel returns the spending bucket label, e.g. "Mar 2025".
func (d Date) MonthLabel() string {
	return monthName[d.Month] + " " + strconv.Itoa(d.Year)
}

// ordinal collapses a date to a single comparable integer. Invalid dates
// map to zero so they order before every real date.
func (d Date) ordinal() int {
	if !d.Valid() {
		return 0
	}
	return d.Year*10000 + d.Month*100 + d.Day
}

// After reports whether d is strictly more recent than other. Two invalid
// dates compare equal.
func (d Date) After(other Date) bool {
	return d.ordinal() > other.ordinal()
}
