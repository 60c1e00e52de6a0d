package reports

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is the report period: applied-date year and month equality.
type Window struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CurrentWindow returns the window for the current month, the default when
// the caller does not pin a period.
func CurrentWindow(now time.Time) Window {
	return Window{Year: now.Year(), Month: now.Month()}
}

// Validate rejects windows outside the calendar. An out-of-range month
// would otherwise select nothing and render an empty month name in mail
// subjects.
func (w Window) Validate() error {
	if w.Month < time.January || w.Month > time.December {
		return fmt.Errorf("month %d out of range (1-12)", int(w.Month))
	}
	if w.Year < 1 {
		return fmt.Errorf("year %d out of range", w.Year)
	}
	return nil
}

func (w Window) String() string {
	return strconv.Itoa(w.Year) + "-" + twoDigit(int(w.Month))
}

func twoDigit(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

var spanishMonths = map[time.Month]string{
	time.January:   "Enero",
	time.February:  "Febrero",
	time.March:     "Marzo",
	time.April:     "Abril",
	time.May:       "Mayo",
	time.June:      "Junio",
	time.July:      "Julio",
	time.August:    "Agosto",
	time.September: "Septiembre",
	time.October:   "Octubre",
	time.November:  "Noviembre",
	time.December:  "Diciembre",
}

// RenderSubject fills the mail-subject placeholders of a registry entry:
// {mes} becomes the Spanish month name, {anio} the four-digit year and
// {fecha} today's date.
func RenderSubject(template string, w Window, now time.Time) string {
	s := template
	s = strings.ReplaceAll(s, "{mes}", spanishMonths[w.Month])
	s = strings.ReplaceAll(s, "{anio}", strconv.Itoa(w.Year))
	s = strings.ReplaceAll(s, "{fecha}", now.Format("2006-01-02"))
	return s
}
