package domain

import (
	"fmt"
	"time"
)

// WeekDay is a schedule slot: 0 is Sunday, 6 is Saturday.
type WeekDay int

const (
	Sunday WeekDay = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysInWeek is the size of the schedule domain.
const DaysInWeek = 7

// WeekDayInfo carries the display data of a slot.
type WeekDayInfo struct {
	ID     WeekDay `json:"id"`
	Name   string  `json:"name"`
	Abbrev string  `json:"abbreviation"`
}

// WeekDays lists every slot in id order.
var WeekDays = [DaysInWeek]WeekDayInfo{
	{ID: Sunday, Name: "Domingo", Abbrev: "Dom"},
	{ID: Monday, Name: "Segunda-feira", Abbrev: "Seg"},
	{ID: Tuesday, Name: "Terça-feira", Abbrev: "Ter"},
	{ID: Wednesday, Name: "Quarta-feira", Abbrev: "Qua"},
	{ID: Thursday, Name: "Quinta-feira", Abbrev: "Qui"},
	{ID: Friday, Name: "Sexta-feira", Abbrev: "Sex"},
	{ID: Saturday, Name: "Sábado", Abbrev: "Sáb"},
}

// Valid reports whether the id is inside 0..6.
func (d WeekDay) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Name returns the display name, or an empty string for an invalid id.
func (d WeekDay) Name() string {
	if !d.Valid() {
		return ""
	}
	return WeekDays[d].Name
}

// Abbrev returns the short display name.
func (d WeekDay) Abbrev() string {
	if !d.Valid() {
		return ""
	}
	return WeekDays[d].Abbrev
}

func (d WeekDay) String() string {
	if !d.Valid() {
		return fmt.Sprintf("WeekDay(%d)", int(d))
	}
	return WeekDays[d].Name
}

// ParseWeekDay converts a raw id into a WeekDay.
func ParseWeekDay(id int) (WeekDay, error) {
	day := WeekDay(id)
	if !day.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDay, id)
	}
	return day, nil
}

// WeekDayOf maps a calendar date onto its slot.
func WeekDayOf(t time.Time) WeekDay {
	return WeekDay(t.Weekday())
}
