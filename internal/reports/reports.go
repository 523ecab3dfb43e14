// Package reports computes the collections dashboard views: date-range and tab
// filtering of the patient list, and the today/month cash-online collection
// sums. It holds no state and is safe to call from any request.
package reports

import (
	"fmt"
	"sort"
	"time"

	"clinic-management-server/internal/models"
)

// DateFilter selects the rolling or custom window applied to the patient list.
type DateFilter string

const (
	FilterAll     DateFilter = "all"
	FilterOneDay  DateFilter = "1day"
	FilterTwoDays DateFilter = "2days"
	FilterWeek    DateFilter = "7days"
	FilterHalf    DateFilter = "15days"
	FilterMonth   DateFilter = "1month"
	FilterCustom  DateFilter = "custom"
)

// ParseDateFilter validates a date filter query value. Empty defaults to "1day",
// matching the dashboards' initial selection.
func ParseDateFilter(s string) (DateFilter, error) {
	if s == "" {
		return FilterOneDay, nil
	}
	switch f := DateFilter(s); f {
	case FilterAll, FilterOneDay, FilterTwoDays, FilterWeek, FilterHalf, FilterMonth, FilterCustom:
		return f, nil
	}
	return "", fmt.Errorf("unknown date filter %q", s)
}

// Tab scopes the date-filtered list to a lead or appointment view.
type Tab string

const (
	TabAll                Tab = "all"
	TabPendingOpds        Tab = "pendingOpds"
	TabCompletedOpds      Tab = "completedOpds"
	TabTodayAppointments  Tab = "todayAppointments"
	TabFutureAppointments Tab = "futureAppointments"
)

// ParseTab validates a tab query value against the tabs allowed for the
// calling dashboard. Empty selects the first allowed tab.
func ParseTab(s string, allowed ...Tab) (Tab, error) {
	if s == "" {
		return allowed[0], nil
	}
	for _, t := range allowed {
		if Tab(s) == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// Window returns the inclusive [start, end] range for a date filter. For
// rolling filters the start is midnight (in loc) N days or one month back and
// the end is now. For the custom filter, customStart and customEnd are
// calendar dates; the range spans customStart 00:00:00 through customEnd
// 23:59:59.999. The second return is false for FilterAll, meaning no window
// applies.
func Window(f DateFilter, now time.Time, customStart, customEnd time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	switch f {
	case FilterAll:
		return time.Time{}, time.Time{}, false
	case FilterCustom:
		start := startOfDay(customStart, loc)
		end := startOfDay(customEnd, loc).Add(24*time.Hour - time.Millisecond)
		return start, end, true
	case FilterOneDay:
		return startOfDay(now.AddDate(0, 0, -1), loc), now, true
	case FilterTwoDays:
		return startOfDay(now.AddDate(0, 0, -2), loc), now, true
	case FilterWeek:
		return startOfDay(now.AddDate(0, 0, -7), loc), now, true
	case FilterHalf:
		return startOfDay(now.AddDate(0, 0, -15), loc), now, true
	case FilterMonth:
		return startOfDay(now.AddDate(0, -1, 0), loc), now, true
	}
	return time.Time{}, time.Time{}, false
}

// FilterByDate keeps patients whose own updatedAt falls inside the window, or
// who have at least one treatment whose updatedAt does.
func FilterByDate(patients []models.Patient, start, end time.Time, windowed bool) []models.Patient {
	if !windowed {
		return patients
	}

	var out []models.Patient
	for _, p := range patients {
		if inRange(p.UpdatedAt, start, end) {
			out = append(out, p)
			continue
		}
		for _, t := range p.Treatments {
			if inRange(t.UpdatedAt, start, end) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterByTab scopes the list to a lead-status or appointment view. Appointment
// tabs compare nextVisitDate against today by calendar date in loc.
func FilterByTab(patients []models.Patient, tab Tab, now time.Time, loc *time.Location) []models.Patient {
	switch tab {
	case TabPendingOpds:
		return filter(patients, func(p models.Patient) bool { return p.Lead == models.LeadOpen })
	case TabCompletedOpds:
		return filter(patients, func(p models.Patient) bool { return p.Lead == models.LeadClosed })
	case TabTodayAppointments:
		today := startOfDay(now, loc)
		return filter(patients, func(p models.Patient) bool {
			return hasVisitOn(p, func(visit time.Time) bool { return visit.Equal(today) }, loc)
		})
	case TabFutureAppointments:
		today := startOfDay(now, loc)
		return filter(patients, func(p models.Patient) bool {
			return hasVisitOn(p, func(visit time.Time) bool { return visit.After(today) }, loc)
		})
	}
	return patients
}

// SortByUpdatedAt orders patients most recently touched first. The input slice
// is sorted in place and returned.
func SortByUpdatedAt(patients []models.Patient) []models.Patient {
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].UpdatedAt.After(patients[j].UpdatedAt)
	})
	return patients
}

// Summary holds the collection totals for today and the current calendar
// month, split by payment mode. Treatments with an empty or unrecognized
// payment mode contribute to the totals but to neither split bucket.
type Summary struct {
	TodayTotal  float64 `json:"todayTotal"`
	TodayCash   float64 `json:"todayCash"`
	TodayOnline float64 `json:"todayOnline"`
	MonthTotal  float64 `json:"monthTotal"`
	MonthCash   float64 `json:"monthCash"`
	MonthOnline float64 `json:"monthOnline"`
}

// Summarize walks every treatment of every patient and accumulates
// amountToCollect into the today and month buckets. A treatment counts toward
// "today" when its updatedAt calendar day in loc is today or later, and toward
// the month when it is on or after the first of the current month.
func Summarize(patients []models.Patient, now time.Time, loc *time.Location) Summary {
	var s Summary

	today := startOfDay(now, loc)
	year, month, _ := now.In(loc).Date()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	for _, p := range patients {
		for _, t := range p.Treatments {
			day := startOfDay(t.UpdatedAt, loc)
			amount := t.AmountToCollect

			if !day.Before(today) {
				s.TodayTotal += amount
				switch t.PaymentMode {
				case models.PaymentCash:
					s.TodayCash += amount
				case models.PaymentOnline:
					s.TodayOnline += amount
				}
			}

			if !day.Before(monthStart) {
				s.MonthTotal += amount
				switch t.PaymentMode {
				case models.PaymentCash:
					s.MonthCash += amount
				case models.PaymentOnline:
					s.MonthOnline += amount
				}
			}
		}
	}
	return s
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func filter(patients []models.Patient, keep func(models.Patient) bool) []models.Patient {
	var out []models.Patient
	for _, p := range patients {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func hasVisitOn(p models.Patient, match func(time.Time) bool, loc *time.Location) bool {
	for _, t := range p.Treatments {
		if t.TreatmentStatus == models.TreatmentNextVisitRequired && t.NextVisitDate != nil {
			if match(startOfDay(*t.NextVisitDate, loc)) {
				return true
			}
		}
	}
	return false
}
