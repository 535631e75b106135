package main

import "time"

const dayKeyLayout = "2006-01-02"

// DateFilter holds the calendar period filter. Day keys are ISO dates, which
// order lexicographically, so boundary derivation is a plain string min/max.
// Selection is tentative until Submit commits it as the active filter.
type DateFilter struct {
	tentative map[string]bool
	active    map[string]bool
}

func NewDateFilter() *DateFilter {
	return &DateFilter{
		tentative: map[string]bool{},
		active:    map[string]bool{},
	}
}

// SelectDay follows the period convention: the first tap sets the start, a
// later tap extends the selection into a contiguous range, a tap inside an
// existing range clears it, and a tap before the start restarts from that
// day.
func (f *DateFilter) SelectDay(key string) {
	if _, err := time.Parse(dayKeyLayout, key); err != nil {
		return
	}
	if len(f.tentative) == 0 {
		f.tentative[key] = true
		return
	}
	start, end := borders(f.tentative)
	if key >= start && key <= end {
		f.tentative = map[string]bool{}
		return
	}
	if key < start {
		f.tentative = map[string]bool{key: true}
		return
	}
	for _, day := range daysBetween(start, key) {
		f.tentative[day] = true
	}
}

// Submit commits the tentative selection as the active filter.
func (f *DateFilter) Submit() {
	f.active = map[string]bool{}
	for day := range f.tentative {
		f.active[day] = true
	}
}

// Clear empties both the tentative and the active selection.
func (f *DateFilter) Clear() {
	f.tentative = map[string]bool{}
	f.active = map[string]bool{}
}

func (f *DateFilter) Selected(key string) bool { return f.tentative[key] }

func (f *DateFilter) Empty() bool { return len(f.active) == 0 }

// Borders returns the active filter boundaries; both empty when nothing is
// selected.
func (f *DateFilter) Borders() (string, string) {
	return borders(f.active)
}

func (f *DateFilter) TentativeBorders() (string, string) {
	return borders(f.tentative)
}

func (f *DateFilter) Params() ContentParams {
	start, end := f.Borders()
	return ContentParams{DateStart: start, DateEnd: end}
}

func borders(days map[string]bool) (string, string) {
	start, end := "", ""
	for day := range days {
		if start == "" || day < start {
			start = day
		}
		if end == "" || day > end {
			end = day
		}
	}
	return start, end
}

func daysBetween(start string, end string) []string {
	from, err := time.Parse(dayKeyLayout, start)
	if err != nil {
		return nil
	}
	to, err := time.Parse(dayKeyLayout, end)
	if err != nil {
		return nil
	}
	days := []string{}
	for !from.After(to) {
		days = append(days, from.Format(dayKeyLayout))
		from = from.AddDate(0, 0, 1)
	}
	return days
}
