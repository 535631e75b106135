package main

import "testing"

func TestDateFilterBorders(t *testing.T) {
	filter := NewDateFilter()
	start, end := filter.Borders()
	if start != "" || end != "" {
		t.Fatalf("empty selection must yield empty borders")
	}

	filter.SelectDay("2024-01-03")
	filter.SelectDay("2024-01-07")
	filter.Submit()
	start, end = filter.Borders()
	if start != "2024-01-03" || end != "2024-01-07" {
		t.Fatalf("borders wrong: %s %s", start, end)
	}
}

func TestDateFilterPeriodSelection(t *testing.T) {
	filter := NewDateFilter()

	filter.SelectDay("2024-01-03")
	if !filter.Selected("2024-01-03") {
		t.Fatalf("first tap must set the start")
	}

	filter.SelectDay("2024-01-06")
	for _, day := range []string{"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"} {
		if !filter.Selected(day) {
			t.Fatalf("range must be contiguous, missing %s", day)
		}
	}

	// a tap inside the range clears the selection
	filter.SelectDay("2024-01-04")
	start, end := filter.TentativeBorders()
	if start != "" || end != "" {
		t.Fatalf("inside tap must clear, got %s-%s", start, end)
	}
}

func TestDateFilterEarlierTapRestarts(t *testing.T) {
	filter := NewDateFilter()
	filter.SelectDay("2024-01-05")
	filter.SelectDay("2024-01-02")
	start, end := filter.TentativeBorders()
	if start != "2024-01-02" || end != "2024-01-02" {
		t.Fatalf("earlier tap must restart the selection, got %s-%s", start, end)
	}
}

func TestDateFilterSubmitAndClear(t *testing.T) {
	filter := NewDateFilter()
	filter.SelectDay("2024-02-01")

	// tentative selection is not active until submitted
	if start, _ := filter.Borders(); start != "" {
		t.Fatalf("selection must not be active before Submit")
	}
	filter.Submit()
	if start, _ := filter.Borders(); start != "2024-02-01" {
		t.Fatalf("Submit did not commit")
	}

	// further taps do not disturb the active filter until the next Submit
	filter.SelectDay("2024-02-10")
	if _, end := filter.Borders(); end != "2024-02-01" {
		t.Fatalf("active filter changed without Submit")
	}

	filter.Clear()
	if !filter.Empty() {
		t.Fatalf("Clear must empty the active selection")
	}
	if start, _ := filter.TentativeBorders(); start != "" {
		t.Fatalf("Clear must empty the tentative selection too")
	}
}

func TestDateFilterIgnoresBadKeys(t *testing.T) {
	filter := NewDateFilter()
	filter.SelectDay("not-a-date")
	if start, _ := filter.TentativeBorders(); start != "" {
		t.Fatalf("bad day key must be ignored")
	}
}

func TestDateFilterParams(t *testing.T) {
	filter := NewDateFilter()
	filter.SelectDay("2024-01-01")
	filter.SelectDay("2024-01-07")
	filter.Submit()
	params := filter.Params()
	if params.DateStart != "2024-01-01" || params.DateEnd != "2024-01-07" {
		t.Fatalf("params wrong: %+v", params)
	}
}
