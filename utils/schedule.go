package utils

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// GenerateSessionDates expands a weekly recurrence pattern into concrete
// future instants, anchored to the current moment as week zero. Every
// returned timestamp is on or after the instant of the call: if the earliest
// selected weekday has already passed this week, the whole series shifts
// forward by seven days.
func GenerateSessionDates(numberOfWeeks int, daysOfWeek []string, timeOfDay string) ([]time.Time, error) {
	return generateSessionDatesAt(time.Now(), numberOfWeeks, daysOfWeek, timeOfDay)
}

func generateSessionDatesAt(now time.Time, numberOfWeeks int, daysOfWeek []string, timeOfDay string) ([]time.Time, error) {
	if numberOfWeeks < 1 {
		return nil, errors.New("number of weeks must be a positive integer")
	}
	if len(daysOfWeek) == 0 {
		return nil, errors.New("at least one day of the week is required")
	}

	hour, minute, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, err
	}

	// Day offsets from "today", deduplicated in case a weekday is listed twice.
	offsetSet := make(map[int]struct{}, len(daysOfWeek))
	for _, name := range daysOfWeek {
		weekday, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown day of week: %q", name)
		}
		offset := (int(weekday) - int(now.Weekday()) + 7) % 7
		offsetSet[offset] = struct{}{}
	}

	offsets := make([]int, 0, len(offsetSet))
	for offset := range offsetSet {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	shift := 0
	if dayAt(now, offsets[0], hour, minute).Before(now) {
		shift = 7
	}

	seen := make(map[int64]struct{}, numberOfWeeks*len(offsets))
	dates := make([]time.Time, 0, numberOfWeeks*len(offsets))
	for week := 0; week < numberOfWeeks; week++ {
		for _, offset := range offsets {
			date := dayAt(now, offset+shift+week*7, hour, minute)
			if _, ok := seen[date.Unix()]; ok {
				continue
			}
			seen[date.Unix()] = struct{}{}
			dates = append(dates, date)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func dayAt(anchor time.Time, dayOffset, hour, minute int) time.Time {
	return time.Date(anchor.Year(), anchor.Month(), anchor.Day()+dayOffset, hour, minute, 0, 0, anchor.Location())
}

func parseTimeOfDay(timeOfDay string) (int, int, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day: %q, expected HH:MM", timeOfDay)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in time of day: %q", timeOfDay)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in time of day: %q", timeOfDay)
	}
	return hour, minute, nil
}
