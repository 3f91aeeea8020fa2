package cron

import (
	"errors"
	"fmt"
	"strings"
)

const scheduleSeparator = ";"

// ParseSchedules splits a string holding one or more cron schedules
// separated by semicolons and validates each of them.
//
// Example:
//
//	"0 6 * * *; 0 18 * * 1-5"
//
// Empty entries (e.g. a trailing semicolon) are ignored. Duplicate schedules
// and unparseable expressions are errors.
func ParseSchedules(spec string) ([]string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("cron spec cannot be empty")
	}

	parts := strings.Split(spec, scheduleSeparator)
	schedules := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		if seen[part] {
			return nil, fmt.Errorf("duplicate schedule '%s'", part)
		}
		seen[part] = true

		if _, err := parseSpec(part); err != nil {
			return nil, fmt.Errorf("schedule '%s': %w", part, err)
		}
		schedules = append(schedules, part)
	}

	if len(schedules) == 0 {
		return nil, errors.New("no valid schedules found in cron spec")
	}
	return schedules, nil
}
