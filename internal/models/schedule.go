package models

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultCheckTime = "09:00"

// Schedule is the singleton daily-check setting. Exactly one logical instance
// exists; both fields are always persisted and swapped together.
type Schedule struct {
	CheckTime string `json:"checkTime"` // "HH:MM", 24h clock
	Enabled   bool   `json:"enabled"`
}

func DefaultSchedule() Schedule {
	return Schedule{CheckTime: DefaultCheckTime, Enabled: true}
}

// ClockTime parses the schedule's check time into hour and minute.
func (s Schedule) ClockTime() (hour, minute int, err error) {
	norm, err := NormalizeCheckTime(s.CheckTime)
	if err != nil {
		return 0, 0, err
	}
	hour, _ = strconv.Atoi(norm[:2])
	minute, _ = strconv.Atoi(norm[3:])
	return hour, minute, nil
}

// NormalizeCheckTime canonicalizes a check time to zero-padded "HH:MM".
// Seconds, if present, are truncated: the schedule has minute resolution.
func NormalizeCheckTime(v string) (string, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("invalid check time %q, expected HH:MM", v)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in check time %q", v)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in check time %q", v)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
