package models

import "testing"

func TestNormalizeCheckTime(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"9:5", "09:05", false},
		{"14:30:45", "14:30", false}, // seconds truncated
		{"23:59", "23:59", false},
		{" 07:15 ", "07:15", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"", "", true},
		{"12", "", true},
	}

	for _, c := range cases {
		got, err := NormalizeCheckTime(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizeCheckTime(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCheckTime(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeCheckTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClockTime(t *testing.T) {
	s := Schedule{CheckTime: "14:30", Enabled: true}
	hour, minute, err := s.ClockTime()
	if err != nil {
		t.Fatalf("ClockTime: %v", err)
	}
	if hour != 14 || minute != 30 {
		t.Fatalf("ClockTime = %d:%d, want 14:30", hour, minute)
	}

	if _, _, err := (Schedule{CheckTime: "bogus"}).ClockTime(); err == nil {
		t.Fatal("expected error for bogus check time")
	}
}

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()
	if s.CheckTime != "09:00" || !s.Enabled {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}
