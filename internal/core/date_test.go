package core

import "testing"

func TestParseCivilDate(t *testing.T) {
	cases := []struct {
		in   string
		want CivilDate
		ok   bool
	}{
		{"2025-03-15", CivilDate{2025, 3, 15}, true},
		{"2025-12-01", CivilDate{2025, 12, 1}, true},
		{" 2025-01-02 ", CivilDate{2025, 1, 2}, true},
		// Time components are cut, never interpreted.
		{"2025-03-15T23:59:59Z", CivilDate{2025, 3, 15}, true},
		{"2025-03-15 00:00:01", CivilDate{2025, 3, 15}, true},
		{"2025-13-01", CivilDate{}, false},
		{"2025-00-10", CivilDate{}, false},
		{"2025-01-32", CivilDate{}, false},
		{"15/03/2025", CivilDate{}, false},
		{"", CivilDate{}, false},
	}
	for _, tc := range cases {
		got, err := ParseCivilDate(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseCivilDate(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseCivilDate(%q): expected error", tc.in)
		}
		if got != tc.want {
			t.Fatalf("ParseCivilDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCivilDateLiteralDecomposition(t *testing.T) {
	// A timestamp just before midnight must keep its literal day; a
	// timezone-aware parse could shift it into the next or previous month.
	d, err := ParseCivilDate("2025-01-31T23:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if d.Day != 31 || d.Month != 1 {
		t.Fatalf("literal components lost: %v", d)
	}
}

func TestCivilDateDaysSince(t *testing.T) {
	a := NewCivilDate(2025, 3, 15)
	cases := []struct {
		b    CivilDate
		want int
	}{
		{NewCivilDate(2025, 3, 15), 0},
		{NewCivilDate(2025, 3, 9), 6},
		{NewCivilDate(2025, 3, 16), -1},
		{NewCivilDate(2025, 2, 28), 15},
		{NewCivilDate(2024, 3, 15), 365},
	}
	for _, tc := range cases {
		if got := a.DaysSince(tc.b); got != tc.want {
			t.Fatalf("%v.DaysSince(%v) = %d, want %d", a, tc.b, got, tc.want)
		}
	}
}

func TestCivilDateJSONRoundTrip(t *testing.T) {
	d := NewCivilDate(2025, 3, 5)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-05"` {
		t.Fatalf("marshal = %s", b)
	}
	var back CivilDate
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Fatalf("round trip: %v != %v", back, d)
	}
}
