package etl

import (
	"testing"

	"github.com/mavdeev/footstats/internal/config"
)

func testCleaner() *Cleaner {
	return NewCleaner(config.SpecialValuesConfig{
		NullValues:   []string{"", "N/A", "NULL", "None", "-"},
		Replacements: map[string]string{"—": ""},
	})
}

func TestCleanerClean(t *testing.T) {
	cleaner := testCleaner()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Arsenal", "Arsenal", true},
		{"  Arsenal ", "Arsenal", true},
		{"", "", false},
		{"N/A", "", false},
		{"NULL", "", false},
		{"None", "", false},
		{"-", "", false},
		{"—", "", false},
	}

	for _, tt := range tests {
		got, ok := cleaner.Clean(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCleanerNumeric(t *testing.T) {
	cleaner := testCleaner()

	if got := cleaner.Int("54,013"); got == nil || *got != 54013 {
		t.Fatalf("Int comma-separated = %v, want 54013", got)
	}
	if got := cleaner.Int("12.0"); got == nil || *got != 12 {
		t.Fatalf("Int fractional = %v, want 12", got)
	}
	if got := cleaner.Int("abc"); got != nil {
		t.Fatalf("Int non-numeric = %v, want nil", got)
	}
	if got := cleaner.Float("2.37"); got == nil || *got != 2.37 {
		t.Fatalf("Float = %v, want 2.37", got)
	}
	if got := cleaner.Float("N/A"); got != nil {
		t.Fatalf("Float null token = %v, want nil", got)
	}
}

func TestNormalizeTeamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Arsenal", "arsenal"},
		{"  Nott'ham  Forest ", "nott'ham forest"},
		{"Manchester Utd", "manchester utd"},
	}

	for _, tt := range tests {
		if got := NormalizeTeamName(tt.in); got != tt.want {
			t.Errorf("NormalizeTeamName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		in         string
		home, away int
		ok         bool
	}{
		{"4-1", 4, 1, true},
		{"4–1", 4, 1, true},
		{"4—1", 4, 1, true},
		{"4:1", 4, 1, true},
		{"0-0", 0, 0, true},
		{"", 0, 0, false},
		{"postponed", 0, 0, false},
	}

	for _, tt := range tests {
		home, away := ParseScore(tt.in)
		if tt.ok {
			if home == nil || away == nil {
				t.Errorf("ParseScore(%q) = (%v, %v), want (%d, %d)", tt.in, home, away, tt.home, tt.away)
				continue
			}
			if *home != tt.home || *away != tt.away {
				t.Errorf("ParseScore(%q) = (%d, %d), want (%d, %d)", tt.in, *home, *away, tt.home, tt.away)
			}
			continue
		}
		if home != nil || away != nil {
			t.Errorf("ParseScore(%q) = (%v, %v), want nils", tt.in, home, away)
		}
	}
}

func TestParseNationCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"eng ENG", "ENG", true},
		{"br BRA", "BRA", true},
		{"ENG", "ENG", true},
		{"", "", false},
	}

	for _, tt := range tests {
		got := ParseNationCode(tt.in)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("ParseNationCode(%q) = %v, want %q", tt.in, got, tt.want)
			}
			continue
		}
		if got != nil {
			t.Errorf("ParseNationCode(%q) = %q, want nil", tt.in, *got)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2019-08-09", "2019-08-09", true},
		{"09/08/2019", "2019-08-09", true},
		{"2019/08/09", "2019-08-09", true},
		{"09.08.2019", "2019-08-09", true},
		{"not a date", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}

func TestParseKickoff(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"20:00", "20:00", true},
		{"20:00 (21:00)", "20:00", true},
		{"20:00:00", "20:00", true},
		{"", "", false},
		{"late", "", false},
	}

	for _, tt := range tests {
		got := ParseKickoff(tt.in)
		if tt.ok {
			if got == nil || *got != tt.want {
				t.Errorf("ParseKickoff(%q) = %v, want %q", tt.in, got, tt.want)
			}
			continue
		}
		if got != nil {
			t.Errorf("ParseKickoff(%q) = %q, want nil", tt.in, *got)
		}
	}
}
