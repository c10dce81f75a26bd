package etl

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mavdeev/footstats/internal/config"
)

// Cleaner normalizes raw CSV cell values: null tokens become absent values,
// configured replacements are applied, whitespace is trimmed.
type Cleaner struct {
	nullValues   map[string]struct{}
	replacements map[string]string
}

func NewCleaner(cfg config.SpecialValuesConfig) *Cleaner {
	nulls := make(map[string]struct{}, len(cfg.NullValues))
	for _, v := range cfg.NullValues {
		nulls[v] = struct{}{}
	}

	return &Cleaner{
		nullValues:   nulls,
		replacements: cfg.Replacements,
	}
}

// Clean trims the value, resolves null tokens and replacements. The second
// result is false when the value should be treated as absent.
func (c *Cleaner) Clean(raw string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	if _, isNull := c.nullValues[value]; isNull {
		return "", false
	}
	if replacement, ok := c.replacements[value]; ok {
		if replacement == "" {
			return "", false
		}
		return replacement, true
	}

	return value, true
}

// String returns a pointer to the cleaned value, nil when absent.
func (c *Cleaner) String(raw string) *string {
	value, ok := c.Clean(raw)
	if !ok {
		return nil
	}
	return &value
}

// Float parses the cleaned value as a number. Thousands separators are
// stripped first ("54,013" attendance style).
func (c *Cleaner) Float(raw string) *float64 {
	value, ok := c.Clean(raw)
	if !ok {
		return nil
	}

	value = strings.ReplaceAll(value, ",", "")
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// Int parses the cleaned value as an integer, truncating fractional parts
// the way the source exports occasionally carry them ("12.0").
func (c *Cleaner) Int(raw string) *int {
	parsed := c.Float(raw)
	if parsed == nil {
		return nil
	}
	value := int(*parsed)
	return &value
}

// NormalizeTeamName collapses whitespace and lowercases so spelling variants
// of the same club resolve to one dimension row.
func NormalizeTeamName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\s*[-–—]\s*(\d+)`),
	regexp.MustCompile(`^(\d+)\s*:\s*(\d+)`),
}

// ParseScore splits "4-1" (also "4:1" and dash variants) into home and away
// goals. Unparseable scores yield nil pairs: the match row keeps the raw
// string and the goals stay unknown.
func ParseScore(score string) (*int, *int) {
	score = strings.TrimSpace(score)
	if score == "" {
		return nil, nil
	}

	for _, pattern := range scorePatterns {
		groups := pattern.FindStringSubmatch(score)
		if groups == nil {
			continue
		}
		home, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		away, err := strconv.Atoi(groups[2])
		if err != nil {
			continue
		}
		return &home, &away
	}

	return nil, nil
}

var nationCodePattern = regexp.MustCompile(`\b([A-Z]{3})\b`)

// ParseNationCode extracts the 3-letter country code from FBref's
// "eng ENG" style nation cells.
func ParseNationCode(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if groups := nationCodePattern.FindStringSubmatch(raw); groups != nil {
		return &groups[1]
	}
	if len(raw) >= 3 {
		code := strings.ToUpper(raw[len(raw)-3:])
		return &code
	}

	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
	"2006.01.02",
}

// ParseDate tries the date layouts seen across source seasons.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

var parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// ParseKickoff normalizes a kickoff cell to "HH:MM". Venue-local times in
// parentheses ("20:00 (21:00)") are dropped.
func ParseKickoff(raw string) *string {
	raw = strings.TrimSpace(parentheticalPattern.ReplaceAllString(raw, ""))
	if raw == "" {
		return nil
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			value := parsed.Format("15:04")
			return &value
		}
	}

	return nil
}
