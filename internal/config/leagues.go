package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LeagueEntry describes one competition in the league registry file.
type LeagueEntry struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
	CompID  int    `yaml:"comp_id"`
}

type leagueRegistryFile struct {
	Leagues map[string]LeagueEntry `yaml:"leagues"`
}

// LoadLeagues reads the leagues.yaml registry keyed by league code
// (epl, laliga, bundesliga, ...).
func LoadLeagues(path string) (map[string]LeagueEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read leagues registry %s: %w", path, err)
	}

	var file leagueRegistryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse leagues registry %s: %w", path, err)
	}
	if len(file.Leagues) == 0 {
		return nil, fmt.Errorf("leagues registry %s has no leagues", path)
	}

	for code, entry := range file.Leagues {
		if strings.TrimSpace(code) == "" {
			return nil, fmt.Errorf("leagues registry %s has an empty league code", path)
		}
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("league %q is missing a name", code)
		}
		if entry.CompID < 0 {
			return nil, fmt.Errorf("league %q has a negative comp_id", code)
		}
	}

	return file.Leagues, nil
}

// SortedLeagueCodes returns the registry keys in deterministic order.
func SortedLeagueCodes(leagues map[string]LeagueEntry) []string {
	codes := make([]string, 0, len(leagues))
	for code := range leagues {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
