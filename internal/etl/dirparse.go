package etl

import (
	"regexp"
	"strconv"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var dirNamePattern = regexp.MustCompile(`^([a-z0-9]+)_(.+)$`)

// ParseDirectoryName splits a raw-data directory name like "epl_2019-2020"
// into its league code and season code.
func ParseDirectoryName(name string) (leagueCode, seasonCode string, err error) {
	groups := dirNamePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(name)))
	if groups == nil {
		return "", "", crerr.Newf("directory %q does not match <league>_<season>", name)
	}
	return groups[1], groups[2], nil
}

var (
	seasonRangePattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
	seasonYearPattern  = regexp.MustCompile(`^(\d{4})$`)
)

// SeasonYears derives start and end years from a season code. "2019-2020"
// yields both, a single "2020" yields the same year twice, anything else
// yields nils (the season row still gets created, years unknown).
func SeasonYears(code string) (start, end *int) {
	code = strings.TrimSpace(code)

	if groups := seasonRangePattern.FindStringSubmatch(code); groups != nil {
		s, _ := strconv.Atoi(groups[1])
		e, _ := strconv.Atoi(groups[2])
		return &s, &e
	}
	if groups := seasonYearPattern.FindStringSubmatch(code); groups != nil {
		y, _ := strconv.Atoi(groups[1])
		yy := y
		return &y, &yy
	}

	return nil, nil
}
