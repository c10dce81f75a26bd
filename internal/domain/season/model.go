package season

import "fmt"

// Season is one campaign, either cross-year ("2019-2020") or calendar
// ("2024" for leagues like MLS).
type Season struct {
	ID        int64
	Code      string
	StartYear *int
	EndYear   *int
}

func (s Season) Validate() error {
	if s.Code == "" {
		return fmt.Errorf("season code is required")
	}
	if s.StartYear != nil && s.EndYear != nil && *s.StartYear > *s.EndYear {
		return fmt.Errorf("season %s start year %d is after end year %d", s.Code, *s.StartYear, *s.EndYear)
	}

	return nil
}
