package team

import "fmt"

// Team is a club de-duplicated across source files by its normalized name.
// Name keeps the first spelling encountered; NormalizedName is the identity
// key ("Nott'ham Forest" and "Nott'ham  Forest " collapse to one row).
type Team struct {
	ID             int64
	Name           string
	NormalizedName string
}

func (t Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.NormalizedName == "" {
		return fmt.Errorf("team normalized name is required")
	}

	return nil
}
