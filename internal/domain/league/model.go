package league

import "fmt"

// League is one competition (e.g. epl, laliga) from the registry file.
type League struct {
	ID      int64
	Code    string
	Name    string
	Country string
	CompID  int
}

func (l League) Validate() error {
	if l.Code == "" {
		return fmt.Errorf("league code is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
