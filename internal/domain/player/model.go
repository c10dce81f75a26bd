package player

import "fmt"

// Player identity is the (Name, Born) pair: two players can share a name as
// long as their birth years differ. Nation/Position are optional attributes
// taken from the first file that mentions the player.
type Player struct {
	ID       int64
	Name     string
	Nation   *string
	Born     *int
	Position *string
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
