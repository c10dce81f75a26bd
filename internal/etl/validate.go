package etl

import (
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/mavdeev/footstats/internal/config"
	"github.com/mavdeev/footstats/internal/domain/match"
	"github.com/mavdeev/footstats/internal/domain/player"
	"github.com/mavdeev/footstats/internal/platform/logging"
)

// RowValidator applies the configurable sanity checks on top of the domain
// Validate methods. Out-of-range values that are merely suspicious get a
// warning, values that would corrupt the schema get an error.
type RowValidator struct {
	cfg    config.ValidationConfig
	logger *logging.Logger
}

func NewRowValidator(cfg config.ValidationConfig, logger *logging.Logger) *RowValidator {
	return &RowValidator{cfg: cfg, logger: logger}
}

func (v *RowValidator) ValidateMatch(m match.Match) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if !m.Date.IsZero() {
		year := m.Date.Year()
		if year < v.cfg.MinYear || year > v.cfg.MaxYear {
			return crerr.Newf("match date %s outside %d..%d",
				m.Date.Format("2006-01-02"), v.cfg.MinYear, v.cfg.MaxYear)
		}
	}

	if m.HomeGoals != nil && *m.HomeGoals > v.cfg.MaxGoalsPerMatch {
		v.logger.Warn("implausible home goal count", "goals", *m.HomeGoals)
	}
	if m.AwayGoals != nil && *m.AwayGoals > v.cfg.MaxGoalsPerMatch {
		v.logger.Warn("implausible away goal count", "goals", *m.AwayGoals)
	}

	return nil
}

func (v *RowValidator) ValidatePlayer(p player.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if p.Born != nil {
		if *p.Born < v.cfg.MinBirthYear || *p.Born > time.Now().Year() {
			return crerr.Newf("player %q birth year %d out of range", p.Name, *p.Born)
		}
	}

	return nil
}

// CheckStat warns about negative counting stats when enabled. The value is
// still loaded as-is.
func (v *RowValidator) CheckStat(column string, value float64) {
	if v.cfg.CheckNegativeStat && value < 0 {
		v.logger.Warn("negative stat value", "column", column, "value", value)
	}
}
