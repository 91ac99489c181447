package game

import (
	"fmt"
	"strings"
)

type MatchResult int

const (
	ResultInProgress MatchResult = iota
	ResultVictory
	ResultDraw
)

func (r MatchResult) String() string {
	switch r {
	case ResultInProgress:
		return "in_progress"
	case ResultVictory:
		return "victory"
	case ResultDraw:
		return "draw"
	default:
		return "unknown"
	}
}

type MatchOutcome struct {
	Result      MatchResult
	Winner      string
	WinnerID    EntityID
	WinnerHP    int
	Destroyed   []string
	Tick        int
	Description string
}

// DetermineOutcome judges the match from launcher hit points. The match is
// still in progress while every launcher has hp left. Otherwise the
// surviving launcher with the most hp wins; no survivors, or a tie at the
// top, is a draw.
func DetermineOutcome(launchers []*Launcher, tick int) MatchOutcome {
	out := MatchOutcome{Tick: tick}
	var best *Launcher
	tied := false
	for _, l := range launchers {
		if l.HP <= 0 {
			out.Destroyed = append(out.Destroyed, l.Name)
			continue
		}
		switch {
		case best == nil || l.HP > best.HP:
			best = l
			tied = false
		case l.HP == best.HP:
			tied = true
		}
	}

	switch {
	case len(out.Destroyed) == 0:
		out.Result = ResultInProgress
		out.Description = fmt.Sprintf("in progress at T=%d", tick)
	case best == nil:
		out.Result = ResultDraw
		out.Description = fmt.Sprintf("draw at T=%d: all launchers destroyed (%s)",
			tick, strings.Join(out.Destroyed, ", "))
	case tied:
		out.Result = ResultDraw
		out.Description = fmt.Sprintf("draw at T=%d: %s destroyed, survivors tied at hp=%d",
			tick, strings.Join(out.Destroyed, ", "), best.HP)
	default:
		out.Result = ResultVictory
		out.Winner = best.Name
		out.WinnerID = best.id
		out.WinnerHP = best.HP
		out.Description = fmt.Sprintf("%s wins at T=%d with hp=%d/%d; destroyed: %s",
			best.Name, tick, best.HP, best.MaxHP, strings.Join(out.Destroyed, ", "))
	}
	return out
}
