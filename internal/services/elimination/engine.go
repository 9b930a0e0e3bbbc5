// Package elimination applies confirmed rounds to a game: threshold crossings,
// seat rotation through the queue and the one-shot 25 rule.
//
// Every operation takes a game record and returns a new one; the input is never modified.
package elimination

import (
	"sort"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/totals"
)

const (
	// LevelStep is the size of each repeating elimination threshold
	LevelStep = 50
	// OneShotThreshold is the single-use low threshold
	OneShotThreshold = 25
)

// Outcome describes what a confirmed round did to the lineup
type Outcome struct {
	Eliminations     []model.Elimination
	OneShotTriggered bool
}

// candidate is a seated player who crossed a threshold this round
type candidate struct {
	player    model.PlayerName
	prevTotal int
	newTotal  int
	overshoot int
}

// sortCandidates orders by overshoot, then prevTotal, both descending.
// The stable sort keeps seat order for full ties.
func sortCandidates(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].overshoot != cs[j].overshoot {
			return cs[i].overshoot > cs[j].overshoot
		}
		return cs[i].prevTotal > cs[j].prevTotal
	})
}

// ConfirmRound appends the round to the game and applies both elimination rules.
// A round without names is credited to the currently seated players.
// Points are assumed to be validated by the caller.
func ConfirmRound(game *model.Game, round model.Round) (*model.Game, Outcome) {
	next := game.Clone()
	if next.Levels == nil {
		next.Levels = make(map[model.PlayerName]int)
	}

	if !round.HasPlayers() {
		round = round.WithPlayers(next.Lineup.Active)
	} else {
		round = round.Clone()
	}
	before := next.Lineup.Clone()
	round.LineupBefore = &before

	prior := totals.Compute(next.Rounds, next.Lineup)

	var fifty, twentyFive []candidate
	for _, seat := range round.Seats {
		if seat.Player.IsEmpty() {
			continue
		}
		prev := prior.Total(seat.Player)
		post := prev + seat.Points

		threshold := (next.Levels[seat.Player] + 1) * LevelStep
		if post >= threshold {
			fifty = append(fifty, candidate{seat.Player, prev, post, post - threshold})
		}
		if !next.OneShot.Used && prev < OneShotThreshold && post >= OneShotThreshold {
			twentyFive = append(twentyFive, candidate{seat.Player, prev, post, post - OneShotThreshold})
		}
	}
	sortCandidates(fifty)
	sortCandidates(twentyFive)

	var outcome Outcome
	rotated := make(map[model.PlayerName]bool, len(fifty))

	for _, c := range fifty {
		next.Levels[c.player] = c.newTotal / LevelStep
		rotated[c.player] = true
		outcome.Eliminations = append(outcome.Eliminations,
			rotate(&next.Lineup, c, model.RuleFifty, next.Levels[c.player]))
	}

	if len(twentyFive) > 0 {
		c := twentyFive[0]
		next.OneShot = model.OneShot{Used: true, UsedBy: c.player}
		outcome.OneShotTriggered = true

		if next.Levels[c.player] < 1 {
			next.Levels[c.player] = 1
		}
		if !rotated[c.player] {
			outcome.Eliminations = append(outcome.Eliminations,
				rotate(&next.Lineup, c, model.RuleTwentyFive, next.Levels[c.player]))
		}
	}

	next.Rounds = append(next.Rounds, round)
	return next, outcome
}

// rotate moves the candidate from their seat to the back of the queue and
// seats the head of the queue in their place. An empty queue leaves the seat empty.
// A candidate who is not seated keeps their level change but nobody moves.
func rotate(lineup *model.Lineup, c candidate, rule model.EliminationRule, level int) model.Elimination {
	e := model.Elimination{
		Player:    c.player,
		Seat:      lineup.SeatOf(c.player),
		Rule:      rule,
		PrevTotal: c.prevTotal,
		NewTotal:  c.newTotal,
		Overshoot: c.overshoot,
		Level:     level,
	}
	if e.Seat < 0 {
		return e
	}

	if len(lineup.Queue) > 0 {
		e.Replacement = lineup.Queue[0]
		lineup.Queue = lineup.Queue[1:]
	}
	lineup.Active[e.Seat] = e.Replacement
	lineup.Queue = append(lineup.Queue, c.player)
	return e
}
