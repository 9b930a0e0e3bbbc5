// Package views holds the templ components for the scoreboard pages and the
// fragments pushed over SSE. Edit the .templ files and run `task generate`.
package views

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/game"
)

// FlashMessage is a one-off message carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds data common to every page
type PageData struct {
	Title string
	Flash *FlashMessage
}

// Element ids that SSE fragments replace
const (
	StandingsID    = "standings"
	RoundHistoryID = "round-history"
	RoundFormID    = "round-form"
	LastEventID    = "last-event"
)

const timeFormat = "2006-01-02 15:04"

func gamePath(id model.GameID) string {
	return "/games/" + url.PathEscape(string(id))
}

func eventsPath(id model.GameID) string {
	return gamePath(id) + "/events"
}

func playerList(names []model.PlayerName) string {
	out := make([]string, len(names))
	for i, p := range names {
		out[i] = string(p)
	}
	return strings.Join(out, ", ")
}

func place(p game.PlayerStanding) string {
	switch {
	case p.Seat >= 0:
		return "Seat " + strconv.Itoa(p.Seat+1)
	case p.QueuePosition >= 0:
		return "Queue " + strconv.Itoa(p.QueuePosition+1)
	default:
		return "-"
	}
}

func average(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func seatLabel(i int) string {
	return "Seat " + strconv.Itoa(i+1)
}

// cardsField names the per-seat input the round normalizer reads
func cardsField(i int) string {
	return "cards" + strconv.Itoa(i+1)
}

func seatCell(seat model.Seat) string {
	return fmt.Sprintf("%s = %d (%d cards)", seat.Player, seat.Points, seat.Cards)
}

func confirmedAt(r model.Round) string {
	if r.ConfirmedAt.IsZero() {
		return ""
	}
	return r.ConfirmedAt.Format(timeFormat)
}

// newestFirst returns the indexes of n rounds, last round first
func newestFirst(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

func describeElimination(e model.Elimination) string {
	rule := "50"
	if e.Rule == model.RuleTwentyFive {
		rule = "25"
	}
	switch {
	case e.Seat < 0:
		return fmt.Sprintf("%s crossed %s (%d).", e.Player, rule, e.NewTotal)
	case e.Replacement.IsEmpty():
		return fmt.Sprintf("%s out on the %s rule, seat %d left empty.", e.Player, rule, e.Seat+1)
	default:
		return fmt.Sprintf("%s out on the %s rule, %s takes seat %d.", e.Player, rule, e.Replacement, e.Seat+1)
	}
}
