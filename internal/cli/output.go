package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mcoot/scoreboard/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		o.println(string(data))
	} else {
		o.println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Health:
		o.printf("Status: %s\n", v.Status)
	case response.GameList:
		o.printGameList(v)
	case response.FullGameList:
		for i, g := range v.Games {
			if i > 0 {
				o.println("")
			}
			o.printGame(g)
		}
	case response.Game:
		o.printGame(v)
	case response.RoundConfirmed:
		o.printRoundConfirmed(v)
	case response.RoundUndone:
		o.printRoundUndone(v)
	case response.Standings:
		o.printStandings(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.println("No games")
		return
	}

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tROUNDS\tCREATED\tPLAYERS")
	for _, g := range l.Games {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			g.ID, g.Name, g.RoundCount, g.CreatedAt.Format("2006-01-02 15:04"), strings.Join(g.PlayerCreationOrder, ", "))
	}
	_ = tw.Flush()
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s (%s)\n", g.Name, g.ID)
	o.printLineup(g.Lineup)
	o.printf("Rounds: %d\n", g.RoundCount)
	if g.OneShot.Used {
		o.printf("25 rule: used by %s\n", g.OneShot.UsedBy)
	} else {
		o.println("25 rule: available")
	}
	for _, p := range g.PlayerCreationOrder {
		if level := g.EliminationLevels[p]; level > 0 {
			o.printf("  %s is at level %d\n", p, level)
		}
	}
}

func (o *Output) printLineup(l response.Lineup) {
	for i, p := range l.Active {
		if p == "" {
			p = "(empty)"
		}
		o.printf("Seat %d: %s\n", i+1, p)
	}
	if len(l.Queue) > 0 {
		o.printf("Queue: %s\n", strings.Join(l.Queue, ", "))
	}
}

func (o *Output) printRoundConfirmed(r response.RoundConfirmed) {
	o.printf("Round %d confirmed\n", r.RoundNumber)
	for _, e := range r.Eliminations {
		o.printf("  %s out on the %s rule (%d -> %d)", e.Player, ruleLabel(e.Rule), e.PrevTotal, e.NewTotal)
		switch {
		case e.Seat < 0:
			o.println("")
		case e.Replacement == "":
			o.printf(", seat %d left empty\n", e.Seat+1)
		default:
			o.printf(", %s takes seat %d\n", e.Replacement, e.Seat+1)
		}
	}
	if r.OneShotTriggered {
		o.printf("  25 rule used by %s\n", r.Game.OneShot.UsedBy)
	}
	o.printLineup(r.Game.Lineup)
}

func (o *Output) printRoundUndone(r response.RoundUndone) {
	o.printf("Round %d removed\n", r.RoundNumber)
	if r.LineupRestored {
		o.println("Seats restored")
	}
	o.printLineup(r.Game.Lineup)
}

func (o *Output) printStandings(s response.Standings) {
	o.printf("Game: %s (%s)\n", s.Name, s.GameID)

	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PLAYER\tTOTAL\tROUNDS\tAVERAGE\tLEVEL\tPLACE")
	for _, p := range s.Players {
		name := p.Player
		if p.HoldsOneShot {
			name += " *"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t%d\t%s\n",
			name, p.Total, p.RoundsPlayed, p.Average, p.Level, placeLabel(p))
	}
	_ = tw.Flush()
}

func placeLabel(p response.PlayerStanding) string {
	switch {
	case p.Seat != nil:
		return "seat " + strconv.Itoa(*p.Seat+1)
	case p.QueuePosition != nil:
		return "queue " + strconv.Itoa(*p.QueuePosition+1)
	default:
		return "-"
	}
}

func ruleLabel(rule string) string {
	switch rule {
	case "fifty":
		return "50"
	case "twenty_five":
		return "25"
	default:
		return rule
	}
}
