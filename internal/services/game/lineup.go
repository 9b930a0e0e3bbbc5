package game

import (
	"fmt"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
)

// cleanLineup trims names, drops empty queue entries and rejects duplicates
func cleanLineup(l model.Lineup) (model.Lineup, error) {
	var out model.Lineup
	for i, p := range l.Active {
		out.Active[i] = model.PlayerName(strings.TrimSpace(string(p)))
	}
	for _, p := range l.Queue {
		p = model.PlayerName(strings.TrimSpace(string(p)))
		if !p.IsEmpty() {
			out.Queue = append(out.Queue, p)
		}
	}

	members := out.Members()
	if len(members) == 0 {
		return model.Lineup{}, model.ErrInsufficientPlayers
	}
	if dup, ok := firstDuplicate(members); ok {
		return model.Lineup{}, fmt.Errorf("%w: %s", model.ErrDuplicatePlayer, dup)
	}
	return out, nil
}

func firstDuplicate(names []model.PlayerName) (model.PlayerName, bool) {
	seen := make(map[model.PlayerName]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n, true
		}
		seen[n] = true
	}
	return "", false
}

func containsName(names []model.PlayerName, name model.PlayerName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
