package rounds

import (
	"testing"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	players := []model.PlayerName{"A", "B", "C", "D"}

	tests := []struct {
		name    string
		round   model.Round
		wantErr bool
	}{
		{"one winner", model.NewRound(players, []int{0, 3, 5, 7}, nil), false},
		{"no winner", model.NewRound(players, []int{1, 3, 5, 7}, nil), true},
		{"two winners", model.NewRound(players, []int{0, 0, 5, 7}, nil), true},
		{"empty seat ignored", model.NewRound(players[:3], []int{0, 4, 9}, nil), false},
		{"no players", model.NewRound(nil, []int{0, 4}, nil), true},
		{"negative points", model.NewRound(players, []int{0, -1, 5, 7}, nil), true},
		{"too many cards", model.NewRound(players, []int{0, 3, 5, 7}, []int{0, 3, 5, 14}), true},
		{"duplicate player", model.NewRound([]model.PlayerName{"A", "A", "C", "D"}, []int{0, 3, 5, 7}, nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.round)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidRound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
