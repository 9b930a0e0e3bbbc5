// Package rounds turns round records of any known producer shape into the
// canonical four-seat model.Round.
//
// Shapes are tried in a fixed priority order and the first one that matches
// structurally wins:
//
//  1. ShapeArrays: a "points" or "cards" array, names from "players" or "playerNames"
//  2. ShapeSeatKeys: per-seat keys such as player1Name / p1Score / cards1 (any casing)
//  3. ShapePlayersList: a "players" array of names or {name, score, cards} objects
//  4. ShapeParallelLists: "playerNames"/"playerScores" or "names"/"scores" arrays
//  5. ShapePositional: index keys "0".."3" holding a name or {name, score} object
//
// A record matching none of them normalizes to an all-empty round tagged ShapeUnknown.
package rounds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcoot/scoreboard/internal/model"
	"github.com/mcoot/scoreboard/internal/services/cards"
)

// Shape identifies which producer layout a round record was read as
type Shape string

const (
	ShapeArrays        Shape = "arrays"
	ShapeSeatKeys      Shape = "seat_keys"
	ShapePlayersList   Shape = "players_list"
	ShapeParallelLists Shape = "parallel_lists"
	ShapePositional    Shape = "positional"
	ShapeUnknown       Shape = "unknown"
)

// Raw is an undecoded round record
type Raw map[string]any

// resolver attempts one shape; ok is false if the record does not have that shape
type resolver func(raw Raw) (seats seatValues, ok bool)

// resolvers holds the shapes in priority order
var resolvers = []struct {
	shape   Shape
	resolve resolver
}{
	{ShapeArrays, resolveArrays},
	{ShapeSeatKeys, resolveSeatKeys},
	{ShapePlayersList, resolvePlayersList},
	{ShapeParallelLists, resolveParallelLists},
	{ShapePositional, resolvePositional},
}

// Normalize converts a raw round record into the canonical round.
// Unrecognised records yield an empty round and ShapeUnknown rather than an error.
func Normalize(raw Raw) (model.Round, Shape) {
	if raw != nil {
		for _, r := range resolvers {
			if seats, ok := r.resolve(raw); ok {
				return seats.round(), r.shape
			}
		}
	}
	return model.Round{}, ShapeUnknown
}

// Decode parses a JSON round record and normalizes it.
// Only malformed JSON is an error; a well-formed object of unknown shape is not.
func Decode(data []byte) (model.Round, Shape, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw Raw
	if err := dec.Decode(&raw); err != nil {
		return model.Round{}, ShapeUnknown, fmt.Errorf("%w: %v", model.ErrInvalidRound, err)
	}
	round, shape := Normalize(raw)
	return round, shape, nil
}

// seatValue is one seat as read from the record, before defaults are applied
type seatValue struct {
	name   model.PlayerName
	points *int
	cards  *int
}

type seatValues [model.SeatCount]seatValue

// round applies defaults and derives whichever of points/cards is missing
func (sv seatValues) round() model.Round {
	var r model.Round
	for i, v := range sv {
		seat := model.Seat{Player: v.name}
		switch {
		case v.points != nil && v.cards != nil:
			seat.Points = *v.points
			seat.Cards = *v.cards
		case v.points != nil:
			seat.Points = *v.points
			if cards.IsExactPoints(seat.Points) {
				seat.Cards = cards.CardsFromPoints(seat.Points)
			}
		case v.cards != nil:
			seat.Cards = *v.cards
			seat.Points = cards.PointsFromCards(seat.Cards)
		}
		r.Seats[i] = seat
	}
	return r
}

func resolveArrays(raw Raw) (seatValues, bool) {
	points, hasPoints := raw["points"].([]any)
	cardList, hasCards := raw["cards"].([]any)
	if !hasPoints && !hasCards {
		return seatValues{}, false
	}

	names, _ := raw["players"].([]any)
	if names == nil {
		names, _ = raw["playerNames"].([]any)
	}

	var sv seatValues
	for i := range sv {
		if i < len(names) {
			sv[i].name, _, _ = readPlayer(names[i])
		}
		if i < len(points) {
			sv[i].points = toInt(points[i])
		}
		if i < len(cardList) {
			sv[i].cards = toInt(cardList[i])
		}
	}
	return sv, true
}

// Per-seat key patterns; %d is the 1-based seat number. Matching ignores case.
var (
	seatNameKeys   = []string{"player%dname", "p%dname", "player%d"}
	seatPointsKeys = []string{"player%dscore", "p%dscore", "score%d", "player%dpoints", "p%dpoints", "points%d"}
	seatCardsKeys  = []string{"player%dcards", "p%dcards", "cards%d"}
)

func resolveSeatKeys(raw Raw) (seatValues, bool) {
	lower := make(map[string]any, len(raw))
	for k, v := range raw {
		lk := strings.ToLower(k)
		// An exact lowercase key beats a differently-cased duplicate
		if _, exists := lower[lk]; exists && k != lk {
			continue
		}
		lower[lk] = v
	}

	var sv seatValues
	matched := false
	for i := range sv {
		seatNum := i + 1
		if v, ok := lookupSeatKey(lower, seatNameKeys, seatNum); ok {
			matched = true
			name, points, cardCount := readPlayer(v)
			sv[i].name = name
			sv[i].points = points
			sv[i].cards = cardCount
		}
		if v, ok := lookupSeatKey(lower, seatPointsKeys, seatNum); ok {
			matched = true
			sv[i].points = toInt(v)
		}
		if v, ok := lookupSeatKey(lower, seatCardsKeys, seatNum); ok {
			matched = true
			sv[i].cards = toInt(v)
		}
	}
	return sv, matched
}

func lookupSeatKey(lower map[string]any, patterns []string, seatNum int) (any, bool) {
	for _, p := range patterns {
		if v, ok := lower[fmt.Sprintf(p, seatNum)]; ok {
			return v, true
		}
	}
	return nil, false
}

func resolvePlayersList(raw Raw) (seatValues, bool) {
	players, ok := raw["players"].([]any)
	if !ok {
		return seatValues{}, false
	}

	var sv seatValues
	for i := 0; i < len(sv) && i < len(players); i++ {
		sv[i].name, sv[i].points, sv[i].cards = readPlayer(players[i])
	}
	return sv, true
}

func resolveParallelLists(raw Raw) (seatValues, bool) {
	pairs := [][2]string{
		{"playerNames", "playerScores"},
		{"names", "scores"},
	}
	for _, pair := range pairs {
		names, ok := raw[pair[0]].([]any)
		if !ok {
			continue
		}
		scores, _ := raw[pair[1]].([]any)

		var sv seatValues
		for i := range sv {
			if i < len(names) {
				sv[i].name, _, _ = readPlayer(names[i])
			}
			if i < len(scores) {
				sv[i].points = toInt(scores[i])
			}
		}
		return sv, true
	}
	return seatValues{}, false
}

func resolvePositional(raw Raw) (seatValues, bool) {
	var sv seatValues
	matched := false
	for i := range sv {
		v, ok := raw[strconv.Itoa(i)]
		if !ok {
			continue
		}
		matched = true
		sv[i].name, sv[i].points, sv[i].cards = readPlayer(v)
	}
	return sv, matched
}

// readPlayer reads a seat entry that is either a bare name or a player object
func readPlayer(v any) (model.PlayerName, *int, *int) {
	switch p := v.(type) {
	case string:
		return toName(p), nil, nil
	case map[string]any:
		var name model.PlayerName
		for _, key := range []string{"name", "displayName", "username"} {
			if s, ok := p[key].(string); ok && strings.TrimSpace(s) != "" {
				name = toName(s)
				break
			}
		}
		var points *int
		for _, key := range []string{"score", "points"} {
			if raw, ok := p[key]; ok {
				points = toInt(raw)
				break
			}
		}
		var cardCount *int
		if raw, ok := p["cards"]; ok {
			cardCount = toInt(raw)
		}
		return name, points, cardCount
	default:
		return "", nil, nil
	}
}

func toName(s string) model.PlayerName {
	return model.PlayerName(strings.TrimSpace(s))
}

// toInt reads an integer from a JSON value, rounding fractions; nil if absent or unreadable.
// The sign is kept so Validate can reject negative values.
func toInt(v any) *int {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	i := int(math.Round(f))
	return &i
}
