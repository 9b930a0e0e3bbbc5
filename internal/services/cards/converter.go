// Package cards converts between cards left in hand and penalty points.
package cards

// MaxCards is the number of cards dealt to each seat per round
const MaxCards = 13

// Multiplier bands: fewer than 8 cards count once, 8-9 double, 10-12 triple, 13 quadruple
const (
	doubleFrom    = 8
	tripleFrom    = 10
	quadrupleFrom = 13
)

// PointsFromCards returns the points charged for n cards left in hand
func PointsFromCards(n int) int {
	switch {
	case n <= 0:
		return 0
	case n < doubleFrom:
		return n
	case n < tripleFrom:
		return n * 2
	case n < quadrupleFrom:
		return n * 3
	default:
		return n * 4
	}
}

// CardsFromPoints inverts PointsFromCards. It is exact for every value
// PointsFromCards can produce; other values map to the band they fall in.
func CardsFromPoints(p int) int {
	switch {
	case p <= 0:
		return 0
	case p < PointsFromCards(doubleFrom):
		return p
	case p < PointsFromCards(tripleFrom):
		return p / 2
	case p < PointsFromCards(quadrupleFrom):
		return p / 3
	default:
		return p / 4
	}
}

// IsExactPoints returns true if p is a value PointsFromCards can produce
func IsExactPoints(p int) bool {
	return p >= 0 && PointsFromCards(CardsFromPoints(p)) == p
}
