package model

import (
	"sort"
	"strconv"
	"strings"
)

// Tile is an integer-coded game piece.
// Codes 1-27 are suited (three suits of nine), 28-39 are honors.
type Tile int

// Tile domain constants
const (
	MinTile         Tile = 1
	MaxTile         Tile = 39
	MaxSuitedTile   Tile = 27
	SuitSize             = 9
	CopiesPerTile        = 4
	DeckSize             = int(MaxTile) * CopiesPerTile
	HandSize             = 13
	WinningHandSize      = HandSize + 1
)

// Valid reports whether the code is inside the tile domain
func (t Tile) Valid() bool {
	return t >= MinTile && t <= MaxTile
}

// IsSuited reports whether the tile belongs to one of the three numbered suits
func (t Tile) IsSuited() bool {
	return t >= MinTile && t <= MaxSuitedTile
}

// IsHonor reports whether the tile is an honor tile
func (t Tile) IsHonor() bool {
	return t > MaxSuitedTile && t <= MaxTile
}

// Suit returns the suit block (0, 1 or 2) of a suited tile, or -1 for honors
func (t Tile) Suit() int {
	if !t.IsSuited() {
		return -1
	}
	return int(t-1) / SuitSize
}

// NewDeck returns an unshuffled deck with every tile code present CopiesPerTile times
func NewDeck() []Tile {
	deck := make([]Tile, 0, DeckSize)
	for t := MinTile; t <= MaxTile; t++ {
		for i := 0; i < CopiesPerTile; i++ {
			deck = append(deck, t)
		}
	}
	return deck
}

// ParseTiles parses a comma-separated list of tile codes such as "4,6"
func ParseTiles(s string) ([]Tile, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	tiles := make([]Tile, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, ErrInvalidTile
		}
		t := Tile(n)
		if !t.Valid() {
			return nil, ErrInvalidTile
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

// FormatTiles renders tiles as a comma-separated list
func FormatTiles(tiles []Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = strconv.Itoa(int(t))
	}
	return strings.Join(parts, ",")
}

// SortTiles returns a sorted copy of tiles
func SortTiles(tiles []Tile) []Tile {
	out := append([]Tile(nil), tiles...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CountTile returns how many copies of t are in tiles
func CountTile(tiles []Tile, t Tile) int {
	n := 0
	for _, x := range tiles {
		if x == t {
			n++
		}
	}
	return n
}

// ContainsAll reports whether tiles holds every tile in want, respecting multiplicity
func ContainsAll(tiles, want []Tile) bool {
	counts := make(map[Tile]int, len(tiles))
	for _, t := range tiles {
		counts[t]++
	}
	for _, t := range want {
		if counts[t] == 0 {
			return false
		}
		counts[t]--
	}
	return true
}

// RemoveTiles returns tiles with one copy of each tile in remove taken out.
// It fails with ErrTileNotInHand without modifying anything if a tile is missing.
func RemoveTiles(tiles, remove []Tile) ([]Tile, error) {
	if !ContainsAll(tiles, remove) {
		return nil, ErrTileNotInHand
	}

	pending := make(map[Tile]int, len(remove))
	for _, t := range remove {
		pending[t]++
	}

	out := make([]Tile, 0, len(tiles)-len(remove))
	for _, t := range tiles {
		if pending[t] > 0 {
			pending[t]--
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// IsRun reports whether exactly three tiles form a strictly consecutive
// run inside a single suit. Honors never form runs.
func IsRun(tiles []Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	sorted := SortTiles(tiles)
	for _, t := range sorted {
		if !t.IsSuited() {
			return false
		}
	}
	if sorted[0].Suit() != sorted[2].Suit() {
		return false
	}
	return sorted[1] == sorted[0]+1 && sorted[2] == sorted[1]+1
}
