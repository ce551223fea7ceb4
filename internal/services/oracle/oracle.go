package oracle

import (
	"context"
	"fmt"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// Oracle decides whether a set of tiles is a winning hand
type Oracle interface {
	IsWin(ctx context.Context, tiles []model.Tile) (bool, error)
}

// Func adapts a plain function to the Oracle interface
type Func func(ctx context.Context, tiles []model.Tile) (bool, error)

// IsWin calls f
func (f Func) IsWin(ctx context.Context, tiles []model.Tile) (bool, error) {
	return f(ctx, tiles)
}

// Check runs o on tiles and fails closed: a missing oracle is
// ErrOracleUnavailable and any oracle error is wrapped in ErrOracleFailed.
func Check(ctx context.Context, o Oracle, tiles []model.Tile) (bool, error) {
	if missing(o) {
		return false, model.ErrOracleUnavailable
	}
	win, err := o.IsWin(ctx, tiles)
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrOracleFailed, err)
	}
	return win, nil
}

// missing reports whether o is nil, including a nil value of a known
// implementation held in a non-nil interface
func missing(o Oracle) bool {
	switch v := o.(type) {
	case nil:
		return true
	case Func:
		return v == nil
	case *Standard:
		return v == nil
	}
	return false
}
