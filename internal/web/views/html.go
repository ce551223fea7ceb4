package views

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// html accumulates the first write error so components can render
// without checking every write
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

// raw writes trusted markup
func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

// rawf writes trusted markup with escaped arguments
func (h *html) rawf(format string, args ...any) {
	escaped := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			escaped[i] = templ.EscapeString(v)
		case fmt.Stringer:
			escaped[i] = templ.EscapeString(v.String())
		default:
			// Named string types such as model.Seat
			if rv := reflect.ValueOf(a); rv.Kind() == reflect.String {
				escaped[i] = templ.EscapeString(rv.String())
			} else {
				escaped[i] = a
			}
		}
	}
	h.raw(fmt.Sprintf(format, escaped...))
}

// text writes escaped text
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// render writes a child component
func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

var suitLetters = [...]string{"m", "p", "s"}

// TileLabel renders a tile code as rank plus suit letter, e.g. 3m.
// Honors are shown as h1 to h12.
func TileLabel(t model.Tile) string {
	if t.IsSuited() {
		rank := int(t-1)%model.SuitSize + 1
		return strconv.Itoa(rank) + suitLetters[t.Suit()]
	}
	return "h" + strconv.Itoa(int(t-model.MaxSuitedTile))
}

func roomURL(id model.RoomID) string {
	return "/rooms/" + id.String()
}
