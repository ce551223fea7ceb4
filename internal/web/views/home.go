package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// HomeData is the data for the room list
type HomeData struct {
	PageData
	Rooms []*model.RoomView
}

// Home lists every room with a form to open a new one
func Home(data HomeData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		h.raw(`<section id="create-room"><h2>New room</h2>`)
		h.raw(`<form method="post" action="/rooms">`)
		h.rawf(`<input type="text" name="player" placeholder="Your name" value="%s" required>`, data.Seat)
		h.raw(`<select name="max_players">`)
		for n := model.MinPlayers; n <= model.MaxPlayers; n++ {
			selected := ""
			if n == model.DefaultPlayers {
				selected = " selected"
			}
			h.rawf(`<option value="%d"%s>%d players</option>`, n, selected, n)
		}
		h.raw(`</select><button type="submit">Create</button></form></section>`)

		h.raw(`<section id="rooms"><h2>Rooms</h2>`)
		if len(data.Rooms) == 0 {
			h.raw(`<p class="empty">No rooms yet.</p></section>`)
			return h.err
		}
		h.raw(`<table><thead><tr><th>Room</th><th>Players</th><th>Status</th></tr></thead><tbody>`)
		for _, room := range data.Rooms {
			seats := make([]string, len(room.Seats))
			for i, s := range room.Seats {
				seats[i] = string(s)
			}
			h.rawf(`<tr class="room" data-room-id="%s">`, room.ID)
			h.rawf(`<td><a class="room-link" href="%s">Room %s</a></td>`, roomURL(room.ID), room.ID)
			h.rawf(`<td class="players">%s (%d/%d)</td>`, strings.Join(seats, ", "), len(room.Seats), room.MaxPlayers)
			h.rawf(`<td class="status">%s</td></tr>`, string(room.Status))
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	}))
}
