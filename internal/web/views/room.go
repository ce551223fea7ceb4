package views

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

// RoomData is the data for a single room page
type RoomData struct {
	PageData
	Room *model.RoomView
}

// streamEvents are the event names the page reloads on
var streamEvents = []model.EventType{
	model.EventPlayerJoined,
	model.EventPlayerLeft,
	model.EventGameStarted,
	model.EventDraw,
	model.EventDiscard,
	model.EventWin,
	model.EventClaim,
	model.EventHu,
	model.EventPass,
	model.EventPendingCleared,
}

// Room renders a room as seen by data.Room.Viewer
func Room(data RoomData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		room := data.Room
		h := newHTML(ctx, w)

		h.rawf(`<section id="room" data-room-id="%s" data-status="%s">`, room.ID, room.Status)
		h.rawf(`<h1>Room %s</h1>`, room.ID)
		h.rawf(`<p class="summary"><span class="status">%s</span> `, room.Status)
		h.rawf(`<span id="deck-count">%d</span> tiles left</p>`, room.DeckCount)

		renderSeats(h, room)
		renderDiscards(h, room)
		renderPending(h, room)
		if room.Viewer != "" {
			renderHand(h, room)
		}
		renderActions(h, room)

		h.raw(`</section>`)
		renderStream(h, room)
		return h.err
	}))
}

func renderSeats(h *html, room *model.RoomView) {
	dealer := model.Seat("")
	if len(room.Seats) > 0 {
		dealer = room.Seats[room.DealerIndex%len(room.Seats)]
	}

	h.raw(`<ul id="seats">`)
	for _, seat := range room.Seats {
		class := "seat"
		if seat == room.CurrentPlayer && room.Status == model.RoomStatusPlaying {
			class += " current"
		}
		if seat == dealer {
			class += " dealer"
		}
		h.rawf(`<li class="%s" data-seat="%s">`, class, seat)
		h.rawf(`<span class="name">%s</span> `, seat)
		h.rawf(`<span class="hand-count">%d</span>`, room.HandCounts[seat])
		if melds := room.Melds[seat]; len(melds) > 0 {
			h.raw(`<ul class="melds">`)
			for _, m := range melds {
				h.rawf(`<li class="meld" data-kind="%s">`, m.Kind)
				renderTiles(h, m.Tiles)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}
		h.raw(`</li>`)
	}
	h.raw(`</ul>`)
}

func renderDiscards(h *html, room *model.RoomView) {
	h.raw(`<section id="discards"><h2>Discards</h2><ol>`)
	for _, d := range room.Discards {
		h.rawf(`<li class="discard" data-seat="%s" data-tile="%d">%s</li>`, d.Seat, int(d.Tile), TileLabel(d.Tile))
	}
	h.raw(`</ol></section>`)
}

func renderPending(h *html, room *model.RoomView) {
	p := room.Pending
	if p == nil {
		return
	}
	h.rawf(`<section id="pending" data-window="%d">`, p.ID)
	h.rawf(`<p><span class="discarder">%s</span> discarded `, p.Discarder)
	h.rawf(`<span class="pending-tile" data-tile="%d">%s</span></p>`, int(p.Tile), TileLabel(p.Tile))
	if len(room.Passes) > 0 {
		h.raw(`<p class="passes">Passed:`)
		for _, s := range room.Passes {
			h.rawf(` <span class="pass">%s</span>`, s)
		}
		h.raw(`</p>`)
	}
	h.raw(`</section>`)
}

func renderHand(h *html, room *model.RoomView) {
	h.rawf(`<section id="hand" data-seat="%s"><h2>Your hand</h2>`, room.Viewer)
	renderTiles(h, room.Hand)
	h.raw(`</section>`)
}

func renderTiles(h *html, tiles []model.Tile) {
	h.raw(`<ul class="tiles">`)
	for _, t := range tiles {
		h.rawf(`<li class="tile" data-tile="%d">%s</li>`, int(t), TileLabel(t))
	}
	h.raw(`</ul>`)
}

// renderActions shows the seat management forms. Play itself goes through the API.
func renderActions(h *html, room *model.RoomView) {
	base := roomURL(room.ID)
	if room.Status == model.RoomStatusPlaying {
		return
	}
	h.raw(`<section id="actions">`)
	if room.Viewer == "" && len(room.Seats) < room.MaxPlayers && room.Status == model.RoomStatusWaiting {
		h.rawf(`<form id="join-form" method="post" action="%s/join">`, base)
		h.raw(`<input type="text" name="player" placeholder="Your name" required>`)
		h.raw(`<button type="submit">Join</button></form>`)
	}
	if room.Viewer != "" {
		h.rawf(`<form id="leave-form" method="post" action="%s/leave">`, base)
		h.rawf(`<input type="hidden" name="player" value="%s">`, room.Viewer)
		h.raw(`<button type="submit">Leave</button></form>`)
	}
	h.raw(`</section>`)
}

// renderStream reloads the page whenever the room changes
func renderStream(h *html, room *model.RoomView) {
	names := make([]string, len(streamEvents))
	for i, e := range streamEvents {
		names[i] = string(e)
	}
	eventsJSON, _ := json.Marshal(names)

	src := "/api/v1/rooms/" + room.ID.String() + "/events"
	if room.Viewer != "" {
		src += "?player=" + url.QueryEscape(string(room.Viewer))
	}
	srcJSON, _ := json.Marshal(src)

	h.raw(`<script>(function(){var es=new EventSource(`)
	h.raw(string(srcJSON))
	h.raw(`);`)
	h.raw(string(eventsJSON))
	h.raw(`.forEach(function(n){es.addEventListener(n,function(){window.location.reload();});});})();</script>`)
}
