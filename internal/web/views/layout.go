package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error", "info"
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string
	Seat  string
	Flash *FlashMessage
}

// Layout wraps body in the shared page chrome
func Layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.rawf(`<title>%s - Mahjong</title>`, data.Title)
		h.raw(`<link rel="stylesheet" href="/static/style.css"></head><body>`)
		h.raw(`<nav><a href="/" class="brand">Mahjong</a>`)
		if data.Seat != "" {
			h.rawf(`<span id="seat-name">Playing as %s</span>`, data.Seat)
		}
		h.raw(`</nav>`)
		if data.Flash != nil {
			h.rawf(`<div class="flash flash-%s" role="alert">%s</div>`, data.Flash.Type, data.Flash.Message)
		}
		h.raw(`<main>`)
		h.render(body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// NotFound renders a missing-page notice
func NotFound(data PageData, message string) templ.Component {
	return Layout(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<section id="not-found"><h1>Not found</h1>`)
		h.rawf(`<p class="message">%s</p>`, message)
		h.raw(`<p><a href="/">Return to home</a></p></section>`)
		return h.err
	}))
}
