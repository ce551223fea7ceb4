package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/mahjonggame-go/internal/model"
)

type contextKey string

const (
	seatCookieName = "mj_seat"
	seatContextKey = contextKey("seat")
)

// GetSeat returns the seat name this browser plays as, or ""
func GetSeat(ctx context.Context) model.Seat {
	seat, _ := ctx.Value(seatContextKey).(model.Seat)
	return seat
}

// RememberSeat stores the seat name the browser acts as
func RememberSeat(w http.ResponseWriter, seat model.Seat) {
	http.SetCookie(w, &http.Cookie{
		Name:     seatCookieName,
		Value:    url.QueryEscape(string(seat)),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ForgetSeat clears the remembered seat
func ForgetSeat(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     seatCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Seat returns middleware that resolves the acting seat. A ?viewer= query
// parameter wins over the remembered cookie.
func Seat() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seat := model.Seat(r.URL.Query().Get("viewer"))
			if seat == "" {
				if cookie, err := r.Cookie(seatCookieName); err == nil {
					if v, err := url.QueryUnescape(cookie.Value); err == nil {
						seat = model.Seat(v)
					}
				}
			}
			ctx := context.WithValue(r.Context(), seatContextKey, seat)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
