package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mahjonggame-go/internal/factory"
	"github.com/mcoot/mahjonggame-go/internal/model"
	"github.com/mcoot/mahjonggame-go/internal/testutil"
	"github.com/mcoot/mahjonggame-go/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	router := web.NewRouter(web.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// newBrowser returns a client with its own cookies against the same server
func (ts *webTestServer) newBrowser() *webTestServer {
	return &webTestServer{
		t:       ts.t,
		handler: ts.handler,
		app:     ts.app,
		cookies: newCookieJar(),
	}
}

// followRedirect follows a redirect response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect")
	return ts.get(rr.Header().Get("Location"))
}

// createRoom creates a room through the form and returns its page path
func (ts *webTestServer) createRoom(player string) string {
	ts.t.Helper()
	rr := ts.post("/rooms", url.Values{"player": {player}, "max_players": {"2"}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after room creation")

	location := rr.Header().Get("Location")
	require.True(ts.t, strings.HasPrefix(location, "/rooms/"), "Expected redirect to room page, got %s", location)
	return location
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// assertContainsText asserts that the selection contains the given text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	assert.Contains(t, doc.Find(selector).Text(), text, "selector %q", selector)
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

func TestHomeListsRooms(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assert.Equal(t, 1, doc.Find("#create-room form").Length())
	assertContainsText(t, doc, "#rooms", "No rooms yet")

	_, err := ts.app.Registry.Create(t.Context(), "Alice", 3)
	require.NoError(t, err)

	doc = parseHTML(ts.get("/").Body)
	rows := doc.Find("tr.room")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "1", rows.AttrOr("data-room-id", ""))
	assert.Contains(t, rows.Find(".players").Text(), "Alice (1/3)")
	assert.Equal(t, "waiting", rows.Find(".status").Text())
	assert.Equal(t, "/rooms/1", rows.Find("a.room-link").AttrOr("href", ""))
}

func TestCreateRoomShowsFlashAndSeat(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createRoom("Alice")

	rr := ts.get(path)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, ".flash-success", "Room created!")
	assertContainsText(t, doc, "#seat-name", "Alice")
	assert.Equal(t, "waiting", doc.Find("#room").AttrOr("data-status", ""))
	assert.Equal(t, 1, doc.Find(`li.seat[data-seat="Alice"]`).Length())
	assert.Equal(t, 1, doc.Find("#leave-form").Length())
	assert.Equal(t, 0, doc.Find("#join-form").Length())

	// Flash is shown once
	doc = parseHTML(ts.get(path).Body)
	assert.Equal(t, 0, doc.Find(".flash").Length())
}

func TestCreateRoomErrorFlashes(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/rooms", url.Values{"player": {"  "}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Seat name is required")
}

func TestJoinAndLeaveFromRoomPage(t *testing.T) {
	ts := newWebTestServer(t)
	path := ts.createRoom("Alice")

	// A second browser joins
	bob := ts.newBrowser()
	doc := parseHTML(bob.get(path).Body)
	assert.Equal(t, 1, doc.Find("#join-form").Length())

	rr := bob.post(path+"/join", url.Values{"player": {"Bob"}})
	doc = parseHTML(bob.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Joined the room")
	assert.Equal(t, 2, doc.Find("li.seat").Length())
	assert.Equal(t, "Bob", doc.Find("#hand").AttrOr("data-seat", ""))

	// Room is now full for a third browser
	carol := ts.newBrowser()
	rr = carol.post(path+"/join", url.Values{"player": {"Carol"}})
	doc = parseHTML(carol.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Room is full")

	rr = bob.post(path+"/leave", url.Values{"player": {"Bob"}})
	doc = parseHTML(bob.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Left the room")
	assert.Equal(t, 1, doc.Find("li.seat").Length())
	assert.Equal(t, 0, doc.Find("#hand").Length())
}

func TestRoomPageShowsPlayState(t *testing.T) {
	ts := newWebTestServer(t)
	ctx := t.Context()

	view, err := ts.app.Registry.Create(ctx, "A", 2)
	require.NoError(t, err)
	_, err = ts.app.Registry.Join(ctx, view.ID, "B")
	require.NoError(t, err)
	_, err = ts.app.GameController.Start(ctx, view.ID)
	require.NoError(t, err)
	_, err = ts.app.GameController.Draw(ctx, view.ID, "A")
	require.NoError(t, err)
	_, err = ts.app.GameController.Discard(ctx, view.ID, "A", 39)
	require.NoError(t, err)

	rr := ts.get("/rooms/" + view.ID.String() + "?viewer=B")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assert.Equal(t, "playing", doc.Find("#room").AttrOr("data-status", ""))
	assert.True(t, doc.Find(`li.seat[data-seat="B"]`).HasClass("current"))
	assert.True(t, doc.Find(`li.seat[data-seat="A"]`).HasClass("dealer"))
	assert.Equal(t, "13", doc.Find(`li.seat[data-seat="A"] .hand-count`).Text())

	assert.Equal(t, "39", doc.Find("#pending .pending-tile").AttrOr("data-tile", ""))
	assert.Equal(t, "h12", doc.Find("#pending .pending-tile").Text())
	assert.Equal(t, 1, doc.Find("#discards li.discard").Length())
	assert.Equal(t, model.HandSize, doc.Find("#hand li.tile").Length())

	// No seat forms mid-game
	assert.Equal(t, 0, doc.Find("#actions").Length())

	// A spectator sees no hand
	doc = parseHTML(ts.get("/rooms/" + view.ID.String()).Body)
	assert.Equal(t, 0, doc.Find("#hand").Length())
}

func TestRoomPageEscapesSeatNames(t *testing.T) {
	ts := newWebTestServer(t)
	_, err := ts.app.Registry.Create(t.Context(), "<b>x</b>", 2)
	require.NoError(t, err)

	rr := ts.get("/rooms/1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<b>x</b>")
	doc := parseHTML(rr.Body)
	assert.Equal(t, "<b>x</b>", doc.Find("li.seat .name").Text())
}

func TestUnknownRoomRendersNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	for _, path := range []string{"/rooms/42", "/rooms/nope"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		doc := parseHTML(rr.Body)
		assertContainsText(t, doc, "#not-found", "That room does not exist.")
	}

	rr := ts.post("/rooms/42/join", url.Values{"player": {"Bob"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
