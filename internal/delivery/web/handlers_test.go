package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/clock"
	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/repository"
	"github.com/aliskhannn/quizdeck/internal/service"
	"github.com/aliskhannn/quizdeck/internal/storage"
)

const deckCSV = `Topic,Question_Text,Option_A,Option_B,Option_C,Option_D,Correct_Answer
Anatomy,Which organ produces insulin?,Liver,Kidney,Spleen,Pancreas,D
Pharmacology,What is the antidote for heparin?,Vitamin K,Protamine sulfate,Naloxone,Atropine,B
First Aid,Adult CPR compression rate?,60-80,80-100,100-120,140-160,C
`

// screenJSON mirrors the response body.
type screenJSON struct {
	Screen struct {
		View string `json:"view"`
		Card *struct {
			Index    int    `json:"index"`
			Topic    string `json:"topic"`
			Progress string `json:"progress"`
			Flipped  bool   `json:"flipped"`
			Options  []struct {
				Letter   string `json:"letter"`
				State    string `json:"state"`
				Disabled bool   `json:"disabled"`
			} `json:"options"`
		} `json:"card"`
		Jump *struct {
			Total   int `json:"total"`
			Current int `json:"current"`
		} `json:"jump"`
	} `json:"screen"`
	RevealInMS int64  `json:"reveal_in_ms"`
	Error      string `json:"error"`
}

type client struct {
	t       *testing.T
	routes  http.Handler
	clock   *clock.FakeClock
	cookies []*http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/deck.csv", []byte(deckCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/broken.csv", []byte("Topic,Answer\nx,y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	source := repository.NewSourceRepository(fs, nil)
	records := repository.NewRecordRepository()
	catalog := service.NewCatalogService([]entities.CatalogEntry{
		{Filename: "deck.csv", Title: "Deck", Icon: "🏥"},
		{Filename: "broken.csv", Title: "Broken"},
		{Filename: "missing.csv", Title: "Missing"},
	}, source, records, "", logger)
	decks := service.NewDeckService(source, records, logger)
	sessions := service.NewSessionService(
		storage.NewSessionStorage(clk, ""), catalog, decks, clk, service.SessionConfig{}, logger,
	)

	return &client{
		t:      t,
		routes: NewHandler(logger, catalog, sessions).Routes(),
		clock:  clk,
	}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.routes.ServeHTTP(rec, req)

	if set := rec.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return rec
}

func (c *client) screen(method, path, body string, wantStatus int) screenJSON {
	c.t.Helper()
	rec := c.do(method, path, body)
	if rec.Code != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d: %s", method, path, rec.Code, wantStatus, rec.Body)
	}
	var out screenJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		c.t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return out
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	rec := c.do(http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "touch-action: manipulation") {
		t.Error("page body missing")
	}
	if len(c.cookies) != 1 || c.cookies[0].Name != sessionCookie {
		t.Fatalf("cookies: %+v", c.cookies)
	}

	first := c.cookies[0].Value
	rec = c.do(http.MethodGet, "/api/screen", "")
	if len(rec.Result().Cookies()) != 0 {
		t.Error("known session got a new cookie")
	}
	if c.cookies[0].Value != first {
		t.Error("session id changed")
	}
}

func TestCatalog(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	rec := c.do(http.MethodGet, "/api/catalog", "")
	var tiles []tileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tiles); err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 3 {
		t.Fatalf("tiles: got %d, want 3", len(tiles))
	}
	if tiles[0].Title != "Deck" || tiles[0].Label != service.LabelLoading || tiles[0].Count != nil {
		t.Errorf("first tile: %+v", tiles[0])
	}
}

func TestOpenDeckAndNavigate(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	got := c.screen(http.MethodPost, "/api/decks/0", "", http.StatusOK)
	if got.Screen.View != "card" || got.Screen.Card.Progress != "1 / 3" {
		t.Fatalf("opened: %+v", got.Screen)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"swipe","dx":-80,"dy":10}`, http.StatusOK)
	if got.Screen.Card.Index != 1 {
		t.Errorf("after swipe left: index %d, want 1", got.Screen.Card.Index)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"swipe","dx":-80,"dy":120}`, http.StatusOK)
	if got.Screen.Card.Index != 1 {
		t.Errorf("vertical swipe moved the card to %d", got.Screen.Card.Index)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"open_jump"}`, http.StatusOK)
	if got.Screen.Jump == nil || got.Screen.Jump.Total != 3 || got.Screen.Jump.Current != 1 {
		t.Fatalf("jump list: %+v", got.Screen.Jump)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"jump_to","cell":3}`, http.StatusOK)
	if got.Screen.Card.Index != 2 || got.Screen.Jump != nil {
		t.Errorf("after jump: %+v", got.Screen)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"home"}`, http.StatusOK)
	if got.Screen.View != "catalog" {
		t.Errorf("home: view %q", got.Screen.View)
	}
}

func TestSelectSchedulesReveal(t *testing.T) {
	t.Parallel()
	c := newClient(t)
	c.screen(http.MethodPost, "/api/decks/0", "", http.StatusOK)

	got := c.screen(http.MethodPost, "/api/events", `{"type":"select","letter":"A"}`, http.StatusOK)
	if got.RevealInMS != 1500 {
		t.Errorf("reveal_in_ms: got %d, want 1500", got.RevealInMS)
	}
	opts := got.Screen.Card.Options
	if opts[0].State != "wrong" || opts[3].State != "correct" || !opts[1].Disabled {
		t.Errorf("options: %+v", opts)
	}

	got = c.screen(http.MethodPost, "/api/events", `{"type":"select","letter":"D"}`, http.StatusOK)
	if got.RevealInMS != 0 || got.Screen.Card.Options[0].State != "wrong" {
		t.Errorf("second selection not inert: %+v", got)
	}

	c.clock.Advance(service.DefaultRevealDelay)
	got = c.screen(http.MethodGet, "/api/screen", "", http.StatusOK)
	if !got.Screen.Card.Flipped {
		t.Error("card not flipped after the delay")
	}
}

func TestOpenDeckErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path   string
		status int
		prefix string
	}{
		{"/api/decks/1", http.StatusUnprocessableEntity, "Error parsing data file: "},
		{"/api/decks/2", http.StatusUnprocessableEntity, "Error loading data file: "},
		{"/api/decks/9", http.StatusNotFound, ""},
		{"/api/decks/x", http.StatusBadRequest, "invalid deck index"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			c := newClient(t)
			got := c.screen(http.MethodPost, tt.path, "", tt.status)
			if !strings.HasPrefix(got.Error, tt.prefix) || got.Error == "" {
				t.Errorf("error: got %q, want prefix %q", got.Error, tt.prefix)
			}
			if got.Screen.View != "catalog" {
				t.Errorf("view after failed open: %q", got.Screen.View)
			}
		})
	}
}

func TestEventErrors(t *testing.T) {
	t.Parallel()
	c := newClient(t)

	c.screen(http.MethodPost, "/api/events", `{"type":"next"}`, http.StatusConflict)
	c.screen(http.MethodPost, "/api/events", `{"type":"dance"}`, http.StatusBadRequest)
	c.screen(http.MethodPost, "/api/events", `not json`, http.StatusBadRequest)

	c.screen(http.MethodPost, "/api/decks/0", "", http.StatusOK)
	got := c.screen(http.MethodPost, "/api/events", `{"type":"jump_to","index":7}`, http.StatusBadRequest)
	if got.Screen.Card == nil || got.Screen.Card.Index != 0 {
		t.Errorf("screen after bad jump: %+v", got.Screen)
	}
}

func TestPageWiring(t *testing.T) {
	t.Parallel()

	page, err := static.ReadFile("static/index.html")
	if err != nil {
		t.Fatal(err)
	}
	body := string(page)

	for _, want := range []string{
		// A click on the card body flips it; option clicks stop propagation.
		`$("card").addEventListener("click", () => send({ type: "flip" }))`,
		`e.stopPropagation();`,
		// Catalog labels are polled until every count resolved.
		`tile.label === "Loading..."`,
		`setTimeout(showCatalog, CATALOG_POLL_MS)`,
		// A pending reveal survives renders of the same card.
		`generation !== revealGeneration`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}

	if !strings.Contains(body, `"`+service.LabelLoading+`"`) {
		t.Errorf("page polls for a label other than %q", service.LabelLoading)
	}
}
