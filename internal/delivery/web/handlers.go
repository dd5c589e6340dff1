package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/quizdeck/internal/domain/entities"
	"github.com/aliskhannn/quizdeck/internal/service"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

const (
	sessionCookie = "quizdeck_session"
	maxEventBody  = 4 << 10
)

//go:embed static/index.html
var static embed.FS

type CatalogService interface {
	Tiles() []entities.CatalogTile
}

type SessionService interface {
	Open(ctx context.Context, key string, entryIndex int) (viewer.Screen, error)
	Dispatch(key string, ev viewer.Event, onReveal service.RevealFunc) (viewer.Screen, viewer.Effect, error)
	Screen(key string) viewer.Screen
	RevealDelay() time.Duration
}

// Handler serves the single page and its JSON API.
type Handler struct {
	logger         *zap.Logger
	catalogService CatalogService
	sessionService SessionService
}

func NewHandler(logger *zap.Logger, catalogService CatalogService, sessionService SessionService) *Handler {
	return &Handler{
		logger:         logger,
		catalogService: catalogService,
		sessionService: sessionService,
	}
}

// Routes returns the HTTP routes of the app.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/catalog", h.handleCatalog)
	mux.HandleFunc("POST /api/decks/{index}", h.handleOpenDeck)
	mux.HandleFunc("GET /api/screen", h.handleScreen)
	mux.HandleFunc("POST /api/events", h.handleEvent)
	return mux
}

type tileResponse struct {
	Index       int    `json:"index"`
	Filename    string `json:"filename"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Count       *int   `json:"count"`
	Label       string `json:"label"`
}

type screenResponse struct {
	Screen     viewer.Screen `json:"screen"`
	RevealInMS int64         `json:"reveal_in_ms,omitempty"`
	Error      string        `json:"error,omitempty"`
}

type eventRequest struct {
	Type   string  `json:"type"`
	Letter string  `json:"letter"`
	Index  int     `json:"index"` // zero-based, for jump_to
	Cell   int     `json:"cell"`  // one-based picker cell, for jump_to
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

var errUnknownEvent = errors.New("unknown event type")

// event maps a request onto a viewer event.
func (r eventRequest) event() (viewer.Event, error) {
	switch r.Type {
	case "select":
		return viewer.SelectOption{Letter: r.Letter}, nil
	case "flip":
		return viewer.Flip{}, nil
	case "next":
		return viewer.Next{}, nil
	case "prev":
		return viewer.Prev{}, nil
	case "open_jump":
		return viewer.OpenJump{}, nil
	case "jump_to":
		index := r.Index
		if r.Cell > 0 {
			index = r.Cell - 1
		}
		return viewer.JumpTo{Index: index}, nil
	case "close_jump":
		return viewer.CloseJump{}, nil
	case "swipe":
		return viewer.Swipe{DX: r.DX, DY: r.DY}, nil
	case "home":
		return viewer.Home{}, nil
	default:
		return nil, errUnknownEvent
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		h.logger.Error("failed to read page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.sessionKey(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	tiles := h.catalogService.Tiles()
	out := make([]tileResponse, 0, len(tiles))
	for _, tile := range tiles {
		out = append(out, tileResponse{
			Index:       tile.Index,
			Filename:    tile.Entry.Filename,
			Title:       tile.Entry.Title,
			Description: tile.Entry.Description,
			Icon:        tile.Entry.Icon,
			Count:       tile.Count,
			Label:       tile.Label,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleOpenDeck(w http.ResponseWriter, r *http.Request) {
	key := h.sessionKey(w, r)

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, screenResponse{
			Screen: h.sessionService.Screen(key),
			Error:  "invalid deck index",
		})
		return
	}

	screen, err := h.sessionService.Open(r.Context(), key, index)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, service.ErrUnknownEntry) {
			status = http.StatusNotFound
		}
		h.writeJSON(w, status, screenResponse{
			Screen: h.sessionService.Screen(key),
			Error:  service.LoadErrorMessage(err),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, screenResponse{Screen: screen})
}

func (h *Handler) handleScreen(w http.ResponseWriter, r *http.Request) {
	key := h.sessionKey(w, r)
	h.writeJSON(w, http.StatusOK, screenResponse{Screen: h.sessionService.Screen(key)})
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	key := h.sessionKey(w, r)

	var req eventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, screenResponse{
			Screen: h.sessionService.Screen(key),
			Error:  "invalid event body",
		})
		return
	}

	ev, err := req.event()
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, screenResponse{
			Screen: h.sessionService.Screen(key),
			Error:  err.Error() + ": " + req.Type,
		})
		return
	}

	screen, effect, err := h.sessionService.Dispatch(key, ev, nil)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, viewer.ErrNoSession) {
			status = http.StatusConflict
		}
		h.writeJSON(w, status, screenResponse{Screen: screen, Error: err.Error()})
		return
	}

	resp := screenResponse{Screen: screen}
	if effect.Reveal != nil {
		resp.RevealInMS = h.sessionService.RevealDelay().Milliseconds()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// sessionKey returns the session key of the browser, issuing a new
// session cookie when the request has no valid one.
func (h *Handler) sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return "web:" + id.String()
		}
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return "web:" + id.String()
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}
