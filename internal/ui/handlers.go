package ui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/joeblew999/plat-fontmatch/internal/svc"
	"github.com/joeblew999/plat-fontmatch/pkg/font"
	"github.com/joeblew999/plat-fontmatch/pkg/session"
	"github.com/joeblew999/plat-fontmatch/pkg/snapshot"
	"github.com/starfederation/datastar-go/datastar"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/pathvar"
	g "maragu.dev/gomponents"
)

// Handlers provides HTTP handlers for the UI.
type Handlers struct {
	svcCtx *svc.ServiceContext
}

// NewHandlers creates new UI handlers.
func NewHandlers(svcCtx *svc.ServiceContext) *Handlers {
	return &Handlers{svcCtx: svcCtx}
}

// Routes returns the page routes for registration with rest.Server.
func (h *Handlers) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.handleIndex},
		{Method: http.MethodGet, Path: "/s/:id", Handler: h.handleSession},
	}
}

// SSERoutes returns the Datastar action routes (require rest.WithSSE option).
func (h *Handlers) SSERoutes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/ui/:id/state", Handler: h.handleState},
		{Method: http.MethodPost, Path: "/ui/:id/shuffle", Handler: h.handleShuffle},
		{Method: http.MethodPost, Path: "/ui/:id/lock/:slot", Handler: h.handleLock},
		{Method: http.MethodPost, Path: "/ui/:id/pick/:slot", Handler: h.handlePick},
		{Method: http.MethodPost, Path: "/ui/:id/snapshots", Handler: h.handleSaveSnapshot},
		{Method: http.MethodPost, Path: "/ui/:id/snapshots/:snapshotId/load", Handler: h.handleLoadSnapshot},
		{Method: http.MethodDelete, Path: "/ui/:id/snapshots/:snapshotId", Handler: h.handleDeleteSnapshot},
	}
}

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	id, c, err := h.svcCtx.Sessions.Create()
	if err != nil {
		logx.WithContext(r.Context()).Errorf("create session: %v", err)
		http.Error(w, "failed to start a pairing session", http.StatusInternalServerError)
		return
	}
	h.renderPlayground(w, r, id, c)
}

func (h *Handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	id := pathvar.Vars(r)["id"]
	c, err := h.svcCtx.Sessions.Get(id)
	if err != nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if err := MissingSession().Render(w); err != nil {
			logx.Errorf("render missing session: %v", err)
		}
		return
	}
	h.renderPlayground(w, r, id, c)
}

func (h *Handlers) renderPlayground(w http.ResponseWriter, r *http.Request, id string, c *session.Controller) {
	snaps, err := h.svcCtx.Snapshots.List(r.Context(), id)
	if err != nil {
		logx.WithContext(r.Context()).Errorf("list snapshots: %v", err)
	}

	page := PlaygroundPage(Playground{
		SessionID: id,
		State:     c.State(),
		Families:  font.Families(c.Fonts()),
		Links:     h.svcCtx.Loader.Document().Links(),
		Snapshots: snaps,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		logx.Errorf("render playground: %v", err)
	}
}

func (h *Handlers) handleState(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)
	state := c.State()
	if !state.CatalogLoading {
		h.patchNode(sse, familyList(font.Families(c.Fonts())))
	}
	h.patchPair(sse, id, c, "")
}

func (h *Handlers) handleShuffle(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	_, err := c.Shuffle(r.Context())
	h.patchPair(datastar.NewSSE(w, r), id, c, errText(err))
}

func (h *Handlers) handleLock(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	slot, err := session.ParseSlot(pathvar.Vars(r)["slot"])
	if err == nil {
		_, err = c.ToggleLock(slot)
	}
	h.patchPair(datastar.NewSSE(w, r), id, c, errText(err))
}

func (h *Handlers) handlePick(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	var signals struct {
		PickFamily string `json:"pickFamily"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	slot, err := session.ParseSlot(pathvar.Vars(r)["slot"])
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	family := strings.TrimSpace(signals.PickFamily)
	if _, ok := c.Font(family); !ok {
		h.patchPair(datastar.NewSSE(w, r), id, c, "Font not in catalog: "+family)
		return
	}

	if slot == session.LockPrimary {
		_, err = c.SetPrimary(r.Context(), family)
	} else {
		_, err = c.SetSecondary(r.Context(), family)
	}
	h.patchPair(datastar.NewSSE(w, r), id, c, errText(err))
}

func (h *Handlers) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	state := c.State()
	if _, err := h.svcCtx.Snapshots.Save(r.Context(), id, state.Pair, string(state.Lock)); err != nil {
		h.sendDatastarError(w, r, err)
		return
	}
	h.patchSnapshots(w, r, id)
}

func (h *Handlers) handleLoadSnapshot(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, err := h.svcCtx.Snapshots.Get(r.Context(), pathvar.Vars(r)["snapshotId"])
	if err == nil && snap.SessionID != id {
		err = snapshot.ErrNotFound
	}
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	_, err = c.SetPair(r.Context(), snap.Primary, snap.Secondary)
	h.patchPair(datastar.NewSSE(w, r), id, c, errText(err))
}

func (h *Handlers) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.session(w, r)
	if !ok {
		return
	}

	err := h.svcCtx.Snapshots.Remove(r.Context(), pathvar.Vars(r)["snapshotId"])
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		h.sendDatastarError(w, r, err)
		return
	}
	h.patchSnapshots(w, r, id)
}

// session resolves the :id path variable, answering with an error signal
// when the session is gone.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (string, *session.Controller, bool) {
	id := pathvar.Vars(r)["id"]
	c, err := h.svcCtx.Sessions.Get(id)
	if err != nil {
		h.sendDatastarError(w, r, errors.New("session expired, reload the page to start a new one"))
		return "", nil, false
	}
	return id, c, true
}

// patchPair replaces #pair and refreshes the state signals.
func (h *Handlers) patchPair(sse *datastar.ServerSentEventGenerator, id string, c *session.Controller, errMsg string) {
	state := c.State()
	h.patchNode(sse, PairSpecimen(state.Pair, h.svcCtx.Loader.Document().Links()))

	if err := sse.MarshalAndPatchSignals(map[string]any{
		"sessionId":      id,
		"lock":           string(state.Lock),
		"version":        state.Version,
		"fontCount":      state.FontCount,
		"catalogLoading": state.CatalogLoading,
		"updating":       false,
		"error":          errMsg,
	}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) patchSnapshots(w http.ResponseWriter, r *http.Request, id string) {
	snaps, err := h.svcCtx.Snapshots.List(r.Context(), id)
	if err != nil {
		h.sendDatastarError(w, r, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	h.patchNode(sse, SnapshotList(id, snaps))
	if err := sse.MarshalAndPatchSignals(map[string]any{"updating": false, "error": ""}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) patchNode(sse *datastar.ServerSentEventGenerator, node g.Node) {
	var b strings.Builder
	if err := node.Render(&b); err != nil {
		logx.Errorf("render fragment: %v", err)
		return
	}
	if err := sse.PatchElements(b.String()); err != nil {
		logx.Errorf("datastar patch elements: %v", err)
	}
}

func (h *Handlers) sendDatastarSignals(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) sendDatastarError(w http.ResponseWriter, r *http.Request, err error) {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	h.sendDatastarSignals(w, r, map[string]any{
		"updating": false,
		"error":    msg,
	})
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
