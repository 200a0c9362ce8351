package cart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"AspectoStore/internal/catalog"
	"AspectoStore/internal/notify"
	"AspectoStore/internal/session"
	"AspectoStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store   Store
	Catalog catalog.Store
	Notify  *notify.Center
	Log     *zap.Logger

	prompts *promptBook
}

func NewServer(store Store, cat catalog.Store, n *notify.Center, log *zap.Logger) *Server {
	return &Server{
		Store:   store,
		Catalog: cat,
		Notify:  n,
		Log:     log,
		prompts: newPromptBook(),
	}
}

// Handlers are registered behind the session middleware; each one reads its
// cart slot from the request context.

func (s *Server) ViewHandler() http.HandlerFunc           { return s.view }
func (s *Server) AddHandler() http.HandlerFunc            { return s.add }
func (s *Server) IncrementHandler() http.HandlerFunc      { return s.increment }
func (s *Server) DecrementHandler() http.HandlerFunc      { return s.decrement }
func (s *Server) OpenRemovalHandler() http.HandlerFunc    { return s.openRemoval }
func (s *Server) ConfirmRemovalHandler() http.HandlerFunc { return s.confirmRemoval }
func (s *Server) CancelRemovalHandler() http.HandlerFunc  { return s.cancelRemoval }

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	items, err := s.Store.Load(r.Context(), slot)
	if err != nil {
		s.storeError(w, r, "load cart failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, BuildView(items))
}

type addReq struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	var req addReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if !ValidSize(req.Size) {
		kit.WriteError(w, r, http.StatusBadRequest, "selecione o tamanho da peça", map[string]any{"sizes": Sizes})
		return
	}

	p, found, err := s.Catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		s.storeError(w, r, "catalog get failed", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": req.ProductID})
		return
	}

	items, err := s.Store.Load(r.Context(), slot)
	if err != nil {
		s.storeError(w, r, "load cart failed", err)
		return
	}

	items = Add(items, p, req.Size)
	if err := s.Store.Save(r.Context(), slot, items); err != nil {
		s.storeError(w, r, "save cart failed", err)
		return
	}

	s.Notify.Notify(p.Name+" adicionado ao carrinho", notify.SeveritySuccess)
	kit.WriteJSON(w, http.StatusCreated, BuildView(items))
}

func (s *Server) increment(w http.ResponseWriter, r *http.Request) {
	s.changeQty(w, r, +1)
}

func (s *Server) decrement(w http.ResponseWriter, r *http.Request) {
	s.changeQty(w, r, -1)
}

func (s *Server) changeQty(w http.ResponseWriter, r *http.Request, delta int) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}
	key := chi.URLParam(r, "key")

	items, err := s.Store.Load(r.Context(), slot)
	if err != nil {
		s.storeError(w, r, "load cart failed", err)
		return
	}

	items = ChangeQty(items, key, delta)
	if err := s.Store.Save(r.Context(), slot, items); err != nil {
		s.storeError(w, r, "save cart failed", err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, BuildView(items))
}

type removalResp struct {
	PromptID string `json:"prompt_id"`
	Key      string `json:"key"`
	Message  string `json:"message"`
}

// openRemoval starts the confirmation step; nothing leaves the cart until the
// prompt is confirmed.
func (s *Server) openRemoval(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}
	key := chi.URLParam(r, "key")

	p := s.prompts.open(slot, key)
	kit.WriteJSON(w, http.StatusAccepted, removalResp{
		PromptID: p.id,
		Key:      p.key,
		Message:  "Remover este item do carrinho?",
	})
}

func (s *Server) confirmRemoval(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	p, ok := s.prompts.take(chi.URLParam(r, "id"), slot)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown removal prompt", nil)
		return
	}

	items, err := s.Store.Load(r.Context(), slot)
	if err != nil {
		s.storeError(w, r, "load cart failed", err)
		return
	}

	items = Remove(items, p.key)
	if err := s.Store.Save(r.Context(), slot, items); err != nil {
		s.storeError(w, r, "save cart failed", err)
		return
	}

	s.Notify.Notify("Item removido do carrinho", notify.SeverityWarning)
	kit.WriteJSON(w, http.StatusOK, BuildView(items))
}

func (s *Server) cancelRemoval(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	if _, ok := s.prompts.take(chi.URLParam(r, "id"), slot); !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown removal prompt", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
