package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"AspectoStore/internal/cart"
	"AspectoStore/internal/event"
	"AspectoStore/internal/notify"
	"AspectoStore/internal/session"
	"AspectoStore/pkg/kit"
)

const (
	maxBodyBytes   = 1 << 20
	dispatchWindow = 10 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Deps struct {
	Carts  cart.Store
	Orders Store
	Mailer Mailer
	Events event.Producer
	Notify *notify.Center
	Log    *zap.Logger

	PIX          PIXConfig
	ChatPhone    string
	OrderEmailTo string
}

type Server struct {
	Deps

	pending *pendingBook
	now     func() time.Time
}

func NewServer(d Deps) *Server {
	return &Server{
		Deps:    d,
		pending: newPendingBook(),
		now:     time.Now,
	}
}

func (s *Server) BeginHandler() http.HandlerFunc    { return s.begin }
func (s *Server) ConfirmHandler() http.HandlerFunc  { return s.confirm }
func (s *Server) CancelHandler() http.HandlerFunc   { return s.cancel }
func (s *Server) GetOrderHandler() http.HandlerFunc { return s.getOrder }

type checkoutReq struct {
	CustomerName  string `json:"customer_name" validate:"required,min=2"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash pix card"`
}

type pixSurface struct {
	Payload string `json:"payload"`
	Image   string `json:"image"`
}

type checkoutResp struct {
	State      State       `json:"state"`
	Order      *Order      `json:"order,omitempty"`
	ChatLink   string      `json:"chat_link,omitempty"`
	Cart       *cart.View  `json:"cart,omitempty"`
	CheckoutID string      `json:"checkout_id,omitempty"`
	PIX        *pixSurface `json:"pix,omitempty"`
}

func (s *Server) begin(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	var req checkoutReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)

	if s.Log != nil {
		s.Log.Debug("checkout", zap.String("state", string(StateValidating)), zap.String("slot", slot))
	}
	if err := validate.Struct(req); err != nil {
		s.reject(w, r, "Preencha seu nome e a forma de pagamento", fieldErrors(err))
		return
	}

	items, err := s.Carts.Load(r.Context(), slot)
	if err != nil {
		s.storeError(w, r, "load cart failed", err)
		return
	}
	if len(items) == 0 {
		s.reject(w, r, "Seu carrinho está vazio", nil)
		return
	}

	method := Method(req.PaymentMethod)
	if method == MethodPIX {
		p := s.pending.open(slot, req.CustomerName, method, items)
		s.Notify.Notify("Confirme o pagamento PIX para finalizar", notify.SeverityInfo)
		kit.WriteJSON(w, http.StatusOK, checkoutResp{
			State:      StateAwaitingConfirmation,
			CheckoutID: p.id,
			PIX: &pixSurface{
				Payload: BuildPIXPayload(s.PIX),
				Image:   s.PIX.Image,
			},
		})
		return
	}

	s.complete(w, r, slot, req.CustomerName, method, items)
}

// confirm closes the PIX confirmation surface: only now is the order
// dispatched and the cart cleared.
func (s *Server) confirm(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	p, ok := s.pending.take(chi.URLParam(r, "id"), slot)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown checkout", nil)
		return
	}

	s.complete(w, r, p.slot, p.customer, p.method, p.items)
}

func (s *Server) cancel(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	if _, ok := s.pending.take(chi.URLParam(r, "id"), slot); !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown checkout", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// complete runs the dispatch-and-clear tail shared by direct methods and
// confirmed PIX checkouts. It runs at most once per checkout: direct
// checkouts reach it straight from validation, PIX checkouts only via the
// one-shot pending take.
func (s *Server) complete(w http.ResponseWriter, r *http.Request, slot, customer string, method Method, items []cart.Item) {
	now := s.now()

	o := Order{
		ID:           "o_" + uuid.NewString(),
		Slot:         slot,
		CustomerName: customer,
		Method:       method,
		Items:        items,
		TotalCents:   cart.TotalCents(items),
		CreatedAt:    now,
	}

	if err := s.Orders.Create(r.Context(), o); err != nil {
		s.storeError(w, r, "store order failed", err)
		return
	}

	// Email is fire-and-forget: a relay failure is reported, never blocking.
	if s.Log != nil {
		s.Log.Info("checkout dispatching", zap.String("state", string(StateDispatchingEmail)), zap.String("order_id", o.ID))
	}
	s.dispatchEmail(o)

	if s.Log != nil {
		s.Log.Info("checkout dispatching", zap.String("state", string(StateDispatchingMessage)), zap.String("order_id", o.ID))
	}
	chatLink := ChatLink(s.ChatPhone, items, customer, string(method), now)

	if err := s.Carts.Clear(r.Context(), slot); err != nil {
		// The order has already been dispatched; losing the clear only
		// leaves a stale cart behind.
		if s.Log != nil {
			s.Log.Error("clear cart failed", zap.Error(err), zap.String("order_id", o.ID))
		}
	}

	s.publishCompleted(o)

	s.Notify.Notify("Pedido enviado com sucesso", notify.SeveritySuccess)

	empty := cart.BuildView(nil)
	kit.WriteJSON(w, http.StatusOK, checkoutResp{
		State:    StateCompleted,
		Order:    &o,
		ChatLink: chatLink,
		Cart:     &empty,
	})
}

func (s *Server) dispatchEmail(o Order) {
	e := OrderEmail{
		CustomerName: o.CustomerName,
		Total:        cart.FormatBRL(o.TotalCents),
		Method:       strings.ToUpper(string(o.Method)),
		Timestamp:    o.CreatedAt.Format(timestampLayout),
		Items:        ItemsText(o.Items),
		ToEmail:      s.OrderEmailTo,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchWindow)
		defer cancel()

		if err := s.Mailer.Send(ctx, e); err != nil {
			if s.Log != nil {
				s.Log.Warn("order email dispatch failed", zap.Error(err), zap.String("order_id", o.ID))
			}
			s.Notify.Notify("Não foi possível enviar o e-mail do pedido", notify.SeverityError)
		}
	}()
}

func (s *Server) publishCompleted(o Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchWindow)
	defer cancel()

	err := s.Events.OrderCompleted(ctx, event.OrderCompleted{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Method:       string(o.Method),
		TotalCents:   o.TotalCents,
		ItemCount:    cart.ItemCount(o.Items),
		CreatedAt:    o.CreatedAt,
	})
	if err != nil && s.Log != nil {
		s.Log.Warn("publish order event failed", zap.Error(err), zap.String("order_id", o.ID))
	}
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	slot, ok := session.FromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Orders.Get(r.Context(), id)
	if err != nil {
		s.storeError(w, r, "get order failed", err)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if o.Slot != slot {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, msg string, details any) {
	s.Notify.Notify(msg, notify.SeverityError)
	kit.WriteJSON(w, http.StatusUnprocessableEntity, struct {
		State   State  `json:"state"`
		Error   string `json:"error"`
		Details any    `json:"details,omitempty"`
	}{State: StateRejected, Error: msg, Details: details})
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
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
