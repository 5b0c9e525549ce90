package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/storefront/core/catalog"
	"github.com/jcmexdev/storefront/internal/storefront/core/checkout"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// Localizer resolves message keys and the locales served under /{locale}.
type Localizer interface {
	ports.Translator
	Supports(lang string) bool
	Match(acceptLanguage string) string
}

// AttemptReader reads recorded payment attempts for the debug endpoints.
type AttemptReader interface {
	ListByOrder(ctx context.Context, orderCode string) ([]ports.PaymentAttempt, error)
	Latest(ctx context.Context, orderCode string) (*ports.PaymentAttempt, error)
}

// Handler serves the storefront pages and the payment form.
type Handler struct {
	checkout  *checkout.Service
	sessions  *checkout.Sessions
	catalog   *catalog.Service
	localizer Localizer
	attempts  AttemptReader // nil: the debug routes are not mounted
	logger    *slog.Logger
}

// NewHandler wires the handler. attempts may be nil.
func NewHandler(
	cs *checkout.Service,
	sessions *checkout.Sessions,
	cat *catalog.Service,
	localizer Localizer,
	attempts AttemptReader,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		checkout:  cs,
		sessions:  sessions,
		catalog:   cat,
		localizer: localizer,
		attempts:  attempts,
		logger:    logger,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RedirectToLocale sends / to the best locale for the Accept-Language header.
func (h *Handler) RedirectToLocale(w http.ResponseWriter, r *http.Request) {
	locale := h.localizer.Match(r.Header.Get("Accept-Language"))
	http.Redirect(w, r, "/"+locale+"/", http.StatusFound)
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")

	page, err := h.catalog.Home(r.Context(), locale)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}
	writeJSON(w, http.StatusOK, mapHome(page))
}

func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	slug := chi.URLParam(r, "slug")

	page, err := h.catalog.Product(r.Context(), locale, slug)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(page))
}

// GetPayment loads the active order's payment offer and mounts the form.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}

	form, offer, err := h.mount(r.Context(), locale, token)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}
	writeJSON(w, http.StatusOK, h.paymentPage(locale, offer, form.Snapshot()))
}

// SubmitPayment runs one submission of the form. The response carries the
// form state after it, including where to navigate.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}

	var req SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	sel, err := checkout.ParseSelection(req.Payment)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}

	var (
		offer  checkout.Offer
		loaded bool
	)
	form, err := h.sessions.Lookup(token)
	if err == nil {
		offer, loaded = form.Offer()
	}
	// A form that already navigated away holds an offer for an order that is
	// no longer active.
	if !loaded || form.Snapshot().State.Terminal() {
		if form, offer, err = h.mount(r.Context(), locale, token); err != nil {
			h.fail(w, r, locale, err)
			return
		}
	}

	values := entity.FormValues{Payment: sel, BlikCode: checkout.NormalizeBlikCode(req.BlikCode)}
	snap, err := form.Submit(r.Context(), locale, offer, values)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}
	writeJSON(w, http.StatusOK, h.formResponse(locale, snap))
}

// CardResult applies the card widget's completion to the form.
func (h *Handler) CardResult(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	form, ok := h.mounted(w, r, locale)
	if !ok {
		return
	}

	var req CardResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	var cardErr *checkout.CardError
	if req.Error != nil {
		cardErr = &checkout.CardError{Type: req.Error.Type, Code: req.Error.Code, Message: req.Error.Message}
	}
	writeJSON(w, http.StatusOK, h.formResponse(locale, form.CardResult(cardErr)))
}

// DismissError hides the error banner.
func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	form, ok := h.mounted(w, r, locale)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.formResponse(locale, form.Dismiss()))
}

// ClosePayment unmounts the form, cancelling an in-flight submission.
func (h *Handler) ClosePayment(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.sessions.Close(token)
	w.WriteHeader(http.StatusNoContent)
}

// PaymentAttempts lists the recorded attempts of an order.
func (h *Handler) PaymentAttempts(w http.ResponseWriter, r *http.Request) {
	orderCode := chi.URLParam(r, "orderCode")

	attempts, err := h.attempts.ListByOrder(r.Context(), orderCode)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	out := make([]PaymentAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, mapAttempt(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// LatestPaymentAttempt returns the most recent attempt of an order.
func (h *Handler) LatestPaymentAttempt(w http.ResponseWriter, r *http.Request) {
	orderCode := chi.URLParam(r, "orderCode")

	a, err := h.attempts.Latest(r.Context(), orderCode)
	if err != nil {
		h.fail(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, mapAttempt(*a))
}

// AddToCart puts a product variant into the session's active order. The
// payment offer of a mounted form is dropped since the order total changed.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	locale := chi.URLParam(r, "locale")
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.VariantID == "" {
		writeError(w, http.StatusBadRequest, "variant_required", "variant_id is required")
		return
	}

	order, err := h.catalog.AddToCart(r.Context(), locale, req.VariantID, req.Quantity)
	if err != nil {
		h.fail(w, r, locale, err)
		return
	}
	if form, err := h.sessions.Lookup(token); err == nil {
		form.ClearOffer()
	}
	writeJSON(w, http.StatusOK, mapCart(order))
}

// mount loads the payment offer and only then mounts the session's form, so
// tokens the Shop API does not know never take a registry slot.
func (h *Handler) mount(ctx context.Context, locale, token string) (*checkout.Form, checkout.Offer, error) {
	offer, err := h.checkout.LoadOffer(ctx, locale)
	if err != nil {
		return nil, checkout.Offer{}, err
	}
	form, err := h.sessions.Get(token)
	if err != nil {
		return nil, checkout.Offer{}, err
	}
	form.SetOffer(offer)
	return form, offer, nil
}

// mounted returns the session's existing form.
func (h *Handler) mounted(w http.ResponseWriter, r *http.Request, locale string) (*checkout.Form, bool) {
	token, ok := sessionToken(w, r)
	if !ok {
		return nil, false
	}
	form, err := h.sessions.Lookup(token)
	if err != nil {
		h.fail(w, r, locale, err)
		return nil, false
	}
	return form, true
}

// sessionToken answers 401 when the request carries no shop session.
func sessionToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := interceptors.SessionTokenFromContext(r.Context())
	if token == "" {
		writeError(w, http.StatusUnauthorized, "session_required", "a shop session token is required")
		return "", false
	}
	return token, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, locale string, err error) {
	kind := classify(err)
	if kind.status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	msg := err.Error()
	if kind.key != "" && locale != "" {
		msg = h.localizer.T(locale, kind.key)
		var cartErr *entity.CartError
		if msg == kind.key && errors.As(err, &cartErr) {
			msg = h.localizer.T(locale, "errors.cart.UNKNOWN_ERROR")
		}
	}
	writeError(w, kind.status, kind.code, msg)
}

func (h *Handler) paymentPage(locale string, offer checkout.Offer, snap checkout.Snapshot) PaymentPageResponse {
	resp := PaymentPageResponse{
		OrderCode: offer.OrderCode,
		Methods:   make([]PaymentOptionDTO, 0, len(entity.Selections)),
		Form:      h.formResponse(locale, snap),
	}
	for _, sel := range offer.Selections() {
		resp.Methods = append(resp.Methods, PaymentOptionDTO{
			Value:         string(sel),
			Label:         h.localizer.T(locale, "checkout.methods."+string(sel)),
			NeedsBlikCode: sel == entity.SelectionPrzelewy24Blik,
		})
	}
	if offer.Card != nil {
		resp.Card = &CardSessionDTO{PublicKey: offer.Card.PublicKey, ClientSecret: offer.Card.ClientSecret}
	}
	return resp
}

func (h *Handler) formResponse(locale string, snap checkout.Snapshot) FormResponse {
	resp := FormResponse{State: string(snap.State)}
	if snap.ErrorKey != "" {
		resp.Error = &BannerDTO{Key: snap.ErrorKey, Message: h.localizer.T(locale, snap.ErrorKey)}
	}
	switch snap.State {
	case checkout.StateConfirmed:
		resp.Navigation = &NavigationDTO{
			Location: "/" + locale + "/checkout/confirmation/" + url.PathEscape(snap.Outcome.OrderCode),
		}
	case checkout.StateExternalRedirect:
		resp.Navigation = &NavigationDTO{Location: snap.Outcome.ExternalURL, External: true}
	}
	return resp
}

func mapAttempt(a ports.PaymentAttempt) PaymentAttemptResponse {
	return PaymentAttemptResponse{
		ID:        a.ID,
		OrderCode: a.OrderCode,
		Selection: string(a.Selection),
		Method:    a.Method,
		Outcome:   string(a.Outcome),
		ErrorCode: string(a.ErrorCode),
		TraceID:   a.TraceID,
		CreatedAt: a.CreatedAt,
	}
}

func mapCart(o *entity.ActiveOrder) CartResponse {
	resp := CartResponse{
		OrderCode:    o.Code,
		State:        string(o.State),
		Currency:     o.Currency,
		TotalWithTax: o.TotalWithTax,
		Lines:        make([]CartLineDTO, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, CartLineDTO{
			ID:               l.ID,
			ProductName:      l.ProductName,
			VariantName:      l.VariantName,
			Quantity:         l.Quantity,
			LinePriceWithTax: l.LinePriceWithTax,
		})
	}
	return resp
}

func mapHome(page catalog.HomePage) HomeResponse {
	resp := HomeResponse{
		Products:    make([]ProductTileDTO, 0, len(page.Products)),
		Collections: mapCollections(page.Collections),
	}
	for _, p := range page.Products {
		resp.Products = append(resp.Products, ProductTileDTO{
			ID:           p.ID,
			Slug:         p.Slug,
			Name:         p.Name,
			Image:        mapAsset(p.FeaturedAsset),
			PriceWithTax: p.PriceWithTax,
			Currency:     p.Currency,
		})
	}
	return resp
}

func mapProduct(page catalog.ProductPage) ProductResponse {
	p := page.Product
	resp := ProductResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Image:       mapAsset(p.FeaturedAsset),
		Assets:      make([]AssetDTO, 0, len(p.Assets)),
		Sizes:       make([]SizeDTO, 0, len(page.Sizes)),
		Price:       page.Price,
		Currency:    page.Currency,
		Collections: mapCollections(page.Collections),
	}
	for _, a := range p.Assets {
		resp.Assets = append(resp.Assets, AssetDTO{Preview: a.Preview, Source: a.Source})
	}
	for _, s := range page.Sizes {
		resp.Sizes = append(resp.Sizes, SizeDTO{VariantID: s.VariantID, Label: s.Label})
	}
	return resp
}

func mapAsset(a *entity.Asset) *AssetDTO {
	if a == nil {
		return nil
	}
	return &AssetDTO{Preview: a.Preview, Source: a.Source}
}

func mapCollections(cols []entity.Collection) []CollectionDTO {
	out := make([]CollectionDTO, len(cols))
	for i, c := range cols {
		out[i] = CollectionDTO{ID: c.ID, Name: c.Name, Slug: c.Slug, ParentID: c.ParentID}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

