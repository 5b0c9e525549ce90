package httpx

import "time"

type SubmitPaymentRequest struct {
	Payment  string `json:"payment"`
	BlikCode string `json:"blik_code,omitempty"`
}

// CardResultRequest is posted by the card widget when confirmation ends.
// A null error means the widget succeeded and is navigating on its own.
type CardResultRequest struct {
	Error *CardErrorDTO `json:"error"`
}

type CardErrorDTO struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type AddToCartRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	OrderCode    string        `json:"order_code"`
	State        string        `json:"state"`
	Currency     string        `json:"currency"`
	TotalWithTax int64         `json:"total_with_tax"`
	Lines        []CartLineDTO `json:"lines"`
}

type CartLineDTO struct {
	ID               string `json:"id"`
	ProductName      string `json:"product_name"`
	VariantName      string `json:"variant_name"`
	Quantity         int    `json:"quantity"`
	LinePriceWithTax int64  `json:"line_price_with_tax"`
}

type PaymentPageResponse struct {
	OrderCode string             `json:"order_code"`
	Methods   []PaymentOptionDTO `json:"methods"`
	Card      *CardSessionDTO    `json:"card,omitempty"`
	Form      FormResponse       `json:"form"`
}

type PaymentOptionDTO struct {
	Value         string `json:"value"`
	Label         string `json:"label"`
	NeedsBlikCode bool   `json:"needs_blik_code,omitempty"`
}

type CardSessionDTO struct {
	PublicKey    string `json:"public_key"`
	ClientSecret string `json:"client_secret"`
}

type FormResponse struct {
	State      string         `json:"state"`
	Error      *BannerDTO     `json:"error,omitempty"`
	Navigation *NavigationDTO `json:"navigation,omitempty"`
}

type BannerDTO struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// NavigationDTO tells the browser where to go. External locations are
// off-site and used verbatim.
type NavigationDTO struct {
	Location string `json:"location"`
	External bool   `json:"external"`
}

type HomeResponse struct {
	Products    []ProductTileDTO `json:"products"`
	Collections []CollectionDTO  `json:"collections"`
}

type ProductTileDTO struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Image        *AssetDTO `json:"image,omitempty"`
	PriceWithTax int64     `json:"price_with_tax"`
	Currency     string    `json:"currency"`
}

type AssetDTO struct {
	Preview string `json:"preview"`
	Source  string `json:"source"`
}

type CollectionDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID string `json:"parent_id,omitempty"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       *AssetDTO       `json:"image,omitempty"`
	Assets      []AssetDTO      `json:"assets"`
	Sizes       []SizeDTO       `json:"sizes"`
	Price       string          `json:"price"`
	Currency    string          `json:"currency"`
	Collections []CollectionDTO `json:"collections"`
}

type SizeDTO struct {
	VariantID string `json:"variant_id"`
	Label     string `json:"label"`
}

type PaymentAttemptResponse struct {
	ID        string    `json:"id"`
	OrderCode string    `json:"order_code"`
	Selection string    `json:"selection"`
	Method    string    `json:"method,omitempty"`
	Outcome   string    `json:"outcome"`
	ErrorCode string    `json:"error_code,omitempty"`
	TraceID   string    `json:"trace_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
