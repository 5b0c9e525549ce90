package interceptors

import (
	"net/http"

	"github.com/jcmexdev/storefront/internal/pkg/interceptors/constants"
)

// ShopAPITransport is the outbound counterpart of the request metadata
// middleware: every call to the Shop API carries the request id, the
// shopper session and, when configured, the channel token.
type ShopAPITransport struct {
	Base         http.RoundTripper
	ChannelToken string
}

func NewShopAPITransport(base http.RoundTripper, channelToken string) *ShopAPITransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &ShopAPITransport{Base: base, ChannelToken: channelToken}
}

func (t *ShopAPITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(ctx)

	if id := RequestIDFromContext(ctx); id != "" {
		out.Header.Set(constants.HeaderXRequestId, id)
	}
	if tok := SessionTokenFromContext(ctx); tok != "" {
		out.Header.Set(constants.HeaderAuthorization, "Bearer "+tok)
	}
	if t.ChannelToken != "" {
		out.Header.Set(constants.HeaderShopChannel, t.ChannelToken)
	}

	return t.Base.RoundTrip(out)
}
