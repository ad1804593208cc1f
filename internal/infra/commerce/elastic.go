// File: internal/infra/commerce/elastic.go
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-store-bot/internal/config"
	"telegram-store-bot/internal/domain"
	"telegram-store-bot/internal/domain/model"
	"telegram-store-bot/internal/domain/ports/adapter"
	"telegram-store-bot/internal/infra/metrics"
)

var _ adapter.CommerceClient = (*ElasticClient)(nil)

// ElasticClient talks to the Elastic Path commerce API. It owns the access
// token: every operation re-checks expiry and re-runs the credential grant
// when needed, so callers never deal with auth. Responses are decoded into
// typed records once, here; handlers never see raw JSON.
type ElasticClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpc        *http.Client
	log          *zerolog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry int64 // unix seconds
}

func NewElasticClient(cfg *config.CommerceConfig, log *zerolog.Logger) *ElasticClient {
	return &ElasticClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpc:        &http.Client{Timeout: 30 * time.Second},
		log:          log,
	}
}

// ensureToken performs the credential grant when no token is held or the
// held one has reached its expiry instant.
func (c *ElasticClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Unix() < c.tokenExpiry {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAuth, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token endpoint returned %d", domain.ErrAuth, resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		Expires     int64  `json:"expires"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", domain.ErrAuth, err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrAuth)
	}

	c.token = out.AccessToken
	c.tokenExpiry = out.Expires
	metrics.IncTokenRefresh()
	c.log.Debug().Int64("expires", out.Expires).Msg("commerce token refreshed")
	return c.token, nil
}

// doJSON issues one authenticated request and decodes a 2xx body into out
// (when out is non-nil). Non-2xx statuses are returned to the caller for
// mapping; transport and decode failures come back as ErrUpstream.
func (c *ElasticClient) doJSON(ctx context.Context, op, method, path string, payload, out interface{}) (int, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		metrics.ObserveCommerceRequest(op, "auth_error", 0)
		return 0, err
	}

	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("%w: encode %s: %v", domain.ErrUpstream, op, err)
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.ObserveCommerceRequest(op, "transport_error", time.Since(start))
		return 0, fmt.Errorf("%w: %s: %v", domain.ErrUpstream, op, err)
	}
	defer resp.Body.Close()

	outcome := "ok"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = fmt.Sprintf("http_%d", resp.StatusCode)
	}
	metrics.ObserveCommerceRequest(op, outcome, time.Since(start))

	if outcome == "ok" && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, op, err)
		}
	}
	return resp.StatusCode, nil
}

// statusErr maps a non-2xx status. notFoundOK selects whether 404 means a
// missing entity or just another upstream failure.
func statusErr(op string, status int, notFoundOK bool) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusNotFound && notFoundOK {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	return fmt.Errorf("%w: %s returned %d", domain.ErrUpstream, op, status)
}

// ---- wire shapes ----

type productResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"attributes"`
	Meta struct {
		DisplayPrice struct {
			WithoutTax struct {
				Formatted string `json:"formatted"`
			} `json:"without_tax"`
		} `json:"display_price"`
	} `json:"meta"`
	Relationships struct {
		MainImage struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"main_image"`
	} `json:"relationships"`
}

func (p productResource) toModel() model.Product {
	return model.Product{
		ID:          p.ID,
		Name:        p.Attributes.Name,
		Description: p.Attributes.Description,
		Price:       p.Meta.DisplayPrice.WithoutTax.Formatted,
		ImageID:     p.Relationships.MainImage.Data.ID,
	}
}

type cartItemResource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Meta        struct {
		DisplayPrice struct {
			WithTax struct {
				Unit struct {
					Formatted string `json:"formatted"`
				} `json:"unit"`
				Value struct {
					Formatted string `json:"formatted"`
				} `json:"value"`
			} `json:"with_tax"`
		} `json:"display_price"`
	} `json:"meta"`
}

// ---- operations ----

func (c *ElasticClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out struct {
		Data []productResource `json:"data"`
	}
	status, err := c.doJSON(ctx, "list_products", http.MethodGet, "/pcm/products", nil, &out)
	if err != nil {
		return nil, err
	}
	if err := statusErr("list products", status, false); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(out.Data))
	for _, p := range out.Data {
		products = append(products, p.toModel())
	}
	return products, nil
}

func (c *ElasticClient) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var out struct {
		Data productResource `json:"data"`
	}
	status, err := c.doJSON(ctx, "get_product", http.MethodGet, "/pcm/products/"+id, nil, &out)
	if err != nil {
		return model.Product{}, err
	}
	if err := statusErr("get product", status, true); err != nil {
		return model.Product{}, err
	}
	return out.Data.toModel(), nil
}

// ResolveImageURL is a two-step lookup: the product references a file ID,
// the file record carries the direct link.
func (c *ElasticClient) ResolveImageURL(ctx context.Context, fileID string) (string, error) {
	var out struct {
		Data struct {
			Link struct {
				Href string `json:"href"`
			} `json:"link"`
		} `json:"data"`
	}
	status, err := c.doJSON(ctx, "get_file", http.MethodGet, "/v2/files/"+fileID, nil, &out)
	if err != nil {
		return "", err
	}
	if err := statusErr("get file", status, true); err != nil {
		return "", err
	}
	return out.Data.Link.Href, nil
}

func (c *ElasticClient) AddToCart(ctx context.Context, cartID, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d", domain.ErrProtocol, quantity)
	}
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"id":       productID,
			"type":     "cart_item",
			"quantity": quantity,
		},
	}
	status, err := c.doJSON(ctx, "add_to_cart", http.MethodPost,
		"/v2/carts/"+cartID+"/items", payload, nil)
	if err != nil {
		return err
	}
	// insufficient stock and the like surface as upstream errors, not
	// interpreted here
	return statusErr("add to cart", status, false)
}

func (c *ElasticClient) GetCart(ctx context.Context, cartID string) (model.Cart, error) {
	var out struct {
		Data struct {
			Meta struct {
				DisplayPrice struct {
					WithTax struct {
						Formatted string `json:"formatted"`
					} `json:"with_tax"`
				} `json:"display_price"`
			} `json:"meta"`
		} `json:"data"`
	}
	status, err := c.doJSON(ctx, "get_cart", http.MethodGet, "/v2/carts/"+cartID, nil, &out)
	if err != nil {
		return model.Cart{}, err
	}
	if err := statusErr("get cart", status, false); err != nil {
		return model.Cart{}, err
	}
	return model.Cart{ID: cartID, Total: out.Data.Meta.DisplayPrice.WithTax.Formatted}, nil
}

func (c *ElasticClient) GetCartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	var out struct {
		Data []cartItemResource `json:"data"`
	}
	status, err := c.doJSON(ctx, "get_cart_items", http.MethodGet,
		"/v2/carts/"+cartID+"/items", nil, &out)
	if err != nil {
		return nil, err
	}
	if err := statusErr("get cart items", status, false); err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(out.Data))
	for _, it := range out.Data {
		items = append(items, model.CartItem{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.Meta.DisplayPrice.WithTax.Unit.Formatted,
			LineTotal:   it.Meta.DisplayPrice.WithTax.Value.Formatted,
		})
	}
	return items, nil
}

// RemoveCartItem passes the upstream status through; removing an already
// removed item is whatever the backend says it is, no special-casing.
func (c *ElasticClient) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	status, err := c.doJSON(ctx, "remove_cart_item", http.MethodDelete,
		"/v2/carts/"+cartID+"/items/"+itemID, nil, nil)
	if err != nil {
		return err
	}
	return statusErr("remove cart item", status, false)
}

func (c *ElasticClient) CreateCustomer(ctx context.Context, name, email string) (model.Customer, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":  "customer",
			"name":  name,
			"email": email,
		},
	}
	var out struct {
		Data struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"data"`
	}
	status, err := c.doJSON(ctx, "create_customer", http.MethodPost, "/v2/customers", payload, &out)
	if err != nil {
		return model.Customer{}, err
	}
	if err := statusErr("create customer", status, false); err != nil {
		return model.Customer{}, err
	}
	return model.Customer{ID: out.Data.ID, Name: out.Data.Name, Email: out.Data.Email}, nil
}
