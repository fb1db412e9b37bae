package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/kvstore"
)

// DefaultWindow is the debounce quiet period before a scheduled report
// fires.
const DefaultWindow = 30 * time.Second

// CartReader is the emitter's view of the cart it observes.
type CartReader interface {
	Items() []domain.CartLineItem
	TotalPrice() float64
}

// Payload is the abandoned-cart report sent to the collector.
type Payload struct {
	SessionID       string                `json:"session_id"`
	CartItems       []domain.CartLineItem `json:"cart_items"`
	CustomerEmail   string                `json:"customer_email,omitempty"`
	CustomerName    string                `json:"customer_name,omitempty"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	DeliveryAddress string                `json:"delivery_address,omitempty"`
	Subtotal        float64               `json:"subtotal"`
	TotalAmount     float64               `json:"total_amount"`
	AffiliateCode   string                `json:"affiliate_code,omitempty"`
}

// customerInfo and deliveryAddress mirror the durable entries owned by
// the checkout subsystem. They are read best-effort: a missing or
// unreadable entry simply yields empty fields.
type customerInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type deliveryAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

func (a deliveryAddress) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.State, a.ZipCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ", ")
}

// Options tunes an Emitter. The zero value means defaults.
type Options struct {
	// Window overrides the debounce quiet period.
	Window time.Duration
	// Client overrides the HTTP client used for reports.
	Client *http.Client
}

// Emitter reports cart contents to a remote collector. Schedule is a
// trailing-edge debounce: repeated calls within the window reset the
// timer and only the last quiet period produces a report. Reports are
// fire-and-forget; failures are logged and never retried or surfaced,
// and an empty cart at fire time produces nothing.
type Emitter struct {
	endpoint string
	cart     CartReader
	kv       *kvstore.Adapter
	client   *http.Client
	window   time.Duration
	logger   *log.Logger

	// Timer state machine: idle (timer nil), pending (timer armed),
	// then back to idle once the callback runs.
	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	session string
}

// New builds an Emitter posting to endpoint. logger may be nil.
func New(endpoint string, cart CartReader, kv *kvstore.Adapter, logger *log.Logger, opts Options) *Emitter {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Emitter{
		endpoint: endpoint,
		cart:     cart,
		kv:       kv,
		client:   client,
		window:   window,
		logger:   logger,
	}
}

// Schedule arms (or re-arms) the debounce timer. Call it on every cart
// mutation.
func (e *Emitter) Schedule() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.timer == nil {
		e.timer = time.AfterFunc(e.window, e.fire)
		return
	}
	e.timer.Stop()
	e.timer.Reset(e.window)
}

// Emit sends a report immediately, bypassing the debounce. It shares
// payload construction with the debounced path and is meant for
// explicit track-now call sites such as leaving checkout. Like
// Schedule, it is a no-op after Close.
func (e *Emitter) Emit(ctx context.Context) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.report(ctx)
}

// Close cancels any pending report. Schedule becomes a no-op afterward.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Emitter) fire() {
	e.mu.Lock()
	e.timer = nil
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}
	e.report(context.Background())
}

func (e *Emitter) report(ctx context.Context) {
	items := e.cart.Items()
	if len(items) == 0 {
		return
	}
	payload := e.buildPayload(ctx, items)

	body, err := json.Marshal(payload)
	if err != nil {
		e.logf("telemetry: marshal report: %v", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		e.logf("telemetry: build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logf("telemetry: report failed: %v", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		e.logf("telemetry: collector answered %s", resp.Status)
	}
}

func (e *Emitter) buildPayload(ctx context.Context, items []domain.CartLineItem) Payload {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Subtotal()
	}

	var customer customerInfo
	e.kv.Get(ctx, kvstore.KeyCustomerInfo, &customer)
	var address deliveryAddress
	e.kv.Get(ctx, kvstore.KeyDeliveryAddress, &address)
	var affiliate string
	e.kv.Get(ctx, kvstore.KeyAffiliateCode, &affiliate)

	return Payload{
		SessionID:       e.sessionID(ctx),
		CartItems:       items,
		CustomerEmail:   customer.Email,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		DeliveryAddress: address.String(),
		Subtotal:        subtotal,
		TotalAmount:     subtotal,
		AffiliateCode:   affiliate,
	}
}

// sessionID returns the stable per-browser session identifier, minting
// and persisting one on first use. With storage unavailable the id is
// still stable for the lifetime of this emitter.
func (e *Emitter) sessionID(ctx context.Context) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != "" {
		return e.session
	}
	var id string
	if e.kv.Get(ctx, kvstore.KeySessionID, &id) && id != "" {
		e.session = id
		return id
	}
	id = fmt.Sprintf("sess_%s", uuid.NewString())
	e.kv.Set(ctx, kvstore.KeySessionID, id)
	e.session = id
	return id
}

func (e *Emitter) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
