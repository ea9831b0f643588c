package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

const (
	RazorpayCheckoutScriptURL = "https://checkout.razorpay.com/v1/checkout.js"
	CheckoutThemeColor        = "#1e3a8a"
)

type CheckoutPrefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckoutTheme struct {
	Color string `json:"color"`
}

// CheckoutOptions are handed to the hosted checkout widget as is.
type CheckoutOptions struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Order_ID    string            `json:"order_id,omitempty"`
	Prefill     CheckoutPrefill   `json:"prefill"`
	Theme       CheckoutTheme     `json:"theme"`
	Notes       map[string]string `json:"notes,omitempty"`
}

type PaymentConfirmation struct {
	Payment_ID string
	Order_ID   string
	Signature  string
}

type GatewayOutcome struct {
	Confirmation PaymentConfirmation
	Dismissed    bool
}

// CheckoutAttempt is one opened checkout. It resolves exactly once, either
// with a payment confirmation or with a dismissal.
type CheckoutAttempt struct {
	ID      string
	Options CheckoutOptions

	once    sync.Once
	done    chan struct{}
	outcome GatewayOutcome
}

func NewCheckoutAttempt(opts CheckoutOptions) *CheckoutAttempt {
	return &CheckoutAttempt{
		ID:      uuid.NewString(),
		Options: opts,
		done:    make(chan struct{}),
	}
}

func (a *CheckoutAttempt) Succeed(confirmation PaymentConfirmation) error {
	return a.resolve(GatewayOutcome{Confirmation: confirmation})
}

func (a *CheckoutAttempt) Dismiss() error {
	return a.resolve(GatewayOutcome{Dismissed: true})
}

func (a *CheckoutAttempt) resolve(outcome GatewayOutcome) error {
	resolved := false
	a.once.Do(func() {
		a.outcome = outcome
		close(a.done)
		resolved = true
	})
	if !resolved {
		return ErrAttemptResolved
	}
	return nil
}

// Wait blocks until the attempt resolves. There is no gateway timeout; only
// ctx bounds the wait. A resolved attempt always returns its outcome, even
// when ctx is already done.
func (a *CheckoutAttempt) Wait(ctx context.Context) (GatewayOutcome, error) {
	if a.Resolved() {
		return a.outcome, nil
	}

	select {
	case <-a.done:
		return a.outcome, nil
	case <-ctx.Done():
		return GatewayOutcome{}, ctx.Err()
	}
}

func (a *CheckoutAttempt) Resolved() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

type CheckoutGateway interface {
	// Load makes the checkout script available. Later calls are no-ops.
	Load(ctx context.Context) error
	Open(ctx context.Context, opts CheckoutOptions) (*CheckoutAttempt, error)
}

// PaymentVerifier is implemented by gateways able to authenticate a success
// payload against the order they created.
type PaymentVerifier interface {
	VerifyPayment(orderID string, confirmation PaymentConfirmation) error
}

type RazorpayGateway struct {
	keyID      string
	keySecret  string
	scriptURL  string
	httpClient *http.Client
	client     *razorpay.Client

	mu     sync.Mutex
	loaded bool
}

func NewRazorpayGateway(keyID string, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:      keyID,
		keySecret:  keySecret,
		scriptURL:  RazorpayCheckoutScriptURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		client:     razorpay.NewClient(keyID, keySecret),
	}
}

var checkoutGateway CheckoutGateway

// InitCheckoutGateway configures Razorpay from RAZORPAY_KEY_ID and the
// optional RAZORPAY_KEY_SECRET. Without a secret no gateway orders are
// created and success payloads are not signature checked.
func InitCheckoutGateway() {
	keyID := os.Getenv("RAZORPAY_KEY_ID")
	if keyID == "" {
		log.Println("WARNING: RAZORPAY_KEY_ID not set. Donations will not be available.")
		return
	}

	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keySecret == "" {
		log.Println("RAZORPAY_KEY_SECRET not set, checkout will run without gateway orders")
	}

	checkoutGateway = NewRazorpayGateway(keyID, keySecret)
	log.Println("Checkout gateway initialized with Razorpay")
}

func GetCheckoutGateway() CheckoutGateway {
	return checkoutGateway
}

func SetCheckoutGateway(gateway CheckoutGateway) CheckoutGateway {
	previous := checkoutGateway
	checkoutGateway = gateway
	return previous
}

func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

func (g *RazorpayGateway) Load(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.loaded {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.scriptURL, nil)
	if err != nil {
		return err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to load checkout script: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("checkout script returned status %d", resp.StatusCode)
	}

	g.loaded = true
	log.Printf("Checkout script loaded from %s", g.scriptURL)
	return nil
}

func (g *RazorpayGateway) Open(ctx context.Context, opts CheckoutOptions) (*CheckoutAttempt, error) {
	opts.Key = g.keyID
	attempt := NewCheckoutAttempt(opts)

	if g.keySecret != "" {
		orderID, err := g.createOrder(attempt.ID, opts)
		if err != nil {
			return nil, err
		}
		attempt.Options.Order_ID = orderID
	}

	return attempt, nil
}

// createOrder has no context: the SDK client bounds the call with its own
// timeout.
func (g *RazorpayGateway) createOrder(receipt string, opts CheckoutOptions) (string, error) {
	// receipt is capped at 40 characters by the Orders API
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}

	data := map[string]interface{}{
		"amount":   opts.Amount,
		"currency": opts.Currency,
		"receipt":  receipt,
	}
	if len(opts.Notes) > 0 {
		data["notes"] = opts.Notes
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create gateway order: %v", err)
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return "", fmt.Errorf("gateway order response has no id")
	}

	log.Printf("Created gateway order %s for %d %s", orderID, opts.Amount, opts.Currency)
	return orderID, nil
}

// VerifyPayment checks the signature Razorpay attaches to a success payload
// against the order created for the attempt.
func (g *RazorpayGateway) VerifyPayment(orderID string, confirmation PaymentConfirmation) error {
	if g.keySecret == "" || orderID == "" {
		return nil
	}

	attributes := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": confirmation.Payment_ID,
		"razorpay_signature":  confirmation.Signature,
	}
	if !utils.VerifyPaymentSignature(attributes, g.keySecret) {
		return ErrInvalidPaymentSignature
	}
	return nil
}
