package api

import "time"

// User mirrors the backend profile payload from GET /me.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	LoyaltyScore int       `json:"loyalty_score"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Token is the bearer credential returned by POST /login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest creates a shopper account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Postal    string `json:"postal_code,omitempty"`
}

// Product is a single catalog entry.
type Product struct {
	ID             int       `json:"id"`
	Name           string    `json:"product_name"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"dress_category"`
	Occasion       string    `json:"occasion,omitempty"`
	Price          float64   `json:"price"`
	Stock          int       `json:"stock"`
	Material       string    `json:"material,omitempty"`
	AvailableSizes string    `json:"available_sizes,omitempty"`
	Colors         string    `json:"colors,omitempty"`
	ImageURL       string    `json:"image_url,omitempty"`
	Featured       bool      `json:"featured_dress"`
	CreatedAt      time.Time `json:"created_at"`
}

// ProductPage is one page of filtered catalog results.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// CartItem is one cart line joined with its product by the backend.
type CartItem struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Name      string    `json:"product_name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Total     float64   `json:"total"`
	ImageURL  string    `json:"image_url,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// PreviewItem is a validated cart line inside the checkout preview.
type PreviewItem struct {
	Name      string  `json:"product_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"price"`
	LineTotal float64 `json:"total"`
}

// Totals are the backend-computed amounts shown during review. The
// client renders them verbatim and never recomputes.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	DiscountRate   float64 `json:"discount_rate"`
	TaxAmount      float64 `json:"tax_amount"`
	ShippingAmount float64 `json:"shipping_amount"`
	FinalAmount    float64 `json:"final_amount"`
}

// Loyalty summarizes the shopper's loyalty discount in the preview.
type Loyalty struct {
	Score          int     `json:"score"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount float64 `json:"discount_amount"`
}

// CheckoutPreview is the read-only snapshot fetched at checkout entry.
type CheckoutPreview struct {
	HasItems  bool          `json:"has_items"`
	Message   string        `json:"message,omitempty"`
	ItemCount int           `json:"item_count"`
	Items     []PreviewItem `json:"valid_items"`
	Totals    Totals        `json:"totals"`
	Loyalty   Loyalty       `json:"user_loyalty"`
}

// CardDetails carries card fields for card payment methods.
type CardDetails struct {
	Number      string `json:"card_number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
}

// CheckoutRequest is the body of POST /checkout.
type CheckoutRequest struct {
	ShippingAddress string       `json:"shipping_address"`
	BillingAddress  string       `json:"billing_address"`
	PaymentMethod   string       `json:"payment_method"`
	Notes           string       `json:"notes,omitempty"`
	CardDetails     *CardDetails `json:"card_details,omitempty"`
}

// CheckoutResult is the submission outcome. On success OrderID and
// OrderNumber are set; on failure Error and ErrorType describe why.
type CheckoutResult struct {
	Success     bool    `json:"success"`
	OrderID     int     `json:"order_id,omitempty"`
	OrderNumber string  `json:"order_number,omitempty"`
	FinalAmount float64 `json:"final_amount,omitempty"`
	Error       string  `json:"error,omitempty"`
	ErrorType   string  `json:"error_type,omitempty"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"product_id"`
	Name      string  `json:"product_name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total_price"`
}

// Order is a placed order with its items.
type Order struct {
	ID              int         `json:"id"`
	OrderNumber     string      `json:"order_number"`
	TotalAmount     float64     `json:"total_amount"`
	TaxAmount       float64     `json:"tax_amount"`
	ShippingAmount  float64     `json:"shipping_amount"`
	DiscountAmount  float64     `json:"discount_amount"`
	FinalAmount     float64     `json:"final_amount"`
	PaymentStatus   string      `json:"payment_status"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	OrderStatus     string      `json:"order_status"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"order_items"`
}

// PayOrderRequest retries payment for an already placed order.
type PayOrderRequest struct {
	PaymentMethod string       `json:"payment_method"`
	CardDetails   *CardDetails `json:"card_details,omitempty"`
}

// PaymentResult is the outcome of POST /orders/{id}/pay.
type PaymentResult struct {
	Success       bool   `json:"success"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
	OrderID       int    `json:"order_id,omitempty"`
	OrderNumber   string `json:"order_number,omitempty"`
}

// PaymentStatus reports payment state for a single order.
type PaymentStatus struct {
	OrderID       int     `json:"order_id"`
	OrderNumber   string  `json:"order_number"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	FinalAmount   float64 `json:"final_amount"`
	OrderStatus   string  `json:"order_status"`
}

// PaymentMethodInfo describes one backend-supported payment method.
type PaymentMethodInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	MinAmount   float64 `json:"min_amount"`
	MaxAmount   float64 `json:"max_amount"`
}

// ChatRequest posts one shopper message to the assistant.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
}

// SuggestedAction is a clickable follow-up surfaced by the assistant.
// Fields are sparse; which ones are set depends on the agent.
type SuggestedAction struct {
	Action      string  `json:"action"`
	Label       string  `json:"label,omitempty"`
	ProductID   int     `json:"product_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Description string  `json:"description,omitempty"`
	OrderID     any     `json:"order_id,omitempty"`
}

// ChatTranscriptMessage is one stored message of a chat session.
type ChatTranscriptMessage struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Agent   string `json:"agent,omitempty"`
	Content string `json:"content"`
}

// ChatTranscript is the stored conversation for a chat session.
type ChatTranscript struct {
	Messages []ChatTranscriptMessage `json:"messages"`
}

// ChatResponse is the assistant reply for one message.
type ChatResponse struct {
	SessionID        string            `json:"session_id"`
	Response         string            `json:"response"`
	AgentType        string            `json:"agent_type"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
	NextSteps        []string          `json:"next_steps,omitempty"`
}
