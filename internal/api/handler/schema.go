package handler

import "time"

// --- Auth ---

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type partnerSignupRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Profession string `json:"profession" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type meResponse struct {
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ProfileID   string `json:"profile_id,omitempty"`
}

// --- Catalog ---

type requirementRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	IsRequired  bool   `json:"is_required"`
	SortOrder   int    `json:"sort_order"`
}

type createServiceRequest struct {
	DocumentType string               `json:"document_type" validate:"required"`
	State        string               `json:"state" validate:"required"`
	BasePrice    string               `json:"base_price" validate:"required"`
	Requirements []requirementRequest `json:"requirements"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type requirementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"is_required"`
	SortOrder   int    `json:"sort_order"`
}

type serviceResponse struct {
	ID           string                `json:"id"`
	DocumentType string                `json:"document_type"`
	State        string                `json:"state"`
	BasePrice    string                `json:"base_price"`
	IsActive     bool                  `json:"is_active"`
	Requirements []requirementResponse `json:"requirements,omitempty"`
}

// --- Orders ---

type createOrderRequest struct {
	ServiceID   string `json:"service_id" validate:"required"`
	VoucherCode string `json:"voucher_code"`
}

type createOrderResponse struct {
	OrderID     string    `json:"order_id"`
	Status      string    `json:"status"`
	BasePrice   string    `json:"base_price"`
	Discount    string    `json:"discount"`
	FinalPrice  string    `json:"final_price"`
	VoucherCode string    `json:"voucher_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type updateOrderRequest struct {
	Status  *string `json:"status"`
	Rating  *int    `json:"rating"`
	Remarks *string `json:"remarks"`
}

type assignOrderRequest struct {
	ProviderID string `json:"provider_id" validate:"required"`
}

type orderResponse struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"service_id"`
	CustomerID     string    `json:"customer_id"`
	ProviderID     *string   `json:"provider_id,omitempty"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"payment_status"`
	FinalPrice     *string   `json:"final_price,omitempty"`
	VoucherCode    string    `json:"voucher_code,omitempty"`
	DiscountAmount *string   `json:"discount_amount,omitempty"`
	Rating         *int      `json:"rating,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type orderDetailResponse struct {
	orderResponse
	Service  *serviceResponse `json:"service,omitempty"`
	Customer *profileResponse `json:"customer,omitempty"`
	Provider *partnerResponse `json:"provider,omitempty"`
}

type statusFeedItemResponse struct {
	OrderID       string    `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Service       string    `json:"service"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type statusFeedResponse struct {
	Updates   []statusFeedItemResponse `json:"updates"`
	Timestamp time.Time                `json:"timestamp"`
}

// --- Payments ---

type createIntentRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type verifyPaymentRequest struct {
	OrderID        string `json:"order_id" validate:"required"`
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
	FreeOrder      bool   `json:"free_order"`
}

type verifyPaymentResponse struct {
	Verified bool   `json:"verified"`
	OrderID  string `json:"order_id"`
}

// --- Vouchers ---

type validateVoucherRequest struct {
	Code        string `json:"code" validate:"required"`
	OrderAmount string `json:"order_amount" validate:"required"`
}

type voucherResultResponse struct {
	Valid       bool   `json:"valid"`
	Discount    string `json:"discount"`
	FinalAmount string `json:"final_amount"`
	Reason      string `json:"reason,omitempty"`
}

type createVoucherRequest struct {
	Code           string  `json:"code" validate:"required"`
	DiscountType   string  `json:"discount_type" validate:"required,oneof=PERCENTAGE FIXED"`
	DiscountValue  string  `json:"discount_value" validate:"required"`
	MinOrderAmount *string `json:"min_order_amount"`
	MaxDiscount    *string `json:"max_discount"`
	MaxUses        *int    `json:"max_uses"`
	ValidUntil     *string `json:"valid_until"`
}

type voucherResponse struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  string  `json:"discount_value"`
	MinOrderAmount *string `json:"min_order_amount,omitempty"`
	MaxDiscount    *string `json:"max_discount,omitempty"`
	MaxUses        *int    `json:"max_uses,omitempty"`
	CurrentUses    int     `json:"current_uses"`
	IsActive       bool    `json:"is_active"`
	ValidUntil     *string `json:"valid_until,omitempty"`
}

// --- Admin ---

type profileResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

type partnerResponse struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	FullName           string  `json:"full_name"`
	Phone              string  `json:"phone,omitempty"`
	Profession         string  `json:"profession,omitempty"`
	VerificationStatus string  `json:"verification_status"`
	Rating             float64 `json:"rating"`
}

type verifyPartnerRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING VERIFIED REJECTED SUSPENDED"`
}

type statsResponse struct {
	Orders     int64  `json:"orders"`
	Partners   int64  `json:"partners"`
	Requesters int64  `json:"requesters"`
	Revenue    string `json:"revenue"`
}
