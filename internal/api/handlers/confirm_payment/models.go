package confirm_payment

// ConfirmPaymentRequest HTTP request model
type ConfirmPaymentRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=255"`
}
