package payment

// CheckoutSessionRequest данные для создания платежной сессии. Сумма в минорных единицах.
type CheckoutSessionRequest struct {
	ReservationID int64
	CustomerEmail string
	Description   string
	AmountCents   int64
}

// CheckoutSession созданная платежная сессия
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// checkoutSessionPayload тело запроса к провайдеру. Сумма в основных единицах ("123.45").
type checkoutSessionPayload struct {
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email"`
	Description       string `json:"description"`
	SuccessURL        string `json:"success_url"`
	CancelURL         string `json:"cancel_url"`
}

// ErrorResponse модель ошибки от провайдера
type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
