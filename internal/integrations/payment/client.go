package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/m04kA/SMC-RentalService/pkg/money"
)

const reservationPlaceholder = "{reservationId}"

// Исходы запросов для метрик
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
	OutcomeBreakerOpen = "breaker_open"
)

// Config настройки клиента платежного провайдера
type Config struct {
	BaseURL    string
	APIKey     string
	Currency   string
	SuccessURL string // может содержать {reservationId}
	CancelURL  string
	Timeout    time.Duration
	Breaker    BreakerConfig
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчик запросов к провайдеру
type Metrics interface {
	IncPaymentRequest(outcome string)
}

// Client клиент платежного провайдера (создание checkout-сессий)
type Client struct {
	cfg        Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*CheckoutSession]
	metrics    Metrics
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного провайдера
func NewClient(cfg Config, metrics Metrics, log Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: newBreaker(cfg.Breaker, log),
		metrics: metrics,
		log:     log,
	}
}

// CreateCheckoutSession создает платежную сессию на сумму бронирования.
// Возвращает ErrRejected при отказе провайдера и ErrUnavailable при его недоступности.
func (c *Client) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	session, err := c.breaker.Execute(func() (*CheckoutSession, error) {
		return c.createSession(ctx, req)
	})

	switch {
	case err == nil:
		c.metrics.IncPaymentRequest(OutcomeSuccess)
		c.log.Info("Payment session %s created for reservation=%d", session.ID, req.ReservationID)
		return session, nil
	case isBreakerError(err):
		c.metrics.IncPaymentRequest(OutcomeBreakerOpen)
		c.log.Warn("Payment provider circuit open, reservation=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, ErrRejected):
		c.metrics.IncPaymentRequest(OutcomeRejected)
		c.log.Warn("Payment provider rejected reservation=%d: %v", req.ReservationID, err)
		return nil, err
	default:
		c.metrics.IncPaymentRequest(OutcomeError)
		c.log.Error("Payment provider failed for reservation=%d: %v", req.ReservationID, err)
		return nil, err
	}
}

func (c *Client) createSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	reservationID := strconv.FormatInt(req.ReservationID, 10)

	payload := checkoutSessionPayload{
		Amount:            money.FormatMajor(req.AmountCents),
		Currency:          c.cfg.Currency,
		ClientReferenceID: reservationID,
		CustomerEmail:     req.CustomerEmail,
		Description:       req.Description,
		SuccessURL:        strings.ReplaceAll(c.cfg.SuccessURL, reservationPlaceholder, reservationID),
		CancelURL:         strings.ReplaceAll(c.cfg.CancelURL, reservationPlaceholder, reservationID),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/checkout/sessions", strings.TrimRight(c.cfg.BaseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey(req.ReservationID))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var errResp ErrorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(raw))
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrUnavailable, resp.StatusCode, string(raw))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("%w: session id or url is empty", ErrInvalidResponse)
	}

	return &session, nil
}

// idempotencyNamespace пространство имен UUIDv5 для ключей идемпотентности платежных сессий
var idempotencyNamespace = uuid.MustParse("6f1c7a52-3c1e-4b8e-9a57-2d0f4f6f8a11")

// idempotencyKey детерминированный ключ: повтор для того же бронирования
// не создает вторую сессию у провайдера
func idempotencyKey(reservationID int64) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(strconv.FormatInt(reservationID, 10))).String()
}
