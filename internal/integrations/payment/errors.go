package payment

import "errors"

var (
	// ErrRejected возвращается, когда провайдер отклонил запрос (4xx)
	ErrRejected = errors.New("payment client: request rejected")

	// ErrUnavailable возвращается, когда провайдер недоступен (5xx, таймаут, открытый circuit breaker)
	ErrUnavailable = errors.New("payment client: provider unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payment client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("payment client: invalid response")
)
