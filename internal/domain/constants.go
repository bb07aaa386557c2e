package domain

// Default configuration values
const (
	DefaultBufferDays              = 1
	DefaultAutoIncrementMultiplier = 1.0
)

// Business validation constants
const (
	MaxBufferDays         = 60
	MaxRentalDays         = 366
	MaxPricingTiers       = 50
	MaxTierDays           = 3650
	MaxNotesLength        = 500
	MaxUnavailabilityNote = 500
)

// MaxMultiplier верхняя граница множителей ступеней и auto-increment (NUMERIC(8,4))
const MaxMultiplier = 9999.9999

// DateFormat календарная дата в API и логах (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// BlockingStatuses статусы бронирований, которые занимают единицу инвентаря.
// Используется в запросах репозитория при проверке доступности.
var BlockingStatuses = []ReservationStatus{
	StatusPending,
	StatusPaid,
	StatusManual,
	StatusCompleted,
}

// AllStatuses полный список статусов бронирования
var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusPaid,
	StatusManual,
	StatusCompleted,
	StatusFailed,
	StatusCancelled,
	StatusPickedUp,
	StatusReturned,
}
