package set_unit_unavailability

import (
	"github.com/m04kA/SMC-RentalService/internal/service/products/models"
	"github.com/m04kA/SMC-RentalService/pkg/types"
)

// SetUnavailabilityRequest HTTP request model. Без from и to окно снимается.
type SetUnavailabilityRequest struct {
	From   *string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To     *string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SetUnavailabilityRequest) ToServiceRequest() (*models.SetUnavailabilityRequest, error) {
	from, err := parseOptionalDate(r.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(r.To)
	if err != nil {
		return nil, err
	}

	return &models.SetUnavailabilityRequest{
		From:   from,
		To:     to,
		Reason: r.Reason,
	}, nil
}

func parseOptionalDate(s *string) (*types.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := types.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
