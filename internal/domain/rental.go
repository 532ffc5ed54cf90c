package domain

import "time"

type TariffKind string

const (
	TariffSingleBattery TariffKind = "SINGLE_BATTERY"
	TariffDualBattery   TariffKind = "DUAL_BATTERY"
	TariffBuyout        TariffKind = "BUYOUT"
)

func (k TariffKind) Valid() bool {
	switch k {
	case TariffSingleBattery, TariffDualBattery, TariffBuyout:
		return true
	}
	return false
}

// Scooter is a rental contract for one scooter issued to a client.
type Scooter struct {
	ID          int32      `json:"id"`
	ClientID    int32      `json:"client_id"`
	Model       string     `json:"model"`
	VIN         string     `json:"vin"`
	Tariff      TariffKind `json:"tariff"`
	WeeklyPrice int32      `json:"weekly_price"`
	BuyoutWeeks int32      `json:"buyout_weeks,omitempty"` // only for BUYOUT
	IssueDate   *time.Time `json:"issue_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (s *Scooter) IsBuyout() bool {
	return s.Tariff == TariffBuyout
}

// TotalWeeks is the schedule length for the contract: the buyout term for
// buyout tariffs, defaultWeeks otherwise.
func (s *Scooter) TotalWeeks(defaultWeeks int) int {
	if s.IsBuyout() && s.BuyoutWeeks > 0 {
		return int(s.BuyoutWeeks)
	}
	return defaultWeeks
}

func (s *Scooter) Validate() error {
	if !s.Tariff.Valid() {
		return ValidationErrorf("unknown tariff %q", s.Tariff)
	}
	if s.WeeklyPrice <= 0 {
		return ValidationErrorf("weekly price must be positive, got %d", s.WeeklyPrice)
	}
	if s.IsBuyout() && s.BuyoutWeeks <= 0 {
		return ValidationErrorf("buyout tariff requires a positive buyout term")
	}
	if !s.IsBuyout() && s.BuyoutWeeks != 0 {
		return ValidationErrorf("buyout term is only allowed for the buyout tariff")
	}
	return nil
}

// ScooterUpdate lists the mutable contract fields. Nil fields are left as is.
type ScooterUpdate struct {
	Model       *string     `json:"model,omitempty"`
	VIN         *string     `json:"vin,omitempty"`
	Tariff      *TariffKind `json:"tariff,omitempty"`
	WeeklyPrice *int32      `json:"weekly_price,omitempty"`
	BuyoutWeeks *int32      `json:"buyout_weeks,omitempty"`
	IssueDate   *time.Time  `json:"issue_date,omitempty"`
}

func (u ScooterUpdate) Empty() bool {
	return u.Model == nil && u.VIN == nil && u.Tariff == nil &&
		u.WeeklyPrice == nil && u.BuyoutWeeks == nil && u.IssueDate == nil
}

// ChangesSchedule reports whether the update touches fields the payment
// schedule is derived from.
func (u ScooterUpdate) ChangesSchedule() bool {
	return u.Tariff != nil || u.WeeklyPrice != nil || u.BuyoutWeeks != nil || u.IssueDate != nil
}

// Apply returns a copy of s with the update applied and validated.
func (u ScooterUpdate) Apply(s Scooter) (Scooter, error) {
	if u.Model != nil {
		s.Model = *u.Model
	}
	if u.VIN != nil {
		s.VIN = *u.VIN
	}
	if u.Tariff != nil {
		s.Tariff = *u.Tariff
		if s.Tariff != TariffBuyout && u.BuyoutWeeks == nil {
			s.BuyoutWeeks = 0
		}
	}
	if u.WeeklyPrice != nil {
		s.WeeklyPrice = *u.WeeklyPrice
	}
	if u.BuyoutWeeks != nil {
		s.BuyoutWeeks = *u.BuyoutWeeks
	}
	if u.IssueDate != nil {
		d := *u.IssueDate
		s.IssueDate = &d
	}
	if err := s.Validate(); err != nil {
		return Scooter{}, err
	}
	return s, nil
}
