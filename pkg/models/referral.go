package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Referral представляет начисление комиссии аффилиату
type Referral struct {
	ID          int64           `json:"id" db:"id"`
	AffiliateID int64           `json:"affiliate_id" db:"affiliate_id"`
	VisitID     int64           `json:"visit_id" db:"visit_id"` // заполняется после создания визита
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Status      string          `json:"status" db:"status"`
	Campaign    string          `json:"campaign,omitempty" db:"campaign"`
	Date        time.Time       `json:"date" db:"date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// ReferralStatus представляет статус реферала
type ReferralStatus string

const (
	ReferralStatusPaid     ReferralStatus = "paid"
	ReferralStatusUnpaid   ReferralStatus = "unpaid"
	ReferralStatusPending  ReferralStatus = "pending"
	ReferralStatusRejected ReferralStatus = "rejected"
)

// ReferralStatuses содержит все статусы в порядке, используемом при случайном выборе
var ReferralStatuses = []ReferralStatus{
	ReferralStatusPaid,
	ReferralStatusUnpaid,
	ReferralStatusPending,
	ReferralStatusRejected,
}

// IsValid проверяет валидность статуса реферала
func (rs ReferralStatus) IsValid() bool {
	switch rs {
	case ReferralStatusPaid, ReferralStatusUnpaid, ReferralStatusPending, ReferralStatusRejected:
		return true
	default:
		return false
	}
}
