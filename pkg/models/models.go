package models

import (
	"time"
)

// User представляет учетную запись платформы, на которую опирается аффилиат
type User struct {
	ID          int64     `json:"id" db:"id"`
	Login       string    `json:"login" db:"login"`
	Password    string    `json:"-" db:"password"`
	Email       string    `json:"email,omitempty" db:"email"`
	Nickname    string    `json:"nickname" db:"nickname"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        string    `json:"role" db:"role"` // роль сайта по умолчанию
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AffiliateStatus представляет статус аффилиата
type AffiliateStatus string

const (
	AffiliateStatusActive   AffiliateStatus = "active"
	AffiliateStatusPending  AffiliateStatus = "pending"
	AffiliateStatusInactive AffiliateStatus = "inactive"
	AffiliateStatusRejected AffiliateStatus = "rejected"
)

// Affiliate представляет аккаунт, получающий комиссию
type Affiliate struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Status    string    `json:"status" db:"status"`
	Rate      string    `json:"rate,omitempty" db:"rate"`           // пусто = ставка платформы
	RateType  string    `json:"rate_type,omitempty" db:"rate_type"` // percentage, flat
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Creative представляет промо-материал (баннер или текстовую ссылку)
type Creative struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	URL         string    `json:"url" db:"url"`
	Text        string    `json:"text" db:"text"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Visit представляет переход по партнерской ссылке
type Visit struct {
	ID          int64     `json:"id" db:"id"`
	AffiliateID int64     `json:"affiliate_id" db:"affiliate_id"`
	ReferralID  int64     `json:"referral_id" db:"referral_id"` // 0 = визит без конверсии
	URL         string    `json:"url" db:"url"`
	Referrer    string    `json:"referrer" db:"referrer"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsConverted сообщает, привязан ли к визиту реферал
func (v *Visit) IsConverted() bool {
	return v.ReferralID != 0
}

// WPAffiliateAccount представляет аккаунт стороннего плагина WP Affiliate
type WPAffiliateAccount struct {
	ID              int64     `json:"id" db:"id"`
	RefID           string    `json:"refid" db:"refid"`
	PasswordHash    string    `json:"-" db:"pass"`
	Email           string    `json:"email" db:"email"`
	FirstName       string    `json:"firstname" db:"firstname"`
	LastName        string    `json:"lastname" db:"lastname"`
	Date            time.Time `json:"date" db:"date"`
	CommissionLevel string    `json:"commissionlevel" db:"commissionlevel"`
	PayPalEmail     string    `json:"paypalemail" db:"paypalemail"`
	Referrer        string    `json:"referrer" db:"referrer"`
	AccountStatus   string    `json:"account_status" db:"account_status"`
}
