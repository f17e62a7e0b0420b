package catalogservice

import "github.com/shopspring/decimal"

// Offering оферта из каталога (услуга, на которую продаются слоты)
type Offering struct {
	ID         int64           `json:"id"`
	ProviderID int64           `json:"provider_id"`
	Name       string          `json:"name"`
	IsActive   bool            `json:"is_active"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Currency   string          `json:"currency"`
}

// Provider провайдер услуг из каталога
type Provider struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsVerified bool   `json:"is_verified"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
