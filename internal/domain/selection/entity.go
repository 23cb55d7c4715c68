package selection

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable trade record in a wallet's selection history
type Trade struct {
	TradeID          string           `json:"tradeId"`
	MarketID         string           `json:"marketId"`
	MarketCategory   MarketCategory   `json:"marketCategory"`
	Side             TradeSide        `json:"side"`
	SizeUSD          decimal.Decimal  `json:"sizeUsd"`
	Price            float64          `json:"price"` // 0-1
	Timestamp        time.Time        `json:"timestamp"`
	IsWinner         *bool            `json:"isWinner,omitempty"` // nil until the market resolves
	PnL              decimal.Decimal  `json:"pnl"`
	MarketVolume     *decimal.Decimal `json:"marketVolume,omitempty"`
	MarketCreatedAt  *time.Time       `json:"marketCreatedAt,omitempty"`
	MarketResolvesAt *time.Time       `json:"marketResolvesAt,omitempty"`
	HasRecentNews    *bool            `json:"hasRecentNews,omitempty"`
	OutcomeCount     int              `json:"outcomeCount"`
}

// IsResolved reports whether the trade outcome is known
func (t Trade) IsResolved() bool {
	return t.IsWinner != nil
}

// TradeSide defines trade direction
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Valid checks if trade side is valid
func (s TradeSide) Valid() bool {
	switch s {
	case SideBuy, SideSell:
		return true
	}
	return false
}

// String returns string representation
func (s TradeSide) String() string {
	return string(s)
}

// MarketCategory is the market taxonomy used for category preference
type MarketCategory string

const (
	CategoryPolitics      MarketCategory = "POLITICS"
	CategoryGeopolitics   MarketCategory = "GEOPOLITICS"
	CategoryCrypto        MarketCategory = "CRYPTO"
	CategorySports        MarketCategory = "SPORTS"
	CategoryEconomics     MarketCategory = "ECONOMICS"
	CategoryBusiness      MarketCategory = "BUSINESS"
	CategoryScience       MarketCategory = "SCIENCE"
	CategoryTech          MarketCategory = "TECH"
	CategoryEntertainment MarketCategory = "ENTERTAINMENT"
	CategoryWeather       MarketCategory = "WEATHER"
	CategoryLegal         MarketCategory = "LEGAL"
	CategoryOther         MarketCategory = "OTHER"
)

// Valid checks if category is part of the taxonomy
func (c MarketCategory) Valid() bool {
	switch c {
	case CategoryPolitics, CategoryGeopolitics, CategoryCrypto, CategorySports,
		CategoryEconomics, CategoryBusiness, CategoryScience, CategoryTech,
		CategoryEntertainment, CategoryWeather, CategoryLegal, CategoryOther:
		return true
	}
	return false
}

// IsHighInformationValue reports categories where non-public information is most valuable
func (c MarketCategory) IsHighInformationValue() bool {
	return c == CategoryPolitics || c == CategoryGeopolitics
}

// String returns string representation
func (c MarketCategory) String() string {
	return string(c)
}
