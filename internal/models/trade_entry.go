package models

// TradeEntry represents one recorded buy/sell entry owned by a user.
//
// TradeEntryDate is kept as an ISO date string (YYYY-MM-DD); the duplicate
// check on (StockTicker, TradeEntryDate) compares it verbatim.
type TradeEntry struct {
	TradeID         uint    `gorm:"primaryKey" json:"trade_id"`
	StockTicker     string  `gorm:"size:50;index" json:"stock_ticker"`
	TradeExchange   string  `gorm:"size:50" json:"trade_exchange"`
	TradeEntryDate  string  `gorm:"size:10" json:"trade_entry_date"`
	Quantity        int     `json:"quantity"`
	PricePerStock   float64 `json:"price_per_stock"`
	TradeTotalPrice float64 `json:"trade_total_price"`
	TargetPrice     float64 `json:"target_price"`
	TradeStrategy   string  `gorm:"size:255" json:"trade_strategy"`

	UserID uint `gorm:"index" json:"user_id"`
}
