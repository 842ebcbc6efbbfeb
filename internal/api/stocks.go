package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type newStockRequest struct {
	StockTicker     string  `json:"stock_ticker" binding:"required"`
	TradeExchange   string  `json:"trade_exchange" binding:"required"`
	TradeEntryDate  string  `json:"trade_entry_date" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	PricePerStock   float64 `json:"price_per_stock" binding:"required"`
	TradeTotalPrice float64 `json:"trade_total_price" binding:"required"`
	TargetPrice     float64 `json:"target_price"`
	TradeStrategy   string  `json:"trade_strategy"`
}

// getAllStocks returns every trade of the current user, enriched with live
// prices and catalog metadata.
func (s *Server) getAllStocks(c *gin.Context) {
	user := currentUser(c)

	var trades []models.TradeEntry
	if err := s.db.Where("user_id = ?", user.UserID).Find(&trades).Error; err != nil {
		s.logger.Error("Failed to read trade entries", zap.Error(err))
		c.JSON(500, gin.H{"message": "an error occurred while fetching stock data"})
		return
	}

	c.JSON(200, s.engine.Enrich(c.Request.Context(), trades))
}

// getStocksByTicker returns the current user's enriched trades for one ticker.
func (s *Server) getStocksByTicker(c *gin.Context) {
	user := currentUser(c)
	ticker := strings.ToUpper(c.Query("ticker"))
	if ticker == "" {
		c.JSON(400, gin.H{"message": "query parameter 'ticker' is required"})
		return
	}

	var trades []models.TradeEntry
	if err := s.db.Where("user_id = ? AND stock_ticker = ?", user.UserID, ticker).Find(&trades).Error; err != nil {
		s.logger.Error("Failed to read trade entries", zap.Error(err))
		c.JSON(500, gin.H{"message": "an error occurred while fetching stock data"})
		return
	}
	if len(trades) == 0 {
		c.JSON(404, gin.H{"message": fmt.Sprintf("stock with stock_ticker '%s' not found", ticker)})
		return
	}

	// Same partial-failure policy as /stocks/all: rows whose live fetch came
	// back empty stay in the response without price fields.
	c.JSON(200, s.engine.Enrich(c.Request.Context(), trades))
}

// getStockTickers returns the full symbol catalog.
func (s *Server) getStockTickers(c *gin.Context) {
	snapshot := s.catalog.Get(c.Request.Context())
	if len(snapshot) == 0 {
		c.JSON(500, gin.H{"message": "failed to fetch stock info"})
		return
	}

	stocks := make([]gin.H, 0, len(snapshot))
	for _, entry := range snapshot {
		stocks = append(stocks, gin.H{
			"ticker":       entry.Symbol,
			"company_name": entry.CompanyName,
			"logo_url":     entry.LogoURL,
		})
	}
	c.JSON(200, gin.H{"data": stocks})
}

// createStock records a new trade entry for the current user.
func (s *Server) createStock(c *gin.Context) {
	user := currentUser(c)

	var req newStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid stock payload: " + err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", req.TradeEntryDate); err != nil {
		c.JSON(400, gin.H{"message": "trade_entry_date must be formatted YYYY-MM-DD"})
		return
	}

	req.StockTicker = strings.ToUpper(req.StockTicker)
	req.TradeExchange = strings.ToUpper(req.TradeExchange)

	// At most one entry per (ticker, entry date); checked here, not at the
	// storage level.
	var existing models.TradeEntry
	err := s.db.Where("stock_ticker = ? AND trade_entry_date = ?", req.StockTicker, req.TradeEntryDate).
		First(&existing).Error
	if err == nil {
		c.JSON(400, gin.H{"message": fmt.Sprintf(
			"stock entry with stock_ticker '%s' and trade_entry_date '%s' already exists",
			req.StockTicker, req.TradeEntryDate)})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Duplicate check failed", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	trade := models.TradeEntry{
		StockTicker:     req.StockTicker,
		TradeExchange:   req.TradeExchange,
		TradeEntryDate:  req.TradeEntryDate,
		Quantity:        req.Quantity,
		PricePerStock:   req.PricePerStock,
		TradeTotalPrice: req.TradeTotalPrice,
		TargetPrice:     req.TargetPrice,
		TradeStrategy:   req.TradeStrategy,
		UserID:          user.UserID,
	}
	if err := s.db.Create(&trade).Error; err != nil {
		s.logger.Error("Failed to create trade entry", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(201, gin.H{"data": fmt.Sprintf(
		"stock entry with stock_ticker '%s' and trade_entry_date '%s' created successfully",
		trade.StockTicker, trade.TradeEntryDate)})
}

// updateStock replaces the mutable fields of one trade entry.
func (s *Server) updateStock(c *gin.Context) {
	tradeID, err := strconv.Atoi(c.Param("trade_id"))
	if err != nil {
		c.JSON(400, gin.H{"message": "trade_id must be an integer"})
		return
	}

	var req newStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid stock payload: " + err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", req.TradeEntryDate); err != nil {
		c.JSON(400, gin.H{"message": "trade_entry_date must be formatted YYYY-MM-DD"})
		return
	}

	req.StockTicker = strings.ToUpper(req.StockTicker)
	req.TradeExchange = strings.ToUpper(req.TradeExchange)

	// An update must not land on another entry's (ticker, entry date) pair.
	var existing models.TradeEntry
	err = s.db.Where("stock_ticker = ? AND trade_entry_date = ? AND trade_id <> ?",
		req.StockTicker, req.TradeEntryDate, tradeID).First(&existing).Error
	if err == nil {
		c.JSON(400, gin.H{"message": fmt.Sprintf(
			"stock entry with stock_ticker '%s' and trade_entry_date '%s' already exists",
			req.StockTicker, req.TradeEntryDate)})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Duplicate check failed", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	var trade models.TradeEntry
	if err := s.db.First(&trade, "trade_id = ?", tradeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"message": fmt.Sprintf("stock with trade_id '%d' not found", tradeID)})
			return
		}
		s.logger.Error("Trade lookup failed", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	updates := map[string]any{
		"stock_ticker":      req.StockTicker,
		"trade_exchange":    req.TradeExchange,
		"trade_entry_date":  req.TradeEntryDate,
		"quantity":          req.Quantity,
		"price_per_stock":   req.PricePerStock,
		"trade_total_price": req.TradeTotalPrice,
		"target_price":      req.TargetPrice,
		"trade_strategy":    req.TradeStrategy,
	}
	if err := s.db.Model(&trade).Updates(updates).Error; err != nil {
		s.logger.Error("Failed to update trade entry", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(202, gin.H{"data": fmt.Sprintf("stock with trade_id '%d' updated successfully", tradeID)})
}

// deleteStock removes one trade entry.
func (s *Server) deleteStock(c *gin.Context) {
	tradeID, err := strconv.Atoi(c.Param("trade_id"))
	if err != nil {
		c.JSON(400, gin.H{"message": "trade_id must be an integer"})
		return
	}

	result := s.db.Delete(&models.TradeEntry{}, "trade_id = ?", tradeID)
	if result.Error != nil {
		s.logger.Error("Failed to delete trade entry", zap.Error(result.Error))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(404, gin.H{"message": "no entries found for the provided trade_id"})
		return
	}

	c.JSON(200, gin.H{"message": fmt.Sprintf(
		"successfully deleted %d entries for trade_id %d", result.RowsAffected, tradeID)})
}
