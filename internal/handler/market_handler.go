package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

const dateLayout = "2006-01-02"

const (
	defaultNewsLimit = 20
	maxNewsLimit     = 50
)

type MarketHandler struct {
	market *service.MarketService
	users  *service.UserService
}

func NewMarketHandler(market *service.MarketService, users *service.UserService) *MarketHandler {
	return &MarketHandler{market: market, users: users}
}

// GetCandles returns the daily series plus the SMA20 signal. A non-empty
// result is recorded in the user's ticker history; recording can never
// fail the request.
func (h *MarketHandler) GetCandles(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candles, err := h.market.Candles(c.Request.Context(), symbol, from, to)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if len(candles) > 0 {
		if user, err := GetCurrentUser(c); err == nil {
			h.users.RecordAccess(user.Username, symbol)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":  symbol,
		"candles": candles,
		"signal":  h.market.Signal(candles),
	})
}

// GetFundamentals returns the snapshot; an empty one is a normal state.
func (h *MarketHandler) GetFundamentals(c *gin.Context) {
	symbol := normalizeSymbol(c.Param("symbol"))

	snapshot, err := h.market.Fundamentals(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":       symbol,
		"fundamentals": snapshot,
		"found":        !snapshot.IsEmpty(),
	})
}

// GetNews returns up to limit normalized headlines for the symbol.
func (h *MarketHandler) GetNews(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := defaultNewsLimit
	if v, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultNewsLimit))); err == nil && v > 0 {
		limit = v
	}
	if limit > maxNewsLimit {
		limit = maxNewsLimit
	}

	news, err := h.market.News(c.Request.Context(), symbol, from, to, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "news": news})
}

// Compare returns two series for close-price overlay charts.
func (h *MarketHandler) Compare(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	with := normalizeSymbol(c.Query("with"))
	if symbol == "" || with == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol and with are required"})
		return
	}
	from, to, err := dateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base, err := h.market.Candles(c.Request.Context(), symbol, from, to)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	other, err := h.market.Candles(c.Request.Context(), with, from, to)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"symbol":         symbol,
		"candles":        base,
		"compareSymbol":  with,
		"compareCandles": other,
	})
}

// dateRange reads from/to query parameters; missing values default to the
// past year, the dashboard's default window.
func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate("from")
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDate("to")
		}
		to = t
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errRange
	}
	return from, to, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
