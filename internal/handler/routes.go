package handler

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	market := r.Group("/market")
	{
		market.GET("/candles", h.MarketHandler.GetCandles)
		market.GET("/fundamentals/:symbol", h.MarketHandler.GetFundamentals)
		market.GET("/news", h.MarketHandler.GetNews)
		market.GET("/compare", h.MarketHandler.Compare)
	}
}
