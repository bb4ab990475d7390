package handler

import (
	"errors"
	"fmt"

	"github.com/mili4400/FinanzApp-Cloud/internal/service"
)

var errRange = errors.New("'from' cannot be after 'to'")

func errInvalidDate(field string) error {
	return fmt.Errorf("invalid %s date, use YYYY-MM-DD", field)
}

type Handler struct {
	MarketHandler *MarketHandler
}

func NewHandler(marketSvc *service.MarketService, userSvc *service.UserService) *Handler {
	return &Handler{
		MarketHandler: NewMarketHandler(marketSvc, userSvc),
	}
}
