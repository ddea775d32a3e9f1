package market

import (
	"context"
	"errors"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

var (
	ErrNotIntegrated = errors.New("market price provider not integrated")
	ErrRequestFailed = errors.New("market price request failed")
)

// Client - зарезервированный интерфейс поставщика цен: регион -> цены
type Client interface {
	Prices(ctx context.Context, region string) (domain.MarketPrices, error)
}

// NotIntegrated - текущий вариант, живого провайдера цен пока нет
type NotIntegrated struct{}

func (NotIntegrated) Prices(ctx context.Context, region string) (domain.MarketPrices, error) {
	return nil, ErrNotIntegrated
}

var _ Client = NotIntegrated{}
