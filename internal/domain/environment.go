package domain

import "sort"

type Coordinates struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// WeatherSnapshot хранит уже отформатированные строки для промпта
type WeatherSnapshot struct {
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Description string `json:"description"`
	WindSpeed   string `json:"wind_speed"`
}

const (
	CommodityWheat    = "wheat"
	CommodityCorn     = "corn"
	CommoditySoybeans = "soybeans"
)

// RequiredCommodities - в этом порядке цены попадают в промпт
var RequiredCommodities = []string{CommodityWheat, CommodityCorn, CommoditySoybeans}

// MarketPrices: commodity -> цена строкой ("$280/ton")
type MarketPrices map[string]string

// HasRequired проверяет что есть все обязательные культуры
func (p MarketPrices) HasRequired() bool {
	for _, c := range RequiredCommodities {
		if p[c] == "" {
			return false
		}
	}
	return true
}

// Extra возвращает необязательные культуры отсортированными
func (p MarketPrices) Extra() []string {
	required := make(map[string]bool, len(RequiredCommodities))
	for _, c := range RequiredCommodities {
		required[c] = true
	}

	var extra []string
	for k, v := range p {
		if !required[k] && v != "" {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func (p MarketPrices) Clone() MarketPrices {
	out := make(MarketPrices, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
