package service

import "github.com/kitbuilder587/agro-advisor/internal/domain"

// Значения деградированного режима. Каждый адаптер отдает их, когда провайдер недоступен.
const (
	DefaultFallbackLat = 26.9124
	DefaultFallbackLng = 75.7873

	FallbackTemperature = "25°C"
	FallbackHumidity    = "70%"
	FallbackDescription = "Clear sky"
	FallbackWindSpeed   = "10 kph"

	FallbackWheatPrice    = "$280/ton"
	FallbackCornPrice     = "$220/ton"
	FallbackSoybeansPrice = "$480/ton"

	FallbackAdvice = "Based on the current weather, today is a good day for fieldwork. " +
		"Market prices for soybeans are strong. " +
		"Consider scouting your fields for pests and planning your harvest schedule accordingly."
)

func FallbackWeather() domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		Temperature: FallbackTemperature,
		Humidity:    FallbackHumidity,
		Description: FallbackDescription,
		WindSpeed:   FallbackWindSpeed,
	}
}

// FallbackPrices возвращает новую таблицу на каждый вызов
func FallbackPrices() domain.MarketPrices {
	return domain.MarketPrices{
		domain.CommodityWheat:    FallbackWheatPrice,
		domain.CommodityCorn:     FallbackCornPrice,
		domain.CommoditySoybeans: FallbackSoybeansPrice,
	}
}
