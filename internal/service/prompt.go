package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

// BuildPrompt чистая функция: одинаковый вход дает байт-в-байт одинаковый промпт.
// Порядок секций: запрос -> погода -> цены -> инструкция.
func BuildPrompt(query, location string, w domain.WeatherSnapshot, prices domain.MarketPrices, coords domain.Coordinates) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are an expert agricultural advisor. A farmer from %s (coordinates: %.4f, %.4f) asked: \"%s\"\n\n",
		location, coords.Lat, coords.Lng, query)

	sb.WriteString("Current Environmental Conditions:\n")
	fmt.Fprintf(&sb, "- Temperature: %s\n", w.Temperature)
	fmt.Fprintf(&sb, "- Humidity: %s\n", w.Humidity)
	fmt.Fprintf(&sb, "- Weather: %s\n", w.Description)
	fmt.Fprintf(&sb, "- Wind Speed: %s\n\n", w.WindSpeed)

	sb.WriteString("Current Market Prices (example data):\n")
	for _, c := range domain.RequiredCommodities {
		fmt.Fprintf(&sb, "- %s: %s\n", commodityLabel(c), prices[c])
	}
	for _, c := range prices.Extra() {
		fmt.Fprintf(&sb, "- %s: %s\n", commodityLabel(c), prices[c])
	}
	sb.WriteString("\n")

	sb.WriteString("Please provide a concise, actionable recommendation based on this data. ")
	sb.WriteString("Focus on what the farmer should do today or this week.")

	return sb.String()
}

// wheat -> Wheat
func commodityLabel(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}
