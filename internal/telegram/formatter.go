package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

func escape(s string) string {
	return html.EscapeString(s)
}

func FormatIdentity(id *domain.Identity) string {
	return fmt.Sprintf("<b>Name:</b> %s\n<b>Email:</b> %s\n<b>Location:</b> %s",
		escape(id.Name),
		escape(id.Email),
		escape(id.Location),
	)
}

// FormatAdvice - совет и индикаторы: какие данные живые, какие из fallback
func FormatAdvice(resp *domain.AdvisoryResponse) string {
	var sb strings.Builder
	sb.WriteString(escape(strings.TrimSpace(resp.Advice)))

	sb.WriteString("\n\n━━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("<b>Location:</b> %s (%.4f, %.4f)\n",
		escape(resp.Coordinates.FormattedAddress),
		resp.Coordinates.Lat,
		resp.Coordinates.Lng,
	))
	sb.WriteString("<b>Data sources:</b>\n")
	sb.WriteString(sourceLine("Maps", resp.DataCollected.Maps))
	sb.WriteString(sourceLine("Weather", resp.DataCollected.Weather))
	sb.WriteString(sourceLine("Crop prices", resp.DataCollected.CropPrice))

	return strings.TrimSuffix(sb.String(), "\n")
}

func sourceLine(name string, live bool) string {
	return fmt.Sprintf("%s %s: %s\n", sourceIcon(live), name, sourceStatus(live))
}

func sourceIcon(live bool) string {
	if live {
		return "●"
	}
	return "○"
}

func sourceStatus(live bool) string {
	if live {
		return "live"
	}
	return "estimated"
}

func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			messages = append(messages, text)
			break
		}

		splitPoint := findSafeSplitPoint(text, maxLen)
		if splitPoint <= 0 || splitPoint > len(text) {
			splitPoint = maxLen
		}

		messages = append(messages, text[:splitPoint])
		text = text[splitPoint:]
	}

	return messages
}

func findSafeSplitPoint(text string, maxLen int) int {
	// ищем пробел или перевод строки, не ломая HTML-теги
	for i := maxLen - 1; i > maxLen/2; i-- {
		if i >= len(text) {
			continue
		}
		if isInsideHTMLTag(text, i) {
			continue
		}

		if text[i] == '\n' || text[i] == ' ' {
			return i + 1
		}
	}

	// внутри тега - ищем конец
	if maxLen < len(text) && isInsideHTMLTag(text, maxLen) {
		for i := maxLen; i < len(text); i++ {
			if text[i] == '>' {
				for j := i + 1; j < len(text) && j < i+50; j++ {
					if text[j] == '\n' || text[j] == ' ' {
						return j + 1
					}
				}
				return i + 1
			}
		}
	}

	for i := maxLen - 1; i > 0; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i + 1
		}
	}

	return maxLen
}

func isInsideHTMLTag(text string, pos int) bool {
	if pos >= len(text) || pos < 0 {
		return false
	}
	for i := pos; i >= 0; i-- {
		if text[i] == '>' {
			return false
		}
		if text[i] == '<' {
			return true
		}
	}
	return false
}
