package telegram

import (
	"strings"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

// ParseRegistration разбирает "/register Имя; email; Локация".
// Локация может содержать запятые, поэтому разделитель - ';'.
func ParseRegistration(args string) domain.Identity {
	parts := strings.SplitN(args, ";", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}

	return domain.Identity{
		Name:     normalizeSpaces(parts[0]),
		Email:    strings.TrimSpace(parts[1]),
		Location: normalizeSpaces(parts[2]),
	}
}

// ParseEmailArg берет первое слово аргументов команды
func ParseEmailArg(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
