package utils

import (
	"strings"
	"time"
)

// ParseDate converte YYYY-MM-DD em meia-noite UTC. String vazia devolve a data
// zero, que os serviços tratam como "hoje".
func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	dateStr = strings.TrimSpace(dateStr)
	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}
