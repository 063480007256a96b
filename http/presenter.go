package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter groups thousands the way the original listing site does:
// English grouping with the commas swapped for spaces.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price as a euro amount with a space as the
// thousand separator, e.g. "€300 000.00".
func FormatPrice(price float64) string {
	return "€" + strings.ReplaceAll(pricePrinter.Sprintf("%.2f", price), ",", " ")
}

func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// respondError renders an error payload. Field is empty for general
// failures and names the offending form field otherwise.
func respondError(w http.ResponseWriter, status int, field, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]string{"error": message}
	if field != "" {
		payload["field"] = field
	}
	json.NewEncoder(w).Encode(payload)
}
