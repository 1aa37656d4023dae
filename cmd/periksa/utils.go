// cmd/periksa/utils.go
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"
)

// truncateText caps a string at max bytes, appending a marker when
// anything was cut. The cut backs up to a rune boundary so the result
// stays valid UTF-8.
func truncateText(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// FormatDuration renders a duration without sub-second noise
func FormatDuration(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

// RecoverFromPanic logs a recovered panic from a background goroutine
func RecoverFromPanic(component string) {
	if r := recover(); r != nil {
		GetLogger().Error("Panic in %s: %v", component, r)
	}
}

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":"encoding failure"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	w.Write(data)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
