// Package audit persists one record per prediction and pages them back out.
// Records are append-only; a failed write never affects the prediction it describes.
package audit

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JaimeStill/douane/internal/features"
)

// MaxClientIPLength is the width of the client_ip column.
const MaxClientIPLength = 45

// Record is a single logged prediction.
// Inputs holds the normalized field values exactly as the classifier saw them.
type Record struct {
	ID          int64
	Timestamp   time.Time
	ClientIP    string
	Inputs      features.Vector
	Prediction  string
	Probability float64
}

// MarshalJSON flattens Inputs into top-level wire-named keys.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, features.Count+5)
	m["id"] = r.ID
	m["timestamp"] = r.Timestamp.UTC()
	m["client_ip"] = r.ClientIP
	for _, f := range features.Fields() {
		m[f.String()] = r.Inputs.Get(f)
	}
	m["prediction"] = r.Prediction
	m["probability"] = r.Probability
	return json.Marshal(m)
}

// TruncateClientIP limits ip to MaxClientIPLength bytes of valid UTF-8.
// Invalid sequences are dropped and a cut never splits a character.
func TruncateClientIP(ip string) string {
	ip = strings.ToValidUTF8(ip, "")
	if len(ip) <= MaxClientIPLength {
		return ip
	}

	cut := MaxClientIPLength
	for cut > 0 && !utf8.RuneStart(ip[cut]) {
		cut--
	}
	return ip[:cut]
}

// Page is one page of records, newest first.
type Page struct {
	Total      int      `json:"total"`
	Logs       []Record `json:"logs"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	TotalPages int      `json:"total_pages"`
}
