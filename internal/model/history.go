package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// ResultCount is the scraped results figure. The backend reports the text it
// found on the page, so both JSON numbers and strings are accepted.
type ResultCount string

func (c *ResultCount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ResultCount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = ResultCount(n.String())
	return nil
}

func (c ResultCount) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseFloat(string(c), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return json.Marshal(n)
	}
	return json.Marshal(string(c))
}

func (c ResultCount) String() string {
	if c == "" {
		return "—"
	}
	return string(c)
}

// HistoryEntry records one scrape. The client never edits history.
type HistoryEntry struct {
	Date    string      `json:"date"`
	URL     string      `json:"url,omitempty"`
	Results ResultCount `json:"results"`
}

// ScrapeResponse is the answer to GET /scrape. Results is empty when the
// backend reported an error instead.
type ScrapeResponse struct {
	Results ResultCount    `json:"results"`
	History []HistoryEntry `json:"history,omitempty"`
	Error   string         `json:"error,omitempty"`
}
