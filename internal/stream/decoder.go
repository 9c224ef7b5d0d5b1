package stream

import (
	"encoding/json"
	"strings"
)

// dataPrefix marks a payload-carrying line. An optional single space after
// the colon is tolerated, matching what the platform emits.
const dataPrefix = "data:"

// DecodeLine interprets one line as a stream record.
//
// Lines without the data: prefix (blank separators, comments) and data lines
// whose payload is empty or not valid JSON are discarded: the second return
// is false and the stream continues. A single corrupt record must never abort
// a session.
func DecodeLine(line string) (Event, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}

	payload := strings.TrimPrefix(line, dataPrefix)
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, false
	}

	return ev, true
}
