// Package booking implements the reservation workflow: boundary codecs,
// totals math, stylist filtering and the multi-step state machine that
// submits a booking to the salon backend exactly once.
package booking

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Status is the application-side appointment status vocabulary. The legacy
// wire format uses small integer codes instead; both directions live here.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// FallbackClockTime is returned for unparseable time labels. The backend
// relies on never receiving an error from the codec, so unknown input
// degrades to a safe morning slot instead of failing the booking.
const FallbackClockTime = "09:00:00"

var clockLabelRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*(AM|PM))?$`)

// ParseClockLabel converts a free-form time label ("9:30", "09:30",
// "9:30 pm", "09:30 AM") to the canonical 24-hour "HH:mm:00" wire form.
// Input that does not match degrades to FallbackClockTime.
func ParseClockLabel(label string) string {
	m := clockLabelRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(label)))
	if m == nil {
		return FallbackClockTime
	}
	hour, _ := strconv.Atoi(m[1])
	switch m[3] {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%s:00", hour, m[2])
}

var canonicalClockRe = regexp.MustCompile(`^(\d{2}):(\d{2})(?::\d{2})?$`)

// DisplayClock converts canonical "HH:mm[:ss]" to the 12-hour "h:mm AM/PM"
// display form. Values that already carry an AM/PM suffix are returned
// uppercased (idempotent on formatted input); anything else unparseable is
// returned verbatim.
func DisplayClock(canonical string) string {
	t := strings.TrimSpace(canonical)
	if t == "" {
		return t
	}
	upper := strings.ToUpper(t)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return upper
	}
	m := canonicalClockRe.FindStringSubmatch(t)
	if m == nil {
		return t
	}
	hour, _ := strconv.Atoi(m[1])
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%s %s", hour, m[2], suffix)
}

var statusByCode = map[int]Status{
	0: StatusPending,
	1: StatusConfirmed,
	2: StatusCompleted,
	3: StatusCancelled,
}

// DecodeStatus normalizes the backend's dual status representation. A
// recognized string name wins; otherwise the integer code is looked up.
// Anything else decodes to StatusPending.
func DecodeStatus(name string, code int) Status {
	switch Status(name) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(name)
	}
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return StatusPending
}

// DecodeStatusValue decodes a status field of unknown JSON type: a string
// name, an integer code, or a float (how encoding/json surfaces numbers).
func DecodeStatusValue(v any) Status {
	switch value := v.(type) {
	case string:
		return DecodeStatus(value, -1)
	case int:
		return DecodeStatus("", value)
	case float64:
		return DecodeStatus("", int(value))
	case json.Number:
		if code, err := value.Int64(); err == nil {
			return DecodeStatus("", int(code))
		}
	}
	return StatusPending
}

// StatusCode returns the wire integer for a status. Unknown values map to
// the pending code, mirroring the lenient decode direction.
func StatusCode(s Status) int {
	for code, status := range statusByCode {
		if status == s {
			return code
		}
	}
	return 0
}
