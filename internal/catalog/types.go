// Package catalog provides read-only access to the salon backend's service
// and stylist catalogs. The backend owns this data; the booking engine only
// lists it and filters on the active flag.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ServiceOffering is a bookable salon service.
type ServiceOffering struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	Active   bool    `json:"active"`
}

// StylistProfile is a member of the stylist roster.
type StylistProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Active    bool   `json:"active"`
}

// serviceRow mirrors the backend's service shape. Price arrives as either a
// JSON number or a formatted string, category as a nullable id.
type serviceRow struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	Price      json.Number `json:"price"`
	CategoryID *string     `json:"category_id"`
	Category   string      `json:"category"`
	Active     flexBool    `json:"active"`
}

type stylistRow struct {
	ID        json.Number `json:"id"`
	Name      *string     `json:"name"`
	Specialty *string     `json:"specialty"`
	Active    flexBool    `json:"active"`
}

// flexBool accepts true/false, 0/1 and "0"/"1", which the legacy backend
// mixes freely.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "1", "true":
		*b = true
	default:
		*b = false
	}
	return nil
}

func (r serviceRow) toOffering() ServiceOffering {
	category := r.Category
	if category == "" && r.CategoryID != nil {
		category = *r.CategoryID
	}
	return ServiceOffering{
		ID:       r.ID.String(),
		Name:     r.Name,
		Price:    toFloat(r.Price),
		Category: category,
		Active:   bool(r.Active),
	}
}

func (r stylistRow) toProfile() StylistProfile {
	return StylistProfile{
		ID:        r.ID.String(),
		Name:      deref(r.Name),
		Specialty: deref(r.Specialty),
		Active:    bool(r.Active),
	}
}

func toFloat(n json.Number) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.String()), 64)
	if err != nil {
		return 0
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
