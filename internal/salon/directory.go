package salon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// UserName is one row of the backend's name directory.
type UserName struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

// ListUserNames fetches the id-to-name directory used to label stylists on
// appointment rows. Same envelope-or-bare-array tolerance as the listings.
func (c *Client) ListUserNames(ctx context.Context) ([]UserName, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/users/names", nil, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, apiError(status, body)
	}

	var names []UserName
	if err := json.Unmarshal(body, &names); err != nil {
		var envelope struct {
			Data []UserName `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("salon: unmarshal user names: %w", err)
		}
		names = envelope.Data
	}
	return names, nil
}
