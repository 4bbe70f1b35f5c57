package api

import "context"

// Health calls the API root and returns its welcome message.
func (c *Client) Health(ctx context.Context) (string, error) {
	data, err := c.get(ctx, "/")
	if err != nil {
		return "", err
	}

	var payload HealthInfo
	if len(data) > 0 {
		if err := decodeInto(data, &payload); err != nil {
			return "", err
		}
	}
	return payload.Message, nil
}
