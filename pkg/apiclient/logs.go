package apiclient

import (
	"context"
	"net/http"

	"github.com/avelasquez/northwind-admin/internal/models"
)

// DomainLogs fetches the audit-log feed.
func (c *Client) DomainLogs(ctx context.Context) ([]models.DomainLog, error) {
	var out []models.DomainLog
	if err := c.do(ctx, http.MethodGet, "logs/obtenerLogs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
