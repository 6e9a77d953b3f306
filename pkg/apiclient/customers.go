package apiclient

import (
	"context"
	"net/http"

	"github.com/avelasquez/northwind-admin/internal/models"
)

func (c *Client) Customers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := c.do(ctx, http.MethodGet, "customers/obtenerClientes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer models.Customer) error {
	payload := map[string]string{
		"firstName":   customer.FirstName,
		"lastName":    customer.LastName,
		"cedula":      customer.Cedula,
		"email":       customer.Email,
		"phoneNumber": customer.PhoneNumber,
	}
	return c.do(ctx, http.MethodPost, "customers/crearCliente", payload, nil)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, customer models.Customer) error {
	payload := map[string]string{
		"firstName":   customer.FirstName,
		"lastName":    customer.LastName,
		"cedula":      customer.Cedula,
		"email":       customer.Email,
		"phoneNumber": customer.PhoneNumber,
	}
	return c.do(ctx, http.MethodPut, "customers/actualizarCliente/"+id, payload, nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "customers/eliminarCliente/"+id, nil, nil)
}
