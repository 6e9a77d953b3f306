package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avelasquez/northwind-admin/internal/models"
)

const cartBase = "orders/DetailsCarritoCompras"

func (c *Client) CartByCustomer(ctx context.Context, customerID string) ([]models.CartDetail, error) {
	var out []models.CartDetail
	if err := c.do(ctx, http.MethodGet, cartBase+"/obtenerPorCliente/"+customerID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CartCountByCustomer(ctx context.Context, customerID string) (int, error) {
	var out int
	if err := c.do(ctx, http.MethodGet, cartBase+"/contarPorCliente/"+customerID, nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

func (c *Client) AddCartDetail(ctx context.Context, d models.CartDetail) error {
	return c.do(ctx, http.MethodPost, cartBase+"/crear", d, nil)
}

func (c *Client) UpdateCartDetail(ctx context.Context, d models.CartDetail) error {
	return c.do(ctx, http.MethodPut, cartBase+"/actualizar", d, nil)
}

func (c *Client) DeleteCartDetail(ctx context.Context, customerID string, productID int) error {
	path := fmt.Sprintf("%s/eliminarDetalle/%s/%d", cartBase, customerID, productID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, customerID string) error {
	return c.do(ctx, http.MethodDelete, cartBase+"/limpiarPorCliente/"+customerID, nil, nil)
}

// createOrderResponse tolerates the id arriving as orderId or id.
type createOrderResponse struct {
	OrderID int `json:"orderId"`
	ID      int `json:"id"`
}

// CreateOrder submits the whole cart as one order and returns the order
// id the backend assigned, which doubles as the invoice number.
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (int, error) {
	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "CreateOrder", req, &resp); err != nil {
		return 0, err
	}
	if resp.OrderID != 0 {
		return resp.OrderID, nil
	}
	return resp.ID, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, "orders/obtenerOrdenes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OrderByID(ctx context.Context, id int) (models.Order, error) {
	var out models.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("orders/obtenerOrdenPorId/%d", id), nil, &out); err != nil {
		return models.Order{}, err
	}
	return out, nil
}

func (c *Client) OrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var out []models.Order
	path := "orders/obtenerOrdenesPorCustomer?customerId=" + url.QueryEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id int, req models.UpdateOrderRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("orders/actualizarOrden/%d", id), req, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("orders/eliminarOrden/%d", id), nil, nil)
}
