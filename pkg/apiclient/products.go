package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avelasquez/northwind-admin/internal/models"
)

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "products/obtenerProductos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p models.Product) error {
	payload := map[string]any{
		"name":         p.Name,
		"unitsInStock": p.UnitsInStock,
		"unitPrice":    p.UnitPrice,
	}
	return c.do(ctx, http.MethodPost, "products/crearProducto", payload, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int, p models.Product) error {
	payload := map[string]any{
		"name":         p.Name,
		"unitsInStock": p.UnitsInStock,
		"unitPrice":    p.UnitPrice,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("products/actualizarProducto/%d", id), payload, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("products/eliminarProducto/%d", id), nil, nil)
}

type imageDTO struct {
	Image string `json:"image"`
}

// ProductImage fetches the product image as base64. A 404 means the
// product simply has no image and yields an empty string, not an error.
func (c *Client) ProductImage(ctx context.Context, id int) (string, error) {
	var out imageDTO
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("products/image/obtenerImagenProducto/%d", id), nil, &out)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return out.Image, nil
}

func (c *Client) CreateProductImage(ctx context.Context, id int, base64 string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("products/image/crearImagenProducto/%d", id), imageDTO{Image: base64}, nil)
}

func (c *Client) UpdateProductImage(ctx context.Context, id int, base64 string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("products/image/actualizarImagenProducto/%d", id), imageDTO{Image: base64}, nil)
}

func (c *Client) DeleteProductImage(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("products/image/eliminarImagenProducto/%d", id), nil, nil)
}
