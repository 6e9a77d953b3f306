package apiclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/northwind-admin/internal/backendtest"
	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/avelasquez/northwind-admin/pkg/apiclient"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

type clientEnv struct {
	backend *backendtest.Server
	client  *apiclient.Client
	ctx     context.Context
}

func newClientEnv(t *testing.T) *clientEnv {
	t.Helper()

	backend, err := backendtest.New()
	require.NoError(t, err)
	t.Cleanup(backend.Close)

	_, err = backend.SeedAccount("admin@northwind.ec", "secret123", "Administrator")
	require.NoError(t, err)

	token, err := backend.SignToken("admin@northwind.ec")
	require.NoError(t, err)

	return &clientEnv{
		backend: backend,
		client:  apiclient.New(backend.URL(), staticToken(token)),
		ctx:     context.Background(),
	}
}

func TestLogin(t *testing.T) {
	env := newClientEnv(t)

	anon := apiclient.New(env.backend.URL(), staticToken(""))
	token, err := anon.Login(env.ctx, "admin@northwind.ec", "secret123")
	require.NoError(t, err)
	assert.Greater(t, len(token), 10)

	_, err = anon.Login(env.ctx, "admin@northwind.ec", "wrong")
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestRequestsWithoutTokenAreRejected(t *testing.T) {
	env := newClientEnv(t)

	anon := apiclient.New(env.backend.URL(), staticToken(""))
	_, err := anon.Customers(env.ctx)
	require.Error(t, err)
	assert.True(t, apiclient.IsUnauthorized(err))
}

func TestPermissionsUnwrapped(t *testing.T) {
	env := newClientEnv(t)

	perms, err := env.client.Permissions(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, env.backend.Permisos, perms)
}

func TestCustomerLifecycle(t *testing.T) {
	env := newClientEnv(t)

	err := env.client.CreateCustomer(env.ctx, models.Customer{
		FirstName:   "MARÍA",
		LastName:    "QUISPE",
		Cedula:      "1710034065",
		Email:       "maria@example.com",
		PhoneNumber: "0991234567",
	})
	require.NoError(t, err)

	customers, err := env.client.Customers(env.ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	created := customers[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "1710034065", created.Cedula)

	created.LastName = "ANDRADE"
	require.NoError(t, env.client.UpdateCustomer(env.ctx, created.ID, created))

	customers, err = env.client.Customers(env.ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "ANDRADE", customers[0].LastName)

	require.NoError(t, env.client.DeleteCustomer(env.ctx, created.ID))
	customers, err = env.client.Customers(env.ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestProductImageMissingIsNotAnError(t *testing.T) {
	env := newClientEnv(t)

	p, err := env.backend.SeedProduct(backendtest.Product{Name: "CHAI", UnitPrice: 18, UnitsInStock: 39})
	require.NoError(t, err)

	image, err := env.client.ProductImage(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, image)

	require.NoError(t, env.client.CreateProductImage(env.ctx, p.ID, "aGVsbG8="))
	image, err = env.client.ProductImage(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", image)

	require.NoError(t, env.client.DeleteProductImage(env.ctx, p.ID))
	image, err = env.client.ProductImage(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestCartRoundTrip(t *testing.T) {
	env := newClientEnv(t)

	customer, err := env.backend.SeedCustomer(backendtest.Customer{
		FirstName: "JUAN", LastName: "PÉREZ", Cedula: "0926687856",
	})
	require.NoError(t, err)
	chai, err := env.backend.SeedProduct(backendtest.Product{Name: "CHAI", UnitPrice: 18, UnitsInStock: 39})
	require.NoError(t, err)

	require.NoError(t, env.client.AddCartDetail(env.ctx, models.CartDetail{
		CustomerID: customer.ID, ProductID: chai.ID, UnitPrice: 18, Quantity: 2,
	}))

	details, err := env.client.CartByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 2, details[0].Quantity)

	count, err := env.client.CartCountByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, env.client.UpdateCartDetail(env.ctx, models.CartDetail{
		CustomerID: customer.ID, ProductID: chai.ID, UnitPrice: 18, Quantity: 5,
	}))
	details, err = env.client.CartByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, 5, details[0].Quantity)

	require.NoError(t, env.client.DeleteCartDetail(env.ctx, customer.ID, chai.ID))
	details, err = env.client.CartByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestCreateOrderConsumesCart(t *testing.T) {
	env := newClientEnv(t)

	customer, err := env.backend.SeedCustomer(backendtest.Customer{
		FirstName: "JUAN", LastName: "PÉREZ", Cedula: "0926687856",
	})
	require.NoError(t, err)
	chai, err := env.backend.SeedProduct(backendtest.Product{Name: "CHAI", UnitPrice: 18, UnitsInStock: 39})
	require.NoError(t, err)

	require.NoError(t, env.client.AddCartDetail(env.ctx, models.CartDetail{
		CustomerID: customer.ID, ProductID: chai.ID, UnitPrice: 18, Quantity: 2,
	}))

	orderID, err := env.client.CreateOrder(env.ctx, models.CreateOrderRequest{
		CustomerID:     customer.ID,
		ShipAddress:    "Av. Amazonas N24-03",
		ShipCity:       "Quito",
		ShipCountry:    "Ecuador",
		ShipPostalCode: "170150",
		OrderDetails: []models.CreateOrderItem{
			{ProductID: chai.ID, UnitPrice: 18, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Greater(t, orderID, 0)

	details, err := env.client.CartByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, details, "submitting the order should clear the cart")

	order, err := env.client.OrderByID(env.ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, "Quito", order.ShipCity)
	require.Len(t, order.OrderDetails, 1)
	assert.Equal(t, 2, order.OrderDetails[0].Quantity)

	byCustomer, err := env.client.OrdersByCustomer(env.ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, orderID, byCustomer[0].ID)
}

func TestOrderUpdateAndDelete(t *testing.T) {
	env := newClientEnv(t)

	customer, err := env.backend.SeedCustomer(backendtest.Customer{FirstName: "ANA", Cedula: "1700000050"})
	require.NoError(t, err)
	chai, err := env.backend.SeedProduct(backendtest.Product{Name: "CHAI", UnitPrice: 18})
	require.NoError(t, err)

	orderID, err := env.client.CreateOrder(env.ctx, models.CreateOrderRequest{
		CustomerID: customer.ID, ShipAddress: "a", ShipCity: "b", ShipCountry: "c", ShipPostalCode: "d",
		OrderDetails: []models.CreateOrderItem{{ProductID: chai.ID, UnitPrice: 18, Quantity: 1}},
	})
	require.NoError(t, err)

	err = env.client.UpdateOrder(env.ctx, orderID, models.UpdateOrderRequest{
		CustomerID: customer.ID, ShipAddress: "a", ShipCity: "Guayaquil", ShipCountry: "c", ShipPostalCode: "d",
	})
	require.NoError(t, err)

	order, err := env.client.OrderByID(env.ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "Guayaquil", order.ShipCity)

	require.NoError(t, env.client.DeleteOrder(env.ctx, orderID))
	_, err = env.client.OrderByID(env.ctx, orderID)
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
}

func TestUserByEmailCarriesRoles(t *testing.T) {
	env := newClientEnv(t)

	user, err := env.client.UserByEmail(env.ctx, "admin@northwind.ec")
	require.NoError(t, err)
	assert.Equal(t, "admin@northwind.ec", user.Email)
	assert.JSONEq(t, `["Administrator"]`, string(user.Roles))
}

func TestDomainLogs(t *testing.T) {
	env := newClientEnv(t)

	require.NoError(t, env.backend.SeedLog(backendtest.DomainLog{
		CreatedDate: "2026-08-27T10:00:00Z",
		Information: "Cliente creado",
		UserName:    "admin@northwind.ec",
	}))

	logs, err := env.client.DomainLogs(env.ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Cliente creado", logs[0].Information)
}

func TestStatusErrorCarriesBody(t *testing.T) {
	env := newClientEnv(t)

	_, err := env.client.OrderByID(env.ctx, 99999)
	require.Error(t, err)

	var se *apiclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, se.Body, "not found")
}
