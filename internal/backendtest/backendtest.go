// Package backendtest runs an in-process stand-in for the Northwind Sales
// backend so client tests have something real to talk to. It mirrors the
// routes and response shapes the client consumes; it is not a faithful
// reimplementation of the backend's business rules.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const emailClaim = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"

type Customer struct {
	ID             string  `gorm:"primaryKey"     json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Cedula         string  `gorm:"uniqueIndex"    json:"cedula"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phoneNumber"`
	CurrentBalance float64 `json:"currentBalance"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID           int     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null"                 json:"name"`
	UnitsInStock int     `json:"unitsInStock"`
	UnitPrice    float64 `json:"unitPrice"`
}

type ProductImage struct {
	ProductID int    `gorm:"primaryKey" json:"-"`
	Image     string `json:"image"`
}

type Account struct {
	ID           string `gorm:"primaryKey"  json:"id"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	// Roles is comma separated; served as a JSON array.
	Roles string `json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type UserImage struct {
	UserID string `gorm:"primaryKey" json:"-"`
	Image  string `json:"image"`
}

type CartDetail struct {
	ID         uint    `gorm:"primaryKey" json:"-"`
	CustomerID string  `gorm:"index"      json:"customerId"`
	ProductID  int     `json:"productId"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `gorm:"default:1"  json:"quantity"`
}

type Order struct {
	ID             int           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID     string        `gorm:"index"                    json:"customerId"`
	ShipAddress    string        `json:"shipAddress"`
	ShipCity       string        `json:"shipCity"`
	ShipCountry    string        `json:"shipCountry"`
	ShipPostalCode string        `json:"shipPostalCode"`
	OrderDate      string        `json:"orderDate"`
	OrderDetails   []OrderDetail `gorm:"foreignKey:OrderID"       json:"orderDetails"`
}

type OrderDetail struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   int     `gorm:"index"      json:"orderId"`
	ProductID int     `json:"productId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type DomainLog struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedDate string `json:"createdDate"`
	Information string `json:"information"`
	UserName    string `json:"userName"`
}

type Server struct {
	DB        *gorm.DB
	JWTSecret []byte
	Permisos  []string

	http *httptest.Server
}

// New boots the fake backend over an in-memory sqlite database and
// returns it listening on a local port.
func New() (*Server, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(
		&Customer{}, &Product{}, &ProductImage{}, &Account{}, &UserImage{},
		&CartDetail{}, &Order{}, &OrderDetail{}, &DomainLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &Server{
		DB:        db,
		JWTSecret: []byte("backendtest-secret"),
		Permisos:  []string{"customers.read", "customers.write", "orders.write"},
	}

	e := echo.New()
	e.HideBanner = true
	s.register(e)
	s.http = httptest.NewServer(e)
	return s, nil
}

func (s *Server) URL() string { return s.http.URL }
func (s *Server) Close()      { s.http.Close() }

// SignToken issues a token the way the real backend does, carrying the
// email under the XML-SOAP claim URI.
func (s *Server) SignToken(email string) (string, error) {
	claims := jwt.MapClaims{
		emailClaim: email,
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.JWTSecret)
}

func (s *Server) SeedAccount(email, password string, roles ...string) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return Account{}, err
	}
	a := Account{Email: email, PasswordHash: string(hash), Roles: strings.Join(roles, ",")}
	if err := s.DB.Create(&a).Error; err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Server) SeedCustomer(c Customer) (Customer, error) {
	if err := s.DB.Create(&c).Error; err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Server) SeedProduct(p Product) (Product, error) {
	if err := s.DB.Create(&p).Error; err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Server) SeedLog(l DomainLog) error {
	return s.DB.Create(&l).Error
}

func (s *Server) register(e *echo.Echo) {
	e.POST("/users/LoginAccessCount", s.login)

	authed := e.Group("", s.requireToken)
	authed.GET("/permissions/obtenerPermisos", s.permissions)

	authed.GET("/customers/obtenerClientes", s.listCustomers)
	authed.POST("/customers/crearCliente", s.createCustomer)
	authed.PUT("/customers/actualizarCliente/:id", s.updateCustomer)
	authed.DELETE("/customers/eliminarCliente/:id", s.deleteCustomer)

	authed.GET("/products/obtenerProductos", s.listProducts)
	authed.POST("/products/crearProducto", s.createProduct)
	authed.PUT("/products/actualizarProducto/:id", s.updateProduct)
	authed.DELETE("/products/eliminarProducto/:id", s.deleteProduct)
	authed.GET("/products/image/obtenerImagenProducto/:id", s.productImage)
	authed.POST("/products/image/crearImagenProducto/:id", s.saveProductImage)
	authed.PUT("/products/image/actualizarImagenProducto/:id", s.saveProductImage)
	authed.DELETE("/products/image/eliminarImagenProducto/:id", s.deleteProductImage)

	authed.GET("/users/obtenerUsuarioPorEmail/:email", s.userByEmail)

	cart := authed.Group("/orders/DetailsCarritoCompras")
	cart.GET("/obtenerPorCliente/:customerId", s.cartByCustomer)
	cart.GET("/contarPorCliente/:customerId", s.cartCount)
	cart.POST("/crear", s.addCartDetail)
	cart.PUT("/actualizar", s.updateCartDetail)
	cart.DELETE("/eliminarDetalle/:customerId/:productId", s.deleteCartDetail)
	cart.DELETE("/limpiarPorCliente/:customerId", s.clearCart)

	authed.POST("/CreateOrder", s.createOrder)
	authed.GET("/orders/obtenerOrdenes", s.listOrders)
	authed.GET("/orders/obtenerOrdenPorId/:id", s.orderByID)
	authed.GET("/orders/obtenerOrdenesPorCustomer", s.ordersByCustomer)
	authed.PUT("/orders/actualizarOrden/:id", s.updateOrder)
	authed.DELETE("/orders/eliminarOrden/:id", s.deleteOrder)

	authed.GET("/logs/obtenerLogs", s.listLogs)
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
			}
			return s.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	var account Account
	if err := s.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong password")
	}

	token, err := s.SignToken(account.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) permissions(c echo.Context) error {
	// Served wrapped, the way the real backend sometimes does.
	return c.JSON(http.StatusOK, map[string]any{"permisos": s.Permisos})
}

func (s *Server) listCustomers(c echo.Context) error {
	var customers []Customer
	if err := s.DB.Order("id").Find(&customers).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, customers)
}

func (s *Server) createCustomer(c echo.Context) error {
	var customer Customer
	if err := c.Bind(&customer); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	if err := s.DB.Create(&customer).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) updateCustomer(c echo.Context) error {
	var customer Customer
	if err := s.DB.First(&customer, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "customer not found")
	}
	var req Customer
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	req.ID = customer.ID
	if err := s.DB.Save(&req).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, req)
}

func (s *Server) deleteCustomer(c echo.Context) error {
	if err := s.DB.Delete(&Customer{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) listProducts(c echo.Context) error {
	var products []Product
	if err := s.DB.Order("id").Find(&products).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c echo.Context) error {
	var p Product
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	if err := s.DB.Create(&p).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	var p Product
	if err := s.DB.First(&p, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	var req Product
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	req.ID = p.ID
	if err := s.DB.Save(&req).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, req)
}

func (s *Server) deleteProduct(c echo.Context) error {
	if err := s.DB.Delete(&Product{}, "id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) productImage(c echo.Context) error {
	var img ProductImage
	if err := s.DB.First(&img, "product_id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no image")
	}
	return c.JSON(http.StatusOK, img)
}

func (s *Server) saveProductImage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	var req ProductImage
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	var existing ProductImage
	if err := s.DB.First(&existing, "product_id = ?", id).Error; err != nil {
		req.ProductID = id
		if err := s.DB.Create(&req).Error; err != nil {
			return c.JSON(http.StatusBadRequest, err)
		}
		return c.NoContent(http.StatusOK)
	}
	existing.Image = req.Image
	if err := s.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) deleteProductImage(c echo.Context) error {
	if err := s.DB.Delete(&ProductImage{}, "product_id = ?", c.Param("id")).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) userByEmail(c echo.Context) error {
	var account Account
	if err := s.DB.Where("email = ?", c.Param("email")).First(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	roles := []string{}
	if account.Roles != "" {
		roles = strings.Split(account.Roles, ",")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":    account.ID,
		"email": account.Email,
		"roles": roles,
	})
}

func (s *Server) cartByCustomer(c echo.Context) error {
	var details []CartDetail
	if err := s.DB.Where("customer_id = ?", c.Param("customerId")).Find(&details).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (s *Server) cartCount(c echo.Context) error {
	var count int64
	if err := s.DB.Model(&CartDetail{}).Where("customer_id = ?", c.Param("customerId")).Count(&count).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, count)
}

func (s *Server) addCartDetail(c echo.Context) error {
	var req CartDetail
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	if req.Quantity <= 0 || req.ProductID == 0 || req.CustomerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid cart detail")
	}

	var existing CartDetail
	err := s.DB.Where("customer_id = ? AND product_id = ?", req.CustomerID, req.ProductID).First(&existing).Error
	if err == nil {
		existing.Quantity += req.Quantity
		if err := s.DB.Save(&existing).Error; err != nil {
			return c.JSON(http.StatusBadRequest, err)
		}
		return c.JSON(http.StatusOK, existing)
	}
	if err := s.DB.Create(&req).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, req)
}

func (s *Server) updateCartDetail(c echo.Context) error {
	var req CartDetail
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	var existing CartDetail
	if err := s.DB.Where("customer_id = ? AND product_id = ?", req.CustomerID, req.ProductID).First(&existing).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "cart detail not found")
	}
	existing.Quantity = req.Quantity
	existing.UnitPrice = req.UnitPrice
	if err := s.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, existing)
}

func (s *Server) deleteCartDetail(c echo.Context) error {
	err := s.DB.Where("customer_id = ? AND product_id = ?", c.Param("customerId"), c.Param("productId")).
		Delete(&CartDetail{}).Error
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) clearCart(c echo.Context) error {
	if err := s.DB.Where("customer_id = ?", c.Param("customerId")).Delete(&CartDetail{}).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) createOrder(c echo.Context) error {
	var req struct {
		CustomerID     string `json:"customerId"`
		ShipAddress    string `json:"shipAddress"`
		ShipCity       string `json:"shipCity"`
		ShipCountry    string `json:"shipCountry"`
		ShipPostalCode string `json:"shipPostalCode"`
		OrderDetails   []struct {
			ProductID int     `json:"productId"`
			UnitPrice float64 `json:"unitPrice"`
			Quantity  int     `json:"quantity"`
		} `json:"orderDetails"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	if req.CustomerID == "" || len(req.OrderDetails) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "customer and details are required")
	}

	order := Order{
		CustomerID:     req.CustomerID,
		ShipAddress:    req.ShipAddress,
		ShipCity:       req.ShipCity,
		ShipCountry:    req.ShipCountry,
		ShipPostalCode: req.ShipPostalCode,
		OrderDate:      time.Now().UTC().Format(time.RFC3339),
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, d := range req.OrderDetails {
			detail := OrderDetail{
				OrderID:   order.ID,
				ProductID: d.ProductID,
				UnitPrice: d.UnitPrice,
				Quantity:  d.Quantity,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
		}
		// Submitting the cart consumes it.
		return tx.Where("customer_id = ?", req.CustomerID).Delete(&CartDetail{}).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"orderId": order.ID})
}

func (s *Server) listOrders(c echo.Context) error {
	var orders []Order
	if err := s.DB.Preload("OrderDetails").Order("id").Find(&orders).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (s *Server) orderByID(c echo.Context) error {
	var order Order
	if err := s.DB.Preload("OrderDetails").First(&order, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) ordersByCustomer(c echo.Context) error {
	var orders []Order
	err := s.DB.Preload("OrderDetails").Where("customer_id = ?", c.QueryParam("customerId")).
		Order("id").Find(&orders).Error
	if err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (s *Server) updateOrder(c echo.Context) error {
	var order Order
	if err := s.DB.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	var req struct {
		CustomerID     string `json:"customerId"`
		ShipAddress    string `json:"shipAddress"`
		ShipCity       string `json:"shipCity"`
		ShipCountry    string `json:"shipCountry"`
		ShipPostalCode string `json:"shipPostalCode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	order.ShipAddress = req.ShipAddress
	order.ShipCity = req.ShipCity
	order.ShipCountry = req.ShipCountry
	order.ShipPostalCode = req.ShipPostalCode
	if err := s.DB.Save(&order).Error; err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (s *Server) deleteOrder(c echo.Context) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", c.Param("id")).Delete(&OrderDetail{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Order{}, "id = ?", c.Param("id")).Error
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) listLogs(c echo.Context) error {
	var logs []DomainLog
	if err := s.DB.Order("id").Find(&logs).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, logs)
}
