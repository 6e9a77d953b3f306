// nwadmin is a terminal admin client for the Northwind Sales backend:
// customers, products, carts, orders, audit logs and invoice export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/avelasquez/northwind-admin/internal/access"
	"github.com/avelasquez/northwind-admin/internal/auditlog"
	"github.com/avelasquez/northwind-admin/internal/cart"
	"github.com/avelasquez/northwind-admin/internal/config"
	"github.com/avelasquez/northwind-admin/internal/invoice"
	"github.com/avelasquez/northwind-admin/internal/logging"
	"github.com/avelasquez/northwind-admin/internal/models"
	"github.com/avelasquez/northwind-admin/internal/orderbook"
	"github.com/avelasquez/northwind-admin/internal/session"
	"github.com/avelasquez/northwind-admin/pkg/apiclient"
)

const usage = `usage: nwadmin <command> [args]

commands:
  login                         authenticate with NW_EMAIL / NW_PASSWORD
  logout                        clear the saved session
  whoami                        show the logged-in user and roles
  customers                     list customers
  products                      list products
  orders [-customer id]         list orders with totals
  cart <customerId>             show a customer's cart
  logs [-user name] [-q text]   show audit logs, newest first
  invoice <orderId> [-out dir]  export an order as a PDF invoice
`

type app struct {
	cfg     *config.Config
	session *session.Session
	client  *apiclient.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.APIURL, "NW_API_URL")

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	sess := session.Open(sessionPath)

	a := &app{
		cfg:     cfg,
		session: sess,
		client: apiclient.New(cfg.APIURL, sess,
			apiclient.WithTimeout(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)),
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		if apiclient.IsUnauthorized(err) {
			// The backend rejected the token; the session is stale.
			if lerr := sess.Logout(); lerr != nil {
				logger.Warn("clear session", "error", lerr)
			}
			log.Fatalf("session expired, run `nwadmin login`: %v", err)
		}
		log.Fatal(err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx)
	case "logout":
		return a.session.Logout()
	case "whoami":
		return a.whoami(ctx)
	case "customers":
		return a.listCustomers(ctx)
	case "products":
		return a.listProducts(ctx)
	case "orders":
		return a.listOrders(ctx, args)
	case "cart":
		return a.showCart(ctx, args)
	case "logs":
		return a.showLogs(ctx, args)
	case "invoice":
		return a.exportInvoice(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSection resolves the user's roles and refuses commands outside
// their access level. No roles at all forces a logout.
func (a *app) requireSection(ctx context.Context, section string) (access.Access, error) {
	if !a.session.Authenticated() {
		return access.Access{}, errors.New("not logged in, run `nwadmin login`")
	}
	email, err := a.session.Email()
	if err != nil {
		return access.Access{}, fmt.Errorf("resolve session email: %w", err)
	}

	acc, err := access.Resolve(ctx, a.client, email)
	if err != nil {
		if errors.Is(err, access.ErrNoRoles) {
			if lerr := a.session.Logout(); lerr != nil {
				logging.FromContext(ctx).Warn("clear session", "error", lerr)
			}
		}
		return access.Access{}, err
	}
	if !acc.CanOpen(section) {
		return access.Access{}, fmt.Errorf("your roles %v cannot open %q", acc.Roles, section)
	}
	return acc, nil
}

func (a *app) login(ctx context.Context) error {
	config.MustNonEmpty(a.cfg.Email, "NW_EMAIL")
	config.MustNonEmpty(a.cfg.Password, "NW_PASSWORD")

	token, err := a.client.Login(ctx, a.cfg.Email, a.cfg.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.session.Login(token, a.cfg.Email, nil); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	// Permissions need the fresh token, so fetch them after saving it.
	perms, err := a.client.Permissions(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("fetch permissions", "error", err)
	} else if err := a.session.Login(token, a.cfg.Email, perms); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	logging.FromContext(ctx).Info("logged in", "user", a.cfg.Email)
	fmt.Printf("logged in as %s\n", a.cfg.Email)
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if !a.session.Authenticated() {
		return errors.New("not logged in")
	}
	email, err := a.session.Email()
	if err != nil {
		return err
	}
	acc, err := access.Resolve(ctx, a.client, email)
	if err != nil {
		return err
	}
	fmt.Printf("user:  %s\nroles: %v\nadmin: %v\nstart: %s\n", email, acc.Roles, acc.Admin, acc.DefaultSection())
	return nil
}

func (a *app) listCustomers(ctx context.Context) error {
	if _, err := a.requireSection(ctx, access.SectionClients); err != nil {
		return err
	}
	customers, err := a.client.Customers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCEDULA\tPHONE\tBALANCE")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n", c.ID, c.FullName(), c.Cedula, c.PhoneNumber, c.CurrentBalance)
	}
	return w.Flush()
}

func (a *app) listProducts(ctx context.Context) error {
	if _, err := a.requireSection(ctx, access.SectionProducts); err != nil {
		return err
	}
	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTOCK\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\n", p.ID, p.Name, p.UnitsInStock, p.UnitPrice)
	}
	return w.Flush()
}

func (a *app) listOrders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	customerID := fs.String("customer", "", "filter orders by customer id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.requireSection(ctx, access.SectionOrders); err != nil {
		return err
	}

	list, err := fetchOrders(ctx, a.client, *customerID)
	if err != nil {
		return err
	}
	customers, err := a.client.Customers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tCITY\tSUBTOTAL\tIVA\tTOTAL")
	for _, o := range list {
		totals := orderbook.Totals(o)
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\n",
			o.ID, orderbook.CustomerName(customers, o.CustomerID), o.ShipCity,
			totals.Subtotal, totals.Tax, totals.Total)
	}
	return w.Flush()
}

func (a *app) showCart(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: nwadmin cart <customerId>")
	}
	if _, err := a.requireSection(ctx, access.SectionSales); err != nil {
		return err
	}

	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}

	ct := cart.New(a.client)
	ct.SetProducts(products)
	if err := ct.SwitchCustomer(ctx, args[0]); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tPRICE\tQTY\tLINE")
	for _, line := range ct.Lines() {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\n",
			line.ProductName, line.UnitPrice, line.Quantity, line.UnitPrice*float64(line.Quantity))
	}
	totals := ct.Totals()
	fmt.Fprintf(w, "\tSUBTOTAL\t\t%.2f\n", totals.Subtotal)
	fmt.Fprintf(w, "\tIVA (15%%)\t\t%.2f\n", totals.Tax)
	fmt.Fprintf(w, "\tTOTAL\t\t%.2f\n", totals.Total)
	return w.Flush()
}

func (a *app) showLogs(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	user := fs.String("user", "", "filter by user")
	query := fs.String("q", "", "free text filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := a.requireSection(ctx, access.SectionAuditLogs); err != nil {
		return err
	}

	logs, err := a.client.DomainLogs(ctx)
	if err != nil {
		return err
	}
	logs = auditlog.Filter(auditlog.SortByDateDesc(logs), *user, *query)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tUSER\tINFORMATION")
	for _, l := range logs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.CreatedDate, l.UserName, l.Information)
	}
	return w.Flush()
}

func (a *app) exportInvoice(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: nwadmin invoice <orderId> [-out dir]")
	}
	orderID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	fs := flag.NewFlagSet("invoice", flag.ContinueOnError)
	out := fs.String("out", ".", "output directory")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if _, err := a.requireSection(ctx, access.SectionOrders); err != nil {
		return err
	}

	order, err := a.client.OrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	customers, err := a.client.Customers(ctx)
	if err != nil {
		return err
	}
	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}

	renderer := &invoice.Renderer{ChromePath: a.cfg.ChromePath}
	path, err := renderer.Export(ctx, invoice.FromOrder(order, customers, products), *out)
	if err != nil {
		return fmt.Errorf("export invoice: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func fetchOrders(ctx context.Context, client *apiclient.Client, customerID string) ([]models.Order, error) {
	if customerID != "" {
		return client.OrdersByCustomer(ctx, customerID)
	}
	return client.Orders(ctx)
}
