// surplusctl is a terminal storefront for the Surplus Market API. It wires
// the full client stack: durable session vault, circuit-broken and traced
// HTTP transport, cart reconciler, route guard and the app controller.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/surplusmarket/client-go/app"
	"github.com/surplusmarket/client-go/cart"
	"github.com/surplusmarket/client-go/checkout"
	"github.com/surplusmarket/client-go/client"
	"github.com/surplusmarket/client-go/guard"
	"github.com/surplusmarket/client-go/listing"
	"github.com/surplusmarket/client-go/logging"
	"github.com/surplusmarket/client-go/resilience"
	"github.com/surplusmarket/client-go/session"
	"github.com/surplusmarket/client-go/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "surplusctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewLogrusLogger("surplusctl", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "surplusctl",
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Stdout:      cfg.Telemetry.Stdout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	var vault session.Vault = session.NewMemoryVault()
	if cfg.RedisURL != "" {
		rv, err := session.NewRedisVault(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis vault unavailable, session will not survive restarts", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			vault = rv
		}
	}
	store := session.NewStore(vault, logger)

	breakerCfg := resilience.DefaultConfig()
	breakerCfg.Name = "surplus-api"
	breakerCfg.FailureThreshold = cfg.Breaker.FailureThreshold
	breakerCfg.SleepWindow = cfg.Breaker.SleepWindow
	breakerCfg.Logger = logger

	opts := []client.Option{
		client.WithBaseURL(cfg.APIBaseURL),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger),
		client.WithCircuitBreaker(resilience.NewCircuitBreaker(breakerCfg)),
	}
	if provider.Enabled() {
		opts = append(opts, client.WithTelemetry())
	}
	api := client.New(store, opts...)

	cache := cart.NewCache()
	reconciler := cart.NewReconciler(api.Cart, cache, logger)
	nav := &terminalNavigator{}
	controller := app.NewController(store, api, reconciler, nav, logger)
	orders := checkout.NewService(api, checkout.DefaultConfig())

	if err := controller.Start(ctx); err != nil {
		logger.Warn("session restore failed, starting signed out", map[string]interface{}{
			"error": err.Error(),
		})
	}

	shell := &shell{
		ctx:        ctx,
		in:         bufio.NewReader(os.Stdin),
		controller: controller,
		api:        api,
		store:      store,
		cache:      cache,
		checkout:   orders,
	}
	return shell.loop()
}

// terminalNavigator prints view changes; the shell has no screen stack.
type terminalNavigator struct{}

func (terminalNavigator) NavigateTo(view string) {
	fmt.Printf("-> %s\n", view)
}

type shell struct {
	ctx        context.Context
	in         *bufio.Reader
	controller *app.Controller
	api        *client.Client
	store      *session.Store
	cache      *cart.Cache
	checkout   *checkout.Service
}

var (
	routeCart   = guard.Route{Name: "cart", Protected: true}
	routeOrders = guard.Route{Name: "orders", Protected: true}
	routeVendor = guard.Route{Name: "vendor", Protected: true, RequiredRole: session.RoleVendor}
)

func (s *shell) loop() error {
	fmt.Println("Surplus Market. Type 'help' for commands.")
	for {
		if s.store.Authenticated() {
			summary := s.cache.Snapshot()
			fmt.Printf("[%s | cart: %d] > ", s.store.Snapshot().User.Email, summary.ItemCount)
		} else {
			fmt.Print("[guest] > ")
		}
		line, err := s.in.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := s.dispatch(fields[0], fields[1:]); err != nil {
			printError(err)
		}
	}
}

func (s *shell) dispatch(cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "register":
		return s.register(args)
	case "login":
		return s.login(args)
	case "logout":
		s.controller.Logout(s.ctx)
		return nil
	case "whoami":
		return s.whoami()
	case "products":
		return s.products(args)
	case "product":
		return s.product(args)
	case "categories":
		return s.categories()
	case "cart":
		return s.showCart()
	case "add":
		return s.addToCart(args)
	case "update":
		return s.updateLine(args)
	case "remove":
		return s.removeLine(args)
	case "clear":
		return s.controller.ClearCart(s.ctx)
	case "checkout":
		return s.runCheckout()
	case "orders":
		return s.listOrders()
	case "cancel":
		return s.cancelOrder(args)
	case "vendor":
		return s.vendor(args)
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func printHelp() {
	fmt.Print(`commands:
  register <email> <password> <first> <last> [vendor]
  login <email> <password>
  logout | whoami
  products [search terms] | product <id> | categories
  cart | add <product-id> [qty] | update <line-id> <qty> | remove <line-id> | clear
  checkout | orders | cancel <order-id>
  vendor dashboard | vendor products | vendor new
  quit
`)
}

func printError(err error) {
	switch {
	case client.IsAuthExpired(err):
		fmt.Println("your session has expired, please log in again")
	case client.IsUnavailable(err):
		fmt.Println("the marketplace is unreachable right now, please retry shortly")
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Println(apiErr.Message)
			return
		}
		fmt.Println(err)
	}
}

func (s *shell) register(args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: register <email> <password> <first> <last> [vendor]")
	}
	req := client.RegisterRequest{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
	}
	if len(args) > 4 && args[4] == "vendor" {
		req.Role = string(session.RoleVendor)
	}
	if err := s.controller.Register(s.ctx, req); err != nil {
		return err
	}
	fmt.Println("welcome,", req.FirstName)
	return nil
}

func (s *shell) login(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	if err := s.controller.Login(s.ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Println("logged in as", s.store.Snapshot().User.Email)
	return nil
}

func (s *shell) whoami() error {
	if !s.store.Authenticated() {
		fmt.Println("not logged in")
		return nil
	}
	u := s.store.Snapshot().User
	fmt.Printf("%s %s <%s> (%s)\n", u.FirstName, u.LastName, u.Email, u.Role)
	return nil
}

func (s *shell) products(args []string) error {
	filter := client.ProductFilter{Search: strings.Join(args, " ")}
	products, err := s.api.Catalog.Products(s.ctx, filter)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("no products found")
		return nil
	}
	for _, p := range products {
		fmt.Printf("#%-4d %-30s ₹%.2f (was ₹%.2f, -%.0f%%)  %d in stock, expires in %dd\n",
			p.ID, p.Name, p.DiscountedPrice, p.OriginalPrice, p.DiscountPercentage, p.StockQuantity, p.DaysToExpiry)
	}
	return nil
}

func (s *shell) product(args []string) error {
	id, err := argInt(args, 0, "product id")
	if err != nil {
		return err
	}
	p, err := s.api.Catalog.Product(s.ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n  %s\n  ₹%.2f (was ₹%.2f)  vendor: %s  stock: %d  expiry: %s\n",
		p.Name, p.Description, p.DiscountedPrice, p.OriginalPrice, p.VendorName, p.StockQuantity, p.ExpiryDate)
	reviews, err := s.api.Catalog.Reviews(s.ctx, id)
	if err == nil && len(reviews) > 0 {
		for _, r := range reviews {
			fmt.Printf("  %d/5 %s\n", r.Rating, r.Comment)
		}
	}
	return nil
}

func (s *shell) categories() error {
	categories, err := s.api.Catalog.Categories(s.ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("#%-3d %s\n", c.ID, c.Name)
	}
	return nil
}

func (s *shell) showCart() error {
	if s.controller.Visit(routeCart) != guard.Allow {
		return nil
	}
	authoritative, err := s.api.Cart.Get(s.ctx)
	if err != nil {
		return err
	}
	if len(authoritative.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, line := range authoritative.Items {
		name := "?"
		if line.Product != nil {
			name = line.Product.Name
		}
		fmt.Printf("line %-4d %-30s x%d  ₹%.2f\n", line.ID, name, line.Quantity, line.Subtotal)
	}
	fmt.Printf("total: ₹%.2f\n", authoritative.Total)
	return nil
}

func (s *shell) addToCart(args []string) error {
	id, err := argInt(args, 0, "product id")
	if err != nil {
		return err
	}
	qty := 1
	if len(args) > 1 {
		if qty, err = argInt(args, 1, "quantity"); err != nil {
			return err
		}
	}
	return s.controller.AddToCart(s.ctx, id, qty)
}

func (s *shell) updateLine(args []string) error {
	lineID, err := argInt(args, 0, "line id")
	if err != nil {
		return err
	}
	qty, err := argInt(args, 1, "quantity")
	if err != nil {
		return err
	}
	return s.controller.UpdateCartLine(s.ctx, lineID, qty)
}

func (s *shell) removeLine(args []string) error {
	lineID, err := argInt(args, 0, "line id")
	if err != nil {
		return err
	}
	return s.controller.RemoveFromCart(s.ctx, lineID)
}

func (s *shell) runCheckout() error {
	if s.controller.Visit(guard.Route{Name: "checkout", Protected: true}) != guard.Allow {
		return nil
	}
	estimate, err := s.checkout.Preview(s.ctx)
	if err != nil {
		return err
	}
	fmt.Printf("subtotal ₹%.2f + shipping ₹%.2f = ₹%.2f\n",
		estimate.Subtotal, estimate.Shipping, estimate.GrandTotal)

	addr := client.ShippingAddress{
		Name:         s.prompt("name"),
		Phone:        s.prompt("phone"),
		AddressLine1: s.prompt("address line 1"),
		AddressLine2: s.prompt("address line 2 (optional)"),
		City:         s.prompt("city"),
		State:        s.prompt("state"),
		Pincode:      s.prompt("pincode"),
	}
	method := s.prompt("payment method (cod/upi/card)")

	order, err := s.checkout.PlaceOrder(s.ctx, addr, method)
	if err != nil {
		return err
	}
	fmt.Printf("order %s placed, charged ₹%.2f (incl. tax ₹%.2f)\n",
		order.OrderNumber, order.FinalAmount, order.TaxAmount)
	return s.controller.ClearCart(s.ctx)
}

func (s *shell) listOrders() error {
	if s.controller.Visit(routeOrders) != guard.Allow {
		return nil
	}
	orders, err := s.api.Orders.List(s.ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	for _, o := range orders {
		fmt.Printf("%s  %-10s ₹%.2f  %s\n", o.OrderNumber, o.Status, o.FinalAmount, o.CreatedAt)
	}
	return nil
}

func (s *shell) cancelOrder(args []string) error {
	id, err := argInt(args, 0, "order id")
	if err != nil {
		return err
	}
	if err := s.api.Orders.Cancel(s.ctx, id); err != nil {
		return err
	}
	fmt.Println("order cancelled")
	return nil
}

func (s *shell) vendor(args []string) error {
	if s.controller.Visit(routeVendor) != guard.Allow {
		return nil
	}
	sub := "dashboard"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "dashboard":
		d, err := s.api.Vendor.Dashboard(s.ctx)
		if err != nil {
			return err
		}
		fmt.Printf("products: %d (%d active)  orders: %d  revenue: ₹%.2f\n",
			d.TotalProducts, d.ActiveProducts, d.TotalOrders, d.TotalRevenue)
		return nil
	case "products":
		products, err := s.api.Vendor.Products(s.ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("#%-4d %-30s ₹%.2f  stock %d\n", p.ID, p.Name, p.DiscountedPrice, p.StockQuantity)
		}
		return nil
	case "new":
		return s.newListing()
	default:
		return fmt.Errorf("usage: vendor [dashboard|products|new]")
	}
}

// newListing collects a product draft field by field, exactly as the web form
// does, and lets the encoder pick the wire shape.
func (s *shell) newListing() error {
	draft := listing.ProductDraft{
		Name:            s.prompt("name"),
		CategoryID:      s.prompt("category id"),
		OriginalPrice:   s.prompt("original price"),
		DiscountedPrice: s.prompt("discounted price"),
		StockQuantity:   s.prompt("stock quantity"),
		ExpiryDate:      s.prompt("expiry date (YYYY-MM-DD)"),
		Brand:           s.prompt("brand (optional)"),
		Unit:            s.prompt("unit (optional)"),
		Description:     s.prompt("description (optional)"),
	}
	if path := s.prompt("image file (optional)"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		draft.Image = &listing.Attachment{
			Filename:    path,
			ContentType: "application/octet-stream",
			Data:        data,
		}
	}

	encoded, err := listing.Encode(draft)
	if err != nil {
		return err
	}
	product, err := s.api.Vendor.CreateProduct(s.ctx, encoded)
	if err != nil {
		return err
	}
	fmt.Printf("listed #%d %s\n", product.ID, product.Name)
	return nil
}

func (s *shell) prompt(label string) string {
	fmt.Printf("%s: ", label)
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func argInt(args []string, i int, name string) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[i])
	}
	return n, nil
}
