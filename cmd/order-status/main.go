package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/qalamart/storeapi/internal/config"
	"github.com/qalamart/storeapi/internal/repository/postgres"
)

// Ops tool: look up an order by its reference and print its state,
// including the payment events applied to it.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/order-status/main.go <order-reference>")
		fmt.Println("Example: go run cmd/order-status/main.go ORD-1717000000000-042117")
		os.Exit(1)
	}

	reference := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)

	ctx := context.Background()

	order, err := repos.Orders.GetByReference(ctx, reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find order: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Order %s\n", order.Reference)
	fmt.Printf("  ID:             %s\n", order.ID.String())
	fmt.Printf("  Status:         %s\n", order.Status)
	fmt.Printf("  Payment status: %s\n", order.PaymentStatus)
	fmt.Printf("  Total:          %s\n", order.TotalAmount.String())
	fmt.Printf("  Customer:       %s %s <%s>\n", order.Customer.FirstName, order.Customer.LastName, order.Customer.Email)
	if order.BillCode != nil {
		fmt.Printf("  Bill code:      %s\n", *order.BillCode)
	}
	if order.TrackingNumber != nil {
		fmt.Printf("  Tracking:       %s\n", *order.TrackingNumber)
	}

	fmt.Printf("  Items:\n")
	for _, item := range order.Items {
		fmt.Printf("    %dx %s @ %s\n", item.Quantity, item.ProductName, item.Price.String())
	}

	events, err := repos.PaymentEvents.ListByOrder(ctx, reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list payment events: %v\n", err)
		os.Exit(1)
	}

	if len(events) > 0 {
		fmt.Printf("  Payment events:\n")
		for _, ev := range events {
			fmt.Printf("    %s  %s (raw %q, bill %s)\n",
				ev.CreatedAt.Format("2006-01-02 15:04:05"), ev.Status, ev.RawStatus, ev.BillCode)
		}
	}
}
