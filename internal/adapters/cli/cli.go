package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"studio-orders/internal/app"
	"studio-orders/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "orders", "ord", "o":
		result, err := svc.ListOrders(ctx)
		if err != nil {
			log.Fatalf("Failed to list orders: %v", err)
		}
		printOrders(result)

	case "next-invoice", "next", "n":
		number, err := svc.NextInvoiceNumber(ctx)
		if err != nil {
			log.Fatalf("Failed to reserve invoice number: %v", err)
		}
		fmt.Println(number)

	case "create", "cr":
		var req app.SaveOrderRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.CreateOrder(ctx, req)
		if err != nil {
			log.Fatalf("Create failed: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Order)

	case "clients", "cl":
		result, err := svc.ListClients(ctx)
		if err != nil {
			log.Fatalf("Failed to list clients: %v", err)
		}
		printClients(result.Clients)

	case "stats", "st":
		period := core.PeriodAll
		if len(args) > 1 {
			period = core.StatsPeriod(args[1])
		}
		stats, err := svc.GetStats(ctx, period)
		if err != nil {
			log.Fatalf("Failed to get stats: %v", err)
		}
		printStats(stats)

	case "export", "ex":
		result, err := svc.ExportOrders(ctx, args[1:])
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		if err := os.WriteFile(result.Filename, result.Data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", result.Filename, err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", result.Filename, len(result.Data))

	case "approve-user":
		if len(args) < 2 {
			log.Fatal("Usage: studio approve-user <user-id>")
		}
		if err := svc.ApproveUser(ctx, args[1]); err != nil {
			log.Fatalf("Approval failed: %v", err)
		}
		fmt.Println("User approved.")

	default:
		log.Fatalf("Unknown command: %s\nAvailable: orders, next-invoice, create, clients, stats, export, approve-user", args[0])
	}
}

func printOrders(result *app.OrderListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-8s %-12s %-24s %12s %-6s %-10s\n",
		"FACTURE", "DATE", "CLIENT", "TOTAL", "PAID", "STATUS")
	fmt.Println(strings.Repeat("-", 78))
	for _, o := range result.Orders {
		paid := "no"
		if o.IsPaid {
			paid = "yes"
		}
		fmt.Printf("  %-8s %-12s %-24s %12s %-6s %-10s\n",
			o.InvoiceNumber, o.Date, o.CustomerName,
			o.TotalAmount.StringFixed(2), paid, o.Status)
	}
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Corrupt) > 0 {
		fmt.Printf("  %d corrupt record(s) excluded:\n", len(result.Corrupt))
		for _, c := range result.Corrupt {
			fmt.Printf("    %s: %s\n", c.OrderID, c.Reason)
		}
	}
}

func printClients(clients []core.Client) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-28s %-28s %8s\n", "NAME", "ADDRESS", "ORDERS")
	fmt.Println(strings.Repeat("-", 70))
	for _, c := range clients {
		fmt.Printf("  %-28s %-28s %8d\n", c.FullName, c.Address, c.OrderCount)
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printStats(stats *core.Stats) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 46))
	fmt.Printf("  STATS — %s\n", stats.Period)
	fmt.Println(strings.Repeat("-", 46))
	fmt.Printf("  %-24s %12d\n", "Orders", stats.OrderCount)
	fmt.Printf("  %-24s %12s\n", "Revenue", stats.Revenue.StringFixed(2))
	fmt.Printf("  %-24s %12s\n", "Average order", stats.AverageOrder.StringFixed(2))
	fmt.Printf("  %-24s %12d\n", "Paid", stats.PaidCount)
	fmt.Printf("  %-24s %12d\n", "Unpaid", stats.UnpaidCount)
	if stats.RevenueGrowth != nil {
		fmt.Printf("  %-24s %11.1f%%\n", "Revenue growth", *stats.RevenueGrowth)
	}
	fmt.Println(strings.Repeat("=", 46))
}
