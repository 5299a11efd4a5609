// Command orders-report prints the per-day order count and revenue for one
// admin tab, or for every order when -status is empty.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"

	ordersmongo "github.com/husnhira/storefront/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/husnhira/storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/husnhira/storefront/internal/domains/orders/application"
	"github.com/husnhira/storefront/internal/domains/orders/application/types"
	"github.com/husnhira/storefront/internal/domains/orders/domain"
	"github.com/husnhira/storefront/internal/domains/orders/ports"
	platformmongo "github.com/husnhira/storefront/internal/platform/mongo"
	platformpostgres "github.com/husnhira/storefront/internal/platform/postgres"
)

func main() {
	statusFlag := flag.String("status", "", "pending, delivering or done; empty reports every order")
	modeFlag := flag.String("mode", string(types.RevenueLegacy), "revenue mode: legacy or recorded")
	flag.Parse()

	var status *domain.Status
	if *statusFlag != "" {
		parsed, err := domain.ParseStatus(*statusFlag)
		if err != nil {
			log.Fatalf("invalid -status: %v", err)
		}
		status = &parsed
	}
	mode, ok := types.ParseRevenueMode(*modeFlag)
	if !ok {
		log.Fatalf("invalid -mode %q: want legacy or recorded", *modeFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	v := viper.New()
	v.SetDefault("MONGO_DATABASE", "husnhira")
	v.AutomaticEnv()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	repo, cleanup, err := openRepository(ctx, v, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	chart, err := ordersapp.NewService(repo, nil, "").ChartData(ctx, status, mode)
	if err != nil {
		log.Fatalf("failed to build report: %v", err)
	}
	if err := render(os.Stdout, chart); err != nil {
		log.Fatalf("failed to render report: %v", err)
	}
}

func openRepository(ctx context.Context, v *viper.Viper, logger *slog.Logger) (ports.Repository, func(), error) {
	if uri := v.GetString("MONGO_URI"); uri != "" && v.GetString("STORE_BACKEND") != "postgres" {
		db, cleanup := platformmongo.ConnectOptional(ctx, uri, v.GetString("MONGO_DATABASE"), logger)
		if db == nil {
			return nil, nil, fmt.Errorf("mongo unreachable at MONGO_URI")
		}
		return ordersmongo.NewRepository(db), cleanup, nil
	}
	db, cleanup := platformpostgres.ConnectOptional(ctx, v.GetString("POSTGRES_DSN"), logger)
	if db == nil {
		return nil, nil, fmt.Errorf("set POSTGRES_DSN or MONGO_URI to read orders")
	}
	return orderspostgres.NewRepository(db), cleanup, nil
}

func render(w io.Writer, chart *types.ChartData) error {
	table := tablewriter.NewWriter(w)
	table.Header("Day", "Orders", "Revenue (INR)")
	var orders, revenue int
	for i, label := range chart.Labels {
		if err := table.Append([]string{label, strconv.Itoa(chart.OrderCounts[i]), strconv.Itoa(chart.Revenue[i])}); err != nil {
			return err
		}
		orders += chart.OrderCounts[i]
		revenue += chart.Revenue[i]
	}
	table.Footer("Total", strconv.Itoa(orders), strconv.Itoa(revenue))
	return table.Render()
}
