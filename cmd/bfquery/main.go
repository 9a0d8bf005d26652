// bfquery logs in and prints the decoded prices or traded volume of one market.
// Usage: go run ./cmd/bfquery --config configs/recorder.local.yaml --market 101234567
//
// The password may come from the config file or BETFAIR_PASSWORD via ${...}
// expansion. With --feed, bfquery instead follows a running recorder's
// websocket feed and needs no credentials:
//
//	go run ./cmd/bfquery --feed ws://localhost:8081/ws/prices --market 101234567
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/betfair-soap/internal/api"
	"github.com/rickgao/betfair-soap/internal/config"
	"github.com/rickgao/betfair-soap/internal/export"
	"github.com/rickgao/betfair-soap/internal/feed"
	"github.com/rickgao/betfair-soap/internal/model"
)

func main() {
	configPath := flag.String("config", "configs/recorder.example.yaml", "path to config file")
	marketID := flag.Int64("market", 0, "market id to query")
	variant := flag.String("variant", "complete", "complete, legacy or volume")
	format := flag.String("format", "text", "text, json or csv")
	watch := flag.Duration("watch", 0, "repeat the query at this interval")
	dump := flag.Bool("dump", false, "print the raw SOAP exchange on failure")
	feedURL := flag.String("feed", "", "follow a recorder feed at this websocket url")
	flag.Parse()

	if *feedURL != "" {
		if err := follow(*feedURL, *marketID, *format); err != nil {
			fmt.Fprintf(os.Stderr, "feed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *marketID == 0 {
		fmt.Fprintln(os.Stderr, "--market is required")
		os.Exit(2)
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	creds, err := cfg.Credentials.Load()
	if err != nil {
		logger.Error("failed to load credentials", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(
		api.WithEndpoints(api.Endpoints{
			Global:      cfg.API.GlobalURL,
			ExchangeUK:  cfg.API.ExchangeUKURL,
			ExchangeAUS: cfg.API.ExchangeAUSURL,
		}),
		api.WithExchange(api.Exchange(cfg.API.Exchange)),
		api.WithCredentials(creds),
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if _, err := client.Login(ctx); err != nil {
		fail(client, "login", err, *dump)
	}
	defer client.Logout(context.Background())

	for {
		if err := query(ctx, client, *marketID, *variant, *format); err != nil {
			fail(client, *variant, err, *dump)
		}
		if *watch <= 0 {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(*watch):
		}
	}
}

func query(ctx context.Context, client *api.Client, marketID int64, variant, format string) error {
	switch variant {
	case "complete":
		prices, err := client.GetCompleteMarketPrices(ctx, marketID)
		if err != nil {
			return err
		}
		printPrices(prices, format)
	case "legacy":
		prices, err := client.GetMarketPrices(ctx, marketID)
		if err != nil {
			return err
		}
		printPrices(prices, format)
	case "volume":
		volume, err := client.GetMarketTradedVolume(ctx, marketID)
		if err != nil {
			return err
		}
		printVolume(volume, format)
	default:
		return fmt.Errorf("unknown variant %q", variant)
	}
	return nil
}

func printPrices(p *model.MarketPrices, format string) {
	switch format {
	case "json":
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Printf("%s\n", data)
		return
	case "csv":
		if err := export.WriteCSV(os.Stdout, export.PriceRows(p)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return
	}

	fmt.Printf("[MARKET] id=%d in_play_delay=%d selections=%d\n", p.MarketID, p.InPlayDelay, len(p.Selections))
	for _, s := range p.Selections {
		fmt.Printf("  [SELECTION] id=%d matched=%s last=%s back=%s lay=%s\n",
			s.SelectionID, s.TotalMatched, s.LastPriceMatched, best(s.BackPrices), best(s.LayPrices))
	}
}

func printVolume(v *model.MarketVolume, format string) {
	switch format {
	case "json":
		data, _ := json.MarshalIndent(v, "", "  ")
		fmt.Printf("%s\n", data)
		return
	case "csv":
		if err := export.WriteCSV(os.Stdout, export.VolumeRows(v)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		return
	}

	fmt.Printf("[VOLUME] selections=%d\n", len(v.Selections))
	for _, s := range v.Selections {
		fmt.Printf("  [SELECTION] id=%d bsp=%s levels=%d\n", s.SelectionID, s.ActualBSP, len(s.TradedAmounts))
	}
}

// best formats the first ladder entry as price@amount.
func best(ladder []model.PricePoint) string {
	if len(ladder) == 0 {
		return "-"
	}
	top := ladder[0]
	amount := top.BackAmount
	if amount.IsZero() {
		amount = top.LayAmount
	}
	return top.Price.String() + "@" + amount.String()
}

func fail(client *api.Client, what string, err error, dump bool) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", what, err)
	if dump {
		fmt.Fprintf(os.Stderr, "request_id: %s\nheader: %s\nbody: %s\n--- request ---\n%s\n--- response ---\n%s\n",
			client.RequestID(), client.HeaderError(), client.BodyError(),
			client.LastRequest(), client.LastResponse())
	}
	os.Exit(1)
}

// follow prints feed frames until interrupted or disconnected.
func follow(url string, marketID int64, format string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := feed.DefaultClientConfig(url)
	if marketID != 0 {
		cfg.Markets = []int64{marketID}
	}
	client := feed.NewClient(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-client.Errors():
			return err
		case msg := <-client.Messages():
			lag := msg.ReceivedAt.Sub(time.UnixMicro(msg.FetchedAt))
			fmt.Printf("[SNAPSHOT] id=%s market=%d lag=%s\n", msg.SnapshotID, msg.MarketID, lag)
			if msg.Prices != nil {
				printPrices(msg.Prices, format)
			}
			if msg.Volume != nil {
				printVolume(msg.Volume, format)
			}
		}
	}
}
