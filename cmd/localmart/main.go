package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/localmart/localmart-client/internal/api"
	"github.com/localmart/localmart-client/internal/cart"
	"github.com/localmart/localmart-client/internal/session"
	"github.com/localmart/localmart-client/internal/tracking"
	authsession "github.com/localmart/localmart-client/pkg/auth/session"
	"github.com/localmart/localmart-client/pkg/config"
	"github.com/localmart/localmart-client/pkg/logger"
	"github.com/localmart/localmart-client/pkg/maps"
	"github.com/localmart/localmart-client/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "localmart"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "localmart",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	app, err := buildApp(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to wire client", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.run(ctx, os.Args[1:]); err != nil {
		logg.Error(ctx, "command failed", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *api.Client
	cart    *cart.Store
	session *session.Service
	tracker *tracking.Tracker
}

func buildApp(cfg *config.Config, logg *logger.Logger) (*app, error) {
	tokens := authsession.NewStore()
	if token := os.Getenv("LOCALMART_ACCESS_TOKEN"); token != "" {
		if err := tokens.SetTokens(token, os.Getenv("LOCALMART_REFRESH_TOKEN")); err != nil {
			return nil, err
		}
	}

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.RequestTimeout}),
		api.WithTokenSource(tokens),
		api.WithLogger(logg),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithMetrics(metrics.NewRequestMetrics(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.NewStore(client, logg)
	if err != nil {
		return nil, err
	}

	sessionService, err := session.NewService(client, tokens, cartStore, cfg.Auth, logg)
	if err != nil {
		return nil, err
	}

	var routes tracking.RouteEstimator
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			return nil, err
		}
		routes = mapsClient
	}

	tracker, err := tracking.NewTracker(client, routes, logg)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     logg,
		client:  client,
		cart:    cartStore,
		session: sessionService,
		tracker: tracker,
	}, nil
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: localmart <cart|products|shops|orders|addresses|track|login|logout> ...")
	}

	if err := a.session.RefreshIfNeeded(ctx, time.Now()); err != nil {
		a.log.Warn(ctx, "token refresh failed, continuing with current session")
	}

	switch args[0] {
	case "cart":
		return a.runCart(ctx, args[1:])
	case "products":
		products, err := a.client.ListProducts(ctx, api.ProductListParams{})
		if err != nil {
			return err
		}
		return printJSON(products)
	case "shops":
		if len(args) == 3 {
			lat, latErr := strconv.ParseFloat(args[1], 64)
			lng, lngErr := strconv.ParseFloat(args[2], 64)
			if latErr != nil || lngErr != nil {
				return fmt.Errorf("usage: localmart shops [<lat> <lng>]")
			}
			shops, err := a.client.NearbyShops(ctx, lat, lng)
			if err != nil {
				return err
			}
			return printJSON(shops)
		}
		shops, err := a.client.ListShops(ctx)
		if err != nil {
			return err
		}
		return printJSON(shops)
	case "orders":
		orders, err := a.client.ListOrders(ctx)
		if err != nil {
			return err
		}
		return printJSON(orders)
	case "addresses":
		addresses, err := a.client.ListAddresses(ctx)
		if err != nil {
			return err
		}
		return printJSON(addresses)
	case "track":
		if len(args) != 4 && !(len(args) == 5 && args[4] == "watch") {
			return fmt.Errorf("usage: localmart track <orderID> <lat> <lng> [watch]")
		}
		lat, latErr := strconv.ParseFloat(args[2], 64)
		lng, lngErr := strconv.ParseFloat(args[3], 64)
		if latErr != nil || lngErr != nil {
			return fmt.Errorf("usage: localmart track <orderID> <lat> <lng> [watch]")
		}
		dropoff := api.Location{Latitude: lat, Longitude: lng}
		if len(args) == 5 {
			return a.tracker.Watch(ctx, args[1], dropoff, a.cfg.Tracking.PollInterval, func(snap *tracking.Snapshot) {
				_ = printJSON(snap)
			})
		}
		snap, err := a.tracker.Snapshot(ctx, args[1], dropoff)
		if err != nil {
			return err
		}
		return printJSON(snap)
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: localmart login <email> <password>")
		}
		return a.session.Login(ctx, args[1], args[2])
	case "logout":
		return a.session.Logout(ctx)
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"get"}
	}

	var snap cart.Snapshot
	var err error
	switch args[0] {
	case "get":
		snap, err = a.cart.Fetch(ctx)
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: localmart cart add <productID> [qty]")
		}
		qty := 1
		if len(args) > 2 {
			qty, _ = strconv.Atoi(args[2])
		}
		if _, err = a.cart.Fetch(ctx); err != nil {
			return err
		}
		snap, err = a.cart.Add(ctx, args[1], qty)
	case "update":
		if len(args) != 3 {
			return fmt.Errorf("usage: localmart cart update <productID> <qty>")
		}
		qty, convErr := strconv.Atoi(args[2])
		if convErr != nil {
			return fmt.Errorf("quantity must be an integer")
		}
		if _, err = a.cart.Fetch(ctx); err != nil {
			return err
		}
		snap, err = a.cart.UpdateQuantity(ctx, args[1], qty)
	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: localmart cart remove <productID>")
		}
		if _, err = a.cart.Fetch(ctx); err != nil {
			return err
		}
		snap, err = a.cart.Remove(ctx, args[1])
	case "clear":
		snap, err = a.cart.Clear(ctx)
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(snap)
}

func printJSON(value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
