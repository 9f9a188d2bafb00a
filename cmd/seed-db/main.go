// Command seed-db loads demo catalog data, starter coupons, shipping methods,
// and a demo customer with an API token into the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/greenloop/ecostore/internal/api"
	"github.com/greenloop/ecostore/internal/storage/postgres"
)

type productJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	StockQuantity int             `json:"stock_quantity"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		customerTok  string
		tokenPepper  string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&customerTok, "customer-token", "", "API token for the demo customer (or ECO_SEED_TOKEN env)")
	flag.StringVar(&tokenPepper, "token-pepper", "", "HMAC pepper for token hashing (or ECO_TOKEN_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if customerTok == "" {
		customerTok = os.Getenv("ECO_SEED_TOKEN")
	}
	if customerTok == "" {
		slog.Error("customer token is required: set --customer-token or ECO_SEED_TOKEN")
		os.Exit(1)
	}
	if tokenPepper == "" {
		tokenPepper = os.Getenv("ECO_TOKEN_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, customerTok, tokenPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, token, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return errors.Wrap(err, "seed coupons")
	}
	if err := seedShippingMethods(ctx, pool); err != nil {
		return errors.Wrap(err, "seed shipping methods")
	}
	if err := seedDemoCustomer(ctx, pool, token, pepper); err != nil {
		return errors.Wrap(err, "seed demo customer")
	}

	return nil
}

const upsertProductSQL = `INSERT INTO products
	(id, name, slug, description, category, brand, price, image_url, stock_quantity, track_inventory, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, TRUE)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, slug = EXCLUDED.slug,
		description = EXCLUDED.description, category = EXCLUDED.category,
		brand = EXCLUDED.brand, price = EXCLUDED.price,
		image_url = EXCLUDED.image_url, stock_quantity = EXCLUDED.stock_quantity`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Slug, p.Description, p.Category, p.Brand,
			p.Price, p.Image, p.StockQuantity,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}
		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const upsertCouponSQL = `INSERT INTO coupons
	(code, coupon_type, value, description, minimum_amount, maximum_discount, usage_limit, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
	ON CONFLICT (code) DO UPDATE SET
		coupon_type = EXCLUDED.coupon_type, value = EXCLUDED.value,
		description = EXCLUDED.description, minimum_amount = EXCLUDED.minimum_amount,
		maximum_discount = EXCLUDED.maximum_discount, usage_limit = EXCLUDED.usage_limit,
		active = TRUE`

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding starter coupons")

	type couponSeed struct {
		code            string
		couponType      string
		value           decimal.Decimal
		description     string
		minimumAmount   decimal.Decimal
		maximumDiscount decimal.Decimal
		usageLimit      int
	}

	coupons := []couponSeed{
		{
			code:        "SAVE10",
			couponType:  "percentage",
			value:       decimal.NewFromInt(10),
			description: "10% off your order",
		},
		{
			code:            "WELCOME20",
			couponType:      "percentage",
			value:           decimal.NewFromInt(20),
			description:     "Welcome: 20% off, up to $50",
			minimumAmount:   decimal.NewFromInt(100),
			maximumDiscount: decimal.NewFromInt(50),
		},
		{
			code:          "FLAT15",
			couponType:    "fixed",
			value:         decimal.NewFromInt(15),
			description:   "$15 off orders over $75",
			minimumAmount: decimal.NewFromInt(75),
		},
		{
			code:        "FIRST100",
			couponType:  "percentage",
			value:       decimal.NewFromInt(25),
			description: "25% off for the first 100 orders",
			usageLimit:  100,
		},
	}

	for _, c := range coupons {
		if _, err := pool.Exec(ctx, upsertCouponSQL,
			c.code, c.couponType, c.value, c.description,
			c.minimumAmount, c.maximumDiscount, c.usageLimit,
		); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.code)
		}
		slog.Info("upserted coupon", slog.String("code", c.code), slog.String("description", c.description))
	}

	return nil
}

const upsertShippingMethodSQL = `INSERT INTO shipping_methods
	(name, description, price, estimated_days, active)
	VALUES ($1, $2, $3, $4, TRUE)
	ON CONFLICT (name) DO NOTHING`

func seedShippingMethods(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding shipping methods")

	type methodSeed struct {
		name          string
		description   string
		price         decimal.Decimal
		estimatedDays int
	}

	methods := []methodSeed{
		{name: "Standard", description: "Standard delivery", price: decimal.NewFromInt(5), estimatedDays: 5},
		{name: "Express", description: "Express delivery", price: decimal.NewFromInt(15), estimatedDays: 2},
		{name: "Next Day", description: "Next business day", price: decimal.NewFromInt(25), estimatedDays: 1},
	}

	for _, m := range methods {
		if _, err := pool.Exec(ctx, upsertShippingMethodSQL,
			m.name, m.description, m.price, m.estimatedDays,
		); err != nil {
			return errors.Wrapf(err, "upsert shipping method %s", m.name)
		}
	}

	return nil
}

const (
	upsertCustomerSQL = `INSERT INTO customers (email, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id`

	upsertAddressSQL = `INSERT INTO customer_addresses
		(customer_id, line1, city, postal_code, country)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM customer_addresses WHERE customer_id = $1
		)`

	upsertTokenSQL = `INSERT INTO customer_tokens (customer_id, token_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO NOTHING`
)

func seedDemoCustomer(ctx context.Context, pool *pgxpool.Pool, token, pepper string) error {
	slog.Info("seeding demo customer")

	var customerID int64
	err := pool.QueryRow(ctx, upsertCustomerSQL,
		"demo@example.com", "Demo", "Customer",
	).Scan(&customerID)
	if err != nil {
		return errors.Wrap(err, "upsert demo customer")
	}

	if _, err := pool.Exec(ctx, upsertAddressSQL,
		customerID, "1 Demo Street", "Springfield", "62701", "US",
	); err != nil {
		return errors.Wrap(err, "upsert demo address")
	}

	hash := api.HashToken(token, []byte(pepper))
	if _, err := pool.Exec(ctx, upsertTokenSQL, customerID, hash, "Demo token"); err != nil {
		return errors.Wrap(err, "upsert demo token")
	}

	slog.Info("upserted demo customer", slog.Int64("customer_id", customerID))
	return nil
}
