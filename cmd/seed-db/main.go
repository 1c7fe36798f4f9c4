package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/foodlavka/shop-api/internal/domain/coupon"
	"github.com/foodlavka/shop-api/internal/domain/directory"
	"github.com/foodlavka/shop-api/internal/domain/product"
	"github.com/foodlavka/shop-api/internal/storage/mongodb"
)

// directoryJSON is the shape of db/seed/directory.json: the reference data
// orders resolve against.
type directoryJSON struct {
	DeliveryMethods []directory.DeliveryMethod `json:"delivery_methods"`
	PaymentMethods  []directory.PaymentMethod  `json:"payment_methods"`
	PickupAddresses []directory.PickupAddress  `json:"pickup_addresses"`
}

func main() {
	var (
		mongoURI string
		database string
		seedDir  string
	)

	flag.StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (or MONGO_URI env)")
	flag.StringVar(&database, "database", "shop", "MongoDB database name")
	flag.StringVar(&seedDir, "seed-dir", "db/seed", "directory containing seed JSON files")
	flag.Parse()

	if mongoURI == "" {
		mongoURI = os.Getenv("MONGO_URI")
	}
	if mongoURI == "" {
		slog.Error("mongo URI is required: set --mongo-uri or MONGO_URI")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, mongoURI, database, seedDir); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, mongoURI, database, seedDir string) error {
	slog.Info("connecting to database")

	client, err := mongodb.Connect(ctx, mongodb.Config{URI: mongoURI, Database: database})
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Close(closeCtx)
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return seedProducts(ctx, mongodb.NewProductRepository(client), filepath.Join(seedDir, "products.json"))
	})
	g.Go(func() error {
		return seedCoupons(ctx, mongodb.NewCouponRepository(client), filepath.Join(seedDir, "coupons.json"))
	})
	g.Go(func() error {
		return seedDirectory(ctx, mongodb.NewDirectoryRepository(client), filepath.Join(seedDir, "directory.json"))
	})
	return g.Wait()
}

func seedProducts(ctx context.Context, repo *mongodb.ProductRepository, path string) error {
	var products []product.Snapshot
	if err := readSeedFile(path, &products); err != nil {
		return errors.Wrap(err, "read products")
	}

	slog.Info("inserting products", slog.Int("count", len(products)))

	for i := range products {
		if err := repo.Insert(ctx, &products[i]); err != nil {
			return errors.Wrapf(err, "insert product %s", products[i].ID)
		}
	}
	return nil
}

func seedCoupons(ctx context.Context, repo *mongodb.CouponRepository, path string) error {
	var coupons []coupon.Coupon
	if err := readSeedFile(path, &coupons); err != nil {
		return errors.Wrap(err, "read coupons")
	}

	slog.Info("inserting coupons", slog.Int("count", len(coupons)))

	now := time.Now()
	for i := range coupons {
		if coupons[i].DateCreated.IsZero() {
			coupons[i].DateCreated = now
		}
		if err := repo.Insert(ctx, &coupons[i]); err != nil {
			return errors.Wrapf(err, "insert coupon %s", coupons[i].Code)
		}
	}
	return nil
}

func seedDirectory(ctx context.Context, repo *mongodb.DirectoryRepository, path string) error {
	var dir directoryJSON
	if err := readSeedFile(path, &dir); err != nil {
		return errors.Wrap(err, "read directory")
	}

	slog.Info("inserting directory entries",
		slog.Int("delivery_methods", len(dir.DeliveryMethods)),
		slog.Int("payment_methods", len(dir.PaymentMethods)),
		slog.Int("pickup_addresses", len(dir.PickupAddresses)),
	)

	for i := range dir.DeliveryMethods {
		if err := repo.InsertDeliveryMethod(ctx, &dir.DeliveryMethods[i]); err != nil {
			return errors.Wrapf(err, "insert delivery method %s", dir.DeliveryMethods[i].ID)
		}
	}
	for i := range dir.PaymentMethods {
		if err := repo.InsertPaymentMethod(ctx, &dir.PaymentMethods[i]); err != nil {
			return errors.Wrapf(err, "insert payment method %s", dir.PaymentMethods[i].ID)
		}
	}
	for i := range dir.PickupAddresses {
		if err := repo.InsertPickupAddress(ctx, &dir.PickupAddresses[i]); err != nil {
			return errors.Wrapf(err, "insert pickup address %s", dir.PickupAddresses[i].ID)
		}
	}
	return nil
}

func readSeedFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}
