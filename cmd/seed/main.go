package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	authdomain "github.com/VISCOUS-ASH/ElectroStore/internal/auth/domain"
	authrepo "github.com/VISCOUS-ASH/ElectroStore/internal/auth/repository"
	authservice "github.com/VISCOUS-ASH/ElectroStore/internal/auth/service"
	cartrepo "github.com/VISCOUS-ASH/ElectroStore/internal/cart/repository"
	catalogdomain "github.com/VISCOUS-ASH/ElectroStore/internal/catalog/domain"
	catalogrepo "github.com/VISCOUS-ASH/ElectroStore/internal/catalog/repository"
	"github.com/VISCOUS-ASH/ElectroStore/internal/config"
	orderrepo "github.com/VISCOUS-ASH/ElectroStore/internal/order/repository"
	"github.com/VISCOUS-ASH/ElectroStore/pkg/mongodb"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// Seeds the databases for local development: indexes, an admin account and
// a batch of generated demo products on top of the migrated catalog.
func main() {
	adminEmail := flag.String("admin-email", "admin@electrostore.local", "admin account email")
	adminPassword := flag.String("admin-password", "", "admin account password (required)")
	fakeProducts := flag.Int("fake-products", 20, "number of generated demo products")
	flag.Parse()

	if *adminPassword == "" {
		log.Fatal("-admin-password is required")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	mongoDB, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer mongoDB.Client().Disconnect(context.Background())

	if err := cartrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("failed to create cart indexes: %v", err)
	}
	if err := orderrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("failed to create order indexes: %v", err)
	}
	if err := authrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("failed to create user indexes: %v", err)
	}
	log.Println("mongo indexes ready")

	userRepo := authrepo.NewMongoRepository(mongoDB)
	authSvc := authservice.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)

	_, err = authSvc.Register(ctx, *adminEmail, *adminPassword, "Store Admin", authdomain.RoleAdmin)
	switch {
	case err == nil:
		log.Printf("admin account created: %s", *adminEmail)
	case errors.Is(err, authrepo.ErrDuplicateEmail):
		log.Printf("admin account already exists: %s", *adminEmail)
	default:
		log.Fatalf("failed to create admin account: %v", err)
	}

	catalog, err := catalogrepo.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer catalog.Close()

	if err := catalog.RunMigrations(cfg.CatalogMigrationsDir); err != nil {
		log.Fatalf("failed to run catalog migrations: %v", err)
	}

	categories := []catalogdomain.Category{
		catalogdomain.CategorySmartphones,
		catalogdomain.CategoryLaptops,
		catalogdomain.CategoryAudio,
		catalogdomain.CategoryWearables,
		catalogdomain.CategoryAccessories,
	}

	for i := 0; i < *fakeProducts; i++ {
		price := decimal.NewFromFloat(gofakeit.Price(499, 99999)).Round(0)
		markup := decimal.NewFromFloat(gofakeit.Float64Range(1.05, 1.4))

		product := &catalogdomain.Product{
			Name:          fmt.Sprintf("%s %s", gofakeit.Company(), gofakeit.ProductName()),
			Brand:         gofakeit.Company(),
			Price:         price,
			OriginalPrice: price.Mul(markup).Round(0),
			Category:      categories[i%len(categories)],
			Description:   gofakeit.ProductDescription(),
			ImageURL:      fmt.Sprintf("/images/demo-%d.jpg", i+1),
			Rating:        gofakeit.Float64Range(3.0, 5.0),
			ReviewCount:   gofakeit.Number(0, 1500),
			InStock:       gofakeit.Bool(),
			Featured:      i%5 == 0,
		}

		if err := catalog.CreateProduct(ctx, product); err != nil {
			log.Fatalf("failed to seed product: %v", err)
		}
	}

	log.Printf("seeded %d demo products", *fakeProducts)
}
