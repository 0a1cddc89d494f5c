package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/database"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Categories []categoryFixture `yaml:"categories"`
	Products   []productFixture  `yaml:"products"`
}

type categoryFixture struct {
	Name         string `yaml:"name"`
	FriendlyName string `yaml:"friendly_name"`
}

type productFixture struct {
	SKU         string  `yaml:"sku"`
	Category    string  `yaml:"category"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Rating      *string `yaml:"rating"`
	ImageURL    string  `yaml:"image_url"`
	Image       string  `yaml:"image"`
	Available   *bool   `yaml:"available"`
}

func parseFixture(r io.Reader) (*fixture, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// toProduct builds the row for p. categoryIDs maps category slugs to ids.
func (p productFixture) toProduct(categoryIDs map[string]uint) (*models.Product, error) {
	if strings.TrimSpace(p.SKU) == "" || strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("product %q: sku and name are required", p.Name)
	}
	price, err := decimal.NewFromString(p.Price)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("product %s: invalid price %q", p.SKU, p.Price)
	}

	product := &models.Product{
		SKU:         p.SKU,
		Name:        p.Name,
		Slug:        models.Slugify(p.Name),
		Description: p.Description,
		Price:       price.Round(2),
		ImageURL:    p.ImageURL,
		Image:       p.Image,
		Available:   p.Available == nil || *p.Available,
	}
	if p.Rating != nil {
		rating, err := decimal.NewFromString(*p.Rating)
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid rating %q", p.SKU, *p.Rating)
		}
		product.Rating = &rating
	}
	if p.Category != "" {
		id, ok := categoryIDs[models.Slugify(p.Category)]
		if !ok {
			return nil, fmt.Errorf("product %s: unknown category %q", p.SKU, p.Category)
		}
		product.CategoryID = &id
	}
	return product, nil
}

func seed(ctx context.Context, repo repository.ProductRepository, f *fixture) (int, int, error) {
	categoryIDs := make(map[string]uint, len(f.Categories))
	for _, c := range f.Categories {
		category := &models.Category{Name: c.Name, Slug: models.Slugify(c.Name), FriendlyName: c.FriendlyName}
		if err := repo.UpsertCategory(ctx, category); err != nil {
			return 0, 0, fmt.Errorf("category %s: %w", c.Name, err)
		}
		categoryIDs[category.Slug] = category.ID
	}

	var count int
	for _, p := range f.Products {
		product, err := p.toProduct(categoryIDs)
		if err != nil {
			return len(categoryIDs), count, err
		}
		if err := repo.UpsertBySKU(ctx, product); err != nil {
			return len(categoryIDs), count, fmt.Errorf("product %s: %w", p.SKU, err)
		}
		count++
	}
	return len(categoryIDs), count, nil
}

func main() {
	var file, dsn string
	flag.StringVar(&file, "file", "tools/seed-catalog/catalog.yaml", "YAML fixture with categories and products")
	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres DSN")
	flag.Parse()

	if dsn == "" {
		log.Fatal("DATABASE_URL must be set or provided via -dsn")
	}

	in, err := os.Open(file)
	if err != nil {
		log.Fatalf("open fixture: %v", err)
	}
	defer in.Close()

	f, err := parseFixture(in)
	if err != nil {
		log.Fatal(err)
	}

	opts := database.DefaultOptions()
	opts.Attempts = 3
	db, err := database.ConnectPostgres(dsn, zap.NewNop(), opts, models.All()...)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer database.Close(db)

	categories, products, err := seed(context.Background(), repository.NewGormProductRepository(db), f)
	if err != nil {
		log.Fatalf("seed failed after %d products: %v", products, err)
	}
	fmt.Printf("Seed complete. categories=%d products=%d\n", categories, products)
}
