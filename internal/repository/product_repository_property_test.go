package repository

import (
	"context"
	"fmt"
	"testing"

	"shopline/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: creating and retrieving a product preserves its attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	cleanTables(t)

	productRepo := NewProductRepository(testDB)
	catID := createTestCategory(t, "Property Test Category", nil)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, price float64, stock int) bool {
			ctx := context.Background()

			id, err := productRepo.Create(ctx, &domain.Product{
				Name:          name,
				Description:   &description,
				Price:         price,
				StockQuantity: stock,
				CategoryID:    catID,
			})
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := productRepo.FindByID(ctx, id)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != name {
				t.Logf("FAIL: Name mismatch. Expected %s, got %s", name, retrieved.Name)
				return false
			}

			if retrieved.Description == nil || *retrieved.Description != description {
				t.Logf("FAIL: Description mismatch. Expected %s, got %v", description, retrieved.Description)
				return false
			}

			// Compare prices with small tolerance for floating point
			if retrieved.Price < price-0.01 || retrieved.Price > price+0.01 {
				t.Logf("FAIL: Price mismatch. Expected %f, got %f", price, retrieved.Price)
				return false
			}

			if retrieved.StockQuantity != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %d", stock, retrieved.StockQuantity)
				return false
			}

			if retrieved.CategoryID != catID {
				t.Logf("FAIL: CategoryID mismatch. Expected %d, got %d", catID, retrieved.CategoryID)
				return false
			}

			if retrieved.CreatedAt.IsZero() {
				t.Logf("FAIL: CreatedAt is zero")
				return false
			}

			// Cleanup
			_ = productRepo.Delete(ctx, id)

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),       // name
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`), // description
		gen.Float64Range(0.01, 9999.99),            // price (positive values)
		gen.IntRange(0, 1000),                      // stock (non-negative)
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: deleting a product makes it not retrievable
func TestProperty_ProductDeletionRemovesFromCatalog(t *testing.T) {
	cleanTables(t)

	productRepo := NewProductRepository(testDB)
	catID := createTestCategory(t, "Property Test Category", nil)

	properties := gopter.NewProperties(nil)

	properties.Property("deleting a product makes it not retrievable", prop.ForAll(
		func(name string, price float64) bool {
			ctx := context.Background()

			id, err := productRepo.Create(ctx, &domain.Product{
				Name:       name,
				Price:      price,
				CategoryID: catID,
			})
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			if _, err := productRepo.FindByID(ctx, id); err != nil {
				t.Logf("FAIL: Product should exist before deletion: %v", err)
				return false
			}

			if err := productRepo.Delete(ctx, id); err != nil {
				t.Logf("FAIL: Failed to delete product: %v", err)
				return false
			}

			if _, err := productRepo.FindByID(ctx, id); err != ErrProductNotFound {
				t.Logf("FAIL: Expected ErrProductNotFound after deletion, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`), // name
		gen.Float64Range(0.01, 9999.99),      // price
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a search keyword matches the same rows regardless of case
func TestProperty_ProductSearchIsCaseInsensitive(t *testing.T) {
	cleanTables(t)

	productRepo := NewProductRepository(testDB)
	catID := createTestCategory(t, "Property Test Category", nil)

	seed := 0
	properties := gopter.NewProperties(nil)

	properties.Property("search results do not depend on keyword case", prop.ForAll(
		func(keyword string) bool {
			ctx := context.Background()

			seed++
			_, err := productRepo.Create(ctx, &domain.Product{
				Name:       fmt.Sprintf("%s widget %d", keyword, seed),
				Price:      1.00,
				CategoryID: catID,
			})
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			lower, err := productRepo.Search(ctx, keyword)
			if err != nil {
				t.Logf("FAIL: Search failed: %v", err)
				return false
			}

			upper, err := productRepo.Search(ctx, toUpperASCII(keyword))
			if err != nil {
				t.Logf("FAIL: Search failed: %v", err)
				return false
			}

			if len(lower) != len(upper) || len(lower) == 0 {
				t.Logf("FAIL: Result count differs by case. lower=%d upper=%d", len(lower), len(upper))
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{4,12}`), // keyword
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
