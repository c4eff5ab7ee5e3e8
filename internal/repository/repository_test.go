package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"shopline/internal/domain"

	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Build the schema with the real migrations
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

// cleanTables removes all rows between tests, children first
func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"order_items", "orders", "products", "categories", "users"} {
		if _, err := testDB.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("failed to clean table %s: %v", table, err)
		}
	}
}

func createTestUser(t *testing.T, username, email string) int64 {
	t.Helper()
	id, err := NewUserRepository(testDB).Create(context.Background(), &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return id
}

func createTestCategory(t *testing.T, name string, parentID *int64) int64 {
	t.Helper()
	id, err := NewCategoryRepository(testDB).Create(context.Background(), &domain.Category{
		Name:     name,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return id
}

func createTestProduct(t *testing.T, name string, price float64, categoryID int64, description *string) int64 {
	t.Helper()
	id, err := NewProductRepository(testDB).Create(context.Background(), &domain.Product{
		Name:          name,
		Price:         price,
		StockQuantity: 10,
		CategoryID:    categoryID,
		Description:   description,
	})
	if err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return id
}
