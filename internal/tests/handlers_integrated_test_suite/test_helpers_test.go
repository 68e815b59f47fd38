// Package handlers_integrated_test_suite runs the HTTP handlers against a
// real Postgres instance. The whole suite is skipped unless DATABASE_URL is
// set, so the in-memory suite stays the default in CI.
package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/auth"
	"stockroom/internal/db"
	api "stockroom/internal/http"
	handler "stockroom/internal/http/handlers"
	rl "stockroom/internal/http/rate_limiter"
	"stockroom/internal/inventory"
	"stockroom/internal/models"
	"stockroom/internal/repo"
)

var (
	router   http.Handler
	token    string
	userRepo *repo.PostgresUserRepository
	database *sql.DB
)

func TestMain(m *testing.M) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("DATABASE_URL not set; skipping integrated handler tests")
		os.Exit(0)
	}

	auth.SetSecret("test-secret")
	setupTestRepos(dbURL, "secret")

	var err error
	token, err = generateToken("admin", "secret")
	if err != nil {
		log.Fatalf("error generating token: %v", err)
	}

	os.Exit(m.Run())
}

func setupTestRepos(dbURL, password string) {
	var err error
	database, err = db.Connect(dbURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}

	productRepo := repo.NewPostgresProductRepository(database)
	ledgerRepo := repo.NewPostgresTransactionRepository(database)
	userRepo = repo.NewPostgresUserRepository(database)
	metricsRepo := repo.NewPostgresMetricsRepository(database)

	createAdminIfNotExists(password)

	inv := inventory.NewService(productRepo, ledgerRepo, nil)
	srv := handler.NewServer(productRepo, ledgerRepo, userRepo, metricsRepo, inv)
	router = api.NewRouter(srv)
}

func createAdminIfNotExists(password string) {
	exists, err := userExists("admin")
	if err != nil {
		fmt.Println("error checking if admin exists", err)
	}

	if !exists {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		userRepo.CreateUser(models.User{
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         "admin",
		})
	}
}

func userExists(username string) (bool, error) {
	const query = `SELECT COUNT(*) FROM users WHERE username = $1`

	var count int
	err := database.QueryRow(query, username).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query failed: %w", err)
	}
	return count > 0, nil
}

func generateToken(username, password string) (string, error) {
	rl.CleanupAllVisitors()
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func clearAllProducts() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "TRUNCATE TABLE products RESTART IDENTITY CASCADE")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate products table: %w", err))
	}
	_, err = database.ExecContext(ctx, "TRUNCATE TABLE transactions RESTART IDENTITY")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate transactions table: %w", err))
	}
}

func clearAllUsersExceptAdmin() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, "DELETE FROM users WHERE username <> 'admin'")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to delete users: %w", err))
	}
}

func doRequest(method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createProduct(p handler.ProductRequest) *httptest.ResponseRecorder {
	return doRequest(http.MethodPost, "/products", p)
}

func applyTransaction(t handler.TransactionRequest) *httptest.ResponseRecorder {
	return doRequest(http.MethodPost, "/transactions", t)
}

func intPtr(v int) *int { return &v }
