package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/auth"
	api "stockroom/internal/http"
	handler "stockroom/internal/http/handlers"
	rl "stockroom/internal/http/rate_limiter"
	"stockroom/internal/inventory"
	"stockroom/internal/models"
	"stockroom/internal/repo"
)

var (
	router      http.Handler
	token       string
	productRepo *repo.InMemoryProductRepository
	ledgerRepo  *repo.InMemoryTransactionRepository
	userRepo    *repo.InMemoryUserRepository
)

func init() {
	auth.SetSecret("test-secret")
	setupTestRepos("secret")

	var err error
	token, err = generateToken("admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	productRepo = repo.NewInMemoryProductRepository()
	ledgerRepo = repo.NewInMemoryTransactionRepository(productRepo)
	userRepo = repo.NewInMemoryUserRepository()
	metricsRepo := repo.NewInMemoryMetricsRepository(productRepo, ledgerRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	inv := inventory.NewService(productRepo, ledgerRepo, nil)
	srv := handler.NewServer(productRepo, ledgerRepo, userRepo, metricsRepo, inv)
	router = api.NewRouter(srv)
}

func clearAllProducts() {
	productRepo.Clear()
	ledgerRepo.Clear()
}

// resetRateLimiter forgets all visitors so tests hammering /login and
// /register do not trip the per-IP limiter. httptest requests all share the
// same RemoteAddr.
func resetRateLimiter() {
	rl.CleanupAllVisitors()
}

func generateToken(username, password string) (string, error) {
	resetRateLimiter()
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

// doRequest sends an authenticated JSON request through the router.
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

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importCSV(csvContent, mode string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "products.csv")

	path := "/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func itoa(v int) string { return strconv.Itoa(v) }
