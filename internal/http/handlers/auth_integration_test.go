package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/models/dto"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/storage/mongo"
)

// TestAuthIntegration exercises the create/login endpoints against a live MongoDB.
func TestAuthIntegration(t *testing.T) {
	if os.Getenv("RUN_AUTH_INTEGRATION") != "true" {
		t.Skip("set RUN_AUTH_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	uri := mustGetEnv(t, "MONGODB_URI")

	ctx := context.Background()
	store, err := mongo.NewUserStore(ctx, uri, "km_agri_test", "users")
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	defer store.Close()

	secret := mustGetEnv(t, "JWT_SECRET")
	tokens := auth.NewTokenManager(secret, "km-agri-integration", time.Hour)

	r := chi.NewRouter()
	NewUserHandler(store).Register(r)
	NewAuthHandler(store, tokens, auth.NewOTPIssuer(auth.DefaultOTPTTL, nil), notify.LogPublisher{}, false).Register(r)

	ts := httptest.NewServer(r)
	defer ts.Close()

	phone := fmt.Sprintf("7%09d", time.Now().UnixNano()%1_000_000_000)
	password := fmt.Sprintf("Pass!%d", time.Now().UnixNano())

	userID := requestCreate(t, ts.URL, map[string]string{
		"name":     "Integration Farmer",
		"phone":    phone,
		"password": password,
	})
	defer func() {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/users/"+userID+"?permanent=true", nil)
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}()

	loggedIn := requestLogin(t, ts.URL, phone, password)
	if loggedIn.User.ID.Hex() != userID {
		t.Fatalf("login returned wrong user id: want %s got %s", userID, loggedIn.User.ID.Hex())
	}
	if strings.TrimSpace(loggedIn.Token) == "" {
		t.Fatal("login response missing token")
	}

	t.Logf("created user %s (id=%s) and successfully logged in via /auth/login", phone, userID)
}

func requestCreate(t *testing.T, baseURL string, payload map[string]string) string {
	t.Helper()
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	post(t, baseURL+"/users", payload, http.StatusCreated, &out)
	return out.Data.ID
}

func requestLogin(t *testing.T, baseURL, phone, password string) dto.AuthResponse {
	t.Helper()
	var out struct {
		Data dto.AuthResponse `json:"data"`
	}
	post(t, baseURL+"/auth/login", map[string]string{"phone": phone, "password": password}, http.StatusOK, &out)
	return out.Data
}

func post(t *testing.T, url string, payload any, wantStatus int, out any) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s status = %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func mustGetEnv(t *testing.T, key string) string {
	t.Helper()
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		t.Fatalf("%s is required", key)
	}
	return val
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
