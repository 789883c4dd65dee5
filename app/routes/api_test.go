package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/campuseats/app/models"
	"github.com/shashiranjanraj/campuseats/app/routes"
	"github.com/shashiranjanraj/campuseats/pkg/database"
	"github.com/shashiranjanraj/campuseats/pkg/router"
	"github.com/shashiranjanraj/campuseats/pkg/session"
)

// newTestServer boots a fresh database and serves the full route table.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.Order{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.PaymentIntent{},
	))
	database.DB = db

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	routes.RegisterAPI(r, routes.Deps{})

	ts := httptest.NewServer(r.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestRegisterRejectsForeignDomain(t *testing.T) {
	ts, client := newTestServer(t)

	resp := postJSON(t, client, ts.URL+"/api/auth/register", map[string]string{
		"name":     "Outsider",
		"email":    "someone@gmail.com",
		"password": "secret123",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterLoginSession(t *testing.T) {
	ts, client := newTestServer(t)

	resp := postJSON(t, client, ts.URL+"/api/auth/register", map[string]string{
		"name":      "Asha",
		"email":     "asha@mlrit.ac.in",
		"password":  "secret123",
		"user_type": "student",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The register response set a session cookie; the account is usable
	// immediately.
	resp, err := client.Get(ts.URL + "/api/auth/user")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "asha@mlrit.ac.in", data["email"])

	// Logout destroys the session.
	resp = postJSON(t, client, ts.URL+"/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = client.Get(ts.URL + "/api/auth/user")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesNeedAuth(t *testing.T) {
	ts, client := newTestServer(t)

	resp, err := client.Get(ts.URL + "/api/orders")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Catalog reads are public.
	resp, err = client.Get(ts.URL + "/api/food-items")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	ts, client := newTestServer(t)

	resp := postJSON(t, client, ts.URL+"/api/auth/register", map[string]string{
		"name":     "Asha",
		"email":    "asha@mlrit.ac.in",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := client.Get(ts.URL + "/api/admin/orders")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Role changes apply on the next request: principals are loaded fresh.
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("email = ?", "asha@mlrit.ac.in").
		Update("role", "admin").Error)

	resp, err = client.Get(ts.URL + "/api/admin/orders")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	ts, client := newTestServer(t)

	resp := postJSON(t, client, ts.URL+"/api/auth/register", map[string]string{
		"name":     "Asha",
		"email":    "asha@mlrit.ac.in",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, ts.URL+"/api/auth/login", map[string]string{
		"email":    "asha@mlrit.ac.in",
		"password": "wrong-password",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
