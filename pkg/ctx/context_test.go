package ctx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

func TestWrapAndSuccess(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		c.Success(map[string]string{"order": "placed"})
	})

	req := httptest.NewRequest("GET", "/orders", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"].(float64) != 200 {
		t.Errorf("expected status 200 in envelope, got %v", body["status"])
	}
	data := body["data"].(map[string]interface{})
	if data["order"] != "placed" {
		t.Errorf("unexpected data: %v", data)
	}
}

func TestQueryHelpers(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		if got := c.Query("category"); got != "snacks" {
			t.Errorf("Query: got %q", got)
		}
		if got := c.DefaultQuery("missing", "all"); got != "all" {
			t.Errorf("DefaultQuery: got %q", got)
		}
		if got := c.QueryInt("page", 1); got != 3 {
			t.Errorf("QueryInt: got %d", got)
		}
		if got := c.QueryInt("limit", 20); got != 20 {
			t.Errorf("QueryInt default: got %d", got)
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/food-items?category=snacks&page=3", nil)
	handler(httptest.NewRecorder(), req)
}

func TestSetGet(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		c.Set("request_source", "mobile")
		v, ok := c.Get("request_source")
		if !ok || v != "mobile" {
			t.Errorf("Get: got %v, %v", v, ok)
		}
		if _, ok := c.Get("absent"); ok {
			t.Error("expected absent key to miss")
		}
		c.Status(http.StatusNoContent)
	})

	handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestBindJSONValid(t *testing.T) {
	type input struct {
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"required,gt=0"`
	}

	handler := ctx.Wrap(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		c.Created(in)
	})

	req := httptest.NewRequest("POST", "/food-items", strings.NewReader(`{"name":"Masala Dosa","price":60}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBindJSONValidationFailure(t *testing.T) {
	type input struct {
		Name  string  `json:"name" validate:"required"`
		Price float64 `json:"price" validate:"required,gt=0"`
	}

	handler := ctx.Wrap(func(c *ctx.Context) {
		var in input
		if !c.BindJSON(&in) {
			return
		}
		t.Error("handler should not proceed past invalid input")
	})

	req := httptest.NewRequest("POST", "/food-items", strings.NewReader(`{"price":-5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	errs, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected errors map, got %v", body["errors"])
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name error")
	}
}

func TestBindJSONMalformedBody(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		var in struct{}
		if !c.BindJSON(&in) {
			return
		}
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestClientIPForwardedFor(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		c.String(http.StatusOK, "%s", c.ClientIP())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Body.String() != "203.0.113.9" {
		t.Errorf("expected first forwarded hop, got %q", rec.Body.String())
	}
}

func TestNotFoundHelper(t *testing.T) {
	handler := ctx.Wrap(func(c *ctx.Context) {
		c.NotFound("order not found")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/orders/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["message"] != "order not found" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
