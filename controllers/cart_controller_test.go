package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/controllers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupCartRouter(svc services.CartService) *gin.Engine {
	r := newRouter(nil)
	r.Use(session.Middleware(session.CookieOptions{Name: "sessionid", TTL: time.Hour}))
	cc := controllers.NewCartController(svc)
	r.GET("/cart", cc.ViewCart)
	r.POST("/cart/add/:id", cc.AddToCart)
	r.POST("/cart/adjust/:id", cc.AdjustCart)
	r.POST("/cart/remove/:id", cc.RemoveFromCart)
	return r
}

func TestCartController_ViewCart(t *testing.T) {
	svc := &mockCartService{
		viewFn: func(_ context.Context, sessionID string) (*cart.Summary, *services.ServiceError) {
			assert.Equal(t, testSessionID, sessionID)
			return &cart.Summary{ProductCount: 2, GrandTotal: decimal.RequireFromString("27.50")}, nil
		},
	}
	w := perform(setupCartRouter(svc), http.MethodGet, "/cart", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	summary := body["cart"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["product_count"])
	assert.Equal(t, "27.5", summary["grand_total"])
}

func TestCartController_AddToCart(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantQty  int
		wantSize string
	}{
		{"numeric quantity", "/cart/add/1", `{"quantity":2}`, http.StatusOK, 2, ""},
		{"quoted quantity with size", "/cart/add/1", `{"quantity":"3","size":"a5"}`, http.StatusOK, 3, "a5"},
		{"non digit quantity", "/cart/add/1", `{"quantity":"two"}`, http.StatusBadRequest, 0, ""},
		{"negative quantity", "/cart/add/1", `{"quantity":-1}`, http.StatusBadRequest, 0, ""},
		{"quantity above cap", "/cart/add/1", `{"quantity":"9223372036854775807"}`, http.StatusBadRequest, 0, ""},
		{"missing quantity", "/cart/add/1", "", http.StatusBadRequest, 0, ""},
		{"bad product id", "/cart/add/abc", `{"quantity":1}`, http.StatusBadRequest, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockCartService{
				addFn: func(_ context.Context, _ string, id uint, qty int, size string) (*services.CartResult, *services.ServiceError) {
					called = true
					assert.Equal(t, uint(1), id)
					assert.Equal(t, tt.wantQty, qty)
					assert.Equal(t, tt.wantSize, size)
					return &services.CartResult{Message: "Added Marbled notebook to your cart", Count: qty}, nil
				},
			}
			w := perform(setupCartRouter(svc), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
		})
	}
}

func TestCartController_AddToCart_QuantityMessage(t *testing.T) {
	w := perform(setupCartRouter(&mockCartService{}), http.MethodPost, "/cart/add/1", `{"quantity":"1.5"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quantity must be a digit.", decode(t, w)["error"])
}

func TestCartController_AdjustCart_ServiceError(t *testing.T) {
	svc := &mockCartService{
		adjustFn: func(context.Context, string, uint, int, string) (*services.CartResult, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Product not found"}
		},
	}
	w := perform(setupCartRouter(svc), http.MethodPost, "/cart/adjust/5", `{"quantity":0}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decode(t, w)["error"])
}

func TestCartController_AdjustCart_Quantity(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantQty  int
	}{
		{"positive", `{"quantity":4}`, http.StatusOK, 4},
		{"zero removes", `{"quantity":"0"}`, http.StatusOK, 0},
		{"negative removes", `{"quantity":-2}`, http.StatusOK, 0},
		{"quoted negative removes", `{"quantity":"-1","size":"a4"}`, http.StatusOK, 0},
		{"above cap", `{"quantity":100}`, http.StatusBadRequest, 0},
		{"fractional", `{"quantity":"-1.5"}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockCartService{
				adjustFn: func(_ context.Context, _ string, id uint, qty int, _ string) (*services.CartResult, *services.ServiceError) {
					called = true
					assert.Equal(t, uint(2), id)
					assert.Equal(t, tt.wantQty, qty)
					return &services.CartResult{Message: "Removed Marbled notebook from your cart"}, nil
				},
			}
			w := perform(setupCartRouter(svc), http.MethodPost, "/cart/adjust/2", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, called)
		})
	}
}

func TestCartController_RemoveFromCart_NoBody(t *testing.T) {
	svc := &mockCartService{
		removeFn: func(_ context.Context, _ string, id uint, size string) (*services.CartResult, *services.ServiceError) {
			assert.Equal(t, uint(4), id)
			assert.Empty(t, size)
			return &services.CartResult{Message: "Removed Pressed petal card from your cart"}, nil
		},
	}
	w := perform(setupCartRouter(svc), http.MethodPost, "/cart/remove/4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Removed Pressed petal card from your cart", decode(t, w)["message"])
}
