package routes_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/controllers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/routes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// The guards reject these requests before any service is reached, so the
// controllers can be built without one.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r := gin.New()
	err := routes.RegisterRoutes(r, routes.Controllers{
		Product:    controllers.NewProductController(nil),
		Cart:       controllers.NewCartController(nil),
		Checkout:   controllers.NewCheckoutController(nil),
		Profile:    controllers.NewProfileController(nil),
		Blog:       controllers.NewBlogController(nil),
		Home:       controllers.NewHomeController(nil),
		Newsletter: controllers.NewNewsletterController(nil),
		Media:      controllers.NewMediaController(nil),
	}, middleware.NewRateLimiter(60, 5, time.Minute))
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		method   string
		path     string
		wantCode int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
		{http.MethodPost, "/products", http.StatusUnauthorized},
		{http.MethodPut, "/products/1", http.StatusUnauthorized},
		{http.MethodPost, "/products/1/reviews", http.StatusUnauthorized},
		{http.MethodGet, "/profile", http.StatusUnauthorized},
		{http.MethodPost, "/profile/wishlist/1", http.StatusUnauthorized},
		{http.MethodPost, "/blog", http.StatusUnauthorized},
		{http.MethodPost, "/media/presign", http.StatusUnauthorized},
		{http.MethodPost, "/cart/add/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, serve(r, tt.method, tt.path).Code)
		})
	}
}
