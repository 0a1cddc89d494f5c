package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/controllers"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/middleware"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSessionID = "6f1c2a4e-8a5b-4c3d-9e7f-0a1b2c3d4e5f"

var (
	shopper = &models.User{ID: "u-1", Email: "ann@example.com", FullName: "Ann Reader"}
	owner   = &models.User{ID: "u-9", Email: "owner@example.com", FullName: "Shop Owner", IsStaff: true}
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := controllers.RegisterValidators(); err != nil {
		panic(err)
	}
}

// newRouter returns an engine that runs as user (nil for anonymous).
func newRouter(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserContextKey, user)
		}
		c.Next()
	})
	return r
}

func perform(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "sessionid", Value: testSessionID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func httptestServe(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
