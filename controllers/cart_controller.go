package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/cart"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/services"
	"github.com/JayaSurya-Dev/hand-crafted-paper-e-commerce/session"
	"github.com/gin-gonic/gin"
)

// CartController exposes the session cart.
type CartController struct {
	cart services.CartService
}

func NewCartController(cart services.CartService) *CartController {
	return &CartController{cart: cart}
}

// cartItemRequest accepts the quantity as a JSON number or a quoted string.
type cartItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
	Size     string          `json:"size"`
}

// bind reads the body and, when parse is set, the quantity with it.
func (cc *CartController) bind(c *gin.Context, parse func(string) (int, error)) (*cartItemRequest, int, bool) {
	var req cartItemRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return nil, 0, false
		}
	}
	if parse == nil {
		return &req, 0, true
	}
	qty, err := parse(string(req.Quantity))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a digit."})
		return nil, 0, false
	}
	return &req, qty, true
}

// ViewCart handles GET /cart.
func (cc *CartController) ViewCart(c *gin.Context) {
	summary, svcErr := cc.cart.View(c.Request.Context(), session.ID(c))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// AddToCart handles POST /cart/add/:id.
func (cc *CartController) AddToCart(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	req, qty, ok := cc.bind(c, cart.ParseQuantity)
	if !ok {
		return
	}

	res, svcErr := cc.cart.Add(c.Request.Context(), session.ID(c), id, qty, req.Size)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdjustCart handles POST /cart/adjust/:id. A quantity of 0 or less removes the line.
func (cc *CartController) AdjustCart(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	req, qty, ok := cc.bind(c, cart.ParseAdjustQuantity)
	if !ok {
		return
	}

	res, svcErr := cc.cart.Adjust(c.Request.Context(), session.ID(c), id, qty, req.Size)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RemoveFromCart handles POST /cart/remove/:id.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	id, ok := uintParam(c, "id", "product")
	if !ok {
		return
	}
	req, _, ok := cc.bind(c, nil)
	if !ok {
		return
	}

	res, svcErr := cc.cart.Remove(c.Request.Context(), session.ID(c), id, req.Size)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, res)
}
