package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"toystore/internal/domain"
	cartsvc "toystore/internal/service/cart"
)

const itemNotFound = "item not in cart"

type quantityRequest struct {
	Delta int `json:"delta"`
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func toyIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("toyId"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid toy id")
		return 0, false
	}
	return id, true
}

func (a *api) respondCart(c *gin.Context, status int) {
	sum, err := a.deps.CartSvc.Summary(c.Request.Context(), sessionFrom(c))
	if err != nil {
		a.fail(c, err, itemNotFound)
		return
	}
	c.JSON(status, sum)
}

func (a *api) respondItems(c *gin.Context, items []domain.CartItem, err error) {
	if err != nil {
		a.fail(c, err, itemNotFound)
		return
	}
	c.JSON(http.StatusOK, cartsvc.Summarize(items))
}

func (a *api) getCart(c *gin.Context) {
	a.respondCart(c, http.StatusOK)
}

func (a *api) changeQuantity(c *gin.Context) {
	toyID, ok := toyIDParam(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	items, err := a.deps.CartSvc.ChangeQuantity(c.Request.Context(), sessionFrom(c), toyID, req.Delta)
	a.respondItems(c, items, err)
}

func (a *api) setStatus(c *gin.Context) {
	toyID, ok := toyIDParam(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	items, err := a.deps.CartSvc.SetStatus(c.Request.Context(), sessionFrom(c), toyID, req.Status)
	a.respondItems(c, items, err)
}

func (a *api) submitReview(c *gin.Context) {
	toyID, ok := toyIDParam(c)
	if !ok {
		return
	}
	var req cartsvc.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	items, err := a.deps.CartSvc.SubmitReview(c.Request.Context(), sessionFrom(c), toyID, req)
	a.respondItems(c, items, err)
}

func (a *api) removeItem(c *gin.Context) {
	toyID, ok := toyIDParam(c)
	if !ok {
		return
	}
	items, err := a.deps.CartSvc.RemoveItem(c.Request.Context(), sessionFrom(c), toyID)
	a.respondItems(c, items, err)
}
