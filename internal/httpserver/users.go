package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	identitysvc "toystore/internal/service/identity"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) register(c *gin.Context) {
	var in identitysvc.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := a.deps.IdentitySvc.Register(c.Request.Context(), in)
	if err != nil {
		a.fail(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, u.SessionRecord())
}

func (a *api) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := a.deps.IdentitySvc.Login(c.Request.Context(), sessionFrom(c).ID, req.Email, req.Password)
	if err != nil {
		a.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *api) logout(c *gin.Context) {
	if err := a.deps.IdentitySvc.Logout(c.Request.Context(), sessionFrom(c).ID); err != nil {
		a.fail(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) me(c *gin.Context) {
	u, err := a.deps.IdentitySvc.Profile(c.Request.Context(), sessionFrom(c))
	if err != nil {
		a.fail(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, u.SessionRecord())
}

func (a *api) updateMe(c *gin.Context) {
	var in identitysvc.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := a.deps.IdentitySvc.UpdateProfile(c.Request.Context(), sessionFrom(c), in)
	if err != nil {
		a.fail(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, u.SessionRecord())
}
