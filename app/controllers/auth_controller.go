package controllers

import (
	"github.com/shashiranjanraj/campuseats/app/resources"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
	"github.com/shashiranjanraj/campuseats/pkg/logger"
	"github.com/shashiranjanraj/campuseats/pkg/session"
)

// AuthController handles registration, login and the session lifecycle.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates an account and logs the new user in.
func (ac *AuthController) Register(c *ctx.Context) {
	var input services.RegisterInput
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.service.Register(input)
	if err != nil {
		respondErr(c, err)
		return
	}

	sess := session.FromCtx(c.R)
	sess.Set("user_id", user.ID)
	if err := sess.Save(c.W); err != nil {
		logger.Error("auth: save session", "error", err)
	}

	c.Created(resources.UserMap(user))
}

// Login verifies credentials and establishes a session. The response
// also carries a bearer token for cookieless clients.
func (ac *AuthController) Login(c *ctx.Context) {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.service.Login(input.Email, input.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	sess := session.FromCtx(c.R)
	sess.Set("user_id", user.ID)
	if err := sess.Save(c.W); err != nil {
		logger.Error("auth: save session", "error", err)
	}

	token, err := ac.service.Token(user)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Success(map[string]interface{}{
		"user":  resources.UserMap(user),
		"token": token,
	})
}

// Logout destroys the session server-side and expires the cookie.
func (ac *AuthController) Logout(c *ctx.Context) {
	sess := session.FromCtx(c.R)
	if err := sess.Destroy(c.W); err != nil {
		logger.Error("auth: destroy session", "error", err)
	}
	c.Message("Logged out")
}

// CurrentUser returns the authenticated principal's profile.
func (ac *AuthController) CurrentUser(c *ctx.Context) {
	user, ok := ac.service.Lookup(c.UserID())
	if !ok {
		c.Unauthorized()
		return
	}
	c.Success(resources.UserMap(user))
}

// UpdateProfile edits delivery details and the display name.
func (ac *AuthController) UpdateProfile(c *ctx.Context) {
	var input services.ProfileInput
	if !c.BindJSON(&input) {
		return
	}

	user, err := ac.service.UpdateProfile(c.UserID(), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(resources.UserMap(user))
}
