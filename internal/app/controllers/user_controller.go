package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/services"
	"github.com/anandps/schooldesk/internal/middleware"
)

// UserController handles identity management operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// ListUsers lists every identity
// @Summary List users
// @Description Returns every user account. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse "Users"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /add-users/ [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	users, err := c.userService.ListUsers(ctx, caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.UserListResponse{Users: users})
}

// CreateUser creates a new identity
// @Summary Create a user
// @Description Creates a user account, optionally with an embedded student profile. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "User information"
// @Success 201 {object} dto.UserResponse "Created user"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /add-users/ [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.CreateUser(ctx, caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// GetUser retrieves a single identity
// @Summary Get a user
// @Description Returns a single user account by id. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse "User"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /delete-users/{id}/ [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	user, err := c.userService.GetUser(ctx, caller, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial update to an identity
// @Summary Update a user
// @Description Applies a partial update to a user account. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse "Updated user"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /delete-users/{id}/ [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateUser(ctx, caller, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// DeleteUser removes an identity with two-step confirmation
// @Summary Delete a user
// @Description Deletes a user account. Without confirm=true it returns a confirmation prompt and changes nothing. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param confirm query bool false "Set to true to confirm the delete"
// @Success 200 {object} dto.ConfirmPrompt "Confirmation prompt"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /delete-users/{id}/ [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if !deleteConfirmed(ctx) {
		username, err := c.userService.PrepareDelete(ctx, caller, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		writeConfirmPrompt(ctx, fmt.Sprintf("Are you sure you want to delete the user %q?", username))
		return
	}

	if err := c.userService.DeleteUser(ctx, caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
