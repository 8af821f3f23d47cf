package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/review-api/internal/core/domain"
	"github.com/yamdb/review-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users ordered by username.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Username substring"
// @Param        page    query     int     false  "Page number"  default(1)
// @Param        limit   query     int     false  "Page size"    default(10)
// @Success      200     {object}  listResponse[userResponse]
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.userService.List(c.Request().Context(), actor(c), ports.UserFilter{
		Search:      c.QueryParam("search"),
		PageRequest: page,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result, toUserResponse))
}

// Create adds a user on behalf of an administrator.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Create(c.Request().Context(), actor(c), toUserInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get returns a user by username.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  userResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), actor(c), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Update partially updates a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string             true  "Username"
// @Param        body      body      updateUserRequest  true  "Fields to change"
// @Success      200       {object}  userResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      403       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /users/{username} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.Update(c.Request().Context(), actor(c), c.Param("username"), toUserPatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user together with their reviews and comments.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userService.Delete(c.Request().Context(), actor(c), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's own account.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.userService.Me(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateMe partially updates the caller's own account. The role field is
// ignored.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("", "invalid payload")
	}
	req.Role = nil
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userService.UpdateMe(c.Request().Context(), actor(c), toUserPatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteMe is always rejected with 405.
//
// @Summary      Delete current user
// @Tags         users
// @Security     BearerAuth
// @Failure      405  {object}  ErrorResponse
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(c echo.Context) error {
	return h.userService.DeleteMe(c.Request().Context(), actor(c))
}

// MethodNotAllowed answers verbs a resource exists for but does not support.
func MethodNotAllowed(echo.Context) error {
	return domain.ErrMethodNotAllowed
}
