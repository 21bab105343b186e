// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "bmeh/internal/delivery/context"
	"bmeh/internal/delivery/http/response"
	"bmeh/internal/delivery/http/validator"
	"bmeh/internal/domain/entity"
	"bmeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userRequestBody is the JSON body of create and update calls.
type userRequestBody struct {
	Login    string       `json:"login" validate:"max=100"`
	Email    string       `json:"email" validate:"blankoremail,max=255"`
	Password string       `json:"password" validate:"maxbytes=72"`
	CPF      string       `json:"cpf" validate:"max=14"`
	Phone    string       `json:"phone" validate:"max=30"`
	Address  *addressBody `json:"address"`
}

type addressBody struct {
	Street     string `json:"street" validate:"max=255"`
	Number     string `json:"number" validate:"max=20"`
	Complement string `json:"complement" validate:"max=255"`
	District   string `json:"district" validate:"max=100"`
	City       string `json:"city" validate:"max=100"`
	State      string `json:"state" validate:"max=50"`
	ZipCode    string `json:"zipCode" validate:"max=20"`
}

func (b *userRequestBody) toUsecase() *usecase.UserRequest {
	req := &usecase.UserRequest{
		Login:    b.Login,
		Email:    b.Email,
		Password: b.Password,
		CPF:      b.CPF,
		Phone:    b.Phone,
	}
	if b.Address != nil {
		req.Address = &entity.Address{
			Street:     b.Address.Street,
			Number:     b.Address.Number,
			Complement: b.Address.Complement,
			District:   b.Address.District,
			City:       b.Address.City,
			State:      b.Address.State,
			ZipCode:    b.Address.ZipCode,
		}
	}

	return req
}

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	UserUsecase usecase.UserUsecase
	Logger      *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{
		uc:     params.UserUsecase,
		logger: params.Logger,
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "Users retrieved successfully")
}

// GetUser handles GET /users/:id.
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user id", c.Param("id"))
	}

	user, err := h.uc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "User retrieved successfully")
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(c echo.Context) error {
	body, ok, err := h.bindBody(c)
	if !ok {
		return err
	}

	user, err := h.uc.CreateUser(c.Request().Context(), body.toUsecase())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "User created successfully")
}

// UpdateUser handles PUT /users/:id.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user id", c.Param("id"))
	}

	body, ok, err := h.bindBody(c)
	if !ok {
		return err
	}

	user, err := h.uc.UpdateUser(c.Request().Context(), userID, body.toUsecase())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "User updated successfully")
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user id", c.Param("id"))
	}

	if err := h.uc.DeleteUser(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.NoContent(c)
}

// bindBody binds and validates the request body. When ok is false the response has been written
// and err is the result of writing it.
func (h *UserHandler) bindBody(c echo.Context) (body *userRequestBody, ok bool, err error) {
	body = &userRequestBody{}
	if bindErr := c.Bind(body); bindErr != nil {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).
			Debug("Failed to bind user body", slog.Any("error", bindErr))

		return nil, false, response.BindingError(c, "INVALID_INPUT", "Invalid user input")
	}

	if validateErr := c.Validate(body); validateErr != nil {
		return nil, false, response.BadRequest(c, "INVALID_INPUT", "Invalid user input", validator.Describe(validateErr))
	}

	return body, true, nil
}

func parseUserID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// HealthCheck handles GET /health.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
