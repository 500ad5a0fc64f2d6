package httpapi

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"authgate/internal/auth/adapters/httpapi/dto"
	"authgate/internal/auth/adapters/httpapi/middleware"
	"authgate/internal/auth/domain/entities"
	"authgate/internal/auth/ports/api"
	"authgate/internal/auth/ports/repositories"
	"authgate/pkg/logger"
)

// Константы для логирования.
const (
	LogHandlerGetProfile    = "user handler: get profile"
	LogHandlerUpdateProfile = "user handler: update profile"
	LogHandlerListUsers     = "user handler: list users"
	LogHandlerChangeRole    = "user handler: change role"
	LogHandlerSetStatus     = "user handler: set status"
	LogHandlerDeleteUser    = "user handler: delete user"
)

// Сообщения успешных ответов.
const (
	MsgProfile        = "profile retrieved"
	MsgProfileUpdated = "profile updated"
	MsgUsersListed    = "users retrieved"
	MsgRoleChanged    = "role updated"
	MsgStatusChanged  = "status updated"
	MsgUserDeleted    = "user deleted"
)

// UserHandler содержит HTTP обработчики профиля и административных операций.
type UserHandler struct {
	users api.UserUseCase
}

// NewUserHandler создает новый экземпляр пользовательского обработчика.
func NewUserHandler(users api.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile возвращает профиль аутентифицированного пользователя.
func (h *UserHandler) GetProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerGetProfile)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	user, err := h.users.GetProfile(requestCtx, userID)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgProfile, dto.NewUserResponse(user))
}

// UpdateProfile изменяет имя и email аутентифицированного пользователя.
func (h *UserHandler) UpdateProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerUpdateProfile)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	var req dto.UpdateProfileRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	user, err := h.users.UpdateProfile(requestCtx, userID, req.Name, req.Email)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgProfileUpdated, dto.NewUserResponse(user))
}

// ListUsers возвращает страницу пользователей по фильтрам запроса.
func (h *UserHandler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerListUsers)

	filter := repositories.ListFilter{
		Page:  fiber.Query(ctx, "page", 1),
		Limit: fiber.Query(ctx, "limit", 10),
	}

	if roleParam := ctx.Query("role"); roleParam != "" {
		role, err := entities.ParseRole(roleParam)
		if err != nil {
			return respondError(ctx, err)
		}
		filter.Role = &role
	}

	if activeParam := ctx.Query("isActive"); activeParam != "" {
		active := activeParam == "true"
		filter.IsActive = &active
	}

	page, err := h.users.ListUsers(requestCtx, filter)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgUsersListed, dto.NewUserPageResponse(page))
}

// ChangeRole изменяет роль пользователя по запросу администратора.
func (h *UserHandler) ChangeRole(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerChangeRole)

	actorID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	var req dto.ChangeRoleRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	user, err := h.users.ChangeRole(requestCtx, actorID, ctx.Params("id"), entities.Role(req.Role))
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgRoleChanged, dto.NewUserResponse(user))
}

// SetStatus активирует или деактивирует учетную запись.
func (h *UserHandler) SetStatus(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerSetStatus)

	actorID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	var req dto.SetStatusRequest
	if ok, err := bindAndValidate(ctx, &req); !ok {
		return err
	}

	user, err := h.users.SetStatus(requestCtx, actorID, ctx.Params("id"), *req.Active)
	if err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgStatusChanged, dto.NewUserResponse(user))
}

// DeleteUser помечает учетную запись удаленной.
func (h *UserHandler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Info(requestCtx, LogHandlerDeleteUser)

	actorID, ok := middleware.UserID(ctx)
	if !ok {
		return respondFail(ctx, fiber.StatusUnauthorized, middleware.ErrorInvalidToken, nil)
	}

	if err := h.users.DeleteUser(requestCtx, actorID, ctx.Params("id")); err != nil {
		log.Error(requestCtx, ErrorFailedToServeRequest, zap.Error(err))
		return respondError(ctx, err)
	}

	return respondSuccess(ctx, fiber.StatusOK, MsgUserDeleted, nil)
}
