package controllers

import (
	"net/http"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/dtos"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// POST /signup
func (c *UserController) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	user, err := c.userService.Signup(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// POST /login
func (c *UserController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := utils.DecodeJSONBody(r, &req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	resp, err := c.userService.Login(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
