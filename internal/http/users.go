package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adboard/internal/domain"
	"adboard/internal/service"
)

type UserResponse struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.UserRole `json:"role"`
	Age       *int            `json:"age"`
	TotalAds  int             `json:"total_ads"`
}

type UserDetailResponse struct {
	UserResponse
	Locations []string `json:"locations"`
}

type createUserRequest struct {
	Username  string   `json:"username" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      string   `json:"role" binding:"omitempty,oneof=member moderator admin"`
	Age       *int     `json:"age" binding:"omitempty,min=0"`
	Locations []string `json:"locations"`
}

type updateUserRequest struct {
	Password  *string   `json:"password"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Role      *string   `json:"role" binding:"omitempty,oneof=member moderator admin"`
	Age       *int      `json:"age" binding:"omitempty,min=0"`
	Locations *[]string `json:"locations"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToDetailResponse(user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.UserRole(req.Role),
		Age:       req.Age,
		Locations: req.Locations,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToDetailResponse(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	input := service.UpdateUserInput{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Locations: req.Locations,
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToDetailResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Age:       user.Age,
		TotalAds:  user.TotalAds,
	}
}

func userToDetailResponse(user *domain.User) UserDetailResponse {
	names := make([]string, 0, len(user.Locations))
	for _, loc := range user.Locations {
		names = append(names, loc.Name)
	}
	return UserDetailResponse{
		UserResponse: userToResponse(user),
		Locations:    names,
	}
}
