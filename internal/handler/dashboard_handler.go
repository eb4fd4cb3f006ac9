package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelblog/internal/auth"
	"travelblog/internal/model"
	"travelblog/internal/service"
)

// DashboardHandler serves the signed-in pages. Access is decided by the edge guard.
type DashboardHandler struct {
	postService service.PostService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(postService service.PostService) *DashboardHandler {
	return &DashboardHandler{postService: postService}
}

// DashboardResponse is the landing page of a signed-in user.
type DashboardResponse struct {
	User  *auth.Identity `json:"user"`
	Stats *service.Stats `json:"stats"`
}

// PostsAdminResponse is the admin post management page.
type PostsAdminResponse struct {
	User  *auth.Identity `json:"user"`
	Posts []model.Post   `json:"posts"`
}

// Overview godoc
// @Summary Dashboard
// @Description Redirects to sign-in without a session.
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 302 {string} string "Redirect"
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	identity, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	stats, err := h.postService.Stats(c.Request().Context())
	if err != nil {
		return fail(c, "dashboard_stats_failed", err)
	}
	return c.JSON(http.StatusOK, DashboardResponse{User: identity, Stats: stats})
}

// PostsAdmin godoc
// @Summary Admin post list
// @Description Redirects to sign-in without a session and to the dashboard without the ADMIN role.
// @Tags dashboard
// @Produce json
// @Success 200 {object} PostsAdminResponse
// @Failure 302 {string} string "Redirect"
// @Router /dashboard/postsAdmin [get]
func (h *DashboardHandler) PostsAdmin(c echo.Context) error {
	identity, err := auth.RequireAdmin(c)
	if err != nil {
		return err
	}

	posts, err := h.postService.List(c.Request().Context(), service.ListQuery{})
	if err != nil {
		return fail(c, "dashboard_posts_failed", err)
	}
	return c.JSON(http.StatusOK, PostsAdminResponse{User: identity, Posts: posts})
}
