package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelblog/internal/service"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPosts godoc
// @Summary List posts
// @Description Newest first. travelType is an exact, case-sensitive match.
// @Tags posts
// @Produce json
// @Param travelType query string false "Travel type" Enums(Adventure, Cultural, Family, Honeymoon, Solo, Group, Luxury, Business)
// @Param limit query int false "Maximum number of posts"
// @Success 200 {array} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	travelType, err := service.ParseTravelType(c.QueryParam("travelType"))
	if err != nil {
		return fail(c, "post_list_failed", err)
	}
	limit, err := service.ParseLimit(c.QueryParam("limit"))
	if err != nil {
		return fail(c, "post_list_failed", err)
	}

	posts, err := h.postService.List(c.Request().Context(), service.ListQuery{TravelType: travelType, Limit: limit})
	if err != nil {
		return fail(c, "post_list_failed", err)
	}
	return c.JSON(http.StatusOK, posts)
}

// SearchPosts godoc
// @Summary Search posts
// @Description Case-insensitive match over title and content.
// @Tags posts
// @Produce json
// @Param q query string false "Search text"
// @Param travelType query string false "Travel type"
// @Param limit query int false "Maximum number of posts"
// @Success 200 {array} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/search [get]
func (h *PostHandler) SearchPosts(c echo.Context) error {
	travelType, err := service.ParseTravelType(c.QueryParam("travelType"))
	if err != nil {
		return fail(c, "post_search_failed", err)
	}
	limit, err := service.ParseLimit(c.QueryParam("limit"))
	if err != nil {
		return fail(c, "post_search_failed", err)
	}

	posts, err := h.postService.Search(c.Request().Context(), service.SearchQuery{
		Q:          c.QueryParam("q"),
		TravelType: travelType,
		Limit:      limit,
	})
	if err != nil {
		return fail(c, "post_search_failed", err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := service.ParsePostID(c.Param("id"))
	if err != nil {
		return fail(c, "post_get_failed", err)
	}

	post, err := h.postService.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, "post_get_failed", err)
	}
	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.PostInput true "Post data"
// @Success 201 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req service.PostInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	post, err := h.postService.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, "post_create_failed", err)
	}
	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Description Title and content are replaced. travelType and image fields are replaced as sent; omitting them clears them.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body service.PostInput true "Post data"
// @Success 200 {object} model.Post
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := service.ParsePostID(c.Param("id"))
	if err != nil {
		return fail(c, "post_update_failed", err)
	}

	var req service.PostInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	post, err := h.postService.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, "post_update_failed", err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param purgeImage query bool false "Also remove the attached image from storage"
// @Success 200 {object} service.DeleteResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := service.ParsePostID(c.Param("id"))
	if err != nil {
		return fail(c, "post_delete_failed", err)
	}

	res, err := h.postService.Delete(c.Request().Context(), id, service.DeleteOptions{
		PurgeImage: c.QueryParam("purgeImage") == "true",
	})
	if err != nil {
		return fail(c, "post_delete_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}
