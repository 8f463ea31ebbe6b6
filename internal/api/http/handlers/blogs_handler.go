package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
)

// BlogsHandler exposes blog endpoints.
type BlogsHandler struct {
	blogs *service.BlogService
}

// NewBlogsHandler constructs handler.
func NewBlogsHandler(blogService *service.BlogService) *BlogsHandler {
	return &BlogsHandler{blogs: blogService}
}

// Create handles POST /blogs.
func (h *BlogsHandler) Create(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CreateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	blog, err := h.blogs.CreateBlog(c.UserContext(), claims, service.BlogInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        service.SplitTags(req.Tags),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// List handles GET /blogs?limit=&offset=.
func (h *BlogsHandler) List(c *fiber.Ctx) error {
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "Missing or invalid offset value")
	}
	page, err := h.blogs.ListBlogs(c.UserContext(), c.QueryInt("limit", 0), offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogPageResponse(page)})
}

// Get handles GET /blogs/:id.
func (h *BlogsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid blog id")
	}
	blog, err := h.blogs.GetBlog(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// Update handles PATCH /blogs/:id.
func (h *BlogsHandler) Update(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid blog id")
	}

	var req dto.UpdateBlogRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	patch := service.BlogPatch{Title: req.Title, Description: req.Description}
	if req.Tags != nil {
		patch.Tags = service.SplitTags(*req.Tags)
		if patch.Tags == nil {
			patch.Tags = []string{}
		}
	}

	blog, err := h.blogs.UpdateBlog(c.UserContext(), claims, int64(id), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBlogResponse(blog)})
}

// Delete handles DELETE /blogs/:id.
func (h *BlogsHandler) Delete(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid blog id")
	}
	if err := h.blogs.DeleteBlog(c.UserContext(), claims, int64(id)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
