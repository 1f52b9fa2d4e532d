package server

import (
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/service"

	"github.com/gofiber/fiber/v2"
)

type generateRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
}

type createPostRequest struct {
	Text       string `json:"text"`
	AuthorName string `json:"author_name"`
	ImageURL   string `json:"image_url"`
	PreviewURL string `json:"preview_url"`
}

// GeneratePostImage validates the text and renders the illustration without
// persisting anything. Rate limited per client IP.
func (s *Server) GeneratePostImage(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	generated, err := s.postService.GenerateImage(c.UserContext(), service.GenerateImageInput{
		Text:       req.Text,
		AuthorName: req.AuthorName,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(generated)
}

// CreatePost persists a post for an already generated image.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Text:       req.Text,
		AuthorName: req.AuthorName,
		ImageURL:   req.ImageURL,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts returns a page of published posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	list, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", models.DefaultPageLimit),
		Sort:  c.Query("sort", models.SortNewest),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(list)
}

// GetPost returns a single published post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(post)
}
