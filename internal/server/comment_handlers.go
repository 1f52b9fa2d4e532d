package server

import (
	"github.com/funkydonkey/fatherhood-is/internal/models"
	"github.com/funkydonkey/fatherhood-is/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID  string `json:"post_id"`
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

// GetComments returns a page of comments for a post, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	list, err := s.commentService.ListComments(c.UserContext(), service.ListCommentsInput{
		PostID: c.Params("postId"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", models.DefaultPageLimit),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(list)
}

// CreateComment creates a comment on an existing post. User identity arrives
// in the request body; there is no authentication layer.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:  req.PostID,
		UserID:  req.UserID,
		Content: req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment soft-deletes a comment owned by the requesting user.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id query parameter is required"))
	}

	err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		CommentID: c.Params("id"),
		UserID:    userID,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
