package feed

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

// Scorer rates an image; satisfied by *mood.Client.
type Scorer interface {
	Score(ctx context.Context, imageB64 string) mood.Result
}

func RegisterRoutes(r fiber.Router, svc *Service, profiles *profile.Service, scorer Scorer, authMiddleware fiber.Handler) {
	viewerFromLocals := func(c *fiber.Ctx) (profile.Profile, error) {
		userID, _ := c.Locals("user_id").(string)
		viewer, err := profiles.Get(c.Context(), userID)
		if errors.Is(err, profile.ErrNotFound) {
			return profile.Profile{}, fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		if err != nil {
			return profile.Profile{}, fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return viewer, nil
	}

	r.Post("/posts", authMiddleware, func(c *fiber.Ctx) error {
		var input CreatePostInput
		if err := c.BodyParser(&input); err != nil || input.ImageSrc == "" {
			return fiber.NewError(fiber.StatusBadRequest, "image_src required")
		}
		author, err := viewerFromLocals(c)
		if err != nil {
			return err
		}
		if input.Mood.Label == "" {
			input.Mood = scorer.Score(c.Context(), input.ImageSrc)
		}
		post, err := svc.CreatePost(c.Context(), author, input)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		scope, err := ParseScope(c.Query("scope"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		viewer, err := viewerFromLocals(c)
		if err != nil {
			return err
		}
		posts, err := svc.GetFeed(c.Context(), viewer, scope)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(posts)
	})

	r.Post("/posts/:id/like", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		err := svc.ToggleLike(c.Context(), c.Params("id"), userID)
		if errors.Is(err, ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/posts/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.BodyParser(&body); err != nil || body.Text == "" {
			return fiber.NewError(fiber.StatusBadRequest, "text required")
		}
		author, err := viewerFromLocals(c)
		if err != nil {
			return err
		}
		comment, err := svc.AddComment(c.Context(), c.Params("id"), author, body.Text)
		if errors.Is(err, ErrPostNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})
}
