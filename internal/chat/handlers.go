package chat

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

func RegisterRoutes(r fiber.Router, svc *Service, profiles *profile.Service, authMiddleware fiber.Handler) {
	r.Get("/threads", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		me, err := profiles.Get(c.Context(), userID)
		if errors.Is(err, profile.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		threads, err := svc.Threads(c.Context(), me)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(threads)
	})

	r.Get("/messages/:friendID", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		messages, err := svc.Messages(c.Context(), userID, c.Params("friendID"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(messages)
	})

	r.Post("/messages", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ReceiverID   string `json:"receiver_id"`
			Content      string `json:"content"`
			SharedPostID string `json:"shared_post_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.ReceiverID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "receiver_id required")
		}
		if body.Content == "" && body.SharedPostID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content or shared_post_id required")
		}
		userID, _ := c.Locals("user_id").(string)
		msg, err := svc.Send(c.Context(), userID, body.ReceiverID, body.Content, body.SharedPostID)
		if errors.Is(err, ErrReceiverNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	})
}
