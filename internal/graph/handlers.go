package graph

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

func RegisterRoutes(r fiber.Router, svc *Service, profiles *profile.Service, authMiddleware fiber.Handler) {
	r.Post("/requests", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			TargetID string `json:"target_id"`
		}
		if err := c.BodyParser(&body); err != nil || body.TargetID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "target_id required")
		}
		userID, _ := c.Locals("user_id").(string)

		status, err := svc.SendRequest(c.Context(), userID, body.TargetID)
		switch {
		case errors.Is(err, ErrSelfRequest):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, ErrProfileNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		code := fiber.StatusCreated
		if status == StatusAlreadyFriends {
			code = fiber.StatusOK
		}
		return c.Status(code).JSON(fiber.Map{"status": status})
	})

	r.Post("/requests/:requesterID/accept", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		err := svc.AcceptRequest(c.Context(), userID, c.Params("requesterID"))
		switch {
		case errors.Is(err, ErrRequestNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrProfileNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"status": "ACCEPTED"})
	})

	r.Post("/requests/:requesterID/reject", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.RejectRequest(c.Context(), userID, c.Params("requesterID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Delete("/requests/:targetID", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if err := svc.WithdrawRequest(c.Context(), userID, c.Params("targetID")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/requests", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		me, err := profiles.Get(c.Context(), userID)
		if errors.Is(err, profile.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "profile not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		incoming, outgoing, err := svc.Requests(c.Context(), me)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"incoming": incoming, "outgoing": outgoing})
	})
}
