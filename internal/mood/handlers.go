package mood

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, client *Client, authMiddleware fiber.Handler) {
	r.Post("/score", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Image string `json:"image"`
		}
		if err := c.BodyParser(&body); err != nil || body.Image == "" {
			return fiber.NewError(fiber.StatusBadRequest, "image required")
		}
		return c.JSON(client.Score(c.Context(), body.Image))
	})
}
