package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/runs/:id/artifacts/:kind", authMiddleware, func(c *fiber.Ctx) error {
		a, err := svc.Artifact(c.Context(), c.Params("id"), c.Params("kind"))
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "artifact not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, a.ContentType)
		return c.Send(a.Body)
	})
}
