package run

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
)

const contentTypeGeoJSON = "application/geo+json"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Run
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if runnerID, ok := c.Locals("runner_id").(string); ok && runnerID != "" {
			if req.RunnerID != "" && req.RunnerID != runnerID {
				return fiber.NewError(fiber.StatusForbidden, "runner_id does not match token")
			}
			req.RunnerID = runnerID
		}
		if req.RunnerID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "runner_id required")
		}
		run, err := svc.StartRun(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(run)
	})

	r.Post("/:id/telemetry", authMiddleware, func(c *fiber.Ctx) error {
		result, err := svc.ProcessTelemetry(c.Context(), c.Params("id"), bytes.NewReader(c.Body()))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(result)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		run, err := svc.Summary(c.Context(), c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(run)
	})

	r.Get("/:id/path", func(c *fiber.Ctx) error {
		sp, err := svc.Path(c.Context(), c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		return c.JSON(sp)
	})

	r.Get("/:id/path/geojson", func(c *fiber.Ctx) error {
		sp, err := svc.Path(c.Context(), c.Params("id"))
		if err != nil {
			return statusError(err)
		}
		body, err := sp.FeatureCollection().MarshalJSON()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, contentTypeGeoJSON)
		return c.Send(body)
	})
}

func statusError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrTooManySamples):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case IsInvalidTelemetry(err):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
