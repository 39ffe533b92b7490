package server

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
)

// ErrHorizonNotFound is returned when no table exists for a requested horizon
var ErrHorizonNotFound = fiber.NewError(fiber.StatusNotFound, "horizon not found")

// ErrInvalidHorizonParam is returned when the horizon path parameter is not an integer
var ErrInvalidHorizonParam = fiber.NewError(fiber.StatusBadRequest, "invalid horizon, expected a positive integer")

// ErrFeatureNotFound is returned when no profile exists for a requested feature
var ErrFeatureNotFound = fiber.NewError(fiber.StatusNotFound, "feature not found")

// ErrNoBuild is returned before the first successful build completes
var ErrNoBuild = fiber.NewError(fiber.StatusServiceUnavailable, "no build available yet")

// handleStatus handles GET /api/v1/status
func (s *Service) handleStatus(c fiber.Ctx) error {
	result := s.currentResult()
	if result == nil {
		return ErrNoBuild
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":         result.ID,
		"kind":       result.Kind,
		"created_at": result.CreatedAt,
		"horizons":   result.Horizons,
		"warnings":   result.Warnings,
	})
}

// handleHorizons handles GET /api/v1/horizons
func (s *Service) handleHorizons(c fiber.Ctx) error {
	result := s.currentResult()
	if result == nil {
		return ErrNoBuild
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"horizons": result.Horizons,
		"total":    len(result.Horizons),
	})
}

// handleTable handles GET /api/v1/tables/:horizon
func (s *Service) handleTable(c fiber.Ctx) error {
	result := s.currentResult()
	if result == nil {
		return ErrNoBuild
	}

	horizon, err := strconv.Atoi(c.Params("horizon"))
	if err != nil || horizon <= 0 {
		return ErrInvalidHorizonParam
	}

	tbl, ok := result.Tables[horizon]
	if !ok {
		return ErrHorizonNotFound
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"horizon": horizon,
		"rows":    tbl.NumRows(),
		"table":   tbl,
	})
}

// handleProfiles handles GET /api/v1/profiles
func (s *Service) handleProfiles(c fiber.Ctx) error {
	result := s.currentResult()
	if result == nil {
		return ErrNoBuild
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"profiles": result.Profiles,
		"total":    len(result.Profiles),
	})
}

// handleFeatureProfiles handles GET /api/v1/profiles/:feature
func (s *Service) handleFeatureProfiles(c fiber.Ctx) error {
	result := s.currentResult()
	if result == nil {
		return ErrNoBuild
	}

	feature := c.Params("feature")
	profiles := result.Profiles[:0:0]

	for _, p := range result.Profiles {
		if p.Feature == feature {
			profiles = append(profiles, p)
		}
	}

	if len(profiles) == 0 {
		return ErrFeatureNotFound
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"feature":  feature,
		"profiles": profiles,
	})
}
