package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/class-weather/internal/catalog"
	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/schedule"
	"github.com/i474232898/class-weather/internal/weather"
)

var validate = validator.New()

// Reporter builds and caches weather reports.
type Reporter interface {
	Report(ctx context.Context, rawCourse string) (weather.Report, error)
	CachedReports() map[string]weather.Report
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, courses weather.Resolver, reports Reporter) {
	// Routing is not strict, so a trailing slash matches too.
	app.Get("/courses/:subject/:number", courseHandler(courses))

	app.Post("/weather", func(c *fiber.Ctx) error {
		var req weatherRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "error finding course")
		}
		req.Course = strings.TrimSpace(req.Course)
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "error finding course")
		}

		report, err := reports.Report(c.UserContext(), req.Course)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	})

	app.Get("/weatherCache", func(c *fiber.Ctx) error {
		return c.JSON(reports.CachedReports())
	})
}

type weatherRequest struct {
	Course string `json:"course" validate:"required"`
}

func courseHandler(courses weather.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, term, err := parseCourseQuery(c, courses.CurrentTerm())
		if err != nil {
			return respondError(c, err)
		}

		meeting, err := courses.Resolve(c.UserContext(), term, key)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"course":       key.String(),
			"Days of Week": meeting.Days,
			"Start Time":   meeting.StartTime,
		})
	}
}

// parseCourseQuery reads the path parameters plus the optional year and
// term overrides. Missing overrides fall back to the current term.
func parseCourseQuery(c *fiber.Ctx, current course.Term) (course.Key, course.Term, error) {
	number, err := strconv.Atoi(c.Params("number"))
	if err != nil {
		return course.Key{}, course.Term{}, fmt.Errorf("%w: course number %q is not an integer", course.ErrInvalidParameter, c.Params("number"))
	}
	key := course.Key{Subject: strings.ToUpper(strings.TrimSpace(c.Params("subject"))), Number: number}

	term := current
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return course.Key{}, course.Term{}, fmt.Errorf("%w: year %q is not an integer", course.ErrInvalidParameter, raw)
		}
		term.Year = year
	}
	if raw := c.Query("term"); raw != "" {
		season, err := course.ParseSeason(raw)
		if err != nil {
			return course.Key{}, course.Term{}, err
		}
		term.Season = season
	}
	return key, term, nil
}

// respondError maps domain errors onto status codes. Negative answers about
// a course carry the course name so clients can tell which lookup failed.
func respondError(c *fiber.Ctx, err error) error {
	var rerr *schedule.ResolveError
	switch {
	case errors.As(err, &rerr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  rerr.Message,
			"course": rerr.Course.String(),
		})
	case errors.Is(err, course.ErrInvalidFormat),
		errors.Is(err, course.ErrInvalidParameter),
		errors.Is(err, schedule.ErrInvalidDays),
		errors.Is(err, schedule.ErrInvalidStartTime):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrUpstreamUnreachable),
		errors.Is(err, catalog.ErrMalformedResponse):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return err
	}
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
