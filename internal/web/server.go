package web

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tckz/go-visit-counter/internal/render"
	"github.com/tckz/go-visit-counter/internal/visit"
	"go.uber.org/zap"
)

type Server struct {
	updater *visit.Updater
	// nil means markers are kept in browser cookies.
	markers visit.MarkerStores
	tmpl    *render.Template
	logger  *zap.SugaredLogger
}

func NewServer(updater *visit.Updater, markers visit.MarkerStores, tmpl *render.Template, logger *zap.SugaredLogger) *Server {
	if tmpl == nil {
		tmpl = render.DefaultTemplate()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Server{
		updater: updater,
		markers: markers,
		tmpl:    tmpl,
		logger:  logger,
	}
}

const errStoreUnavailable = "visit counter store unavailable"

type visitsResponse struct {
	visit.Counts
	Label   string `json:"label"`
	Counted bool   `json:"counted"`
}

func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		// Cookie values outlive the request as marker keys.
		Immutable: true,
	})
	app.Use(recover.New())

	app.Get("/", s.handlePage)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/visits", s.handlePeek)
	api.Post("/visits", s.handleCount)

	return app
}

func (s *Server) markerFor(c *fiber.Ctx) visit.LocalMarkerStore {
	if s.markers == nil {
		return &cookieMarker{c: c}
	}
	return s.markers.For(browserID(c))
}

// handlePage serves the hosting page. A failing store leaves the counters
// as they are in the template; the page itself is still served.
func (s *Server) handlePage(c *fiber.Ctx) error {
	page, err := s.tmpl.Page()
	if err != nil {
		return err
	}

	if _, err := s.updater.Update(c.UserContext(), s.markerFor(c), page); err != nil {
		s.logger.Errorf("Update: %v", err)
	}

	var buf bytes.Buffer
	if err := page.WriteHTML(&buf); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) handleCount(c *fiber.Ctx) error {
	d, err := s.updater.Update(c.UserContext(), s.markerFor(c), nil)
	if err != nil {
		s.logger.Errorf("Update: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": errStoreUnavailable})
	}

	counts := d.Counts()
	return c.JSON(visitsResponse{Counts: counts, Label: s.tmpl.Label(counts.MonthKey), Counted: d.ShouldCount})
}

func (s *Server) handlePeek(c *fiber.Ctx) error {
	counts, err := s.updater.Peek(c.UserContext())
	if err != nil {
		s.logger.Errorf("Peek: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": errStoreUnavailable})
	}

	return c.JSON(visitsResponse{Counts: counts, Label: s.tmpl.Label(counts.MonthKey)})
}
