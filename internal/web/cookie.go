package web

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/tckz/go-visit-counter/internal/visit"
)

const (
	BrowserIDCookie = "visit-browser-id"
	DateCookie      = "visit-last-count-date"
	MonthCookie     = "visit-last-count-month"

	// Markers are not meant to expire; ten years is as close as browsers allow.
	cookieMaxAge = 10 * 365 * 24 * time.Hour
)

func setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// browserID returns the id of the requesting browser, issuing one if it has none.
func browserID(c *fiber.Ctx) string {
	id := utils.CopyString(c.Cookies(BrowserIDCookie))
	if _, err := uuid.Parse(id); err == nil {
		return id
	}

	id = uuid.New().String()
	setCookie(c, BrowserIDCookie, id)
	return id
}

var _ visit.LocalMarkerStore = (*cookieMarker)(nil)

// cookieMarker keeps the marker on the browser itself.
type cookieMarker struct {
	c *fiber.Ctx
}

func (m *cookieMarker) Get(ctx context.Context) (visit.Marker, error) {
	return visit.Marker{
		Date:  utils.CopyString(m.c.Cookies(DateCookie)),
		Month: utils.CopyString(m.c.Cookies(MonthCookie)),
	}, nil
}

func (m *cookieMarker) Set(ctx context.Context, mk visit.Marker) error {
	setCookie(m.c, DateCookie, mk.Date)
	setCookie(m.c, MonthCookie, mk.Month)
	return nil
}
