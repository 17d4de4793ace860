package utils

import (
	"io"
	"math"
	"net/http"
	"net/url"
	"os"

	"github.com/gofiber/fiber/v2"
)

// SetupGeocodeRoutes proxies the postcode/geocoding provider so the API key
// never reaches the browser.
func SetupGeocodeRoutes(app *fiber.App) {
	// Postcode lookup: postcode -> coordinates
	app.Get("/api/geocode/postcode", func(c *fiber.Ctx) error {
		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code parameter required"})
		}

		base := os.Getenv("GEOCODE_API_URL")
		if base == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "GEOCODE_API_URL not set"})
		}

		lookupURL := base + "/postcodes/" + url.PathEscape(code)
		if key := os.Getenv("GEOCODE_API_KEY"); key != "" {
			lookupURL += "?apikey=" + key
		}

		resp, err := http.Get(lookupURL)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "cannot reach geocoding provider"})
		}
		defer resp.Body.Close()

		bodyBytes, _ := io.ReadAll(resp.Body)

		c.Status(resp.StatusCode)
		c.Set("Content-Type", "application/json")
		return c.Send(bodyBytes)
	})

	// Address autocomplete for quote/order entry forms
	app.Get("/api/geocode/autocomplete", func(c *fiber.Ctx) error {
		query := c.Query("text")
		if query == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text parameter required"})
		}

		base := os.Getenv("GEOCODE_API_URL")
		if base == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "GEOCODE_API_URL not set"})
		}

		searchURL := base + "/postcodes?q=" + url.QueryEscape(query)
		if key := os.Getenv("GEOCODE_API_KEY"); key != "" {
			searchURL += "&apikey=" + key
		}

		resp, err := http.Get(searchURL)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "cannot reach geocoding provider"})
		}
		defer resp.Body.Close()

		bodyBytes, _ := io.ReadAll(resp.Body)

		c.Status(resp.StatusCode)
		c.Set("Content-Type", "application/json")
		return c.Send(bodyBytes)
	})
}

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
