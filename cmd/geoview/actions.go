package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

var actionClient = &http.Client{Timeout: time.Second * 30}

type translateRequest struct {
	Text string `json:"text"`
	To   string `json:"to"`
}

// getTranslateHandler relays a translation request to the configured
// translator endpoint, adding the subscription headers server-side so the
// key never reaches the browser.
func getTranslateHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		tc := app.config.Translator

		if tc.Endpoint == "" {
			return c.Status(fiber.StatusNotImplemented).SendString("translator is not configured")
		}

		var req translateRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("invalid request body")
		}

		if req.Text == "" {
			return c.Status(fiber.StatusBadRequest).SendString("text is required")
		}

		if req.To == "" {
			req.To = "en"
		}

		body, err := json.Marshal([]map[string]string{{"Text": req.Text}})
		if err != nil {
			return err
		}

		u := tc.Endpoint + "/translate?api-version=3.0&to=" + url.QueryEscape(req.To)

		hreq, err := http.NewRequestWithContext(c.Context(), "POST", u, bytes.NewReader(body))
		if err != nil {
			return err
		}

		hreq.Header.Set("Ocp-Apim-Subscription-Key", tc.Key)
		hreq.Header.Set("Ocp-Apim-Subscription-Region", tc.Region)
		hreq.Header.Set("Content-Type", "application/json")

		resp, err := actionClient.Do(hreq)
		if err != nil {
			app.logger.Error("translate error", "error", err)
			return c.Status(fiber.StatusBadGateway).SendString("translator unavailable")
		}

		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		c.Set("Content-Type", "application/json")

		return c.Status(resp.StatusCode).Send(data)
	}
}

// getGeocodeHandler relays a place search to the configured geocoder. Results
// go through the disk-cached fetcher: geocoding the same query twice should
// not hit the upstream twice.
func getGeocodeHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		gc := app.config.Geocoder

		if gc.Endpoint == "" {
			return c.Status(fiber.StatusNotImplemented).SendString("geocoder is not configured")
		}

		q := c.Query("q")
		if q == "" {
			return c.Status(fiber.StatusBadRequest).SendString("q is required")
		}

		u := gc.Endpoint + "?format=json&q=" + url.QueryEscape(q)

		ct, data, err := app.fetcher.Get(c.Context(), u)
		if err != nil {
			app.logger.Error("geocode error", "error", err)
			return c.Status(fiber.StatusBadGateway).SendString("geocoder unavailable")
		}

		c.Set("Content-Type", ct)
		_, err = c.Write(data)

		return err
	}
}
