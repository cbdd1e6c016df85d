package main

import (
	"embed"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/template/html/v2"

	"github.com/opendatagr/geoview/pkg/model"
	"github.com/opendatagr/geoview/pkg/resolver"
)

//go:embed template/*
var templates embed.FS

//go:embed static/*
var embedDirStatic embed.FS

func NewHttp(app *App) *fiber.App {
	engine := html.NewFileSystem(http.FS(templates), ".html")
	engine.Delims("[[", "]]")

	f := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnablePrintRoutes:     false,
		Views:                 engine,
	})

	f.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${queryParams}\n",
	}))

	f.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	f.Get("/", getIndexHandler(app))
	f.Get("/resources", getResourcesHandler(app))
	f.Get("/resources/:id/layers", getLayersHandler(app))
	f.Get("/basemaps", getBasemapsHandler(app))
	f.Get("/dataset/:package/resource/:resource/resource_proxy", getResourceProxyHandler(app))
	f.Get("/geoview_file_proxy/:resource_id/:filename", getFileProxyHandler(app))
	f.Post("/translate", getTranslateHandler(app))
	f.Get("/geocode", getGeocodeHandler(app))

	f.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(embedDirStatic),
		PathPrefix: "static",
	}))

	return f
}

func getIndexHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		resources, err := app.catalog.All()
		if err != nil {
			return err
		}

		d := fiber.Map{
			"site_url":  app.config.SiteURL,
			"basemaps":  app.basemaps,
			"resources": resources,
		}

		return c.Render("template/index", d, "template/_header")
	}
}

func getResourcesHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		resources, err := app.catalog.All()
		if err != nil {
			return err
		}

		return c.JSON(resources)
	}
}

func getBasemapsHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return c.JSON(app.basemaps)
	}
}

// getLayersHandler resolves a resource's fetch plan and dispatches its layer
// specs. Basemaps come first in the response so the client builds the base
// map before placing overlays. A capability failure is logged and yields an
// empty overlay list, it never fails the page.
func getLayersHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		res, err := app.catalog.Get(c.Params("id"))
		if err != nil {
			return err
		}

		if res == nil {
			return c.Status(fiber.StatusNotFound).SendString("resource not found")
		}

		cfg := model.ViewConfig{
			SiteURL: app.config.SiteURL,
			ResourceView: &model.ResourceView{
				PackageID:  res.PackageID,
				ResourceID: res.ID,
			},
		}

		plan := resolver.ResolveFetchPlan(res, cfg)

		layers := make([]model.LayerSpec, 0)

		for _, b := range app.basemaps {
			layers = append(layers, model.LayerSpec{
				Type:    model.Format(b.Type),
				Title:   b.Title,
				URL:     b.URL,
				Basemap: true,
			})
		}

		err = app.dispatcher.Dispatch(c.Context(), res, plan, func(spec model.LayerSpec) {
			layers = append(layers, spec)
		})

		if err != nil {
			app.logger.Error("layer dispatch error", "resource", res.ID, "error", err)
		}

		return c.JSON(fiber.Map{
			"plan":   plan,
			"layers": layers,
		})
	}
}

func getResourceProxyHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		target := c.Query("url")

		if target == "" {
			res, err := app.catalog.Get(c.Params("resource"))
			if err != nil {
				return err
			}

			if res == nil || res.URL == "" {
				return c.Status(fiber.StatusNotFound).SendString("resource not found")
			}

			target = res.URL
		}

		if _, err := url.ParseRequestURI(target); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("invalid url")
		}

		ct, data, err := app.fetcher.Get(c.Context(), target)

		if err != nil {
			app.logger.Error("proxy error", "url", target, "error", err)
			return c.Status(fiber.StatusBadGateway).SendString("upstream fetch failed")
		}

		c.Set("Content-Type", ct)
		_, err = c.Write(data)

		return err
	}
}

func getFileProxyHandler(app *App) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		resourceID, _ := url.PathUnescape(c.Params("resource_id"))
		filename, _ := url.PathUnescape(c.Params("filename"))

		ct, data, err := app.files.Read(resourceID, filename)

		if err != nil {
			app.logger.Error("file proxy error", "resource", resourceID, "file", filename, "error", err)
			return c.Status(fiber.StatusNotFound).SendString("file not found")
		}

		c.Set("Content-Type", ct)
		_, err = c.Write(data)

		return err
	}
}
