package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"assetvault/internal/auth"
	"assetvault/internal/service"
)

// CORS returns the permissive CORS policy the browser client depends on.
// OPTIONS preflights are answered by the middleware itself.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "authorization, x-client-info, apikey, content-type",
		AllowMethods: "GET, POST, OPTIONS",
	})
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, tokens *auth.TokenService, assetSvc service.AssetService, analysisSvc service.AnalysisService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Submission and analysis endpoints, authenticated
	fn := app.Group("/functions/v1", auth.RequireBearer(tokens))
	fn.Post("/upload-asset", UploadAsset(assetSvc))
	fn.Post("/analyze-asset", AnalyzeAsset(analysisSvc))

	// Asset read API, authenticated
	assets := app.Group("/assets", auth.RequireBearer(tokens))
	assets.Get("/", ListAssets(assetSvc))
	assets.Get("/:id", GetAsset(assetSvc))
}
