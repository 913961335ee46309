package routes

import (
	"stillhouse/internal/api/handlers"
	"stillhouse/internal/metrics"
	"stillhouse/internal/middleware"
	"stillhouse/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	InventoryHandler  handlers.InventoryHandler
	RecipeHandler     handlers.RecipeHandler
	MaterialHandler   handlers.MaterialHandler
	ProductionHandler handlers.ProductionHandler
	LogbookHandler    handlers.LogbookHandler
	DictationHandler  handlers.DictationHandler
	StreamHandler     handlers.StreamHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Inventory()
	c.Recipes()
	c.BottlingMaterials()
	c.Logs()
	c.Dictation()
	c.Stream()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Get("/session", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Session)
	}
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))
	inventory.Post("", c.InventoryHandler.AddItem)
	inventory.Get("", c.InventoryHandler.GetItems)
	inventory.Get("/low-stock", c.InventoryHandler.GetLowStock)
	inventory.Get("/movements", c.InventoryHandler.GetMovements)
	inventory.Get("/:id", c.InventoryHandler.GetItem)
	inventory.Put("/:id", c.InventoryHandler.UpdateItem)
	inventory.Delete("/:id", c.InventoryHandler.RemoveItem)
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	recipes.Post("", c.RecipeHandler.CreateRecipe)
	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Get("/:id", c.RecipeHandler.GetRecipe)
}

func (c *Config) BottlingMaterials() {
	materials := c.App.Group("/api/v1/bottling-materials", c.Middleware.AuthMiddleware(c.JWTService))
	materials.Put("", c.MaterialHandler.SaveDefinition)
	materials.Get("", c.MaterialHandler.GetDefinitions)
	materials.Get("/:name", c.MaterialHandler.GetDefinition)
}

func (c *Config) Logs() {
	logs := c.App.Group("/api/v1/logs", c.Middleware.AuthMiddleware(c.JWTService))
	logs.Get("", c.LogbookHandler.GetLogs)
	logs.Get("/export", c.LogbookHandler.Export)
	logs.Post("/distillation", c.ProductionHandler.SubmitDistillation)
	logs.Post("/bottling", c.ProductionHandler.SubmitBottling)
}

func (c *Config) Dictation() {
	c.App.Post("/api/v1/dictation/:kind", c.Middleware.AuthMiddleware(c.JWTService), c.DictationHandler.Prefill)
}

func (c *Config) Stream() {
	c.App.Get("/api/v1/stream/:collection", c.Middleware.AuthMiddleware(c.JWTService), c.StreamHandler.Stream)
}
