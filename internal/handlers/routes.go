package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the match endpoints. history may be nil.
func RegisterRoutes(api fiber.Router, match *MatchHandler, history *HistoryHandler) {
	api.Post("/match", match.HandleMatch)
	api.All("/match", match.HandleMethodNotAllowed)

	api.Post("/multi-match", match.HandleMultiMatch)
	api.All("/multi-match", match.HandleMethodNotAllowed)

	if history != nil {
		api.Get("/matches/:id", history.HandleGetMatch)
	}
}
