package http

import (
	"github.com/gin-gonic/gin"

	"github.com/productscraper/backend/internal/domain"
)

// envelope is the JSON shape shared by every API response
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type detectData struct {
	Site       domain.Marketplace `json:"site"`
	Confidence domain.Confidence  `json:"confidence"`
	Message    string             `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{
		Success: false,
		Error:   message,
	})
}
