// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides the CORS configuration for the public API and
// admin dashboard. Production origins come from ALLOWED_ORIGINS.
func CORSMiddleware() gin.HandlerFunc {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:4321",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:4321",
		"http://[::1]:3000", // IPv6 localhost
		"http://[::1]:4321", // IPv6 localhost
	}
	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	config := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}

	return cors.New(config)
}
