// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package server expone la API HTTP del asistente: geocoding, validación de
// cobertura, chat y catálogo de sedes.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pollosandino/andino/chat"
	"github.com/pollosandino/andino/geocode"
	"github.com/pollosandino/andino/sedes"
)

// AddressResolver valida direcciones de texto libre.
type AddressResolver interface {
	Resolve(ctx context.Context, raw string) *geocode.ValidationResult
}

// LocationValidator decide cobertura de entrega.
type LocationValidator interface {
	Resolve(ctx context.Context, lat, lng float64, formattedAddress string) (*sedes.Result, error)
}

// ChatEngine procesa un turno de conversación.
type ChatEngine interface {
	HandleMessage(ctx context.Context, sessionID, message string) chat.Reply
}

// SedeDirectory lista las sedes activas.
type SedeDirectory interface {
	ListActive(ctx context.Context) ([]sedes.Sede, error)
}

// Server es la API HTTP.
type Server struct {
	resolver  AddressResolver
	validator LocationValidator
	engine    ChatEngine
	directory SedeDirectory
}

// NewServer arma el servidor con sus colaboradores.
func NewServer(resolver AddressResolver, validator LocationValidator,
	engine ChatEngine, directory SedeDirectory,
) *Server {
	return &Server{
		resolver:  resolver,
		validator: validator,
		engine:    engine,
		directory: directory,
	}
}

// Router construye el router gin con CORS permisivo y todas las rutas.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.POST("/api/geocode", s.geocodeAddress)
	r.POST("/api/validate-location", s.validateLocation)
	r.POST("/api/chat", s.chatMessage)
	r.GET("/api/sedes", s.listSedes)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// Run atiende en la dirección dada hasta que el proceso muera.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// corsMiddleware replica los headers permisivos del frontend original y
// responde el preflight sin tocar los handlers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}

type geocodeRequest struct {
	Address   string `json:"address"`
	SessionID string `json:"session_id"`
}

// geocodeAddress valida una dirección. Sólo INTERNAL_ERROR responde 500;
// los demás errores tipificados son respuestas normales para el cliente.
func (s *Server) geocodeAddress(ctx *gin.Context) {
	var req geocodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "body JSON inválido"})

		return
	}

	result := s.resolver.Resolve(ctx.Request.Context(), req.Address)

	status := http.StatusOK
	if result.Error == geocode.ErrorInternal {
		status = http.StatusInternalServerError
	}

	ctx.JSON(status, result)
}

type locationRequest struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
	SessionID        string  `json:"session_id"`
}

func (s *Server) validateLocation(ctx *gin.Context) {
	var req locationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "body JSON inválido"})

		return
	}

	if req.Latitude == 0 || req.Longitude == 0 || req.FormattedAddress == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":         "Faltan parámetros requeridos: latitude, longitude, formatted_address",
			"within_radius": false,
		})

		return
	}

	result, err := s.validator.Resolve(ctx.Request.Context(),
		req.Latitude, req.Longitude, req.FormattedAddress)
	if err != nil {
		if errors.Is(err, sedes.ErrNoSedes) {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"error":              err.Error(),
				"within_radius":      false,
				"coverage_available": false,
				"validated_address":  req.FormattedAddress,
			})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":              "Error interno validando ubicación",
			"within_radius":      false,
			"coverage_available": false,
		})

		return
	}

	ctx.JSON(http.StatusOK, result)
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) chatMessage(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "body JSON inválido"})

		return
	}

	if req.SessionID == "" || req.Message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "session_id y message son requeridos"})

		return
	}

	reply := s.engine.HandleMessage(ctx.Request.Context(), req.SessionID, req.Message)
	ctx.JSON(http.StatusOK, reply)
}

func (s *Server) listSedes(ctx *gin.Context) {
	activas, err := s.directory.ListActive(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"sedes": activas})
}
