// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

// Package config carga la configuración del servicio desde el entorno,
// con soporte para un archivo .env en desarrollo.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config es la configuración completa del servicio.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Maps   MapsConfig
	Cache  CacheConfig
	Chat   ChatConfig
}

// ServerConfig configura el servidor HTTP.
type ServerConfig struct {
	ListenAddr string
}

// DBConfig selecciona la base de datos: duckdb embebido (default) o
// postgres vía pgx.
type DBConfig struct {
	Driver string // "duckdb" o "pgx"
	// Path es el archivo DuckDB; vacío usa una base en memoria.
	Path string
	// URL es el DSN de PostgreSQL cuando Driver es pgx.
	URL string
}

// MapsConfig configura el proveedor de geocoding.
type MapsConfig struct {
	APIKey string
}

// CacheConfig configura el cache de direcciones validadas.
type CacheConfig struct {
	TTL time.Duration
}

// ChatConfig configura la máquina de estados de conversación.
type ChatConfig struct {
	InactivityTimeout time.Duration
}

// Load lee el entorno. El archivo .env es opcional.
func Load() *Config {
	_ = godotenv.Load()

	cacheTTLDays, err := strconv.Atoi(getEnv("CACHE_TTL_DAYS", "7"))
	if err != nil || cacheTTLDays <= 0 {
		cacheTTLDays = 7
	}

	inactivityMinutes, err := strconv.Atoi(getEnv("CHAT_INACTIVITY_MINUTES", "5"))
	if err != nil || inactivityMinutes <= 0 {
		inactivityMinutes = 5
	}

	return &Config{
		Server: ServerConfig{
			ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		},
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "duckdb"),
			Path:   getEnv("DB_PATH", "andino.db"),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Maps: MapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		Cache: CacheConfig{
			TTL: time.Duration(cacheTTLDays) * 24 * time.Hour,
		},
		Chat: ChatConfig{
			InactivityTimeout: time.Duration(inactivityMinutes) * time.Minute,
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
