//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/himanishpuri/ChordSheets/pkg/chordsheets"
	"github.com/himanishpuri/ChordSheets/pkg/logger"
)

var (
	port           int
	dbPath         string
	typesFile      string
	blockLanguage  string
	allowedOrigins string
)

func init() {
	_ = godotenv.Load()

	flag.IntVar(&port, "port", getEnvInt("PORT", 8080), "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("CHORDSHEETS_DB_PATH", "chordsheets.sqlite3"), "Path to SQLite database")
	flag.StringVar(&typesFile, "types", os.Getenv("CHORDSHEETS_TYPES_FILE"), "YAML file with extra chord types")
	flag.StringVar(&blockLanguage, "lang", getEnvOrDefault("CHORDSHEETS_BLOCK_LANGUAGE", "chords"), "Fence info string of chord blocks")
	flag.StringVar(&allowedOrigins, "origins", getEnvOrDefault("CORS_ORIGINS", "*"), "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func parseOrigins(value string) []string {
	if value == "*" {
		return []string{"*"}
	}
	origins := strings.Split(value, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}

func main() {
	flag.Parse()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []chordsheets.Option{
		chordsheets.WithDBPath(dbPath),
		chordsheets.WithBlockLanguage(blockLanguage),
	}
	if typesFile != "" {
		opts = append(opts, chordsheets.WithChordTypesFile(typesFile))
	}
	service, err := chordsheets.NewService(opts...)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		DBPath:         dbPath,
		BlockLanguage:  blockLanguage,
		AllowedOrigins: parseOrigins(allowedOrigins),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(service, config)
	if err := server.Start(ctx); err != nil {
		logger.Errorf("Server failed: %v", err)
		os.Exit(1)
	}
}
