package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	DBDSN   string
	LogFile string
}

func Load() Config {
	// Best effort; a missing .env just means plain environment variables.
	_ = godotenv.Load()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "reware.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./reware.log"
	}

	cfg := Config{Addr: addr, DBDSN: dsn, LogFile: logFile}
	log.Printf("[config] ADDR=%s DB_DSN=%s LOG_FILE=%s", cfg.Addr, cfg.DBDSN, cfg.LogFile)
	return cfg
}
