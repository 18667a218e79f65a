// internal/config/config.go
//
// Process configuration, read from the environment after an optional .env
// file has been loaded.
//
// Environment variables:
//   PORT            HTTP port (default 5175)
//   LOG_LEVEL       zerolog level (default info)
//   BOARD_SIZE      N for the N×N boards and word length (default 5)
//   WORDS_FILE      newline-delimited word list; embedded list when empty
//   SELECTION       random | first           (match selection policy)
//   ORIENTATION     row-first | random       (axis policy)
//   SEED_BOARDS     place one opening word per player on new games
//   RNG_SEED        fixed seed for reproducible games; 0 = random
//   DB_PATH         SQLite results log; disabled when empty
//   SESSION_SECRET  HMAC key for session cookies
//   SESSION_TTL     session cookie lifetime (default 24h)
//   CLIENT_ORIGIN   CORS origin (default http://localhost:5173)
//   DAILY_SALT      salt for daily opening words

package config

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and CLI.
type Config struct {
	Port          string        `env:"PORT" envDefault:"5175"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	BoardSize     int           `env:"BOARD_SIZE" envDefault:"5"`
	WordsFile     string        `env:"WORDS_FILE"`
	Selection     string        `env:"SELECTION" envDefault:"random"`
	Orientation   string        `env:"ORIENTATION" envDefault:"row-first"`
	SeedBoards    bool          `env:"SEED_BOARDS" envDefault:"false"`
	RNGSeed       uint64        `env:"RNG_SEED" envDefault:"0"`
	DBPath        string        `env:"DB_PATH"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	ClientOrigin  string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt     string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
}

// Load reads .env files (missing files are ignored) and then parses the
// environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if c.BoardSize < 2 || c.BoardSize > 12 {
		return Config{}, fmt.Errorf("config: BOARD_SIZE %d out of range 2..12", c.BoardSize)
	}
	return c, nil
}

// Rand returns a source seeded from RNGSeed, or randomly when it is 0.
// salt separates independent streams drawn from one seed.
func (c Config) Rand(salt uint64) *rand.Rand {
	if c.RNGSeed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(c.RNGSeed, salt))
}
