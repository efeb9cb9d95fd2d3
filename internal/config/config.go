// internal/config/config.go
//
// Process configuration.
//   - Env:   deployment settings read from environment variables (a `.env`
//            file is loaded into the environment by main via godotenv).
//   - Rules: game tuning read from an optional YAML file (RULES_FILE). Fields
//            missing from the file keep their defaults; unknown keys are an
//            error. Grid size is not a rule: each puzzle brings its own.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordbuff/internal/buff"
	"github.com/robalobadob/wordbuff/internal/cardgame"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

// Env holds deployment settings.
type Env struct {
	Port           string        `env:"PORT"             envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL"        envDefault:"info"`
	DBPath         string        `env:"DB_PATH"          envDefault:"./data/app.db"`
	JWTSecret      string        `env:"JWT_SECRET"       envDefault:"dev_secret_change_me"`
	JWTExpiresDays int           `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string        `env:"COOKIE_NAME"      envDefault:"wordbuff_token"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN"    envDefault:"http://localhost:5173"`
	DailySalt      string        `env:"DAILY_SALT"       envDefault:"local_dev_salt"`
	RulesFile      string        `env:"RULES_FILE"`
	ContentDir     string        `env:"CONTENT_DIR"`
	SessionTTL     time.Duration `env:"SESSION_TTL"      envDefault:"2h"`
	Environment    string        `env:"NODE_ENV"         envDefault:"development"`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Production reports whether cookies should be Secure/SameSite=None.
func (e Env) Production() bool { return e.Environment == "production" }

// Rules is the game tuning file.
type Rules struct {
	Card cardgame.Config `yaml:"card"`
	Grid wordgrid.Config `yaml:"grid"`
	// RarityWeights overrides buff tier weights by tier name
	// (common/rare/epic/legendary). Empty keeps the defaults.
	RarityWeights map[string]int `yaml:"rarity_weights"`
}

// ErrInvalidRules wraps every rules validation failure.
var ErrInvalidRules = errors.New("config: invalid rules")

// DefaultRules returns the built-in tuning.
func DefaultRules() Rules {
	return Rules{
		Card: cardgame.DefaultConfig(),
		Grid: wordgrid.DefaultConfig(),
	}
}

// LoadRules reads path over the defaults. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	r := DefaultRules()
	if path == "" {
		return r, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidRules, path, err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate checks every section.
func (r Rules) Validate() error {
	if err := r.Card.Validate(); err != nil {
		return fmt.Errorf("%w: card: %w", ErrInvalidRules, err)
	}
	if err := r.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: grid: %w", ErrInvalidRules, err)
	}
	if _, err := r.Weights(); err != nil {
		return err
	}
	return nil
}

// Weights converts RarityWeights into buff tiers. Returns nil when no
// override is configured.
func (r Rules) Weights() (map[buff.Rarity]int, error) {
	if len(r.RarityWeights) == 0 {
		return nil, nil
	}
	out := make(map[buff.Rarity]int, len(r.RarityWeights))
	for name, w := range r.RarityWeights {
		tier, ok := buff.ParseRarity(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown rarity %q", ErrInvalidRules, name)
		}
		out[tier] = w
	}
	if _, err := buff.NewCatalog(out, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return out, nil
}
