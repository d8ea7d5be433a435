package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rshade/loadcalc/internal/engine/cache"
)

// Environment variables that override file settings.
const (
	EnvHome           = "LOADCALC_HOME"
	EnvProjectDir     = "LOADCALC_PROJECT_DIR"
	EnvLogLevel       = "LOADCALC_LOG_LEVEL"
	EnvLogFormat      = "LOADCALC_LOG_FORMAT"
	EnvLogFile        = "LOADCALC_LOG_FILE"
	EnvOutputFormat   = "LOADCALC_OUTPUT_FORMAT"
	EnvLocale         = "LOADCALC_LOCALE"
	EnvFactorsFile    = "LOADCALC_FACTORS_FILE"
	EnvTiePolicy      = "LOADCALC_TIE_POLICY"
	EnvCacheEnabled   = "LOADCALC_CACHE_ENABLED"
	EnvCacheDir       = "LOADCALC_CACHE_DIR"
	EnvCacheTTL       = "LOADCALC_CACHE_TTL_SECONDS"
	EnvServerAddr     = "LOADCALC_SERVER_ADDR"
	EnvCompanyName    = "LOADCALC_COMPANY_NAME"
	EnvCompanyContact = "LOADCALC_COMPANY_CONTACT"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) into the process environment. Variables already set win, and
// missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overlays LOADCALC_* environment variables onto c. Unparsable
// numeric or boolean values are ignored. The cache TTL accepts seconds or a
// duration such as "12h".
func (c *Config) ApplyEnv() {
	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.Format, EnvLogFormat)
	setString(&c.Logging.File, EnvLogFile)
	setString(&c.Output.DefaultFormat, EnvOutputFormat)
	setString(&c.Output.Locale, EnvLocale)
	setString(&c.Output.Branding.CompanyName, EnvCompanyName)
	setString(&c.Output.Branding.Contact, EnvCompanyContact)
	setString(&c.Calculation.FactorsFile, EnvFactorsFile)
	setString(&c.Calculation.TiePolicy, EnvTiePolicy)
	setString(&c.Cache.Dir, EnvCacheDir)
	setString(&c.Server.Addr, EnvServerAddr)

	if v, ok := lookup(EnvCacheEnabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v, ok := lookup(EnvCacheTTL); ok {
		if n, err := cache.ParseTTL(v); err == nil {
			c.Cache.TTLSeconds = n
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
