package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/aihr/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "AIHR_"

// loadDotenv exports the variables of a dotenv file into the process
// environment. An explicit -e/-env file must exist; the implicit ".env" is
// optional. Variables already present in the environment are not overridden.
func loadDotenv() {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays Config with AIHR_* environment variables.
//
//	AIHR_SERVER_URL, AIHR_LANG, AIHR_QUESTION_TIME_LIMIT, AIHR_MAX_QUESTIONS,
//	AIHR_REQUEST_TIMEOUT, AIHR_ONLINE_CHECK_INTERVAL, AIHR_CACHE_DSN,
//	AIHR_DOWNLOAD_DIR, AIHR_LOG_FORMAT, AIHR_LOG_LEVEL, AIHR_S3_BUCKET,
//	AIHR_S3_REGION, AIHR_S3_BASE_ENDPOINT, AIHR_S3_ACCESS_KEY,
//	AIHR_S3_SECRET_KEY
//
// Durations use time.ParseDuration syntax ("90s", "2m"). Malformed values panic.
func parseEnv(cfg *Config) {
	loadDotenv()

	envString("SERVER_URL", &cfg.ServerURL)
	envString("LANG", &cfg.Lang)
	envDuration("QUESTION_TIME_LIMIT", &cfg.QuestionTimeLimit)
	envInt("MAX_QUESTIONS", &cfg.MaxQuestions)
	envDuration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	envDuration("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	envString("CACHE_DSN", &cfg.CacheDSN)
	envString("DOWNLOAD_DIR", &cfg.DownloadDir)
	envString("LOG_FORMAT", &cfg.LogFormat)
	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("S3_BUCKET", &cfg.S3Bucket)
	envString("S3_REGION", &cfg.S3Region)
	envString("S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint)
	envString("S3_ACCESS_KEY", &cfg.S3AccessKey)
	envString("S3_SECRET_KEY", &cfg.S3SecretKey)
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func envDuration(name string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
