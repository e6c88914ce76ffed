package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/aihr/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend (default from Config)
//	-l string   interface language tag
//	-t int      per-question time limit in seconds
//	-q int      number of questions requested from the backend
//	-i int      online check interval in seconds
//	-d string   path of the local SQLite cache
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-l", "-t", "-q", "-i", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the backend server")
	fs.StringVar(&cfg.Lang, "l", cfg.Lang, "interface language (en, ru, uz)")
	timeLimit := fs.Int("t", int(cfg.QuestionTimeLimit.Seconds()), "time limit per question (in seconds)")
	fs.IntVar(&cfg.MaxQuestions, "q", cfg.MaxQuestions, "number of interview questions")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "path to the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.QuestionTimeLimit = time.Duration(*timeLimit) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
