// Package config loads runtime configuration for the candidate and admin
// programs.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-e/-env, or ".env" when present) and AIHR_* variables.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-l string   interface language
//	-t int      per-question time limit (seconds)
//	-q int      number of questions
//	-i int      online status check interval (seconds)
//	-d string   local cache database path
//
// # JSON schema
//
// Durations are timex.Duration values, so "90s" and integer nanoseconds are
// both accepted:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "lang": "ru",
//	  "question_time_limit": "2m",
//	  "max_questions": 5,
//	  "online_check_interval": "3s",
//	  "s3": {"bucket": "cv-archive", "region": "eu-central-1"}
//	}
package config
