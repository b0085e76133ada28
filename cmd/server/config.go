package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full configuration surface, filled from the environment
// (a .env file is honored via godotenv in main).
type Config struct {
	Port           string
	OpenAIKey      string
	Model          string
	MaxFileSize    int64 // upload cap in bytes
	MaxPages       int   // pages fed to summarization
	DailyLimit     int   // summarizations per session per day
	AllowedOrigins []string
	LLMTimeout     time.Duration
	CJKFontPath    string // TTF used for rendered-PDF output
	CJKFontName    string // family name written into DOCX runs
	DataDir        string
	DownloadsDir   string
}

func loadConfig() Config {
	return Config{
		Port:           envStr("PORT", "8000"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:          os.Getenv("LLM_MODEL"),
		MaxFileSize:    int64(envInt("MAX_FILE_SIZE", 5*1024*1024)),
		MaxPages:       envInt("MAX_PAGES", 3),
		DailyLimit:     envInt("DAILY_LIMIT", 3),
		AllowedOrigins: splitOrigins(envStr("ALLOWED_ORIGINS", "http://localhost:3000,chrome-extension://*,moz-extension://*")),
		LLMTimeout:     time.Duration(envInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		CJKFontPath:    os.Getenv("CJK_FONT_PATH"),
		CJKFontName:    os.Getenv("CJK_FONT_NAME"),
		DataDir:        envStr("DATA_DIR", "data/documents"),
		DownloadsDir:   envStr("DOWNLOADS_DIR", "downloads"),
	}
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitOrigins(s string) []string {
	var origins []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			origins = append(origins, part)
		}
	}
	return origins
}
