package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint        = "https://api.zhishuyun.com/midjourney/imagine"
	DefaultUploadMode      = "multipart"
	DefaultGenerateTimeout = 480 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
	DefaultPreviewSize     = 200
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Endpoint          string
	Token             string
	UploadMode        string
	GenerateTimeout   time.Duration
	FetchTimeout      time.Duration
	PromptTemplate    string
	CallbackURL       string
	Translation       bool
	PreviewSize       int
	AllowPrivateHosts bool
	LogLevel          slog.Level
}

// Load は .env / .env.local を読み込んだ上で環境変数から設定を組み立てます。
// .env ファイルが存在しなくてもエラーにはしません。
func Load() (Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	var errs []error
	c := Config{
		Endpoint:          getenv("STYLEKIT_ENDPOINT", DefaultEndpoint),
		Token:             getenv("STYLEKIT_TOKEN", ""),
		UploadMode:        getenv("STYLEKIT_UPLOAD_MODE", DefaultUploadMode),
		GenerateTimeout:   getDuration("STYLEKIT_GENERATE_TIMEOUT", DefaultGenerateTimeout, &errs),
		FetchTimeout:      getDuration("STYLEKIT_FETCH_TIMEOUT", DefaultFetchTimeout, &errs),
		PromptTemplate:    getenv("STYLEKIT_PROMPT_TEMPLATE", ""),
		CallbackURL:       getenv("STYLEKIT_CALLBACK_URL", ""),
		Translation:       getBool("STYLEKIT_TRANSLATION", true, &errs),
		PreviewSize:       getInt("STYLEKIT_PREVIEW_SIZE", DefaultPreviewSize, &errs),
		AllowPrivateHosts: getBool("STYLEKIT_ALLOW_PRIVATE_HOSTS", false, &errs),
		LogLevel:          getLogLevel("STYLEKIT_LOG_LEVEL", &errs),
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return c, nil
}

// Validate は API 呼び出しに必要な設定が揃っているか確認します。
func (c Config) Validate() error {
	var errs []error
	if c.Endpoint == "" {
		errs = append(errs, errors.New("STYLEKIT_ENDPOINT が設定されていません"))
	}
	if c.Token == "" {
		errs = append(errs, errors.New("STYLEKIT_TOKEN が設定されていません"))
	}
	if c.GenerateTimeout <= 0 || c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("タイムアウトは正の値である必要があります"))
	}
	if c.PreviewSize <= 0 {
		errs = append(errs, errors.New("STYLEKIT_PREVIEW_SIZE は正の値である必要があります"))
	}
	if c.PromptTemplate != "" && strings.Count(c.PromptTemplate, "%s") != 1 {
		errs = append(errs, errors.New("STYLEKIT_PROMPT_TEMPLATE には %s を一つだけ含めてください"))
	}
	return errors.Join(errs...)
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// getDuration は "480s" のような Duration 表記と、秒数のみの整数表記の両方を受け付けます。
func getDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s が不正です: %w", k, err))
		return def
	}
	return d
}

func getBool(k string, def bool, errs *[]error) bool {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s が不正です: %w", k, err))
		return def
	}
	return b
}

func getInt(k string, def int, errs *[]error) int {
	v := getenv(k, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s が不正です: %w", k, err))
		return def
	}
	return n
}

func getLogLevel(k string, errs *[]error) slog.Level {
	var level slog.Level
	v := getenv(k, "info")
	if err := level.UnmarshalText([]byte(v)); err != nil {
		*errs = append(*errs, fmt.Errorf("%s が不正です: %w", k, err))
		return slog.LevelInfo
	}
	return level
}
