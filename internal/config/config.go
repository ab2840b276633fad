package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built in three layers: compiled defaults, then environment
// variables (a .env file is loaded if present), then the user overlay file
// in the data dir, which the web form edits. Secrets (app password, API
// keys) never land in the overlay file; they come from env or the OS
// keychain.
type Config struct {
	Recipient     string `yaml:"recipient" json:"recipient"`
	BotName       string `yaml:"bot_name" json:"botName"`
	SubjectPrefix string `yaml:"subject_prefix" json:"subjectPrefix"`
	WordsPerDay   int    `yaml:"words_per_day" json:"wordsPerDay"`
	ScheduleTime  string `yaml:"schedule_time" json:"scheduleTime"`
	DatabasePath  string `yaml:"database_path" json:"databasePath"`

	SMTP struct {
		User     string `yaml:"user" json:"user"`
		Password string `yaml:"-" json:"-"`
	} `yaml:"smtp" json:"smtp"`

	Resend struct {
		APIKey string `yaml:"-" json:"-"`
		From   string `yaml:"from" json:"from"`
	} `yaml:"resend" json:"resend"`

	Source struct {
		DictionaryURL   string `yaml:"dictionary_url" json:"dictionaryURL"`
		TimeoutSeconds  int    `yaml:"timeout_seconds" json:"timeoutSeconds"`
		AttemptsPerWord int    `yaml:"attempts_per_word" json:"attemptsPerWord"`
		WordOfTheDay    bool   `yaml:"word_of_the_day" json:"wordOfTheDay"`
	} `yaml:"source" json:"source"`

	Web struct {
		Addr     string `yaml:"addr" json:"addr"`
		Password string `yaml:"-" json:"-"`
	} `yaml:"web" json:"web"`
}

func Defaults() Config {
	var cfg Config
	cfg.BotName = "Daily Vocabulary Bot"
	cfg.WordsPerDay = 2
	cfg.ScheduleTime = "09:00"
	cfg.DatabasePath = "vocabulary.db"
	cfg.Source.DictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	cfg.Source.TimeoutSeconds = 10
	cfg.Source.AttemptsPerWord = 3
	cfg.Web.Addr = "127.0.0.1:5000"
	return cfg
}

// Load builds the layered config. envFile may be empty; a missing .env is
// not an error.
func Load(envFile, overlayPath string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	_ = godotenv.Load(envFile)

	cfg := Defaults()
	applyEnv(&cfg)

	if overlayPath != "" {
		if err := applyOverlay(&cfg, overlayPath); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr(&cfg.Recipient, "RECIPIENT_EMAIL")
	setStr(&cfg.BotName, "BOT_NAME")
	setStr(&cfg.SubjectPrefix, "EMAIL_SUBJECT_PREFIX")
	setInt(&cfg.WordsPerDay, "WORDS_PER_DAY")
	setStr(&cfg.ScheduleTime, "SCHEDULE_TIME")
	setStr(&cfg.DatabasePath, "DATABASE_PATH")

	setStr(&cfg.SMTP.User, "GMAIL_USER")
	setStr(&cfg.SMTP.Password, "GMAIL_APP_PASSWORD")

	setStr(&cfg.Resend.APIKey, "RESEND_API_KEY")
	setStr(&cfg.Resend.From, "RESEND_FROM_EMAIL")

	setStr(&cfg.Source.DictionaryURL, "DICTIONARY_API_URL")
	setInt(&cfg.Source.TimeoutSeconds, "API_TIMEOUT")
	setInt(&cfg.Source.AttemptsPerWord, "FETCH_ATTEMPTS_PER_WORD")
	if v := os.Getenv("WORD_OF_THE_DAY"); v != "" {
		cfg.Source.WordOfTheDay = v == "1" || v == "true" || v == "yes"
	}

	setStr(&cfg.Web.Addr, "WEB_ADDR")
	setStr(&cfg.Web.Password, "WEB_PASSWORD")
}

// applyOverlay merges the user-editable yaml file on top. A missing overlay
// should not kill startup.
func applyOverlay(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(b, cfg)
}

// MailTransport reports which transport the config selects: "resend" when an
// API key is present, "smtp" when SMTP credentials are, "none" otherwise.
// The API key wins when both are set.
func (c Config) MailTransport() string {
	if c.Resend.APIKey != "" {
		return "resend"
	}
	if c.SMTP.User != "" && c.SMTP.Password != "" {
		return "smtp"
	}
	return "none"
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
