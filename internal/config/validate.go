package config

import (
	"fmt"
	"strconv"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims fields and checks everything a run needs
// before any network activity happens.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Recipient = strings.TrimSpace(out.Recipient)
	out.SMTP.User = strings.TrimSpace(out.SMTP.User)
	out.ScheduleTime = strings.TrimSpace(out.ScheduleTime)

	if out.Recipient == "" {
		res.addErr("RECIPIENT_EMAIL is required")
	} else if !strings.Contains(out.Recipient, "@") {
		res.addErr("RECIPIENT_EMAIL must be a valid email address")
	}

	switch out.MailTransport() {
	case "none":
		res.addErr("either GMAIL_USER + GMAIL_APP_PASSWORD or RESEND_API_KEY must be configured")
	case "smtp":
		if out.SMTP.Password == "" {
			res.addErr("GMAIL_APP_PASSWORD is required when using Gmail")
		}
	case "resend":
		if out.Resend.From == "" && out.SMTP.User == "" {
			res.addWarn("RESEND_FROM_EMAIL is empty; the SMTP user will be used as sender")
		}
	}

	if out.WordsPerDay < 1 || out.WordsPerDay > 10 {
		res.addErr("WORDS_PER_DAY must be between 1 and 10")
	}

	if _, _, err := ParseScheduleTime(out.ScheduleTime); err != nil {
		res.addErr("SCHEDULE_TIME must be in HH:MM format (e.g. 09:00)")
	}

	if out.DatabasePath == "" {
		res.addErr("DATABASE_PATH cannot be empty")
	}

	if out.Source.TimeoutSeconds <= 0 {
		res.addErr("API_TIMEOUT must be > 0")
	} else if out.Source.TimeoutSeconds > 60 {
		res.addWarn("API_TIMEOUT is very high (%ds); the run may hang on a slow API", out.Source.TimeoutSeconds)
	}
	if out.Source.AttemptsPerWord <= 0 {
		res.addErr("FETCH_ATTEMPTS_PER_WORD must be > 0")
	}

	return out, res
}

// ParseScheduleTime validates an HH:MM string and returns its components.
func ParseScheduleTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("schedule time %q: want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("schedule time %q: bad hour", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("schedule time %q: bad minute", s)
	}
	return hour, minute, nil
}
