// Package compose renders a word batch into the email bodies.
package compose

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"vocab-engine/internal/words"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Stats is the footer block summarizing progress so far.
type Stats struct {
	TotalSent int
	SentToday int
}

type Message struct {
	Subject string
	Text    string
	HTML    string
}

type Composer struct {
	botName       string
	subjectPrefix string
	text          *texttemplate.Template
	html          *htmltemplate.Template
}

type templateData struct {
	Date    string
	BotName string
	Words   []words.Word
	Stats   Stats
}

func New(botName, subjectPrefix string) (*Composer, error) {
	funcs := map[string]any{
		"title": titleCase,
		"add1":  func(i int) int { return i + 1 },
	}

	text, err := texttemplate.New("email.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/email.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}
	html, err := htmltemplate.New("email.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/email.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}

	return &Composer{
		botName:       botName,
		subjectPrefix: subjectPrefix,
		text:          text,
		html:          html,
	}, nil
}

// Compose renders the batch into subject, plain-text, and HTML bodies.
func (c *Composer) Compose(batch []words.Word, now time.Time, stats Stats) (Message, error) {
	data := templateData{
		Date:    now.Format("January 2, 2006"),
		BotName: c.botName,
		Words:   batch,
		Stats:   stats,
	}

	var text, html bytes.Buffer
	if err := c.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("render text body: %w", err)
	}
	if err := c.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("render html body: %w", err)
	}

	subject := fmt.Sprintf("Daily Vocabulary - %s", data.Date)
	if c.subjectPrefix != "" {
		subject = c.subjectPrefix + " " + subject
	}

	return Message{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
