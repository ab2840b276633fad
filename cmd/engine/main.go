package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"vocab-engine/internal/compose"
	"vocab-engine/internal/config"
	"vocab-engine/internal/events"
	"vocab-engine/internal/httpapi"
	"vocab-engine/internal/mail"
	"vocab-engine/internal/scheduler"
	"vocab-engine/internal/secrets"
	"vocab-engine/internal/store"
	"vocab-engine/internal/words"
	"vocab-engine/internal/workflow"
)

const usage = `Usage: engine <command> [flags]

Commands:
  send      fetch words, compose and deliver one email now
  schedule  run the daily scheduler in the foreground
  serve     run the web form (and the scheduler) as a local server
  validate  check the configuration, optionally probing live services
  info      show database statistics
  prune     delete sent-word records older than N days
  reset     delete all sent-word records
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "send":
		err = cmdSend(os.Args[2:])
	case "schedule":
		err = cmdSchedule(os.Args[2:])
	case "serve":
		err = cmdServe(os.Args[2:])
	case "validate":
		err = cmdValidate(os.Args[2:])
	case "info":
		err = cmdInfo(os.Args[2:])
	case "prune":
		err = cmdPrune(os.Args[2:])
	case "reset":
		err = cmdReset(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Printf("level=error msg=%q", err)
		os.Exit(1)
	}
}

func dataDir() string {
	dir := os.Getenv("VOCAB_DATA_DIR")
	if dir == "" {
		dir = "."
	}
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// loadConfig builds the layered config and fills missing secrets from the
// OS keychain.
func loadConfig(dir string) (config.Config, error) {
	cfg, err := config.Load("", config.OverlayPath(dir))
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	secrets.Fill(map[string]*string{
		secrets.AccountSMTPPassword: &cfg.SMTP.Password,
		secrets.AccountResendAPIKey: &cfg.Resend.APIKey,
		secrets.AccountWebPassword:  &cfg.Web.Password,
	})
	return cfg, nil
}

func openStore(dir string, cfg config.Config) (*store.DB, error) {
	path := cfg.DatabasePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(db.Pool); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newSource(cfg config.Config) *words.Fetcher {
	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	dict := words.NewDictionaryClient(cfg.Source.DictionaryURL, timeout)

	opts := []words.Option{words.WithAttemptsPerWord(cfg.Source.AttemptsPerWord)}
	if cfg.Source.WordOfTheDay {
		opts = append(opts, words.WithWordOfTheDay(words.NewWordOfTheDayClient("", timeout)))
	}
	return words.NewFetcher(dict, opts...)
}

func newSender(cfg config.Config) (mail.Sender, error) {
	switch cfg.MailTransport() {
	case "resend":
		from := cfg.Resend.From
		if from == "" {
			from = "onboarding@resend.dev"
		}
		return mail.NewResendSender(cfg.Resend.APIKey, from, cfg.BotName), nil
	case "smtp":
		return mail.NewSMTPSender(cfg.SMTP.User, cfg.SMTP.Password, cfg.BotName), nil
	}
	return nil, mail.ErrNotConfigured
}

func newRunner(dir string, cfg config.Config, db *store.DB) (*workflow.Runner, error) {
	comp, err := compose.New(cfg.BotName, cfg.SubjectPrefix)
	if err != nil {
		return nil, err
	}
	sender, err := newSender(cfg)
	if err != nil {
		return nil, err
	}
	return &workflow.Runner{
		Store:       db,
		Source:      newSource(cfg),
		Composer:    comp,
		Sender:      sender,
		Recipient:   cfg.Recipient,
		WordsPerDay: cfg.WordsPerDay,
		LockPath:    filepath.Join(dir, "send.lock"),
	}, nil
}

func cmdSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "compose but do not deliver or record")
	_ = fs.Parse(args)

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	if cfg, err = validateFatal(cfg, *dryRun); err != nil {
		return err
	}

	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(dir, cfg, db)
	if err != nil {
		if *dryRun && errors.Is(err, mail.ErrNotConfigured) {
			runner, err = newRunnerDry(dir, cfg, db)
		}
		if err != nil {
			return err
		}
	}

	res, err := runner.Run(context.Background(), *dryRun)
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Println(res.Message.Subject)
		fmt.Println()
		fmt.Println(res.Message.Text)
		return nil
	}
	log.Printf("level=info msg=\"email delivered\" to=%s words=%d", cfg.Recipient, len(res.Words))
	return nil
}

// newRunnerDry builds a runner without a mail transport; only valid for
// dry runs, which never touch the sender.
func newRunnerDry(dir string, cfg config.Config, db *store.DB) (*workflow.Runner, error) {
	comp, err := compose.New(cfg.BotName, cfg.SubjectPrefix)
	if err != nil {
		return nil, err
	}
	return &workflow.Runner{
		Store:       db,
		Source:      newSource(cfg),
		Composer:    comp,
		Recipient:   cfg.Recipient,
		WordsPerDay: cfg.WordsPerDay,
	}, nil
}

func cmdSchedule(args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	_ = fs.Parse(args)

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	if cfg, err = validateFatal(cfg, false); err != nil {
		return err
	}

	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := newRunner(dir, cfg, db)
	if err != nil {
		return err
	}

	sched := scheduler.New()
	if err := sched.Schedule(cfg.ScheduleTime, func() {
		if _, err := runner.Run(context.Background(), false); err != nil {
			log.Printf("level=error msg=\"scheduled send failed\" err=%q", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("level=info msg=\"shutting down\"")
		sched.Stop()
	}()

	log.Printf("level=info msg=\"scheduler started\" at=%s next=%s", cfg.ScheduleTime, sched.NextRun().Format(time.RFC1123))
	sched.StartBlocking()
	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address (overrides config)")
	noSched := fs.Bool("no-scheduler", false, "serve the form without the daily scheduler")
	_ = fs.Parse(args)

	dir := dataDir()
	overlayPath := config.OverlayPath(dir)

	loadCfg := func() (config.Config, error) { return loadConfig(dir) }
	cfg, err := loadCfg()
	if err != nil {
		return err
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	hub := events.NewHub()

	runSend := func(ctx context.Context, c config.Config, dryRun bool) (workflow.Result, error) {
		var runner *workflow.Runner
		var err error
		if dryRun {
			runner, err = newRunnerDry(dir, c, db)
		} else {
			runner, err = newRunner(dir, c, db)
		}
		if err != nil {
			return workflow.Result{}, err
		}
		return runner.Run(ctx, dryRun)
	}

	var sched *scheduler.Scheduler
	if !*noSched {
		sched = scheduler.New()
		if err := sched.Schedule(cfg.ScheduleTime, func() {
			c := cfgVal.Load().(config.Config)
			res, err := runSend(context.Background(), c, false)
			if err != nil {
				log.Printf("level=error msg=\"scheduled send failed\" err=%q", err)
				return
			}
			hub.Publish(events.MakeEvent("send_completed", map[string]any{"words": len(res.Words)}))
		}); err != nil {
			return fmt.Errorf("schedule job: %w", err)
		}
		sched.StartAsync()
		defer sched.Stop()
	}

	deps := httpapi.Deps{
		DB:          db,
		Hub:         hub,
		CfgVal:      &cfgVal,
		OverlayPath: overlayPath,
		LoadCfg:     loadCfg,
		RunSend:     runSend,
		Sessions:    httpapi.NewSessionStore(0),
	}
	if sched != nil {
		deps.NextRun = sched.NextRun
	}

	listen := cfg.Web.Addr
	if *addr != "" {
		listen = *addr
	}

	srv := &http.Server{
		Addr:              listen,
		Handler:           httpapi.NewMux(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("level=info msg=\"shutting down\"")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("level=info msg=\"web form listening\" addr=%s", listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	probe := fs.Bool("probe", false, "also probe the dictionary API and mail transport")
	_ = fs.Parse(args)

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}

	normalized, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		fmt.Printf("warn:  %s\n", w)
	}
	for _, e := range vr.Errors {
		fmt.Printf("error: %s\n", e)
	}
	if !vr.OK() {
		return fmt.Errorf("configuration has %d error(s)", len(vr.Errors))
	}
	fmt.Printf("ok: configuration valid (transport=%s)\n", normalized.MailTransport())

	if !*probe {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	dict := words.NewDictionaryClient(normalized.Source.DictionaryURL, time.Duration(normalized.Source.TimeoutSeconds)*time.Second)
	if err := dict.Ping(ctx); err != nil {
		fmt.Printf("warn:  dictionary API unreachable, fallback words will be used: %v\n", err)
	} else {
		fmt.Println("ok: dictionary API reachable")
	}

	sender, err := newSender(normalized)
	if err != nil {
		return err
	}
	if err := sender.Probe(ctx); err != nil {
		return fmt.Errorf("mail transport probe failed: %w", err)
	}
	fmt.Println("ok: mail transport reachable")
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	_ = fs.Parse(args)

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	info, err := db.Info(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("database:   %s (%d bytes)\n", info.Path, info.SizeBytes)
	fmt.Printf("words sent: %d total, %d today\n", info.Count, info.SentToday)
	if info.Oldest != "" {
		fmt.Printf("oldest:     %s\n", info.Oldest)
		fmt.Printf("newest:     %s\n", info.Newest)
	}
	return nil
}

func cmdPrune(args []string) error {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	days := fs.Int("days", 365, "delete records older than this many days")
	_ = fs.Parse(args)
	if *days < 0 {
		return errors.New("--days must be >= 0")
	}

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.PruneOlderThan(context.Background(), *days)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %d record(s) older than %d day(s)\n", deleted, *days)
	return nil
}

func cmdReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm deletion of all sent-word records")
	_ = fs.Parse(args)
	if !*yes {
		return errors.New("refusing to reset without --yes")
	}

	dir := dataDir()
	cfg, err := loadConfig(dir)
	if err != nil {
		return err
	}
	db, err := openStore(dir, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Reset(context.Background()); err != nil {
		return err
	}
	fmt.Println("all sent-word records deleted")
	return nil
}

// validateFatal normalizes the config and fails on validation errors.
// Warnings are logged. Dry runs skip the mail-credential requirement since
// they never deliver.
func validateFatal(cfg config.Config, dryRun bool) (config.Config, error) {
	normalized, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("level=warn msg=%q", w)
	}

	var fatal []string
	for _, e := range vr.Errors {
		if dryRun && (strings.Contains(e, "GMAIL") || strings.Contains(e, "RESEND")) {
			continue
		}
		fatal = append(fatal, e)
	}
	if len(fatal) > 0 {
		for _, e := range fatal {
			log.Printf("level=error msg=%q", e)
		}
		return normalized, fmt.Errorf("configuration has %d error(s)", len(fatal))
	}
	return normalized, nil
}
