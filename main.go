package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ticket-bot/bot"
	"ticket-bot/config"
	"ticket-bot/handlers"
	"ticket-bot/lang"
	"ticket-bot/settings"
	"ticket-bot/storage"
	"ticket-bot/web"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lang.Load(cfg.Tickets.LangFile)

	reg, err := storage.Init(&cfg.Database)
	if err != nil {
		log.Printf("WARNING: Registry init failed (%v). Falling back to in-memory registry; open tickets will not survive a restart.", err)
		reg = storage.NewMemory()
	}
	defer reg.Close()

	panelStore := settings.Open(cfg.Tickets.SettingsFile)

	b, err := bot.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	handlers.Register(b.Session, cfg, reg, panelStore)

	if err := b.Start(); err != nil {
		log.Fatalf("Failed to start bot: %v", err)
	}
	defer b.Stop()

	web.Run(cfg.Web.Port)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Tickets.ReconcileSchedule, func() {
		handlers.Reconcile(b.Session, reg)
	}); err != nil {
		log.Printf("WARNING: invalid reconcile schedule %q: %v", cfg.Tickets.ReconcileSchedule, err)
	} else {
		c.Start()
		defer c.Stop()
	}

	log.Println("Bot is running. Press Ctrl+C to exit.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
