package main

import (
	"log"
	"os"
	"path/filepath"

	"chartAnalystBot/internal/chart"
	"chartAnalystBot/internal/config"
	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
	"chartAnalystBot/internal/openai"
	"chartAnalystBot/internal/server"
	"chartAnalystBot/internal/session"
	"chartAnalystBot/internal/storage"
	"chartAnalystBot/internal/telegram"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	log.Printf("db: opened sqlite at %s", cfg.DBPath)
	if err := storage.InitSchema(db); err != nil {
		log.Fatal(err)
	}
	log.Println("db: schema ensured (command_usage table)")

	var provider finance.Provider
	switch cfg.DataSource.Provider {
	case "alpaca":
		provider = finance.NewAlpacaProvider(cfg.DataSource.AlpacaKey, cfg.DataSource.AlpacaSecret)
	default:
		provider = finance.NewYahooProvider(cfg.Proxy)
	}
	log.Printf("data: using %s daily bars", provider.Name())

	if cfg.Chart.TmpDir != "" {
		if err := os.MkdirAll(cfg.Chart.TmpDir, 0o755); err != nil {
			log.Fatal(err)
		}
	}
	analyst := openai.NewAnalyst(openai.AnalystOptions{
		APIKey:  cfg.Analysis.APIKey,
		BaseURL: cfg.Analysis.BaseURL,
		Model:   cfg.Analysis.Model,
	})
	log.Printf("analysis: model %s, timeout %s", cfg.Analysis.Model, cfg.Analysis.Timeout)

	sessions := session.NewManager(session.Deps{
		Provider: finance.NewCachedProvider(provider),
		Engine:   indicator.NewEngine(),
		Renderer: chart.NewPNGRenderer(cfg.Chart.Width, cfg.Chart.Height),
		Analyst:  analyst,
		TempDir:  cfg.Chart.TmpDir,
	})

	tg, err := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.WebhookPublicURL, db, sessions, cfg.Analysis.Timeout)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("telegram: bot initialized, webhook target %s", cfg.Telegram.WebhookPublicURL)

	mux := server.NewHTTPMux(tg.WebhookHandler) // registers /telegram/webhook
	addr := ":" + cfg.Port
	log.Println("http: listening on", addr)
	if err := server.ListenAndServe(addr, mux); err != nil {
		log.Println("server error:", err)
		os.Exit(1)
	}
}
