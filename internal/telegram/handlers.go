package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chartAnalystBot/internal/chart"
	"chartAnalystBot/internal/session"
	"chartAnalystBot/internal/storage"
)

type Handlers struct {
	api             *tgbotapi.BotAPI
	store           *storage.Store
	sessions        *session.Manager
	analysisTimeout time.Duration
}

func NewHandlers(api *tgbotapi.BotAPI, store *storage.Store, sessions *session.Manager, analysisTimeout time.Duration) *Handlers {
	return &Handlers{
		api:             api,
		store:           store,
		sessions:        sessions,
		analysisTimeout: analysisTimeout,
	}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	if cmd := commandName(txt); cmd != "" && m.From != nil {
		if err := h.store.RecordUsage(m.Chat.ID, m.From.ID, commandCategory(cmd), cmd, int64(m.Date)); err != nil {
			log.Printf("db: record usage: %v", err)
		}
	}

	switch {
	case reFetch.MatchString(txt):
		g := reFetch.FindStringSubmatch(txt)
		h.handleFetch(m.Chat.ID, g[1], g[2], g[3])

	case reIndicators.MatchString(txt):
		g := reIndicators.FindStringSubmatch(txt)
		h.handleIndicators(m.Chat.ID, g[1])

	case reChart.MatchString(txt):
		h.handleChart(m.Chat.ID)

	case reAnalyze.MatchString(txt):
		h.handleAnalyze(m.Chat.ID)

	case reStatus.MatchString(txt):
		h.reply(m.Chat.ID, statusText(h.sessions.Get(m.Chat.ID).Snapshot()))

	case reReset.MatchString(txt):
		h.sessions.End(m.Chat.ID)
		h.reply(m.Chat.ID, "Session cleared. Click /fetch to load stock data.")

	case reUsage.MatchString(txt):
		days := 7
		if g := reUsage.FindStringSubmatch(txt); len(g) == 2 && g[1] != "" {
			fmt.Sscanf(g[1], "%d", &days)
			if days < 1 {
				days = 1
			}
			if days > 90 {
				days = 90
			}
		}
		h.handleUsage(m.Chat.ID, days)

	case reHelp.MatchString(txt):
		h.reply(m.Chat.ID, helpText)

	case strings.HasPrefix(txt, "/fetch"):
		h.reply(m.Chat.ID, "Usage: /fetch SYMBOL [START] [END], e.g. /fetch AAPL 2023-01-01 2024-12-14")
	}
}

func (h *Handlers) handleFetch(chatID int64, symbol, start, end string) {
	req, err := parseFetchArgs(symbol, start, end, time.Now())
	if err != nil {
		h.reply(chatID, "Error: "+err.Error())
		return
	}
	s := h.sessions.Get(chatID)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if _, err := s.Load(ctx, req); err != nil {
		h.replyFailure(chatID, err)
		return
	}
	snap := s.Snapshot()
	h.reply(chatID, previewText(snap))
	h.sendChart(chatID, s)
}

func (h *Handlers) handleIndicators(chatID int64, arg string) {
	s := h.sessions.Get(chatID)
	if strings.TrimSpace(arg) == "" {
		h.reply(chatID, "Selected indicators: "+selectionText(s.Snapshot().Selection)+"\n\nSet with e.g. /indicators sma vwap")
		return
	}
	kinds, err := parseIndicatorArgs(arg)
	if err != nil {
		h.reply(chatID, "Error: "+err.Error())
		return
	}
	s.Select(kinds)
	h.reply(chatID, "Selected indicators: "+selectionText(kinds))
	if s.Snapshot().Rows > 0 {
		h.sendChart(chatID, s)
	}
}

func (h *Handlers) handleChart(chatID int64) {
	h.sendChart(chatID, h.sessions.Get(chatID))
}

func (h *Handlers) handleAnalyze(chatID int64) {
	s := h.sessions.Get(chatID)
	h.reply(chatID, "Analyzing the chart, please wait...")
	ctx, cancel := context.WithTimeout(context.Background(), h.analysisTimeout)
	defer cancel()
	res, err := s.Analyze(ctx)
	if err != nil {
		h.replyFailure(chatID, err)
		return
	}
	h.reply(chatID, "AI Analysis Results:\n\n"+res.Text)
}

func (h *Handlers) handleUsage(chatID int64, days int) {
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
	stats, err := h.store.UsageSince(since)
	if err != nil {
		h.reply(chatID, "Usage failed: "+err.Error())
		return
	}
	if len(stats) == 0 {
		h.reply(chatID, chart.FormatUsageText(stats, days))
		return
	}
	img, err := chart.MakeUsageChart(stats, days)
	if err != nil {
		h.reply(chatID, "Usage chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "usage.png", Bytes: img})
	photo.Caption = chart.FormatUsageText(stats, days)
	h.api.Send(photo)
}

func (h *Handlers) sendChart(chatID int64, s *session.Session) {
	spec, warnings, err := s.Chart()
	if err != nil {
		h.replyFailure(chatID, err)
		return
	}
	for _, w := range warnings {
		h.reply(chatID, w.Error())
	}
	img, err := s.Render()
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	snap := s.Snapshot()
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: snap.Symbol + ".png", Bytes: img})
	photo.Caption = spec.Title + " • " + selectionText(snap.Selection)
	h.api.Send(photo)
}

func (h *Handlers) replyFailure(chatID int64, err error) {
	if f, ok := session.AsFailure(err); ok {
		h.reply(chatID, f.Message())
		return
	}
	if errors.Is(err, session.ErrNotLoaded) {
		h.reply(chatID, "Click /fetch to load stock data.")
		return
	}
	h.reply(chatID, "Error: "+err.Error())
}

func (h *Handlers) reply(chatID int64, text string) {
	h.api.Send(tgbotapi.NewMessage(chatID, text))
}
