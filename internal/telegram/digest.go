package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus-lostfound/internal/analytics"
	"campus-lostfound/internal/storage"
)

// SendDailyDigest sends today's activity summary to the admin. Without an
// admin configured it is a no-op. Interaction log failures only drop the chat
// part of the digest.
func (b *Bot) SendDailyDigest(_ context.Context, rec storage.Recorder) error {
	if b.adminUserID == 0 {
		log.Println("⚠️ ADMIN_USER not set, skipping digest")
		return nil
	}
	var events []storage.Event
	if rec != nil {
		evs, err := rec.LoadInteractions()
		if err != nil {
			log.Printf("⚠️ failed to load interactions for digest: %v", err)
		} else {
			events = evs
		}
	}
	stats := analytics.AnalyzeDay(b.store.Lost(), b.store.Found(), events, time.Now())
	if err := b.SendText(b.adminUserID, stats.GenerateReportSummary()); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	log.Printf("📊 Digest for %s sent to admin", stats.Date)
	return nil
}
