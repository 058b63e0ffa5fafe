// Package view renders admin bot messages.
package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"auction_house/internal/domain/entity"
)

const RapPageSize = 10

const (
	StartMessage = "👋 <b>Auction House admin</b>\n\n" +
		"/status: состояние аукциона\n" +
		"/rap: средние цены по последним продажам\n" +
		"/startreaper: запустить reaper\n" +
		"/stopreaper: остановить reaper"

	RapError          = "❌ Не удалось получить RAP"
	RapEmpty          = "📭 Продаж пока не было"
	ReaperAlreadyOn   = "Reaper уже запущен!"
	ReaperAlreadyOff  = "Reaper не запущен!"
	ReaperStarted     = "Reaper запущен!"
	ReaperStopped     = "Reaper остановлен!"
	ReaperStartFailed = "Ошибка запуска reaper: %v"
)

func Status(count int64, reaperRunning bool, interval time.Duration) string {
	reaperStatus := "🔴 остановлен"
	if reaperRunning {
		reaperStatus = "🟢 работает"
	}

	return fmt.Sprintf("📊 <b>Статус аукциона</b>\n\n"+
		"📦 <b>Активных лотов:</b> %d\n"+
		"⏱ <b>Reaper:</b> %s (тик %s)",
		count,
		reaperStatus,
		interval,
	)
}

// RapPage renders page (1-based, clamped) of entries and reports the page
// actually shown and the page count.
func RapPage(entries []entity.RapEntry, page int) (string, int, int) {
	totalPages := max(1, (len(entries)+RapPageSize-1)/RapPageSize)
	page = min(max(page, 1), totalPages)

	start := (page - 1) * RapPageSize
	end := min(start+RapPageSize, len(entries))

	var sb strings.Builder

	fmt.Fprintf(&sb, "💹 <b>RAP</b> (Стр. %d/%d)\n\n", page, totalPages)

	for _, e := range entries[start:end] {
		fmt.Fprintf(&sb, "• %s / <code>%s</code>: %s\n",
			html.EscapeString(e.ItemClass),
			html.EscapeString(e.ItemID),
			e.AveragePrice.StringFixed(2),
		)
	}

	return sb.String(), page, totalPages
}
