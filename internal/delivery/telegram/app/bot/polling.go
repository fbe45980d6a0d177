// internal/delivery/telegram/app/bot/polling.go
package bot

import (
	"fmt"
	"sync"
	"time"

	"telegram-dispatch-bot/internal/delivery/telegram"
	telegram_http "telegram-dispatch-bot/internal/delivery/telegram/app/http_client"
	"telegram-dispatch-bot/pkg/logger"
)

// Dispatcher - цикл получения и раздачи обновлений
type Dispatcher struct {
	bot     *TelegramBot
	offset  int64
	running bool

	mu       sync.Mutex
	stopChan chan struct{}
}

// NewDispatcher создает новый диспетчер polling
func NewDispatcher(bot *TelegramBot) *Dispatcher {
	return &Dispatcher{
		bot: bot,
	}
}

// Start запускает цикл polling
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return fmt.Errorf("polling already running")
	}

	// Сбрасываем накопившийся бэклог: обновления, пришедшие пока бот
	// лежал, не должны обрабатываться
	d.offset = d.bot.GetPollingClient().ClearBacklog()
	logger.Info("🔄 Запуск polling, стартовый offset=%d", d.offset)

	d.running = true
	d.stopChan = make(chan struct{})

	go d.pollLoop()

	return nil
}

// Stop останавливает цикл polling
func (d *Dispatcher) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return nil
	}

	d.running = false
	close(d.stopChan)
	logger.Warn("🛑 Остановка polling...")

	return nil
}

// IsRunning возвращает состояние цикла
func (d *Dispatcher) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// pollLoop основной цикл polling
func (d *Dispatcher) pollLoop() {
	interval := d.bot.GetConfig().Telegram.PollInterval
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}

	for d.IsRunning() {
		select {
		case <-d.stopChan:
			return
		default:
			d.pollOnce()
			time.Sleep(interval)
		}
	}
}

// pollOnce выполняет одну итерацию: fetch, раздача, сдвиг offset.
// Паника в итерации не должна ронять цикл.
func (d *Dispatcher) pollOnce() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("❌ Паника в цикле polling: %v", r)
		}
	}()

	cfg := d.bot.GetConfig().Telegram
	result := d.bot.GetPollingClient().GetUpdates(d.offset, cfg.PollTimeout, cfg.PollLimit)

	switch result.Kind {
	case telegram_http.FetchOK:
		d.dispatchBatch(result.Updates)
	case telegram_http.FetchTimeout:
		// Штатный исход long poll без обновлений
	case telegram_http.FetchConflict:
		logger.Warn("⚠️ Конфликт getUpdates (параллельный поллер?), пауза %v", result.Backoff)
		time.Sleep(result.Backoff)
	case telegram_http.FetchRateLimited:
		logger.Warn("⚠️ Rate limit getUpdates, пауза %v", result.Backoff)
		time.Sleep(result.Backoff)
	case telegram_http.FetchFailed:
		logger.Error("❌ Ошибка getUpdates, пауза %v", result.Backoff)
		time.Sleep(result.Backoff)
	}
}

// dispatchBatch раздает пачку обновлений по одному
func (d *Dispatcher) dispatchBatch(updates []telegram.Update) {
	for i := range updates {
		update := &updates[i]

		d.processUpdate(update)

		// Throwaway-подтверждение конкретно этого update_id: даже если
		// хэндлер упал, Telegram не должен доставить его повторно
		d.bot.GetPollingClient().Acknowledge(update.UpdateID + 1)

		// offset только растет, независимо от исхода обработки
		if next := update.UpdateID + 1; next > d.offset {
			d.offset = next
		}
	}
}

// processUpdate обрабатывает одно обновление с защитой от паники
func (d *Dispatcher) processUpdate(update *telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("❌ Паника при обработке update_id=%d: %v", update.UpdateID, r)
		}
	}()

	if err := d.bot.HandleUpdate(update); err != nil {
		logger.Error("❌ Ошибка обработки update_id=%d: %v", update.UpdateID, err)
	}
}

// Offset возвращает текущий confirmed offset
func (d *Dispatcher) Offset() int64 {
	return d.offset
}
