// Package notify описывает канал уведомлений пользователя (всплывающие сообщения формы).
//
// В HTTP-обработчиках сообщения собираются в Collector и возвращаются в ответе.
package notify

import (
	"log/slog"
	"sync"
)

// Kind тип уведомления.
type Kind string

const (
	// KindError ошибка, показывается пользователю.
	KindError Kind = "error"
	// KindSuccess успешное действие.
	KindSuccess Kind = "success"
	// KindInfo информационное сообщение.
	KindInfo Kind = "info"
)

// Notifier принимает уведомления для пользователя.
type Notifier interface {
	Notify(message string, kind Kind)
}

// Notification одно уведомление.
type Notification struct {
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

// Func позволяет использовать обычную функцию как Notifier.
type Func func(message string, kind Kind)

// Notify вызывает f.
func (f Func) Notify(message string, kind Kind) {
	f(message, kind)
}

// Collector накапливает уведомления в памяти.
type Collector struct {
	mu    sync.Mutex
	items []Notification
}

// NewCollector создаёт пустой Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Notify сохраняет уведомление.
func (c *Collector) Notify(message string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, Notification{Message: message, Kind: kind})
}

// All возвращает копию накопленных уведомлений.
func (c *Collector) All() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Last возвращает последнее уведомление.
func (c *Collector) Last() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

// Logger пишет уведомления в slog.
type Logger struct {
	log *slog.Logger
}

// NewLogger создаёт Notifier, который пишет в переданный логгер.
func NewLogger(log *slog.Logger) *Logger {
	return &Logger{log: log}
}

// Notify пишет уведомление в лог; ошибки на уровне Warn.
func (l *Logger) Notify(message string, kind Kind) {
	if kind == KindError {
		l.log.Warn("user notified", slog.String("kind", string(kind)), slog.String("message", message))
		return
	}
	l.log.Info("user notified", slog.String("kind", string(kind)), slog.String("message", message))
}

// Multi рассылает уведомление всем получателям по порядку.
type Multi []Notifier

// Notify передаёт уведомление каждому получателю.
func (m Multi) Notify(message string, kind Kind) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, kind)
		}
	}
}
