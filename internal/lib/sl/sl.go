// Package sl содержит вспомогательные атрибуты для slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки. Для nil пишет пустую строку.
//
//	log.Error("failed to save event", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// EventID возвращает атрибут с идентификатором события.
func EventID(id int) slog.Attr {
	return slog.Int("event_id", id)
}

// Session возвращает атрибут с идентификатором сессии формы.
func Session(id string) slog.Attr {
	return slog.String("session_id", id)
}
