package prez

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/prez/version"
)

var userAgent = "prez/" + version.Version + " (+https://github.com/k1LoW/prez)"

// newHTTPClient returns the client used to fetch remote images. Transient
// failures retry with backoff; retry messages surface at info level so the
// console shows progress.
func newHTTPClient(logger *slog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 10
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 30 * time.Second
	retryClient.Logger = newFetchLogger(logger)
	return retryClient.StandardClient()
}

var _ retryablehttp.LeveledLogger = (*fetchLogger)(nil)

type fetchLogger struct {
	l *slog.Logger
}

func (l *fetchLogger) Error(msg string, keysAndValues ...any) {
	l.l.Error(msg, append([]any{slog.String("original_log_level", "error")}, keysAndValues...)...)
}
func (l *fetchLogger) Info(msg string, keysAndValues ...any) {
	l.l.Info(msg, append([]any{slog.String("original_log_level", "info")}, keysAndValues...)...)
}
func (l *fetchLogger) Debug(msg string, keysAndValues ...any) {
	if strings.HasPrefix(msg, "retrying") {
		// If the message starts with "retrying", log it as info instead of debug
		// For displaying spinner messages in the console
		l.l.Info(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
		return
	}
	l.l.Debug(msg, append([]any{slog.String("original_log_level", "debug")}, keysAndValues...)...)
}
func (l *fetchLogger) Warn(msg string, keysAndValues ...any) {
	l.l.Warn(msg, append([]any{slog.String("original_log_level", "warn")}, keysAndValues...)...)
}

func newFetchLogger(l *slog.Logger) retryablehttp.LeveledLogger {
	return &fetchLogger{
		l: l.WithGroup("fetch"),
	}
}
