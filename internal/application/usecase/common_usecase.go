package usecase

import (
	"strings"
	"time"
)

// 共通ヘルパー: *string をトリムし、空なら nil にする
func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func timeNowUTC() time.Time { return time.Now().UTC() }

// ログ用マスク: "alice@example.com" -> "al***@example.com"
func maskEmail(s string) string {
	t := strings.TrimSpace(s)
	at := strings.LastIndex(t, "@")
	if at <= 0 {
		return _mask(t)
	}
	return _mask(t[:at]) + t[at:]
}

func _mask(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 2 {
		return "***"
	}
	return t[:2] + "***"
}
