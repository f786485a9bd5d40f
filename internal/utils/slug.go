package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// всё, что не [a-z0-9-]
	slugStripRe = regexp.MustCompile(`[^a-z0-9-]+`)
	// повторные дефисы
	slugDashRe = regexp.MustCompile(`-{2,}`)
)

// GenerateSlug строит URL-безопасный идентификатор из заголовка.
// Нелатинские символы транслитерируются (китайский — в пиньинь),
// затем добавляется случайный hex-суффикс из 3 байт. Суффикс не даёт
// пустой slug даже для заголовка без транслитерируемых символов.
// Уникальность здесь не гарантируется — её проверяет вызывающий слой,
// коллизия трактуется как конфликт без автоповтора.
func GenerateSlug(title string) string {
	base := unidecode.Unidecode(title)
	base = strings.ToLower(base)
	base = strings.ReplaceAll(base, " ", "-")
	base = slugStripRe.ReplaceAllString(base, "")
	base = slugDashRe.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	suffix := randomHex(3)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand на поддерживаемых платформах не возвращает ошибок
		panic(err)
	}
	return hex.EncodeToString(b)
}

// GenerateResetToken — токен для сброса пароля (32 байта, hex).
func GenerateResetToken() string {
	return randomHex(32)
}

// GenerateTempPassword — временный пароль для приглашённого автора (8 hex-символов).
func GenerateTempPassword() string {
	return randomHex(4)
}
