package utils

import (
	"regexp"
	"strings"
	"testing"
)

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)
var suffixRe = regexp.MustCompile(`-[0-9a-f]{6}$`)

func TestGenerateSlug_Basic(t *testing.T) {
	slug := GenerateSlug("Hello World")

	if !slugRe.MatchString(slug) {
		t.Fatalf("недопустимые символы в slug: %q", slug)
	}
	if !strings.HasPrefix(slug, "hello-world-") {
		t.Fatalf("ожидался префикс hello-world-, получено %q", slug)
	}
	if !suffixRe.MatchString(slug) {
		t.Fatalf("ожидался hex-суффикс из 6 символов: %q", slug)
	}
}

func TestGenerateSlug_Transliteration(t *testing.T) {
	slug := GenerateSlug("你好世界")

	if !slugRe.MatchString(slug) {
		t.Fatalf("недопустимые символы в slug: %q", slug)
	}
	// транслитерация даёт латинскую основу, не пустую
	if suffixRe.FindStringIndex(slug) == nil {
		t.Fatalf("ожидался hex-суффикс: %q", slug)
	}
	base := suffixRe.ReplaceAllString(slug, "")
	if base == "" {
		t.Fatalf("основа слага пуста для %q", slug)
	}
}

func TestGenerateSlug_NonTransliterable(t *testing.T) {
	slug := GenerateSlug("!!! ???")

	// основа выродилась в пустую строку — остаётся один суффикс,
	// без ведущего дефиса
	if !regexp.MustCompile(`^[0-9a-f]{6}$`).MatchString(slug) {
		t.Fatalf("ожидался голый hex-суффикс, получено %q", slug)
	}
}

func TestGenerateSlug_Unique(t *testing.T) {
	a := GenerateSlug("Hello World")
	b := GenerateSlug("Hello World")
	if a == b {
		t.Fatalf("два вызова дали одинаковый slug: %q", a)
	}
}

func TestGenerateSlug_CollapsesDashes(t *testing.T) {
	slug := GenerateSlug("a  --  b")
	if strings.Contains(slug, "--") {
		t.Fatalf("дефисы не схлопнуты: %q", slug)
	}
	if strings.HasPrefix(slug, "-") {
		t.Fatalf("slug начинается с дефиса: %q", slug)
	}
}

func TestGenerateResetToken_Length(t *testing.T) {
	token := GenerateResetToken()
	if len(token) != 64 {
		t.Fatalf("ожидалось 64 hex-символа, получено %d", len(token))
	}
	if GenerateResetToken() == token {
		t.Fatal("два токена совпали")
	}
}

func TestGenerateTempPassword_Length(t *testing.T) {
	if got := GenerateTempPassword(); len(got) != 8 {
		t.Fatalf("ожидалось 8 символов, получено %q", got)
	}
}
