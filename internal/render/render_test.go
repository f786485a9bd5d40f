package render

import (
	"encoding/json"
	"strings"
	"testing"
)

func render(t *testing.T, doc string) string {
	t.Helper()
	out, err := NewRenderer().Render(json.RawMessage(doc))
	if err != nil {
		t.Fatalf("ошибка рендера: %v", err)
	}
	return out
}

func TestRender_Paragraph(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"paragraph","content":[{"type":"text","text":"привет"}]}
	]}`)
	if out != "<p>привет</p>" {
		t.Fatalf("получено %q", out)
	}
}

func TestRender_HeadingLevels(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"раздел"}]}
	]}`)
	if out != "<h2>раздел</h2>" {
		t.Fatalf("получено %q", out)
	}

	// уровень вне диапазона откатывается к h1
	out = render(t, `{"type":"doc","content":[
		{"type":"heading","attrs":{"level":9},"content":[{"type":"text","text":"x"}]}
	]}`)
	if out != "<h1>x</h1>" {
		t.Fatalf("получено %q", out)
	}
}

func TestRender_Marks(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"paragraph","content":[
			{"type":"text","text":"жирный","marks":[{"type":"bold"}]},
			{"type":"text","text":" и "},
			{"type":"text","text":"ссылка","marks":[{"type":"link","attrs":{"href":"https://example.com"}}]}
		]}
	]}`)
	if !strings.Contains(out, "<strong>жирный</strong>") {
		t.Fatalf("bold не применён: %q", out)
	}
	if !strings.Contains(out, `href="https://example.com"`) {
		t.Fatalf("ссылка не применена: %q", out)
	}
}

func TestRender_EscapesText(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"paragraph","content":[{"type":"text","text":"<script>alert(1)</script>"}]}
	]}`)
	if strings.Contains(out, "<script>") {
		t.Fatalf("текст не экранирован: %q", out)
	}
}

func TestRender_SanitizesHostileAttrs(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"image","attrs":{"src":"javascript:alert(1)"}}
	]}`)
	if strings.Contains(out, "javascript:") {
		t.Fatalf("опасный src пережил санитизацию: %q", out)
	}
}

func TestRender_CodeBlockLanguage(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"x := 1"}]}
	]}`)
	if !strings.Contains(out, `class="language-go"`) {
		t.Fatalf("язык не проставлен: %q", out)
	}
	if !strings.Contains(out, "x := 1") {
		t.Fatalf("код потерян: %q", out)
	}
}

func TestRender_VideoEmbed(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"videoEmbed","attrs":{"src":"https://example.com/v.mp4","direct":true}}
	]}`)
	if !strings.Contains(out, "<video") || !strings.Contains(out, "data-video-embed") {
		t.Fatalf("прямое видео должно давать тег video: %q", out)
	}

	out = render(t, `{"type":"doc","content":[
		{"type":"videoEmbed","attrs":{"src":"https://www.youtube.com/embed/abc"}}
	]}`)
	if !strings.Contains(out, "<iframe") {
		t.Fatalf("встраиваемое видео должно давать iframe: %q", out)
	}
}

func TestRender_UnknownNodeKeepsContent(t *testing.T) {
	out := render(t, `{"type":"doc","content":[
		{"type":"mysteryBlock","content":[{"type":"paragraph","content":[{"type":"text","text":"внутри"}]}]}
	]}`)
	if out != "<p>внутри</p>" {
		t.Fatalf("контент неизвестного узла должен сохраняться: %q", out)
	}
}

func TestRender_RejectsBadRoot(t *testing.T) {
	r := NewRenderer()
	if _, err := r.Render(json.RawMessage(`{"type":"paragraph"}`)); err == nil {
		t.Fatal("ожидалась ошибка для неверного корня")
	}
	if _, err := r.Render(json.RawMessage(`не json`)); err == nil {
		t.Fatal("ожидалась ошибка для битого JSON")
	}
}
