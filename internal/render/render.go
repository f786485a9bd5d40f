// Package render превращает структурированный документ редактора
// (сериализованный JSON, схема принадлежит редактору) в HTML.
// Ядро хранит документ как есть и пересоздаёт HTML при каждом изменении
// содержимого — поля content и contentHtml меняются только вместе.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type node struct {
	Type    string         `json:"type"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []node         `json:"content,omitempty"`
	Marks   []mark         `json:"marks,omitempty"`
	Text    string         `json:"text,omitempty"`
}

type mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

type Renderer struct {
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img", "figure", "figcaption", "video", "iframe")
	p.AllowAttrs("src", "alt", "title").OnElements("img")
	p.AllowAttrs("src", "controls", "playsinline").OnElements("video")
	p.AllowAttrs("src", "frameborder", "allow", "allowfullscreen").OnElements("iframe")
	p.AllowAttrs("data-video-embed", "data-src", "data-direct", "class").OnElements("div")
	p.AllowAttrs("class").OnElements("pre", "code")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return &Renderer{policy: p}
}

// Render разбирает документ и возвращает санитизированный HTML.
func (r *Renderer) Render(doc json.RawMessage) (string, error) {
	var root node
	if err := json.Unmarshal(doc, &root); err != nil {
		return "", fmt.Errorf("некорректный документ: %w", err)
	}
	if root.Type != "doc" {
		return "", fmt.Errorf("некорректный документ: корневой узел %q", root.Type)
	}

	var sb strings.Builder
	renderNodes(&sb, root.Content)
	return r.policy.Sanitize(sb.String()), nil
}

func renderNodes(sb *strings.Builder, nodes []node) {
	for _, n := range nodes {
		renderNode(sb, n)
	}
}

func renderNode(sb *strings.Builder, n node) {
	switch n.Type {
	case "paragraph":
		wrap(sb, "p", n.Content)
	case "heading":
		level := attrInt(n.Attrs, "level", 1)
		if level < 1 || level > 6 {
			level = 1
		}
		tag := fmt.Sprintf("h%d", level)
		wrap(sb, tag, n.Content)
	case "text":
		renderText(sb, n)
	case "bulletList":
		wrap(sb, "ul", n.Content)
	case "orderedList":
		wrap(sb, "ol", n.Content)
	case "listItem":
		wrap(sb, "li", n.Content)
	case "blockquote":
		wrap(sb, "blockquote", n.Content)
	case "codeBlock":
		sb.WriteString("<pre><code")
		if lang := attrString(n.Attrs, "language"); lang != "" {
			fmt.Fprintf(sb, ` class="language-%s"`, html.EscapeString(lang))
		}
		sb.WriteString(">")
		renderNodes(sb, n.Content)
		sb.WriteString("</code></pre>")
	case "horizontalRule":
		sb.WriteString("<hr>")
	case "hardBreak":
		sb.WriteString("<br>")
	case "image":
		sb.WriteString("<img")
		writeAttr(sb, "src", attrString(n.Attrs, "src"))
		writeAttr(sb, "alt", attrString(n.Attrs, "alt"))
		writeAttr(sb, "title", attrString(n.Attrs, "title"))
		sb.WriteString(">")
	case "table":
		wrap(sb, "table", n.Content)
	case "tableRow":
		wrap(sb, "tr", n.Content)
	case "tableHeader":
		renderCell(sb, "th", n)
	case "tableCell":
		renderCell(sb, "td", n)
	case "videoEmbed":
		renderVideoEmbed(sb, n)
	default:
		// неизвестный узел: контент пробуем, обёртку пропускаем
		renderNodes(sb, n.Content)
	}
}

func renderText(sb *strings.Builder, n node) {
	text := html.EscapeString(n.Text)
	// марки применяются снаружи внутрь в порядке списка
	for i := len(n.Marks) - 1; i >= 0; i-- {
		m := n.Marks[i]
		switch m.Type {
		case "bold":
			text = "<strong>" + text + "</strong>"
		case "italic":
			text = "<em>" + text + "</em>"
		case "strike":
			text = "<s>" + text + "</s>"
		case "code":
			text = "<code>" + text + "</code>"
		case "link":
			href := attrString(m.Attrs, "href")
			text = fmt.Sprintf(`<a href="%s" rel="noopener noreferrer">%s</a>`, html.EscapeString(href), text)
		}
	}
	sb.WriteString(text)
}

func renderCell(sb *strings.Builder, tag string, n node) {
	sb.WriteString("<" + tag)
	if v := attrInt(n.Attrs, "colspan", 1); v > 1 {
		fmt.Fprintf(sb, ` colspan="%d"`, v)
	}
	if v := attrInt(n.Attrs, "rowspan", 1); v > 1 {
		fmt.Fprintf(sb, ` rowspan="%d"`, v)
	}
	sb.WriteString(">")
	renderNodes(sb, n.Content)
	sb.WriteString("</" + tag + ">")
}

// renderVideoEmbed воспроизводит разметку видеоблока редактора:
// прямой файл — тег <video>, иначе iframe с разрешённым fullscreen.
func renderVideoEmbed(sb *strings.Builder, n node) {
	src := html.EscapeString(attrString(n.Attrs, "src"))
	direct := attrBool(n.Attrs, "direct")

	if direct {
		fmt.Fprintf(sb,
			`<div data-video-embed="true" data-src="%s" data-direct="true" class="video-embed"><video src="%s" controls playsinline></video></div>`,
			src, src)
		return
	}
	fmt.Fprintf(sb,
		`<div data-video-embed="true" data-src="%s" class="video-embed"><iframe src="%s" frameborder="0" allow="autoplay; encrypted-media; picture-in-picture" allowfullscreen></iframe></div>`,
		src, src)
}

func wrap(sb *strings.Builder, tag string, content []node) {
	sb.WriteString("<" + tag + ">")
	renderNodes(sb, content)
	sb.WriteString("</" + tag + ">")
}

func writeAttr(sb *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, ` %s="%s"`, name, html.EscapeString(value))
}

func attrString(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	v, _ := attrs[key].(string)
	return v
}

func attrInt(attrs map[string]any, key string, def int) int {
	if attrs == nil {
		return def
	}
	if f, ok := attrs[key].(float64); ok {
		return int(f)
	}
	return def
}

func attrBool(attrs map[string]any, key string) bool {
	if attrs == nil {
		return false
	}
	v, _ := attrs[key].(bool)
	return v
}
