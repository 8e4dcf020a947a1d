package compiler

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/espalier-dev/espalier/pkg/ports"
)

var imageExts = []string{".png", ".webp", ".gif", ".jpg", ".jpeg"}

var audioExts = []string{".ogg", ".mp3", ".wav", ".opus"}

var (
	interpRe = regexp.MustCompile(`\[[^\[\]]*\]`)
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	underRe  = regexp.MustCompile(`_(.+?)_`)
	braceRe  = regexp.MustCompile(`\{[^{}]+\}`)
	quotedRe = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
)

// Escape backslash-escapes the characters Ren'Py treats specially inside
// double-quoted strings.
func Escape(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return s
}

// Emphasis rewrites paired markdown emphasis markers into Ren'Py text tags:
// **bold**, *italic* and _underline_. Interpolation spans in square brackets
// are left untouched and unpaired markers stay literal.
func Emphasis(line string) string {
	var b strings.Builder
	last := 0
	for _, span := range interpRe.FindAllStringIndex(line, -1) {
		b.WriteString(applyEmphasis(line[last:span[0]]))
		b.WriteString(line[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(applyEmphasis(line[last:]))
	return b.String()
}

func applyEmphasis(s string) string {
	s = boldRe.ReplaceAllString(s, "{b}$1{/b}")
	s = italicRe.ReplaceAllString(s, "{i}$1{/i}")
	s = underRe.ReplaceAllString(s, "{u}$1{/u}")
	return s
}

// RawNote is a finding produced while rendering raw script lines. The caller
// turns notes into diagnostics carrying the node's label and file.
type RawNote struct {
	Message string
}

// TextRenderer turns the export's text fields into Ren'Py script lines.
// A nil asset index disables reference checking.
type TextRenderer struct {
	assets  ports.AssetIndex
	markers []string
}

func NewTextRenderer(assets ports.AssetIndex, markerPrefixes []string) *TextRenderer {
	return &TextRenderer{assets: assets, markers: markerPrefixes}
}

// DialogueLines renders a text field into say-line payloads: one entry per
// non-empty input line, escaped and optionally emphasis-styled. The payloads
// come without quotes, speaker or indentation.
func (r *TextRenderer) DialogueLines(text string, markdown bool) []string {
	var out []string
	for _, line := range splitFieldLines(text) {
		if line == "" {
			continue
		}
		line = Escape(line)
		if markdown {
			line = Emphasis(line)
		}
		out = append(out, line)
	}
	return out
}

// RawLines renders a raw code box into literal script lines. When bracesImg
// is set, {name.ext} tokens are resolved against dir (the generated file's
// directory relative to the target root) and rewritten to quoted image
// paths. Quoted asset references are checked against the index and lines
// starting with a configured marker prefix are reported.
func (r *TextRenderer) RawLines(text, dir string, bracesImg bool) ([]string, []RawNote) {
	var (
		out   []string
		notes []RawNote
	)
	for _, line := range splitFieldLines(text) {
		if line == "" {
			continue
		}
		if bracesImg {
			line = expandBraceImages(line, dir)
		}
		notes = append(notes, r.checkAssets(line)...)
		notes = append(notes, r.checkMarkers(line)...)
		out = append(out, line)
	}
	return out, notes
}

// expandBraceImages replaces {relative.png} tokens with quoted paths under
// the shared images directory, mirroring the generated file's location.
// "../" segments climb the mirrored tree.
func expandBraceImages(line, dir string) string {
	return braceRe.ReplaceAllStringFunc(line, func(m string) string {
		token := m[1 : len(m)-1]
		if !hasExt(token, imageExts) {
			return m
		}
		return "'" + path.Join("images", dir, token) + "'"
	})
}

func (r *TextRenderer) checkAssets(line string) []RawNote {
	if r.assets == nil {
		return nil
	}
	var notes []RawNote
	for _, m := range quotedRe.FindAllStringSubmatch(line, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		if !hasExt(token, imageExts) && !hasExt(token, audioExts) {
			continue
		}
		if !r.assets.Has(token) {
			notes = append(notes, RawNote{Message: fmt.Sprintf("references non-existent file %q", token)})
		}
	}
	return notes
}

func (r *TextRenderer) checkMarkers(line string) []RawNote {
	lower := strings.ToLower(line)
	for _, prefix := range r.markers {
		if strings.HasPrefix(lower, prefix) {
			return []RawNote{{Message: "contains the following line: " + line}}
		}
	}
	return nil
}

func hasExt(token string, exts []string) bool {
	lower := strings.ToLower(token)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// splitFieldLines normalizes the export's CRLF line endings and splits a
// text field into lines.
func splitFieldLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
