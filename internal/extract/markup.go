package extract

import (
	"regexp"
	"strings"

	"github.com/fuzdev/fuzcss/internal/location"
)

var cssVarRe = regexp.MustCompile(`var\(\s*--([A-Za-z0-9_-]+)`)

// collectCSSVarsIfCSSLike scans text for var(--NAME) occurrences if it looks
// like CSS (heuristic: contains "var(--"), per spec.md §4.B rule 6.
func collectCSSVarsIfCSSLike(text string, r *Result) {
	if !strings.Contains(text, "var(--") {
		return
	}
	for _, m := range cssVarRe.FindAllStringSubmatch(text, -1) {
		r.CSSVariables[m[1]] = struct{}{}
	}
}

// scanMarkup scans .svelte/.html content for tags, classes, styles, and
// annotation comments. When withScript is true, embedded <script> blocks
// are parsed with the script dialect and merged in; a value of false is
// used for inline-HTML files, which never get a script parse.
func scanMarkup(path string, content []byte, idx *location.Indexer, r *Result, withScript bool) {
	s := string(content)
	boundLiterals := make(map[string][]string)

	depth := 0 // nesting depth of framework meta-tags whose own name is excluded but whose children still count
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '<' {
			i++
			continue
		}

		switch {
		case strings.HasPrefix(s[i:], "<!--"):
			commentStart := i
			end := strings.Index(s[i+4:], "-->")
			var body string
			if end < 0 {
				body = s[i+4:]
				i = len(s)
			} else {
				body = s[i+4 : i+4+end]
				i = i + 4 + end + 3
			}
			scanAnnotations(body, indexOfSub(s, body, commentStart), idx, r)

		case strings.HasPrefix(s[i:], "</"):
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				i = len(s)
				break
			}
			i += end + 1

		case strings.HasPrefix(strings.ToLower(s[i:min(i+7, len(s))]), "<script"):
			tagEnd := strings.IndexByte(s[i:], '>')
			if tagEnd < 0 {
				i = len(s)
				break
			}
			scriptTag := s[i : i+tagEnd+1]
			bodyStart := i + tagEnd + 1
			closeIdx := strings.Index(strings.ToLower(s[bodyStart:]), "</script")
			var body string
			var bodyEnd int
			if closeIdx < 0 {
				body = s[bodyStart:]
				bodyEnd = len(s)
			} else {
				body = s[bodyStart : bodyStart+closeIdx]
				closeTagEnd := strings.IndexByte(s[bodyStart+closeIdx:], '>')
				if closeTagEnd < 0 {
					bodyEnd = len(s)
				} else {
					bodyEnd = bodyStart + closeIdx + closeTagEnd + 1
				}
			}
			collectCSSVarsIfCSSLike(body, r)
			scanAnnotations(body, bodyStart, idx, r)
			if withScript {
				isTS := strings.Contains(scriptTag, `lang="ts"`) || strings.Contains(scriptTag, `lang='ts'`) ||
					strings.Contains(scriptTag, `lang="typescript"`) || strings.Contains(scriptTag, `lang='typescript'`)
				walkScript([]byte(body), bodyStart, idx, r, isTS, false, boundLiterals)
			}
			i = bodyEnd

		case strings.HasPrefix(strings.ToLower(s[i:min(i+6, len(s))]), "<style"):
			tagEnd := strings.IndexByte(s[i:], '>')
			if tagEnd < 0 {
				i = len(s)
				break
			}
			bodyStart := i + tagEnd + 1
			closeIdx := strings.Index(strings.ToLower(s[bodyStart:]), "</style")
			var body string
			var bodyEnd int
			if closeIdx < 0 {
				body = s[bodyStart:]
				bodyEnd = len(s)
			} else {
				body = s[bodyStart : bodyStart+closeIdx]
				closeTagEnd := strings.IndexByte(s[bodyStart+closeIdx:], '>')
				if closeTagEnd < 0 {
					bodyEnd = len(s)
				} else {
					bodyEnd = bodyStart + closeIdx + closeTagEnd + 1
				}
			}
			for _, m := range cssVarRe.FindAllStringSubmatch(body, -1) {
				r.CSSVariables[m[1]] = struct{}{}
			}
			scanAnnotations(body, bodyStart, idx, r)
			i = bodyEnd

		default:
			tag, attrs, tagLen, selfClosing := parseTag(s[i:])
			if tagLen == 0 {
				i++
				break
			}
			processTag(tag, attrs, i, idx, r, boundLiterals)
			if isFrameworkMetaTag(tag) && !selfClosing {
				depth++
			}
			i += tagLen
		}
	}
	_ = depth
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func indexOfSub(full, sub string, fromApprox int) int {
	// The caller already knows roughly where sub starts (fromApprox points
	// at or before it); searching from there keeps this a local lookup
	// instead of an O(n) scan of the whole file per comment.
	start := fromApprox
	if start > len(full) {
		start = len(full)
	}
	if start < 0 {
		start = 0
	}
	idx := strings.Index(full[start:], sub)
	if idx < 0 {
		return start
	}
	return start + idx
}

// parsedAttr is one attribute of a tag.
type parsedAttr struct {
	name       string
	value      string // literal value (quoted) or raw expression text (braced)
	isExpr     bool
	valueStart int // byte offset of value within the tag's source slice
}

// parseTag parses the tag name and attribute list starting at a '<' in s.
// Returns the tag name, its attributes, the byte length of the whole open
// tag (through the closing '>'), and whether it was self-closing ("/>").
func parseTag(s string) (tag string, attrs []parsedAttr, tagLen int, selfClosing bool) {
	if len(s) == 0 || s[0] != '<' {
		return "", nil, 0, false
	}
	i := 1
	start := i
	for i < len(s) && !isTagNameEnd(s[i]) {
		i++
	}
	tag = s[start:i]
	if tag == "" {
		return "", nil, 0, false
	}

	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		if s[i] == '>' {
			i++
			break
		}
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '>' {
			selfClosing = true
			i += 2
			break
		}

		nameStart := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '=' && s[i] != '>' && s[i] != '/' {
			i++
		}
		name := s[nameStart:i]
		if name == "" {
			i++
			continue
		}

		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i < len(s) && s[i] == '=' {
			i++
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			if i < len(s) && (s[i] == '"' || s[i] == '\'') {
				quote := s[i]
				i++
				valStart := i
				for i < len(s) && s[i] != quote {
					i++
				}
				attrs = append(attrs, parsedAttr{name: name, value: s[valStart:i], valueStart: valStart})
				if i < len(s) {
					i++
				}
			} else if i < len(s) && s[i] == '{' {
				depth := 1
				i++
				valStart := i
				for i < len(s) && depth > 0 {
					switch s[i] {
					case '{':
						depth++
					case '}':
						depth--
					}
					if depth > 0 {
						i++
					}
				}
				attrs = append(attrs, parsedAttr{name: name, value: s[valStart:i], isExpr: true, valueStart: valStart})
				if i < len(s) {
					i++
				}
			} else {
				// bare/unquoted value
				valStart := i
				for i < len(s) && !isSpace(s[i]) && s[i] != '>' {
					i++
				}
				attrs = append(attrs, parsedAttr{name: name, value: s[valStart:i], valueStart: valStart})
			}
		} else {
			attrs = append(attrs, parsedAttr{name: name, value: "", valueStart: i})
		}
	}
	return tag, attrs, i, selfClosing
}

func isTagNameEnd(c byte) bool {
	return isSpace(c) || c == '>' || c == '/'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

var quotedStringRe = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)

func processTag(tag string, attrs []parsedAttr, tagOffset int, idx *location.Indexer, r *Result, boundLiterals map[string][]string) {
	if !isFrameworkMetaTag(tag) && !isComponentTag(tag) && isElementName(tag) {
		r.Elements[tag] = struct{}{}
	}

	for _, a := range attrs {
		lname := strings.ToLower(a.name)
		if lname == "class" || lname == "classname" {
			loc := idx.Locate(tagOffset + a.valueStart)
			if !a.isExpr {
				r.addClasses(splitClassTokens(a.value), loc)
				continue
			}
			trimmed := strings.TrimSpace(a.value)
			if id := identifierOnly(trimmed); id != "" {
				if toks, ok := boundLiterals[id]; ok {
					r.addClasses(toks, loc)
				} else {
					r.TrackedVars[id] = struct{}{}
				}
				continue
			}
			for _, m := range quotedStringRe.FindAllStringSubmatch(a.value, -1) {
				lit := m[1]
				if lit == "" {
					lit = m[2]
				}
				r.addClasses(splitClassTokens(lit), loc)
			}
		}
		collectCSSVarsIfCSSLike(a.value, r)
	}
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func identifierOnly(s string) string {
	if identifierRe.MatchString(s) {
		return s
	}
	return ""
}
