package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

const (
	desktopVersion = "#version 330 core"
	legacyVersion  = "#version 120"
)

var (
	attributeRe   = regexp.MustCompile(`\battribute\b`)
	varyingRe     = regexp.MustCompile(`\bvarying\b`)
	texture2DRe   = regexp.MustCompile(`\btexture2D\s*\(`)
	fragColorRe   = regexp.MustCompile(`\bgl_FragColor\b`)
	mainRe        = regexp.MustCompile(`void\s+main\s*\(\s*\)\s*\{`)
	precisionRe   = regexp.MustCompile(`precision\s+(lowp|mediump|highp)\s+float\s*;`)
	defineLineRe  = regexp.MustCompile(`@define[ \t]+\w+[^\n]*\n?`)
	defineStartRe = regexp.MustCompile(`@define[ \t]+(\w+)\s*\{`)
)

// PreprocessGLSL prepares one GLSL stage for compilation. Desktop output
// targets GLSL 3.30 core. Legacy output targets GLSL 1.20 for GL 2.1
// contexts: it keeps attribute/varying syntax and drops precision
// statements, which 1.20 does not accept. A version line in the source
// always wins.
func PreprocessGLSL(src string, stage Stage, defines Defines, legacy bool) string {
	code := strings.TrimLeft(src, " \t\r\n")

	version := ""
	if strings.HasPrefix(code, "#version") {
		if nl := strings.IndexByte(code, '\n'); nl >= 0 {
			version, code = code[:nl], code[nl+1:]
		} else {
			version, code = code, ""
		}
	} else if legacy {
		version = legacyVersion
	} else {
		version = desktopVersion
	}

	var header strings.Builder
	if version != "" {
		header.WriteString(version)
		header.WriteByte('\n')
	}

	es := strings.HasSuffix(strings.TrimSpace(version), " es")
	if stage == StageFragment && es && !precisionRe.MatchString(code) {
		header.WriteString("precision mediump float;\n")
	}
	if version == legacyVersion {
		code = precisionRe.ReplaceAllString(code, "")
	}
	header.WriteString(defineBlock(defines))

	if !legacy {
		code = attributeRe.ReplaceAllString(code, "in")
		if stage == StageVertex {
			code = varyingRe.ReplaceAllString(code, "out")
		} else {
			code = varyingRe.ReplaceAllString(code, "in")
		}
		code = texture2DRe.ReplaceAllString(code, "texture(")

		if stage == StageFragment && fragColorRe.MatchString(code) {
			code = mainRe.ReplaceAllString(code, "out vec4 outColor;\nvoid main() {")
			code = fragColorRe.ReplaceAllString(code, "outColor")
		}
	}

	return header.String() + code
}

// defineBlock renders #define lines in key order. true defines the bare
// macro, false leaves it undefined.
func defineBlock(defines Defines) string {
	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := defines[k].(type) {
		case bool:
			if v {
				fmt.Fprintf(&sb, "#define %s\n", k)
			}
		default:
			fmt.Fprintf(&sb, "#define %s %v\n", k, v)
		}
	}
	return sb.String()
}

// PreprocessWGSL resolves "@define KEY { ... }" blocks: the body is kept
// when KEY is truthy and dropped otherwise. Remaining single line @define
// markers are removed.
func PreprocessWGSL(src string, defines Defines) string {
	var out strings.Builder
	rest := src
	for {
		loc := defineStartRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			out.WriteString(rest)
			break
		}
		key := rest[loc[2]:loc[3]]
		open := loc[1] - 1
		end := matchingBrace(rest, open)
		if end < 0 {
			// unbalanced, leave the tail for the line pass
			out.WriteString(rest)
			break
		}

		out.WriteString(rest[:loc[0]])
		if truthy(defines[key]) {
			out.WriteString(rest[open+1 : end])
		}
		rest = rest[end+1:]
	}

	return defineLineRe.ReplaceAllString(out.String(), "")
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float32:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	}
	return true
}
