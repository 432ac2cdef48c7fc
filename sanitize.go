//
// Cooked forum markup processor
//

//
// Allow-list HTML sanitizer
//
// The final render pass. Every tag, attribute and class that may appear in
// output is declared by some rule module at setup time; anything else is
// stripped. This is the sole security boundary against injected markup.
//

package cooked

import (
	"regexp"
	"strings"
)

// HTML tag grammar fragments.
const (
	tagNamePat            = "[A-Za-z][A-Za-z0-9-]*"
	attributeNamePat      = "[a-zA-Z_:][a-zA-Z0-9:._-]*"
	unquotedValuePat      = "[^\"'=<>`\\x00-\\x20]+"
	singleQuotedValuePat  = "'[^']*'"
	doubleQuotedValuePat  = "\"[^\"]*\""
	attributeValuePat     = "(?:" + unquotedValuePat + "|" + singleQuotedValuePat + "|" + doubleQuotedValuePat + ")"
	attributeValueSpecPat = "(?:\\s*=\\s*" + attributeValuePat + ")"
	attributePat          = "(?:\\s+" + attributeNamePat + attributeValueSpecPat + "?)"
	openTagPat            = "<" + tagNamePat + attributePat + "*\\s*/?>"
	closeTagPat           = "</" + tagNamePat + "\\s*[>]"
	htmlCommentPat        = "<!---->|<!--(?:-?[^>-])(?:-?[^-])*-->"
	processingInstPat     = "[<][?].*?[?][>]"
	declarationPat        = "<![A-Z]+\\s+[^>]*>"
	cdataPat              = "<!\\[CDATA\\[[\\s\\S]*?\\]\\]>"
	htmlTagPat            = "(?:" + openTagPat + "|" + closeTagPat + "|" + htmlCommentPat + "|" +
		processingInstPat + "|" + declarationPat + "|" + cdataPat + ")"
)

var (
	reHTMLTag  = regexp.MustCompile("(?i)^" + htmlTagPat)
	reTagParse = regexp.MustCompile("^<(/?)(" + tagNamePat + ")((?:" + attributePat + ")*)\\s*(/?)>$")
	reAttr     = regexp.MustCompile("(" + attributeNamePat + ")(?:\\s*=\\s*(" + attributeValuePat + "))?")
)

// AllowList is the declarative set of permitted tag/attribute/class
// patterns. Rule modules extend it during setup; it is immutable during
// rendering.
type AllowList struct {
	tags        map[string]map[string][]string // tag -> attr -> allowed values; empty slice = any
	classChecks map[string][]func(string) bool
}

func newAllowList() *AllowList {
	return &AllowList{
		tags:        map[string]map[string][]string{},
		classChecks: map[string][]func(string) bool{},
	}
}

// Allow registers tag/attribute patterns. Accepted spec forms:
//
//	"tag"              bare tag, no attributes
//	"tag[attr]"        attribute with any value
//	"tag[attr=value]"  attribute with that exact value
//	"tag[data-*]"      attribute name wildcard
func (a *AllowList) Allow(specs ...string) {
	for _, spec := range specs {
		tag, attr, value := spec, "", ""
		anyValue := true
		if i := strings.IndexByte(spec, '['); i >= 0 && strings.HasSuffix(spec, "]") {
			tag = spec[:i]
			attr = spec[i+1 : len(spec)-1]
			if j := strings.IndexByte(attr, '='); j >= 0 {
				value = attr[j+1:]
				attr = attr[:j]
				anyValue = false
			}
		}
		tag = strings.ToLower(tag)
		if a.tags[tag] == nil {
			a.tags[tag] = map[string][]string{}
		}
		if attr == "" {
			continue
		}
		attr = strings.ToLower(attr)
		if anyValue {
			a.tags[tag][attr] = []string{}
		} else {
			a.tags[tag][attr] = append(a.tags[tag][attr], value)
		}
	}
}

// AllowClass registers a predicate over the full class attribute value of
// a tag, for patterns an exact value list cannot express.
func (a *AllowList) AllowClass(tag string, pred func(string) bool) {
	tag = strings.ToLower(tag)
	a.classChecks[tag] = append(a.classChecks[tag], pred)
}

func (a *AllowList) tagAllowed(tag string) bool {
	_, ok := a.tags[tag]
	return ok
}

func (a *AllowList) attrAllowed(tag, name, value string) bool {
	attrs := a.tags[tag]
	if attrs == nil {
		return false
	}
	if values, ok := attrs[name]; ok {
		if len(values) == 0 {
			return true
		}
		for _, v := range values {
			if v == value {
				return true
			}
		}
	}
	for pat := range attrs {
		if strings.HasSuffix(pat, "*") && strings.HasPrefix(name, pat[:len(pat)-1]) {
			return true
		}
	}
	if name == "class" {
		for _, pred := range a.classChecks[tag] {
			if pred(value) {
				return true
			}
		}
	}
	return false
}

// Sanitize filters rendered HTML against the allow-list. Disallowed tags
// are stripped (their text content remains); disallowed attributes are
// dropped from allowed tags; comments, declarations and processing
// instructions are removed. Sanitizing already-sanitized output is a
// no-op.
func (a *AllowList) Sanitize(html string) string {
	var out strings.Builder
	out.Grow(len(html))

	i := 0
	for i < len(html) {
		j := strings.IndexByte(html[i:], '<')
		if j < 0 {
			out.WriteString(html[i:])
			break
		}
		out.WriteString(html[i : i+j])
		i += j

		m := reHTMLTag.FindString(html[i:])
		if m == "" {
			// lone '<', not a tag
			out.WriteString("&lt;")
			i++
			continue
		}

		parts := reTagParse.FindStringSubmatch(m)
		if parts == nil {
			// comment, declaration, PI or CDATA
			i += len(m)
			continue
		}
		closing, name, attrBlob, selfClose := parts[1] == "/", strings.ToLower(parts[2]), parts[3], parts[4] == "/"

		if !a.tagAllowed(name) {
			i += len(m)
			continue
		}

		if closing {
			out.WriteString("</")
			out.WriteString(name)
			out.WriteByte('>')
			i += len(m)
			continue
		}

		out.WriteByte('<')
		out.WriteString(name)
		for _, am := range reAttr.FindAllStringSubmatch(attrBlob, -1) {
			attrName := strings.ToLower(am[1])
			raw := am[2]
			value := raw
			if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
				value = value[1 : len(value)-1]
			}
			if !a.attrAllowed(name, attrName, value) {
				continue
			}
			out.WriteByte(' ')
			out.WriteString(attrName)
			if raw != "" {
				out.WriteString(`="`)
				out.WriteString(strings.ReplaceAll(value, `"`, "&quot;"))
				out.WriteByte('"')
			}
		}
		if selfClose {
			out.WriteString(" />")
		} else {
			out.WriteByte('>')
		}
		i += len(m)
	}
	return out.String()
}
