package extractor

import (
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var xmlEncodingPattern = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// decodeBody turns a response body into UTF-8 text and names the charset it
// was read as. The order is: charset declared by the server, byte order mark,
// XML declaration, valid UTF-8, then a chardet guess.
func decodeBody(body []byte, contentType string) (string, string) {
	if label := declaredCharset(contentType); label != "" {
		// colly transcodes bodies with a declared charset before they reach us.
		if utf8.Valid(body) {
			_, name := charset.Lookup(label)
			if name == "" {
				name = label
			}
			return trimBOM(string(body)), name
		}
		if text, name, ok := decodeWith(body, label); ok {
			return text, name
		}
	}

	if _, name, certain := charset.DetermineEncoding(body, ""); certain {
		if text, canonical, ok := decodeWith(body, name); ok {
			return text, canonical
		}
	}

	if m := xmlEncodingPattern.FindSubmatch(body); m != nil {
		if text, name, ok := decodeWith(body, string(m[1])); ok {
			return text, name
		}
	}

	if utf8.Valid(body) {
		return string(body), "utf-8"
	}

	detector := chardet.NewTextDetector()
	if result, err := detector.DetectBest(body); err == nil {
		if text, name, ok := decodeWith(body, result.Charset); ok {
			return text, name
		}
	}

	text, name, _ := decodeWith(body, "windows-1252")
	return text, name
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func decodeWith(body []byte, label string) (string, string, bool) {
	e, name := charset.Lookup(label)
	if e == nil {
		return "", "", false
	}
	out, err := e.NewDecoder().Bytes(body)
	if err != nil {
		return "", "", false
	}
	return trimBOM(string(out)), name, true
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
