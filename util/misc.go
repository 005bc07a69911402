package util

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/aki237/nscjar"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

var (
	cookiesCache = make(map[string][]*http.Cookie)
	cookiesMu    sync.Mutex

	extRegex      = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	lineBreakHTML = regexp.MustCompile(`(?i)\s*<br\s*/?>\s*`)
	paragraphHTML = regexp.MustCompile(`(?i)<\s*/\s*p\s*>\s*<\s*p[^>]*>`)
	blankLines    = regexp.MustCompile(`\n{2,}`)
)

func GetLastError(err error) error {
	var lastErr = err
	for {
		unwrapped := errors.Unwrap(lastErr)
		if unwrapped == nil {
			break
		}
		lastErr = unwrapped
	}
	return lastErr
}

// DetermineExt returns the lowercase extension of the url path,
// ignoring query and fragment. It returns an empty string when
// the last path segment has no alphanumeric extension.
func DetermineExt(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	var urlPath string
	if parsed, err := url.Parse(rawURL); err == nil {
		urlPath = parsed.Path
	} else {
		urlPath, _, _ = strings.Cut(rawURL, "?")
	}
	ext := strings.TrimPrefix(path.Ext(urlPath), ".")
	if !extRegex.MatchString(ext) {
		return ""
	}
	return strings.ToLower(ext)
}

// CleanHTML turns an html fragment into plain text: tags are
// stripped, entities decoded and <br> turned into newlines.
func CleanHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	fragment = strings.ReplaceAll(fragment, "\n", " ")
	fragment = lineBreakHTML.ReplaceAllString(fragment, "\n")
	fragment = paragraphHTML.ReplaceAllString(fragment, "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	text := doc.Text()
	text = blankLines.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

func ParseCookieFile(filePath string) ([]*http.Cookie, error) {
	cookiesMu.Lock()
	defer cookiesMu.Unlock()

	cachedCookies, ok := cookiesCache[filePath]
	if ok {
		return cachedCookies, nil
	}
	cookieFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer cookieFile.Close()

	var parser nscjar.Parser
	cookies, err := parser.Unmarshal(cookieFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	cookiesCache[filePath] = cookies
	return cookies, nil
}

// GetExtractorCookies loads <cookies dir>/<code name>.txt if present.
func GetExtractorCookies(extractor *models.Extractor) []*http.Cookie {
	cookiePath := filepath.Join(
		config.Env.CookiesDirectory,
		extractor.CodeName+".txt",
	)
	if _, err := os.Stat(cookiePath); err != nil {
		return nil
	}
	cookies, err := ParseCookieFile(cookiePath)
	if err != nil {
		zap.S().Warnf("failed to load cookies for %s: %v", extractor.CodeName, err)
		return nil
	}
	return cookies
}

func ExtractBaseHost(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse URL: %w", err)
	}
	host := parsedURL.Hostname()
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("failed to get eTLD+1: %w", err)
	}
	parts := strings.Split(etld, ".")
	if len(parts) == 0 {
		return "", errors.New("invalid domain structure")
	}
	return parts[0], nil
}
