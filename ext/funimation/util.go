package funimation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/logger"
	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	pcUserAgent     = "Mozilla/5.0 (Windows NT 5.2; WOW64; rv:42.0) Gecko/20100101 Firefox/42.0"
	mobileUserAgent = "Mozilla/5.0 (Linux; Android 4.4.2; Nexus 4 Build/KOT49H) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/34.0.1847.114 Mobile Safari/537.36"

	loginFailedURL = "http://www.funimation.com/login"
)

var loginURL = "http://www.funimation.com/login"

var (
	playersDataPattern   = regexp.MustCompile(`var\s+playersData\s*=\s*(\[.+?\]);\n`)
	errorMessagesPattern = regexp.MustCompile(`var\s+videoErrorMessages\s*=\s*({.+?});\n`)
)

type userAgent struct {
	Label string
	Value string
}

// the pc page carries m3u8 urls with a few extra low qualities,
// the mobile one carries direct links and works when pc fails
var userAgents = []userAgent{
	{Label: "pc", Value: pcUserAgent},
	{Label: "mobile", Value: mobileUserAgent},
}

// FetchAttempts downloads the episode page once per user agent.
// Attempts are returned in user agent order; failed ones are
// dropped and only an error is returned when all of them fail.
func FetchAttempts(
	ctx context.Context,
	client models.HTTPClient,
	pageURL string,
	displayID string,
	cookies []*http.Cookie,
) ([]*Attempt, error) {
	attempts := make([]*Attempt, len(userAgents))
	errs := make([]error, len(userAgents))

	var group errgroup.Group
	for i, agent := range userAgents {
		group.Go(func() error {
			attempt, err := fetchAttempt(ctx, client, pageURL, displayID, agent, cookies)
			if err != nil {
				zap.S().Debugf("[%s] %s webpage failed: %v", displayID, agent.Label, err)
				errs[i] = fmt.Errorf("%s webpage: %w", agent.Label, err)
				return nil
			}
			attempts[i] = attempt
			return nil
		})
	}
	_ = group.Wait()

	attempts = lo.Compact(attempts)
	if len(attempts) == 0 {
		return nil, fmt.Errorf("failed to fetch webpage: %w", errors.Join(errs...))
	}
	return attempts, nil
}

func fetchAttempt(
	ctx context.Context,
	client models.HTTPClient,
	pageURL string,
	displayID string,
	agent userAgent,
	cookies []*http.Cookie,
) (*Attempt, error) {
	resp, err := util.FetchPage(
		ctx, client,
		http.MethodGet, pageURL, nil,
		map[string]string{"User-Agent": agent.Value},
		cookies,
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}
	logger.WriteFile("funimation_"+agent.Label, resp)

	webpage, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	item, err := ParsePlayersData(webpage, displayID)
	if err != nil {
		return nil, err
	}
	return &Attempt{
		Label:         agent.Label,
		Item:          item,
		ErrorMessages: ParseErrorMessages(webpage),
		Metadata:      ParseMetadata(webpage),
	}, nil
}

// ParsePlayersData finds the playlist item of the episode in the
// playersData object embedded in the page.
func ParsePlayersData(webpage []byte, displayID string) (*Item, error) {
	matches := playersDataPattern.FindSubmatch(webpage)
	if len(matches) < 2 || !gjson.ValidBytes(matches[1]) {
		return nil, ErrPlayersDataNotFound
	}
	data := gjson.ParseBytes(matches[1])

	playlist := data.Get("0.playlist")
	if !playlist.IsArray() {
		playlist = util.TraverseJSON(data, "playlist")
	}
	if !playlist.IsArray() {
		return nil, ErrPlaylistNotFound
	}

	var items gjson.Result
	for _, entry := range playlist.Array() {
		if candidate := entry.Get("items"); len(candidate.Array()) > 0 {
			items = candidate
			break
		}
	}
	if !items.Exists() {
		return nil, ErrPlaylistNotFound
	}

	for _, entry := range items.Array() {
		if entry.Get("itemAK").String() == displayID {
			return parseItem(entry), nil
		}
	}
	return nil, ErrItemNotFound
}

func parseItem(data gjson.Result) *Item {
	item := &Item{
		ItemAK:      data.Get("itemAK").String(),
		ItemID:      data.Get("itemId").String(),
		Title:       data.Get("title").String(),
		Artist:      data.Get("artist").String(),
		Description: data.Get("description").String(),
		PosterURL:   data.Get("posterUrl").String(),
	}
	for _, entry := range data.Get("videoSet").Array() {
		if !entry.IsObject() {
			continue
		}
		item.VideoSet = append(item.VideoSet, parseVideo(entry))
	}
	return item
}

func parseVideo(data gjson.Result) *Video {
	video := &Video{
		AuthToken:    stringField(data, "authToken"),
		FunimationID: data.Get("FUNImationID").String(),
		VideoID:      data.Get("videoId").String(),
		LanguageMode: enums.LanguageMode(data.Get("languageMode").String()),
		URLs:         make(map[enums.QualityTier]string, len(enums.QualityTiers)),
	}
	for _, tier := range enums.QualityTiers {
		if value := stringField(data, string(tier)+"Url"); value != "" {
			video.URLs[tier] = value
		}
	}
	return video
}

// only string values are accepted for urls and tokens
func stringField(data gjson.Result, key string) string {
	value := data.Get(key)
	if value.Type != gjson.String {
		return ""
	}
	return value.Str
}

// ParseErrorMessages reads the videoErrorMessages object of the page.
// A missing or malformed object yields no messages.
func ParseErrorMessages(webpage []byte) ErrorMessages {
	messages := make(ErrorMessages)

	matches := errorMessagesPattern.FindSubmatch(webpage)
	if len(matches) < 2 {
		return messages
	}
	var entries map[string]*ErrorMessage
	if err := sonic.ConfigFastest.Unmarshal(matches[1], &entries); err != nil {
		zap.S().Debugf("failed to parse error messages: %v", err)
		return messages
	}
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		entry := entries[name]
		if entry == nil || entry.Type != "text" {
			continue
		}
		if entry.Description == "" || entry.Content == "" {
			continue
		}
		key := ErrorMessageKey(entry.Description)
		if key == "" {
			continue
		}
		if _, exists := messages[key]; !exists {
			messages[key] = entry.Content
		}
	}
	return messages
}

func ParseMetadata(webpage []byte) *PageMetadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(webpage))
	if err != nil {
		return &PageMetadata{}
	}
	return &PageMetadata{
		Description: ogProperty(doc, "og:description"),
		Thumbnail:   ogProperty(doc, "og:image"),
	}
}

func ogProperty(doc *goquery.Document, property string) string {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := sel.AttrOr("property", sel.AttrOr("name", ""))
		if name != property {
			return true
		}
		content = strings.TrimSpace(sel.AttrOr("content", ""))
		return content == ""
	})
	return content
}

// Login posts the credentials on the login form. The session cookies
// end up in the jar of client.
func Login(
	ctx context.Context,
	client models.HTTPClient,
	email string,
	password string,
) error {
	form := url.Values{
		"email_field":    {email},
		"password_field": {password},
	}
	resp, err := util.FetchPage(
		ctx, client,
		http.MethodPost, loginURL,
		strings.NewReader(form.Encode()),
		map[string]string{
			"User-Agent":   pcUserAgent,
			"Content-Type": "application/x-www-form-urlencoded",
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse login page: %w", err)
	}
	if ogProperty(doc, "og:url") == loginFailedURL {
		return ErrLoginFailed
	}
	return nil
}

func BuildTitle(item *Item) string {
	if item.Artist == "" {
		return item.Title
	}
	return item.Artist + " - " + item.Title
}
