package ext

import (
	"context"
	"fmt"
	"slices"

	"github.com/govdbot/govfuni/models"
	"github.com/govdbot/govfuni/util"
)

var maxRedirects = 5

func CtxByURL(ctx context.Context, url string) (*models.DownloadContext, error) {
	var redirectCount int

	currentURL := url

	for redirectCount <= maxRedirects {
		host, _ := util.ExtractBaseHost(currentURL)

		var matched bool
		for _, extractor := range List {
			if host != "" && len(extractor.Host) > 0 && !slices.Contains(extractor.Host, host) {
				continue
			}
			matches := extractor.URLPattern.FindStringSubmatch(currentURL)
			if len(matches) == 0 {
				continue
			}

			groupNames := extractor.URLPattern.SubexpNames()
			groups := make(map[string]string)
			for i, name := range groupNames {
				if name != "" {
					groups[name] = matches[i]
				}
			}
			groups["match"] = matches[0]

			dlCtx := &models.DownloadContext{
				Context:           ctx,
				MatchedContentID:  groups["id"],
				MatchedContentURL: groups["match"],
				MatchedGroups:     groups,
				Extractor:         extractor,
			}

			if !extractor.IsRedirect {
				return dlCtx, nil
			}

			response, err := extractor.Run(dlCtx)
			if err != nil {
				return nil, err
			}
			if response.URL == "" {
				return nil, fmt.Errorf("no URL found in response")
			}

			currentURL = response.URL
			redirectCount++
			matched = true

			break
		}
		if !matched {
			return nil, util.ErrUnsupportedURL
		}
	}
	return nil, util.ErrTooManyRedirects
}

func ByCodeName(codeName string) *models.Extractor {
	for _, extractor := range List {
		if extractor.CodeName == codeName {
			return extractor
		}
	}
	return nil
}
