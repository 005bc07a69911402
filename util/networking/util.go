package networking

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/govdbot/govfuni/models"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// proxySettings is the proxy part of both the env config and the
// extractor configs.
type proxySettings struct {
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

func envProxySettings(env *models.EnvConfig) proxySettings {
	return proxySettings{
		HTTPProxy:  env.HTTPProxy,
		HTTPSProxy: env.HTTPSProxy,
		NoProxy:    env.NoProxy,
	}
}

func extractorProxySettings(cfg *models.ExtractorConfig) proxySettings {
	if cfg == nil {
		return proxySettings{}
	}
	return proxySettings{
		HTTPProxy:  cfg.HTTPProxy,
		HTTPSProxy: cfg.HTTPSProxy,
		NoProxy:    cfg.NoProxy,
	}
}

// configureProxyTransport routes transport through the proxies of
// settings. The transport is left untouched when no valid proxy is
// set.
func configureProxyTransport(transport *http.Transport, settings proxySettings) {
	httpProxy := parseProxyURL(settings.HTTPProxy)
	httpsProxy := parseProxyURL(settings.HTTPSProxy)
	if httpProxy == nil && httpsProxy == nil {
		return
	}
	noProxy := parseNoProxyList(settings.NoProxy)

	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		if shouldBypassProxy(req.URL.Hostname(), noProxy) {
			return nil, nil
		}
		switch {
		case req.URL.Scheme == "https" && httpsProxy != nil:
			return httpsProxy, nil
		case req.URL.Scheme == "http" && httpProxy != nil:
			return httpProxy, nil
		case httpsProxy != nil:
			return httpsProxy, nil
		}
		return httpProxy, nil
	}
}

func parseProxyURL(rawURL string) *url.URL {
	if rawURL == "" {
		return nil
	}
	proxyURL, err := url.Parse(rawURL)
	if err != nil || proxyURL.Host == "" {
		zap.S().Warnf("invalid proxy url '%s': %v", rawURL, err)
		return nil
	}
	return proxyURL
}

func parseNoProxyList(noProxy string) []string {
	var list []string
	for _, entry := range strings.Split(noProxy, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			list = append(list, entry)
		}
	}
	return list
}

// shouldBypassProxy matches host against exact entries, ".domain"
// suffix entries and "*".
func shouldBypassProxy(host string, noProxy []string) bool {
	for _, entry := range noProxy {
		switch {
		case entry == "*", entry == host:
			return true
		case strings.HasPrefix(entry, ".") && strings.HasSuffix(host, entry):
			return true
		}
	}
	return false
}

func copyHeaders(source, destination http.Header) {
	for name, values := range source {
		for _, value := range values {
			destination.Add(name, value)
		}
	}
}

// decodeEdgeResponse rebuilds the response of the target site from
// the envelope of the edge proxy.
func decodeEdgeResponse(proxyResp *http.Response, req *http.Request) (*http.Response, error) {
	if proxyResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edge proxy returned %s", proxyResp.Status)
	}

	var envelope models.EdgeProxyResponse
	if err := sonic.ConfigFastest.NewDecoder(proxyResp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error parsing proxy response: %w", err)
	}

	resp := &http.Response{
		StatusCode:    envelope.StatusCode,
		Status:        strconv.Itoa(envelope.StatusCode) + " " + http.StatusText(envelope.StatusCode),
		Body:          io.NopCloser(bytes.NewBufferString(envelope.Text)),
		ContentLength: int64(len(envelope.Text)),
		Header:        make(http.Header),
		Request:       req,
	}
	// the proxy follows redirects, the final url replaces the requested one
	if envelope.URL != "" {
		finalURL, err := url.Parse(envelope.URL)
		if err != nil {
			return nil, fmt.Errorf("error parsing response url: %w", err)
		}
		resp.Request.URL = finalURL
	}
	for name, value := range envelope.Headers {
		resp.Header.Set(name, value)
	}
	for _, cookie := range envelope.Cookies {
		resp.Header.Add("Set-Cookie", cookie)
	}
	return resp, nil
}
