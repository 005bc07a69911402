package networking

import (
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/models"

	"golang.org/x/net/publicsuffix"
)

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once

	extractorClients   = make(map[string]models.HTTPClient)
	extractorClientsMu sync.Mutex
)

func GetDefaultHTTPClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{
			Transport: GetBaseTransport(),
			Timeout:   60 * time.Second,
		}
	})
	return defaultClient
}

// GetBaseTransport returns a new transport routed through the
// proxies of the env config, or the ones of the process environment
// when none is configured.
func GetBaseTransport() *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   100,
		MaxConnsPerHost:       100,
		ResponseHeaderTimeout: 10 * time.Second,
		DisableCompression:    false,
	}
	configureProxyTransport(transport, envProxySettings(config.Env))
	return transport
}

// GetExtractorHTTPClient returns the client configured for the
// extractor in ext-cfg.yaml, or the default client.
func GetExtractorHTTPClient(extractor *models.Extractor) models.HTTPClient {
	extractorClientsMu.Lock()
	defer extractorClientsMu.Unlock()

	if client, exists := extractorClients[extractor.CodeName]; exists {
		return client
	}

	cfg := config.GetExtractorConfig(extractor.CodeName)
	if cfg == nil {
		return GetDefaultHTTPClient()
	}

	var client models.HTTPClient
	if cfg.EdgeProxyURL != "" {
		client = NewEdgeProxyClient(cfg.EdgeProxyURL)
	} else {
		client = NewClientFromConfig(cfg)
	}
	extractorClients[extractor.CodeName] = client

	return client
}

func NewClientFromConfig(cfg *models.ExtractorConfig) *http.Client {
	transport := GetBaseTransport()
	configureProxyTransport(transport, extractorProxySettings(cfg))
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// NewSessionClient returns a client with its own cookie jar, for
// extractors that log in before fetching pages. Proxy settings of
// the extractor config still apply.
func NewSessionClient(extractor *models.Extractor) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	client := NewClientFromConfig(config.GetExtractorConfig(extractor.CodeName))
	client.Jar = jar
	return client, nil
}
