package networking

import (
	"net/http"
	"testing"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/models"

	. "github.com/smartystreets/goconvey/convey"
)

func proxyFor(transport *http.Transport, rawURL string) string {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	So(err, ShouldBeNil)
	proxyURL, err := transport.Proxy(req)
	So(err, ShouldBeNil)
	if proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}

func TestConfigureProxyTransport(t *testing.T) {
	Convey("configureProxyTransport", t, func() {
		Convey("Should pick the proxy by scheme", func() {
			transport := &http.Transport{}
			configureProxyTransport(transport, proxySettings{
				HTTPProxy:  "http://proxy:8080",
				HTTPSProxy: "http://secure:8443",
				NoProxy:    "localhost, .internal.test",
			})
			So(proxyFor(transport, "http://www.funimation.com/"), ShouldEqual, "http://proxy:8080")
			So(proxyFor(transport, "https://www.funimation.com/"), ShouldEqual, "http://secure:8443")
		})

		Convey("Should bypass no_proxy hosts", func() {
			transport := &http.Transport{}
			configureProxyTransport(transport, proxySettings{
				HTTPProxy: "http://proxy:8080",
				NoProxy:   "localhost, .internal.test",
			})
			So(proxyFor(transport, "http://localhost:3000/"), ShouldBeEmpty)
			So(proxyFor(transport, "https://cdn.internal.test/a.mp4"), ShouldBeEmpty)
			So(proxyFor(transport, "https://internal.test.example/a.mp4"), ShouldEqual, "http://proxy:8080")
		})

		Convey("Should fall back to the only proxy set", func() {
			transport := &http.Transport{}
			configureProxyTransport(transport, proxySettings{HTTPSProxy: "http://secure:8443"})
			So(proxyFor(transport, "http://www.funimation.com/"), ShouldEqual, "http://secure:8443")
		})

		Convey("Should leave the transport alone without a valid proxy", func() {
			transport := &http.Transport{}
			configureProxyTransport(transport, proxySettings{HTTPProxy: "proxy:8080", NoProxy: "localhost"})
			So(transport.Proxy, ShouldBeNil)

			configureProxyTransport(transport, proxySettings{})
			So(transport.Proxy, ShouldBeNil)
		})
	})
}

func TestShouldBypassProxy(t *testing.T) {
	Convey("shouldBypassProxy", t, func() {
		noProxy := parseNoProxyList(" localhost, ,.funimation.com ")
		So(noProxy, ShouldResemble, []string{"localhost", ".funimation.com"})

		So(shouldBypassProxy("localhost", noProxy), ShouldBeTrue)
		So(shouldBypassProxy("www.funimation.com", noProxy), ShouldBeTrue)
		So(shouldBypassProxy("funimation.com", noProxy), ShouldBeFalse)
		So(shouldBypassProxy("example.com", noProxy), ShouldBeFalse)
		So(shouldBypassProxy("example.com", []string{"*"}), ShouldBeTrue)
		So(shouldBypassProxy("example.com", nil), ShouldBeFalse)
	})
}

func TestBaseTransportProxy(t *testing.T) {
	Convey("Proxy config", t, func() {
		previous := *config.Env
		defer func() { *config.Env = previous }()
		config.Env.HTTPProxy = "http://env-proxy:3128"
		config.Env.HTTPSProxy = ""
		config.Env.NoProxy = "localhost"

		Convey("Should route the base transport through the env proxy", func() {
			transport := GetBaseTransport()
			So(proxyFor(transport, "http://www.funimation.com/"), ShouldEqual, "http://env-proxy:3128")
			So(proxyFor(transport, "http://localhost/"), ShouldBeEmpty)
		})

		Convey("Should let the extractor config override the env proxy", func() {
			client := NewClientFromConfig(&models.ExtractorConfig{HTTPProxy: "http://ext-proxy:8080"})
			transport := client.Transport.(*http.Transport)
			So(proxyFor(transport, "http://www.funimation.com/"), ShouldEqual, "http://ext-proxy:8080")
		})
	})
}
