package parser

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"

	"github.com/guregu/null/v6"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExpandManifest(t *testing.T) {
	Convey("ExpandManifest", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/master.m3u8":
				io.WriteString(w, testMasterPlaylist)
			case "/stream.mpd":
				io.WriteString(w, testManifest)
			case "/broken.m3u8":
				io.WriteString(w, "not a playlist")
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()
		ctx := context.Background()

		Convey("Should label hls formats", func() {
			formats := ExpandManifest(ctx, server.URL+"/master.m3u8?tok", &ManifestOptions{
				Container:  "mp4",
				Protocol:   enums.MediaProtocolHLS,
				Preference: 1,
				IDPrefix:   "fun-1",
				Language:   enums.LanguageModeDub,
			})
			So(formats, ShouldHaveLength, 3)
			So(formats[0].FormatID, ShouldEqual, "fun-1-audio-aac-ja")
			So(formats[1].FormatID, ShouldEqual, "fun-1-1280")
			for _, format := range formats {
				So(format.Protocol, ShouldEqual, enums.MediaProtocolHLS)
				So(format.Preference, ShouldEqual, 1)
				So(format.Container, ShouldEqual, "mp4")
				So(format.Language, ShouldEqual, enums.LanguageModeDub)
			}
		})

		Convey("Should label dash formats with the default prefix", func() {
			formats := ExpandManifest(ctx, server.URL+"/stream.mpd", &ManifestOptions{
				Container: "mp4",
				Protocol:  enums.MediaProtocolDASH,
			})
			So(formats, ShouldHaveLength, 3)
			So(formats[0].FormatID, ShouldEqual, "dash-3000")
			So(formats[1].FormatID, ShouldEqual, "dash-6000")
			So(formats[2].FormatID, ShouldEqual, "dash-128")
			So(formats[0].Protocol, ShouldEqual, enums.MediaProtocolDASH)
		})

		Convey("Should return nothing when the download fails", func() {
			formats := ExpandManifest(ctx, server.URL+"/missing.m3u8", &ManifestOptions{})
			So(formats, ShouldBeEmpty)
		})

		Convey("Should return nothing when parsing fails", func() {
			formats := ExpandManifest(ctx, server.URL+"/broken.m3u8", &ManifestOptions{})
			So(formats, ShouldBeEmpty)
		})
	})
}

func TestApplyManifestOptions(t *testing.T) {
	Convey("applyManifestOptions", t, func() {
		Convey("Should fall back to the index without bitrate", func() {
			formats := []*models.MediaFormat{{URL: "a"}, {URL: "b"}}
			applyManifestOptions(formats, &ManifestOptions{})
			So(formats[0].FormatID, ShouldEqual, "hls-0")
			So(formats[1].FormatID, ShouldEqual, "hls-1")
			So(formats[0].Type, ShouldEqual, enums.MediaTypeVideo)
		})

		Convey("Should use the bare prefix for a single format", func() {
			formats := []*models.MediaFormat{{URL: "a"}}
			applyManifestOptions(formats, &ManifestOptions{IDPrefix: "fun-1"})
			So(formats[0].FormatID, ShouldEqual, "fun-1")
		})

		Convey("Should prefer the bitrate", func() {
			formats := []*models.MediaFormat{{URL: "a", Bitrate: null.IntFrom(800)}}
			applyManifestOptions(formats, &ManifestOptions{Protocol: enums.MediaProtocolDASH})
			So(formats[0].FormatID, ShouldEqual, "dash-800")
		})
	})
}
