package models

import (
	"testing"

	"github.com/govdbot/govfuni/enums"

	"github.com/guregu/null/v6"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDedupeFormats(t *testing.T) {
	Convey("DedupeFormats", t, func() {
		first := &MediaFormat{FormatID: "pc", URL: "http://x/a.mp4?tok"}
		second := &MediaFormat{FormatID: "mobile", URL: "http://x/a.mp4?tok"}
		other := &MediaFormat{FormatID: "pc", URL: "http://x/b.mp4?tok"}
		empty := &MediaFormat{FormatID: "empty"}

		formats := DedupeFormats([]*MediaFormat{first, nil, empty, second, other})
		So(formats, ShouldHaveLength, 2)
		So(formats[0], ShouldEqual, first)
		So(formats[1], ShouldEqual, other)
	})
}

func TestSortFormats(t *testing.T) {
	Convey("SortFormats", t, func() {
		Convey("Should order by preference, height and bitrate", func() {
			dub := &MediaFormat{URL: "dub", Preference: 1, Height: null.IntFrom(480)}
			hd := &MediaFormat{URL: "hd", Height: null.IntFrom(720), Bitrate: null.IntFrom(3000)}
			hdLow := &MediaFormat{URL: "hd-low", Height: null.IntFrom(720), Bitrate: null.IntFrom(2000)}
			unknown := &MediaFormat{URL: "unknown"}

			formats := []*MediaFormat{dub, hd, unknown, hdLow}
			SortFormats(formats)
			So(formats, ShouldResemble, []*MediaFormat{unknown, hdLow, hd, dub})
		})

		Convey("Should prefer direct files on equal quality", func() {
			https := &MediaFormat{URL: "a", Protocol: enums.MediaProtocolHTTPS, Height: null.IntFrom(720)}
			hls := &MediaFormat{URL: "b", Protocol: enums.MediaProtocolHLS, Height: null.IntFrom(720)}
			dash := &MediaFormat{URL: "c", Protocol: enums.MediaProtocolDASH, Height: null.IntFrom(720)}

			formats := []*MediaFormat{https, hls, dash}
			SortFormats(formats)
			So(formats, ShouldResemble, []*MediaFormat{dash, hls, https})
		})

		Convey("Should break ties on format id and url", func() {
			a := &MediaFormat{FormatID: "a", URL: "2"}
			b1 := &MediaFormat{FormatID: "b", URL: "1"}
			b2 := &MediaFormat{FormatID: "b", URL: "3"}

			formats := []*MediaFormat{b2, a, b1}
			SortFormats(formats)
			So(formats, ShouldResemble, []*MediaFormat{a, b1, b2})
		})
	})
}

func TestMediaFormat(t *testing.T) {
	Convey("MediaFormat", t, func() {
		So((&MediaFormat{Height: null.IntFrom(1080)}).QualityLabel(), ShouldEqual, "1080p")
		So((&MediaFormat{Bitrate: null.IntFrom(6000)}).QualityLabel(), ShouldEqual, "6000k")
		So((&MediaFormat{}).QualityLabel(), ShouldEqual, "unknown")
		So((&MediaFormat{Protocol: enums.MediaProtocolHLS}).IsManifest(), ShouldBeTrue)
		So((&MediaFormat{Protocol: enums.MediaProtocolHTTPS}).IsManifest(), ShouldBeFalse)
	})
}

func TestMedia(t *testing.T) {
	Convey("Media", t, func() {
		media := &Media{}
		So(media.GetBestFormat(), ShouldBeNil)

		media.SetTitle("")
		So(media.Title.Valid, ShouldBeFalse)
		media.SetTitle("Air - Breeze")
		So(media.Title.String, ShouldEqual, "Air - Breeze")

		media.AddFormat(&MediaFormat{FormatID: "sd", Type: enums.MediaTypeVideo})
		media.AddFormat(&MediaFormat{FormatID: "hd", Type: enums.MediaTypeVideo})
		So(media.GetBestFormat().FormatID, ShouldEqual, "hd")
		So(media.GetFormat("sd"), ShouldNotBeNil)
		So(media.GetFormat("missing"), ShouldBeNil)

		media.AddFormat(&MediaFormat{FormatID: "sd", URL: "best-sd"})
		So(media.GetFormat("sd").URL, ShouldEqual, "best-sd")
	})
}
