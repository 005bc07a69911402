package util

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDetermineExt(t *testing.T) {
	Convey("DetermineExt", t, func() {
		So(DetermineExt("http://x/a/master.m3u8?tok"), ShouldEqual, "m3u8")
		So(DetermineExt("http://x/a/STREAM.MPD"), ShouldEqual, "mpd")
		So(DetermineExt("//x/1080-6000K.mp4"), ShouldEqual, "mp4")
		So(DetermineExt("http://x/a/video"), ShouldBeEmpty)
		So(DetermineExt("http://x/a.b-c/video"), ShouldBeEmpty)
		So(DetermineExt(""), ShouldBeEmpty)
	})
}

func TestCleanHTML(t *testing.T) {
	Convey("CleanHTML", t, func() {
		Convey("Should strip tags and decode entities", func() {
			So(CleanHTML("<p>Tom &amp; Jerry <b>expired</b>.</p>"), ShouldEqual, "Tom & Jerry expired.")
		})
		Convey("Should turn breaks into newlines", func() {
			So(CleanHTML("first<br/>second<br>third"), ShouldEqual, "first\nsecond\nthird")
			So(CleanHTML("<p>first</p><p>second</p>"), ShouldEqual, "first\nsecond")
		})
		Convey("Should keep plain text", func() {
			So(CleanHTML("ERROR_VIDEO_EXPIRED"), ShouldEqual, "ERROR_VIDEO_EXPIRED")
			So(CleanHTML(""), ShouldBeEmpty)
		})
	})
}

func TestParseCookieFile(t *testing.T) {
	Convey("ParseCookieFile", t, func() {
		dir := t.TempDir()
		cookiePath := filepath.Join(dir, "funimation.txt")
		content := ".funimation.com\tTRUE\t/\tFALSE\t2147483647\tsessionid\tabc123\n"
		So(os.WriteFile(cookiePath, []byte(content), 0o644), ShouldBeNil)

		cookies, err := ParseCookieFile(cookiePath)
		So(err, ShouldBeNil)
		So(cookies, ShouldHaveLength, 1)
		So(cookies[0].Name, ShouldEqual, "sessionid")
		So(cookies[0].Value, ShouldEqual, "abc123")

		_, err = ParseCookieFile(filepath.Join(dir, "missing.txt"))
		So(err, ShouldNotBeNil)
	})
}

func TestExtractBaseHost(t *testing.T) {
	Convey("ExtractBaseHost", t, func() {
		host, err := ExtractBaseHost("http://www.funimation.com/shows/air/videos/official/breeze")
		So(err, ShouldBeNil)
		So(host, ShouldEqual, "funimation")

		host, err = ExtractBaseHost("https://static.example.co.uk/a")
		So(err, ShouldBeNil)
		So(host, ShouldEqual, "example")
	})
}
