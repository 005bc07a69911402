package parser

import (
	"testing"

	"github.com/govdbot/govfuni/enums"

	. "github.com/smartystreets/goconvey/convey"
)

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT30S" minBufferTime="PT2S" profiles="urn:mpeg:dash:profile:isoff-on-demand:2011">
  <Period>
    <AdaptationSet mimeType="video/mp4" contentType="video">
      <SegmentTemplate timescale="1000" duration="10000" initialization="$RepresentationID$/init.mp4" media="$RepresentationID$/seg-$Number%03d$.m4s" startNumber="1"/>
      <Representation id="v720" bandwidth="3000000" width="1280" height="720" codecs="avc1.64001f"/>
      <Representation id="v1080" bandwidth="6000000" width="1920" height="1080" codecs="avc1.640028"/>
    </AdaptationSet>
    <AdaptationSet mimeType="audio/mp4" lang="ja">
      <Representation id="a128" bandwidth="128000" codecs="mp4a.40.2">
        <BaseURL>audio/</BaseURL>
      </Representation>
    </AdaptationSet>
  </Period>
</MPD>`

const testTimelineManifest = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT6S" minBufferTime="PT2S" profiles="urn:mpeg:dash:profile:isoff-live:2011">
  <Period>
    <AdaptationSet mimeType="video/mp4">
      <SegmentTemplate timescale="1000" initialization="init-$Bandwidth$.mp4" media="t-$Time$.m4s">
        <SegmentTimeline>
          <S t="0" d="2000" r="1"/>
          <S d="2000"/>
        </SegmentTimeline>
      </SegmentTemplate>
      <Representation id="v" bandwidth="800000" codecs="avc1.64001f"/>
    </AdaptationSet>
  </Period>
</MPD>`

const testEmptyManifest = `<?xml version="1.0" encoding="UTF-8"?>
<MPD xmlns="urn:mpeg:dash:schema:mpd:2011" type="static" mediaPresentationDuration="PT6S" minBufferTime="PT2S" profiles="urn:mpeg:dash:profile:isoff-live:2011">
  <Period>
    <AdaptationSet mimeType="video/mp4">
      <Representation bandwidth="800000"/>
    </AdaptationSet>
  </Period>
</MPD>`

func TestParseMPDContent(t *testing.T) {
	Convey("ParseMPDContent", t, func() {
		Convey("Should list every representation in document order", func() {
			formats, err := ParseMPDContent([]byte(testManifest), "http://example.com/dash/stream.mpd")
			So(err, ShouldBeNil)
			So(formats, ShouldHaveLength, 3)

			v720 := formats[0]
			So(v720.FormatID, ShouldBeEmpty)
			So(v720.URL, ShouldEqual, "http://example.com/dash/stream.mpd#v720")
			So(v720.Type, ShouldEqual, enums.MediaTypeVideo)
			So(v720.VideoCodec, ShouldEqual, enums.MediaCodecAVC)
			So(v720.Height.ValueOrZero(), ShouldEqual, int64(720))
			So(v720.Bitrate.ValueOrZero(), ShouldEqual, int64(3000))
			So(v720.Duration, ShouldEqual, int64(30))
			So(v720.InitSegment, ShouldEqual, "http://example.com/dash/v720/init.mp4")
			So(v720.Segments, ShouldResemble, []string{
				"http://example.com/dash/v720/seg-001.m4s",
				"http://example.com/dash/v720/seg-002.m4s",
				"http://example.com/dash/v720/seg-003.m4s",
			})

			So(formats[1].URL, ShouldEqual, "http://example.com/dash/stream.mpd#v1080")
			So(formats[1].Height.ValueOrZero(), ShouldEqual, int64(1080))

			audio := formats[2]
			So(audio.Type, ShouldEqual, enums.MediaTypeAudio)
			So(audio.AudioCodec, ShouldEqual, enums.MediaCodecAAC)
			So(audio.Height.Valid, ShouldBeFalse)
			So(audio.URL, ShouldEqual, "http://example.com/dash/audio/")
		})

		Convey("Should expand segment timelines", func() {
			formats, err := ParseMPDContent([]byte(testTimelineManifest), "http://example.com/dash/stream.mpd")
			So(err, ShouldBeNil)
			So(formats, ShouldHaveLength, 1)
			So(formats[0].InitSegment, ShouldEqual, "http://example.com/dash/init-800000.mp4")
			So(formats[0].Segments, ShouldResemble, []string{
				"http://example.com/dash/t-0.m4s",
				"http://example.com/dash/t-2000.m4s",
				"http://example.com/dash/t-4000.m4s",
			})
		})

		Convey("Should reject documents without representations", func() {
			_, err := ParseMPDContent([]byte(testEmptyManifest), "http://example.com/stream.mpd")
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject documents without periods", func() {
			_, err := ParseMPDContent([]byte(`<MPD xmlns="urn:mpeg:dash:schema:mpd:2011"></MPD>`), "http://example.com/stream.mpd")
			So(err, ShouldNotBeNil)
		})
	})
}
