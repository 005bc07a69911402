package database

import (
	"path/filepath"
	"testing"

	"github.com/govdbot/govfuni/enums"
	"github.com/govdbot/govfuni/models"

	"github.com/glebarez/sqlite"
	"github.com/guregu/null/v6"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestDatabase(t *testing.T) func() {
	So(Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db"))), ShouldBeNil)
	return func() {
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.Close()
		}
		DB = nil
	}
}

func newTestMedia() *models.Media {
	media := &models.Media{
		ContentID:         "658",
		DisplayID:         "breeze",
		ContentURL:        "http://www.funimation.com/shows/air/videos/official/breeze",
		ExtractorCodeName: "funimation",
	}
	media.SetTitle("Air - Breeze")
	media.AddFormat(&models.MediaFormat{
		FormatID:  "fun-1",
		URL:       "http://x/1080-6000K.mp4?tok",
		Type:      enums.MediaTypeVideo,
		Protocol:  enums.MediaProtocolHTTPS,
		Container: "mp4",
		Language:  enums.LanguageModeSub,
		Height:    null.IntFrom(1080),
		Bitrate:   null.IntFrom(6000),
	})
	media.AddFormat(&models.MediaFormat{
		FormatID:  "fun-1",
		URL:       "http://x/480-1500K.mp4?tok",
		Type:      enums.MediaTypeVideo,
		Protocol:  enums.MediaProtocolHTTPS,
		Container: "mp4",
		Language:  enums.LanguageModeSub,
		Height:    null.IntFrom(480),
		Bitrate:   null.IntFrom(1500),
	})
	return media
}

func TestMediaCache(t *testing.T) {
	Convey("Media cache", t, func() {
		defer openTestDatabase(t)()

		media := newTestMedia()
		So(StoreMedia(media), ShouldBeNil)
		So(media.ID > 0, ShouldBeTrue)
		So(media.Formats, ShouldHaveLength, 2)

		Convey("Should read back by display id, sorted", func() {
			stored, err := GetMedia("funimation", "breeze")
			So(err, ShouldBeNil)
			So(stored, ShouldNotBeNil)
			So(stored.ContentID, ShouldEqual, "658")
			So(stored.Title.String, ShouldEqual, "Air - Breeze")
			So(stored.Formats, ShouldHaveLength, 2)
			So(stored.Formats[0].URL, ShouldEqual, "http://x/480-1500K.mp4?tok")
			So(stored.Formats[1].URL, ShouldEqual, "http://x/1080-6000K.mp4?tok")
			So(stored.Formats[1].Height.ValueOrZero(), ShouldEqual, int64(1080))
			So(stored.Formats[1].Language, ShouldEqual, enums.LanguageModeSub)
			So(stored.GetBestFormat().Bitrate.ValueOrZero(), ShouldEqual, int64(6000))
		})

		Convey("Should read back by content id", func() {
			stored, err := GetMedia("funimation", "658")
			So(err, ShouldBeNil)
			So(stored, ShouldNotBeNil)
			So(stored.DisplayID, ShouldEqual, "breeze")
		})

		Convey("Should return nothing for unknown media", func() {
			stored, err := GetMedia("funimation", "role-play")
			So(err, ShouldBeNil)
			So(stored, ShouldBeNil)

			stored, err = GetMedia("other", "breeze")
			So(err, ShouldBeNil)
			So(stored, ShouldBeNil)
		})

		Convey("Should not duplicate media stored twice", func() {
			So(StoreMedia(newTestMedia()), ShouldBeNil)

			mediaCount, err := GetMediaCount()
			So(err, ShouldBeNil)
			So(mediaCount, ShouldEqual, int64(1))

			formatsCount, err := GetFormatsCount()
			So(err, ShouldBeNil)
			So(formatsCount, ShouldEqual, int64(2))
		})
	})
}
