package enums

type MediaProtocol string

const (
	MediaProtocolHTTPS MediaProtocol = "https"
	MediaProtocolHLS   MediaProtocol = "m3u8_native"
	MediaProtocolDASH  MediaProtocol = "dash"
)
