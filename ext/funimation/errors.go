package funimation

import (
	"fmt"

	"github.com/govdbot/govfuni/util"
)

var (
	ErrPlayersDataNotFound = &util.Error{Message: "players data not found in webpage"}
	ErrPlaylistNotFound    = &util.Error{Message: "no playlist items found in players data"}
	ErrItemNotFound        = &util.Error{Message: "episode not found in players data"}
	ErrLoginFailed         = &util.Error{Message: "unable to login, wrong username or password"}
	ErrNoFormatsFound      = &util.Error{Message: "no formats found"}
)

// ResolutionError is returned when no playable format could be
// resolved but the provider reported at least one error in place
// of a stream url.
type ResolutionError struct {
	Extractor string
	Code      string // first unresolved url as found in the page
	Message   string
}

func (err *ResolutionError) Error() string {
	return fmt.Sprintf("%s returned error: %s", err.Extractor, err.Message)
}

// ErrorMessages maps message keys (videoExpired, ...) to the html
// text the page ships for them.
type ErrorMessages map[string]string

// Merge copies entries of other that are not already present.
func (messages ErrorMessages) Merge(other ErrorMessages) {
	for key, content := range other {
		if _, exists := messages[key]; !exists {
			messages[key] = content
		}
	}
}

// Lookup resolves a raw error string, usually a provider code such
// as ERROR_VIDEO_EXPIRED, into the page message for its key, then
// the built-in one, then raw itself.
func (messages ErrorMessages) Lookup(raw string) string {
	if content := messages[raw]; content != "" {
		return content
	}
	key := ErrorMessageKey(raw)
	if key == "" {
		return raw
	}
	if content := messages[key]; content != "" {
		return content
	}
	if message := defaultErrorMessage(key); message != "" {
		return message
	}
	return raw
}

// ErrorMessageKey maps a provider error code to its message key.
func ErrorMessageKey(code string) string {
	switch code {
	case "ERROR_MATURE_CONTENT_LOGGED_IN":
		return "matureContentLoggedIn"
	case "ERROR_MATURE_CONTENT_LOGGED_OUT":
		return "matureContentLoggedOut"
	case "ERROR_SUBSCRIPTION_LOGGED_OUT":
		return "subscriptionLoggedOut"
	case "ERROR_VIDEO_EXPIRED":
		return "videoExpired"
	case "ERROR_TERRITORY_UNAVAILABLE":
		return "territoryUnavailable"
	case "SVODBASIC_SUBSCRIPTION_IN_PLAYER":
		return "basicSubscription"
	case "SVODNON_SUBSCRIPTION_IN_PLAYER":
		return "nonSubscription"
	case "ERROR_PLAYER_NOT_RESPONDING":
		return "playerNotResponding"
	case "ERROR_UNABLE_TO_CONNECT_TO_CDN":
		return "unableToConnectToCDN"
	case "ERROR_STREAM_NOT_FOUND":
		return "streamNotFound"
	}
	return ""
}

// used when the page does not ship its own text
func defaultErrorMessage(key string) string {
	switch key {
	case "matureContentLoggedIn":
		return "this video contains mature content, enable it in your account settings"
	case "matureContentLoggedOut":
		return "this video contains mature content, log in to watch it"
	case "subscriptionLoggedOut":
		return "this video requires a subscription, log in to watch it"
	case "videoExpired":
		return "this video has expired"
	case "territoryUnavailable":
		return "this video is not available in your territory"
	case "basicSubscription":
		return "this video is not included in the basic subscription"
	case "nonSubscription":
		return "this video requires a subscription"
	case "playerNotResponding":
		return "the player is not responding"
	case "unableToConnectToCDN":
		return "unable to connect to the content delivery network"
	case "streamNotFound":
		return "stream not found"
	}
	return ""
}
