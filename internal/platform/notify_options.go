// Package platform sends desktop notifications through the host's
// notification service.
package platform

// AppName is reported to the notification service as the sender.
const AppName = "snapnote"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// TimeoutMS is how long the notification stays visible. Zero means the
	// platform default.
	TimeoutMS int32
}
