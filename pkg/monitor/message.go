package monitor

import (
	"fmt"

	"cpme_monitor/pkg/notifier"
)

const Subject = "🆕 New CPME Listing"

// Composes the change notification. A drop is announced too, since
// listings are often edited or replaced rather than removed.
func Compose(last, current int, url string) notifier.Message {
	var body string

	if current > last {
		body = fmt.Sprintf("Listings updated! Count: %d (+%d). New opportunities may be available. Check %s",
			current, current-last, url)
	} else {
		body = fmt.Sprintf("Listings updated! Count: %d (-%d). New opportunities may be available (listings can be edited/replaced). Check %s",
			current, last-current, url)
	}

	return notifier.Message{Subject: Subject, Body: body}
}
