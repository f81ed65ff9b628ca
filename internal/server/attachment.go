package server

import (
	"net/http"
	"strings"
	"time"
)

var attachmentClient = &http.Client{Timeout: 5 * time.Second}

// isImageURL checks that an attachment URL serves an image, via a HEAD
// request. Anything unreachable or non-image is rejected.
func isImageURL(url string) bool {
	resp, err := attachmentClient.Head(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return false
	}
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image")
}
