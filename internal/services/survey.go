package services

import (
	"time"
)

// Survey implements the device-facing operations. Every method returns a SoftError on failure;
// callers record it with ServerLogger and answer with an empty object.
type Survey struct {
	Repo Repository
	Feed *LogFeed
	// ViewLimit caps the rows returned by the log views.
	ViewLimit int
	Now       func() time.Time
}

func NewSurvey(repo Repository, feed *LogFeed, viewLimit int) *Survey {
	if viewLimit <= 0 {
		viewLimit = 1000
	}
	return &Survey{Repo: repo, Feed: feed, ViewLimit: viewLimit, Now: time.Now}
}

func (s *Survey) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
