package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get for an absent key.
var ErrCacheMiss = errors.New("cache miss")

// AnnounceCause tells who asked for an announcement.
type AnnounceCause string

const (
	// AnnounceCauseManual is an admin pressing "announce" in the dashboard.
	AnnounceCauseManual AnnounceCause = "manual"
	// AnnounceCauseScheduled is the daily scheduler.
	AnnounceCauseScheduled AnnounceCause = "scheduled"
)

// AnnounceJob asks the announcer to publish one day's highlights.
type AnnounceJob struct {
	ID          string        `json:"job_id"`
	SnapshotID  string        `json:"snapshot_id"`
	Day         WeekDay       `json:"day"`
	RequestedAt time.Time     `json:"requested_at"`
	Cause       AnnounceCause `json:"cause"`
}

// AnnounceQueue transports announce jobs between binaries.
type AnnounceQueue interface {
	Enqueue(ctx context.Context, job AnnounceJob) error
	Receive(ctx context.Context) (AnnounceJob, AckFunc, error)
}

// AckFunc confirms a job or asks for redelivery.
type AckFunc func(success bool) error
