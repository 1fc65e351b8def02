package model

import "time"

const DefaultTimeout = 500 * time.Millisecond

const (
	DefaultMaxTxAttempts    = 5
	DefaultErrorSampleSize  = 5
	DefaultRecentLimit      = 10
	MaxRecentLimit          = 100
	DefaultRosterLimit      = 200
	DefaultBatchListLimit   = 50
	DefaultEntryListLimit   = 100
	DefaultChannelCapacity  = 16
	DefaultFeedTickInterval = 5 * time.Second
)

const (
	HeaderContentType = "Content-Type"
	HeaderRetryAfter  = "Retry-After"
)

const KeyLoggerError = "error"

type ContextKey string

const (
	KeyContextLogger    ContextKey = "logger"
	KeyContextPrincipal ContextKey = "principal"
)
