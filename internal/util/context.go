package util

type contextKey string

const (
	CTXKeyRequestID contextKey = "request_id"
	CTXKeyLogger    contextKey = "logger"
)
