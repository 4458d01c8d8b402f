package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamPayloadKey returns the cache key for an exam's JSON payload
func (r *CacheKeyStruct) ExamPayloadKey(examID int64) string {
	return fmt.Sprintf("prova:%d:payload", examID)
}

// ExamEventsChannel returns the Redis PubSub channel carrying exam created/updated events
func (r *CacheKeyStruct) ExamEventsChannel() string {
	return "provas:events"
}

var CacheKey = NewCacheKeyStruct()
