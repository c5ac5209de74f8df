package kafka

import "time"

const (
	TopicUserCreateRequest = "points.user.create.req"
	TopicClaimRequest      = "points.claim.req"
	TopicRankingsRequest   = "points.rankings.req"
	TopicHistoryRequest    = "points.history.req"
	TopicUserCreateRetry   = "points.user.create.retry"
	TopicClaimRetry        = "points.claim.retry"
	TopicRankingsRetry     = "points.rankings.retry"
	TopicHistoryRetry      = "points.history.retry"
	TopicReplyPrefix       = "points.reply."
	TopicRequestSuffix     = ".req"
	TopicRetrySuffix       = ".retry"
	TopicDLQSuffix         = ".dlq"

	RequestTimeout = 3 * time.Second

	RetryHeaderNextAt = "x-next-at"
	ErrorHeaderKey    = "x-error"
)
