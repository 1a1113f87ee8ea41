// Package wire maps resolved read requests onto HTTP requests of the
// document store and extracts the metadata of its responses.
package wire

// Header names understood by the store.
const (
	HeaderPartitionKey        = "x-ms-documentdb-partitionkey"
	HeaderPartitionKeyRangeID = "x-ms-documentdb-partitionkeyrangeid"
	HeaderConsistencyLevel    = "x-ms-consistency-level"
	HeaderSessionToken        = "x-ms-session-token"
	HeaderVersion             = "x-ms-version"
	HeaderActivityID          = "x-ms-activity-id"
	HeaderRequestCharge       = "x-ms-request-charge"
	HeaderIfNoneMatch         = "If-None-Match"
	HeaderETag                = "ETag"
)

// APIVersion is sent with every request.
const APIVersion = "2018-12-31"
