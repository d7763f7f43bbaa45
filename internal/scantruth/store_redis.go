package scantruth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seacrew/internal/extraction"
	"seacrew/internal/scantruth/metrics"
	"seacrew/pkg/domain"
)

const redisActiveScanKeyPrefix = "scantruth:active:"

// CachedStore decorates a Store with a Redis read-through cache for the
// active scan. The active scan is the hot read of the verification engine;
// history reads always go to the inner store.
//
// RecordScan invalidates the cached entry after the write commits, so a
// stale active scan can survive at most until its TTL, never past a read
// that follows the invalidation.
type CachedStore struct {
	inner    Store
	client   *redis.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewCachedStore wraps a store with an active-scan cache.
// Usage: pass a configured Redis client; metrics may be nil.
func NewCachedStore(inner Store, client *redis.Client, cacheTTL time.Duration, m *metrics.Metrics) *CachedStore {
	if inner == nil {
		panic("scantruth: NewCachedStore requires an inner store")
	}
	return &CachedStore{
		inner:    inner,
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

func (c *CachedStore) RecordScan(ctx context.Context, record *ScanRecord) error {
	if err := c.inner.RecordScan(ctx, record); err != nil {
		return err
	}
	if err := c.client.Del(ctx, activeScanKey(record.DocumentID)).Err(); err != nil {
		// The write is committed; a failed invalidation only extends
		// staleness until the TTL. Not worth failing the operation.
		return nil
	}
	c.metrics.RecordCacheInvalidation()
	return nil
}

func (c *CachedStore) ActiveScan(ctx context.Context, docID domain.DocumentID) (*ScanRecord, error) {
	start := time.Now()
	key := activeScanKey(docID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		record, decodeErr := decodeCachedScan(data)
		if decodeErr == nil {
			c.metrics.RecordCacheHit(time.Since(start).Seconds())
			return record, nil
		}
		// A corrupt entry falls through to the inner store and gets
		// overwritten below.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("active scan cache: %w", err)
	}
	c.metrics.RecordCacheMiss(time.Since(start).Seconds())

	record, err := c.inner.ActiveScan(ctx, docID)
	if err != nil {
		return nil, err
	}

	if payload, err := encodeCachedScan(record); err == nil {
		c.client.Set(ctx, key, payload, c.cacheTTL)
	}
	return record, nil
}

func (c *CachedStore) History(ctx context.Context, docID domain.DocumentID) ([]*ScanRecord, error) {
	return c.inner.History(ctx, docID)
}

// cachedScan is the cache wire form. IDs travel as strings and the MRZ as
// its raw lines, mirroring the Postgres row shape.
type cachedScan struct {
	ID             string     `json:"id"`
	DocumentID     string     `json:"document_id"`
	Kind           string     `json:"kind"`
	Number         string     `json:"number"`
	IssueDate      *time.Time `json:"issue_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	HolderName     string     `json:"holder_name"`
	MRZLine1       string     `json:"mrz_line1,omitempty"`
	MRZLine2       string     `json:"mrz_line2,omitempty"`
	Confidence     float64    `json:"confidence"`
	ProviderID     string     `json:"provider_id"`
	Degraded       bool       `json:"degraded"`
	OwnerValidated bool       `json:"owner_validated"`
	RecordedAt     time.Time  `json:"recorded_at"`
}

func encodeCachedScan(record *ScanRecord) ([]byte, error) {
	entry := cachedScan{
		ID:             record.ID.String(),
		DocumentID:     record.DocumentID.String(),
		Kind:           string(record.Fields.Kind),
		Number:         record.Fields.Number,
		IssueDate:      record.Fields.IssueDate,
		ExpiryDate:     record.Fields.ExpiryDate,
		HolderName:     record.Fields.HolderName,
		Confidence:     record.Fields.Confidence,
		ProviderID:     record.ProviderID,
		Degraded:       record.Degraded,
		OwnerValidated: record.OwnerValidated,
		RecordedAt:     record.RecordedAt,
	}
	if record.Fields.MRZ != nil {
		entry.MRZLine1 = record.Fields.MRZ.Line1
		entry.MRZLine2 = record.Fields.MRZ.Line2
	}
	return json.Marshal(entry)
}

func decodeCachedScan(data []byte) (*ScanRecord, error) {
	var entry cachedScan
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}

	scanID, err := domain.ParseScanID(entry.ID)
	if err != nil {
		return nil, err
	}
	docID, err := domain.ParseDocumentID(entry.DocumentID)
	if err != nil {
		return nil, err
	}

	record := &ScanRecord{
		ID:         scanID,
		DocumentID: docID,
		Fields: extraction.FieldSet{
			Kind:       domain.DocumentKind(entry.Kind),
			Number:     entry.Number,
			IssueDate:  entry.IssueDate,
			ExpiryDate: entry.ExpiryDate,
			HolderName: entry.HolderName,
			Confidence: entry.Confidence,
		},
		ProviderID:     entry.ProviderID,
		Degraded:       entry.Degraded,
		OwnerValidated: entry.OwnerValidated,
		RecordedAt:     entry.RecordedAt,
	}
	if entry.MRZLine1 != "" && entry.MRZLine2 != "" {
		if mrz, err := extraction.ParseMRZ(entry.MRZLine1, entry.MRZLine2); err == nil {
			record.Fields.MRZ = mrz
		}
	}
	return record, nil
}

func activeScanKey(docID domain.DocumentID) string {
	return redisActiveScanKeyPrefix + docID.String()
}

var _ Store = (*CachedStore)(nil)
