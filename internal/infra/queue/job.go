// Package queue carries scoring batch jobs between the dispatcher and the
// scoring worker over Kafka.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BatchJob is the unit of work published to the scoring queue: an opaque
// job ID plus the article IDs to score. Bodies travel through the
// database, not the queue, so the payload stays small.
type BatchJob struct {
	JobID      string    `json:"job_id"`
	ArticleIDs []int64   `json:"article_ids"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewBatchJob creates a job for the given article IDs.
func NewBatchJob(articleIDs []int64) BatchJob {
	return BatchJob{
		JobID:      uuid.NewString(),
		ArticleIDs: articleIDs,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Encode serializes the job for the wire.
func (j BatchJob) Encode() ([]byte, error) {
	data, err := json.Marshal(j)
	if err != nil {
		return nil, fmt.Errorf("Encode: %w", err)
	}
	return data, nil
}

// DecodeBatchJob parses a wire payload back into a job.
func DecodeBatchJob(data []byte) (BatchJob, error) {
	var job BatchJob
	if err := json.Unmarshal(data, &job); err != nil {
		return BatchJob{}, fmt.Errorf("DecodeBatchJob: %w", err)
	}
	if job.JobID == "" {
		return BatchJob{}, fmt.Errorf("DecodeBatchJob: missing job_id")
	}
	if len(job.ArticleIDs) == 0 {
		return BatchJob{}, fmt.Errorf("DecodeBatchJob: job %s has no article ids", job.JobID)
	}
	return job, nil
}
