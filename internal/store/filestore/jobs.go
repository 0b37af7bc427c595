package filestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vcrts/internal/store"
)

// job record: jobId|jobName|jobOwnerId|duration|deadline|status
func jobToLine(j *store.Job) string {
	return strings.Join([]string{
		j.ID,
		j.Name,
		strconv.Itoa(j.OwnerID),
		j.Duration,
		j.Deadline,
		j.Status,
	}, Separator)
}

func lineToJob(line string) (*store.Job, error) {
	parts := strings.Split(line, Separator)
	if len(parts) < 6 {
		return nil, fmt.Errorf("malformed job record: %q", line)
	}
	ownerID, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("bad owner id in record %q: %w", line, err)
	}
	return &store.Job{
		ID:       parts[0],
		Name:     parts[1],
		OwnerID:  ownerID,
		Duration: parts[3],
		Deadline: parts[4],
		Status:   parts[5],
	}, nil
}

// AddJob appends a cloud job.
func (s *Store) AddJob(ctx context.Context, j *store.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(jobsFile, jobToLine(j))
}

// AllJobs returns every job in file order.
func (s *Store) AllJobs(ctx context.Context) ([]store.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readAllLines(jobsFile)
	out := make([]store.Job, 0, len(lines))
	for _, line := range lines {
		j, err := lineToJob(line)
		if err != nil {
			s.log.Warn("skipping job record", "error", err)
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}
