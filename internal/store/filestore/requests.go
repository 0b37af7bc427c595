package filestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vcrts/internal/store"
)

// requestToLine encodes a request as
// requestId|clientId|clientName|requestType|requestData|status|timestamp|responseMessage.
// The payload keeps its own inner delimiters, so the encoded record has
// four fixed leading fields and three fixed trailing fields.
func requestToLine(r *store.Request) string {
	return strings.Join([]string{
		strconv.Itoa(r.ID),
		strconv.Itoa(r.ClientID),
		r.ClientName,
		string(r.Type),
		r.Data,
		string(r.Status),
		r.Timestamp,
		r.ResponseMessage,
	}, Separator)
}

// lineToRequest reverses requestToLine. Everything between the fixed head
// and tail fields is rejoined as the payload.
func lineToRequest(line string) (*store.Request, error) {
	parts := strings.Split(line, Separator)
	if len(parts) < 8 {
		return nil, fmt.Errorf("malformed request record: %q", line)
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad request id in record %q: %w", line, err)
	}
	clientID, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("bad client id in record %q: %w", line, err)
	}

	n := len(parts)
	return &store.Request{
		ID:              id,
		ClientID:        clientID,
		ClientName:      parts[2],
		Type:            store.RequestType(parts[3]),
		Data:            strings.Join(parts[4:n-3], Separator),
		Status:          store.RequestStatus(parts[n-3]),
		Timestamp:       parts[n-2],
		ResponseMessage: parts[n-1],
	}, nil
}

// decodeRequests turns raw lines into requests, skipping malformed records.
func (s *Store) decodeRequests(lines []string) []store.Request {
	out := make([]store.Request, 0, len(lines))
	for _, line := range lines {
		req, err := lineToRequest(line)
		if err != nil {
			s.log.Warn("skipping request record", "error", err)
			continue
		}
		out = append(out, *req)
	}
	return out
}

// AddRequest appends a request with an already-assigned ID.
func (s *Store) AddRequest(ctx context.Context, req *store.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLine(requestsFile, requestToLine(req))
}

// AllRequests returns every stored request in file order.
func (s *Store) AllRequests(ctx context.Context) ([]store.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decodeRequests(s.readAllLines(requestsFile)), nil
}

// PendingRequests returns stored requests whose status is PENDING.
func (s *Store) PendingRequests(ctx context.Context) ([]store.Request, error) {
	all, err := s.AllRequests(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]store.Request, 0, len(all))
	for _, req := range all {
		if req.Status == store.RequestStatusPending {
			pending = append(pending, req)
		}
	}
	return pending, nil
}

// RequestsByClient returns every stored request for the given client.
func (s *Store) RequestsByClient(ctx context.Context, clientID int) ([]store.Request, error) {
	all, err := s.AllRequests(ctx)
	if err != nil {
		return nil, err
	}
	var out []store.Request
	for _, req := range all {
		if req.ClientID == clientID {
			out = append(out, req)
		}
	}
	return out, nil
}

// UpdateRequestStatus rewrites the matching record with the new status and
// response message. Unmatched and malformed lines are carried over verbatim.
func (s *Store) UpdateRequestStatus(ctx context.Context, id int, status store.RequestStatus, responseMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.readAllLines(requestsFile)
	updated := false
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		req, err := lineToRequest(line)
		if err != nil || req.ID != id {
			out = append(out, line)
			continue
		}
		req.Status = status
		req.ResponseMessage = responseMessage
		out = append(out, requestToLine(req))
		updated = true
	}

	if !updated {
		return fmt.Errorf("request %d not found", id)
	}
	return s.writeAllLines(requestsFile, out)
}

// NextRequestID returns max(existing ids)+1.
func (s *Store) NextRequestID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextNumericID(requestsFile), nil
}
