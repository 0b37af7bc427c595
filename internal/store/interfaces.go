package store

import "context"

// RequestStore handles the persistence of requests.
type RequestStore interface {
	// AddRequest appends a request with an already-assigned ID.
	AddRequest(ctx context.Context, req *Request) error

	// AllRequests returns every stored request in file order.
	AllRequests(ctx context.Context) ([]Request, error)

	// PendingRequests returns stored requests whose status is PENDING.
	PendingRequests(ctx context.Context) ([]Request, error)

	// RequestsByClient returns every stored request for the given client.
	RequestsByClient(ctx context.Context, clientID int) ([]Request, error)

	// UpdateRequestStatus rewrites the matching record with the new status
	// and response message. Fails if no record has the given ID.
	UpdateRequestStatus(ctx context.Context, id int, status RequestStatus, responseMessage string) error

	// NextRequestID returns max(existing ids)+1, skipping malformed lines.
	NextRequestID(ctx context.Context) (int, error)
}

// VehicleStore handles the persistence of registered vehicles.
type VehicleStore interface {
	AddVehicle(ctx context.Context, v *Vehicle) error
	AllVehicles(ctx context.Context) ([]Vehicle, error)
}

// JobStore handles the persistence of cloud jobs.
type JobStore interface {
	AddJob(ctx context.Context, j *Job) error
	AllJobs(ctx context.Context) ([]Job, error)
}

// UserStore handles registered accounts.
type UserStore interface {
	// AddUser persists a new account, assigning its numeric ID.
	AddUser(ctx context.Context, u *User) error

	// UserByID returns the account with the given ID, or nil.
	UserByID(ctx context.Context, id int) (*User, error)

	AllUsers(ctx context.Context) ([]User, error)
}
