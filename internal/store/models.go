// Package store contains the domain records and storage contracts for vcrts.
package store

// TimestampLayout is the wall-clock format used in every persisted record.
const TimestampLayout = "2006-01-02 15:04:05"

// FieldSeparator delimits fields inside request payloads and persisted
// records. Fields themselves must not contain it.
const FieldSeparator = "|"

// RequestType identifies the kind of work a client is asking for.
type RequestType string

const (
	RequestTypeRegisterVehicle RequestType = "REGISTER_VEHICLE"
	RequestTypeAddJob          RequestType = "ADD_JOB"
)

// RequestStatus is the decision state of a request.
// Transitions are one-way: PENDING -> APPROVED or PENDING -> REJECTED.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Request is a unit of work awaiting a controller decision.
type Request struct {
	ID         int
	ClientID   int
	ClientName string
	Type       RequestType
	// Data carries the type-specific payload as ordered pipe-delimited
	// fields. The coordinator parses it only on approval.
	Data            string
	Status          RequestStatus
	Timestamp       string
	ResponseMessage string
}

// Vehicle is a registered cloud resource. Created only as the side effect
// of an approved REGISTER_VEHICLE request, immutable afterwards.
type Vehicle struct {
	OwnerID       int
	Model         string
	Make          string
	Year          string
	VIN           string
	ResidencyTime string // HH:MM:SS
	RegisteredAt  string
}

// Job statuses. Independent of the request decision status.
const (
	JobStatusQueued     = "QUEUED"
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusCompleted  = "COMPLETED"
)

// Job is a unit of cloud work. Created only as the side effect of an
// approved ADD_JOB request; its own status is advanced elsewhere.
type Job struct {
	ID       string
	Name     string
	OwnerID  int
	Duration string // HH:MM:SS
	Deadline string // YYYY-MM-DD
	Status   string
}

// Role classifies a user account.
type Role string

const (
	RoleVehicleOwner    Role = "VEHICLE_OWNER"
	RoleJobOwner        Role = "JOB_OWNER"
	RoleCloudController Role = "CLOUD_CONTROLLER"
)

// User is a registered account.
type User struct {
	ID       int
	FullName string
	Role     Role
	// CredentialHash is the SHA-256 hex digest of the account secret.
	CredentialHash string
}
