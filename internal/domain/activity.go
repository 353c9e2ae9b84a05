package domain

import (
	"encoding/json"
	"time"
)

// ActivityEntry is one row in the freelancer's escrow activity log. It
// doubles as the compliance audit record for every mutation.
type ActivityEntry struct {
	ID            string
	FreelancerID  string
	Action        string // account.create, transaction.release, etc.
	ResourceType  string // account, transaction, dispute
	ResourceID    string
	TransactionID string // set when the action concerns a transaction
	Detail        JSON
	RequestID     string
	Status        string // success, failure
	OccurredAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// Activity actions recorded against escrow resources.
const (
	ActivityAccountCreate        = "account.create"
	ActivityAccountUpdate        = "account.update"
	ActivityTransactionFund      = "transaction.fund"
	ActivityTransactionRelease   = "transaction.release"
	ActivityTransactionRefund    = "transaction.refund"
	ActivityDisputeOpen          = "dispute.open"
	ActivityDisputeEventAppended = "dispute.event"
)

// Activity statuses.
const (
	ActivityStatusSuccess = "success"
	ActivityStatusFailure = "failure"
)

// Resource types referenced by activity entries.
const (
	ResourceTypeAccount     = "account"
	ResourceTypeTransaction = "transaction"
	ResourceTypeDispute     = "dispute"
)

// MarshalDetail converts a domain object to JSON for activity logging.
func MarshalDetail(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal detail"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal detail"}
	}

	return result
}

// ActivityFilter defines filters for querying the activity log.
type ActivityFilter struct {
	FreelancerID  string
	TransactionID string
	Action        string
	Limit         int
	Offset        int
}
