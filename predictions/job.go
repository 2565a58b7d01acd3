package predictions

import (
	"encoding/json"
	"strings"
	"time"

	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/internal/utils"
)

// Status of a prediction job
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether no further status change is expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Label is the human readable status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return string(s)
	}
}

// Job is one asynchronous risk prediction as reported by the prediction service.
// Approved and Probability are only set once the job has completed.
type Job struct {
	PredictionID string
	CustomerID   string
	EmployeeID   string
	Status       Status
	Approved     *bool
	Probability  *float64
	ErrorMessage string
	CreatedAt    *time.Time
	CompletedAt  *time.Time
}

// Pending reports whether the job is still waiting for a result.
func (j *Job) Pending() bool {
	return j != nil && j.Status == StatusPending
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j != nil && j.Status.Terminal()
}

// ResultLabel is "Approve" or "Reject" for completed jobs, empty otherwise.
func (j *Job) ResultLabel() string {
	if j == nil || j.Approved == nil {
		return ""
	}
	if *j.Approved {
		return "Approve"
	}
	return "Reject"
}

// ProbabilityPercent formats Probability as a percentage with two decimals.
func (j *Job) ProbabilityPercent() string {
	if j == nil || j.Probability == nil {
		return ""
	}
	return formatPercent(*j.Probability)
}

// wireJob accepts both field vocabularies the prediction and analytics services use.
type wireJob struct {
	PredictionID     string          `json:"predictionId"`
	CustomerID       string          `json:"customerId"`
	EmployeeID       string          `json:"employeeId"`
	Status           string          `json:"status"`
	PredictionStatus string          `json:"predictionStatus"`
	ResultLabel      json.RawMessage `json:"resultLabel"`
	PredictionResult json.RawMessage `json:"predictionResult"`
	Probability      *float64        `json:"probability"`
	Confidence       *float64        `json:"confidence"`
	ErrorMessage     string          `json:"errorMessage"`
	CreatedAt        string          `json:"createdAt"`
	CompletedAt      string          `json:"completedAt"`
}

// UnmarshalJSON decodes a job from either backend vocabulary.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w wireJob
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	status := w.Status
	if status == "" {
		status = w.PredictionStatus
	}
	approved, err := decodeResult(w.ResultLabel)
	if err != nil {
		return err
	}
	if approved == nil {
		if approved, err = decodeResult(w.PredictionResult); err != nil {
			return err
		}
	}
	probability := w.Probability
	if probability == nil {
		probability = w.Confidence
	}

	*j = Job{
		PredictionID: w.PredictionID,
		CustomerID:   w.CustomerID,
		EmployeeID:   w.EmployeeID,
		Status:       Status(strings.ToUpper(strings.TrimSpace(status))),
		Approved:     approved,
		Probability:  probability,
		ErrorMessage: w.ErrorMessage,
		CreatedAt:    parseTime(w.CreatedAt),
		CompletedAt:  parseTime(w.CompletedAt),
	}
	return nil
}

// MarshalJSON writes the richer vocabulary.
func (j Job) MarshalJSON() ([]byte, error) {
	out := struct {
		PredictionID string     `json:"predictionId"`
		CustomerID   string     `json:"customerId,omitempty"`
		EmployeeID   string     `json:"employeeId,omitempty"`
		Status       Status     `json:"status"`
		ResultLabel  *bool      `json:"resultLabel,omitempty"`
		Probability  *float64   `json:"probability,omitempty"`
		ErrorMessage string     `json:"errorMessage,omitempty"`
		CreatedAt    *time.Time `json:"createdAt,omitempty"`
		CompletedAt  *time.Time `json:"completedAt,omitempty"`
	}{
		PredictionID: j.PredictionID,
		CustomerID:   j.CustomerID,
		EmployeeID:   j.EmployeeID,
		Status:       j.Status,
		ResultLabel:  j.Approved,
		Probability:  j.Probability,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		CompletedAt:  j.CompletedAt,
	}
	return json.Marshal(out)
}

// decodeResult reads a result that is a boolean, or one of the strings the services emit for it.
func decodeResult(raw json.RawMessage) (*bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return utils.Ptr(b), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errs.Wrapf(errs.ErrInvalidResponse, "prediction result %s", string(raw))
	}
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "APPROVE", "APPROVED":
		return utils.Ptr(true), nil
	case "FALSE", "REJECT", "REJECTED":
		return utils.Ptr(false), nil
	case "":
		return nil, nil
	default:
		return nil, errs.Wrapf(errs.ErrInvalidResponse, "prediction result %q", s)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTime accepts RFC3339 and the zone-less local date times the services send.
// Unparseable values are dropped.
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
