package apiclient

// Customer is a loan applicant as stored by the customer service.
type Customer struct {
	CustomerID        string   `json:"customerId,omitempty"`
	FullName          string   `json:"fullName"`
	Email             string   `json:"email"`
	Age               *int     `json:"age"`
	Experience        *int     `json:"experience"`
	Income            *float64 `json:"income"`
	Family            *int     `json:"family"`
	CCAvg             *float64 `json:"ccAvg"`
	Education         *int     `json:"education"`
	Mortgage          *float64 `json:"mortgage"`
	PersonalLoan      bool     `json:"personalLoan"`
	SecuritiesAccount bool     `json:"securitiesAccount"`
	CDAccount         bool     `json:"cdAccount"`
	Online            bool     `json:"online"`
	CreditCard        bool     `json:"creditCard"`
	StaffID           string   `json:"staffId,omitempty"`
	CreatedAt         string   `json:"createdAt,omitempty"`
	UpdatedAt         string   `json:"updatedAt,omitempty"`
}

// Employee is a user profile as stored by the employee service.
type Employee struct {
	UserID      string `json:"userId,omitempty"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Position    string `json:"position,omitempty"`
	HireDate    string `json:"hireDate,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// Stats is an analytics summary. The analytics service owns its shape.
type Stats map[string]any

// CustomerDecision filters customers by their latest prediction outcome.
type CustomerDecision string

const (
	DecisionApproved CustomerDecision = "approved"
	DecisionRejected CustomerDecision = "rejected"
	DecisionPending  CustomerDecision = "pending"
)
