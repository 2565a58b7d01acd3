package fakebackend

import (
	"context"
	"strconv"
	"sync"

	"github.com/jrsteele09/riskdesk/apiclient"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/jrsteele09/riskdesk/server"
)

var _ server.Backend = (*FakeBackend)(nil)

// FakeBackend serves dashboard pages from in-memory records. Err, when set, fails every call.
type FakeBackend struct {
	lock sync.RWMutex

	Employees   map[string]apiclient.Employee
	Customers   map[string]apiclient.Customer
	Predictions map[string]predictions.Job
	Profile     *apiclient.Employee
	Overview    apiclient.Stats
	Counts      []apiclient.Stats

	Err       error
	StatsErr  error
	SignupErr error

	Signups   []apiclient.SignupRequest
	Registers []string
	Updates   []apiclient.Employee

	nextID   int
	nextCust int
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Employees:   make(map[string]apiclient.Employee),
		Customers:   make(map[string]apiclient.Customer),
		Predictions: make(map[string]predictions.Job),
	}
}

func (fb *FakeBackend) Register(_ context.Context, email, _, _ string) (string, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.SignupErr != nil {
		return "", fb.SignupErr
	}
	fb.Registers = append(fb.Registers, email)
	return "User registered", nil
}

func (fb *FakeBackend) Signup(_ context.Context, in apiclient.SignupRequest) (string, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.SignupErr != nil {
		return "", fb.SignupErr
	}
	fb.Signups = append(fb.Signups, in)
	return "", fb.Err
}

func (fb *FakeBackend) ListEmployees(_ context.Context) ([]apiclient.Employee, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	employees := make([]apiclient.Employee, 0, len(fb.Employees))
	for _, e := range fb.Employees {
		employees = append(employees, e)
	}
	return employees, nil
}

func (fb *FakeBackend) GetEmployee(_ context.Context, userID string) (*apiclient.Employee, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	e, ok := fb.Employees[userID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &e, nil
}

func (fb *FakeBackend) UpdateEmployee(_ context.Context, userID string, employee apiclient.Employee) (*apiclient.Employee, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	if _, ok := fb.Employees[userID]; !ok {
		return nil, errs.ErrNotFound
	}
	fb.Employees[userID] = employee
	fb.Updates = append(fb.Updates, employee)
	return &employee, nil
}

func (fb *FakeBackend) CurrentProfile(_ context.Context) (*apiclient.Employee, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	if fb.Profile == nil {
		return nil, errs.ErrNotFound
	}
	p := *fb.Profile
	return &p, nil
}

func (fb *FakeBackend) ListCustomers(_ context.Context) ([]apiclient.Customer, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	customers := make([]apiclient.Customer, 0, len(fb.Customers))
	for _, c := range fb.Customers {
		customers = append(customers, c)
	}
	return customers, nil
}

func (fb *FakeBackend) GetCustomer(_ context.Context, customerID string) (*apiclient.Customer, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	c, ok := fb.Customers[customerID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

// CreateCustomer stores a customer under the next free id of c-1, c-2 and so on, unless it already carries one.
func (fb *FakeBackend) CreateCustomer(_ context.Context, customer apiclient.Customer) (*apiclient.Customer, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	for customer.CustomerID == "" {
		fb.nextCust++
		id := "c-" + strconv.Itoa(fb.nextCust)
		if _, taken := fb.Customers[id]; !taken {
			customer.CustomerID = id
		}
	}
	fb.Customers[customer.CustomerID] = customer
	return &customer, nil
}

func (fb *FakeBackend) UpdateCustomer(_ context.Context, customerID string, customer apiclient.Customer) (*apiclient.Customer, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	if _, ok := fb.Customers[customerID]; !ok {
		return nil, errs.ErrNotFound
	}
	customer.CustomerID = customerID
	fb.Customers[customerID] = customer
	return &customer, nil
}

// CreatePrediction records a pending job with ids p-1, p-2 and so on.
func (fb *FakeBackend) CreatePrediction(_ context.Context, customerID string) (*predictions.Job, error) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	if _, ok := fb.Customers[customerID]; !ok {
		return nil, errs.ErrNotFound
	}
	fb.nextID++
	job := predictions.Job{
		PredictionID: "p-" + strconv.Itoa(fb.nextID),
		CustomerID:   customerID,
		Status:       predictions.StatusPending,
	}
	fb.Predictions[job.PredictionID] = job
	return &job, nil
}

func (fb *FakeBackend) GetPrediction(_ context.Context, predictionID string) (*predictions.Job, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	job, ok := fb.Predictions[predictionID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &job, nil
}

// SetPrediction replaces a stored job, used to move a job along its lifecycle.
func (fb *FakeBackend) SetPrediction(job predictions.Job) {
	fb.lock.Lock()
	defer fb.lock.Unlock()
	fb.Predictions[job.PredictionID] = job
}

func (fb *FakeBackend) ListPredictions(_ context.Context) ([]predictions.Job, error) {
	return fb.listPredictions(func(predictions.Job) bool { return true })
}

func (fb *FakeBackend) ListPredictionsByCustomer(_ context.Context, customerID string) ([]predictions.Job, error) {
	return fb.listPredictions(func(j predictions.Job) bool { return j.CustomerID == customerID })
}

func (fb *FakeBackend) listPredictions(keep func(predictions.Job) bool) ([]predictions.Job, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.Err != nil {
		return nil, fb.Err
	}
	jobs := []predictions.Job{}
	for _, j := range fb.Predictions {
		if keep(j) {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func (fb *FakeBackend) StatOverview(_ context.Context) (apiclient.Stats, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.StatsErr != nil {
		return nil, fb.StatsErr
	}
	return fb.Overview, nil
}

func (fb *FakeBackend) EmployeePredictionCounts(_ context.Context) ([]apiclient.Stats, error) {
	fb.lock.RLock()
	defer fb.lock.RUnlock()
	if fb.StatsErr != nil {
		return nil, fb.StatsErr
	}
	return fb.Counts, nil
}
