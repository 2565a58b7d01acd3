package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/jrsteele09/riskdesk/routes"
)

// customerForm backs the staff create and edit page. Numbers stay as typed so a
// rejected submission is shown back unchanged.
type customerForm struct {
	CustomerID        string
	FullName          string
	Email             string
	Age               string
	Experience        string
	Income            string
	Family            string
	CCAvg             string
	Education         string
	Mortgage          string
	PersonalLoan      bool
	SecuritiesAccount bool
	CDAccount         bool
	Online            bool
	CreditCard        bool
}

func (f customerForm) Action() string {
	if f.CustomerID == "" {
		return routes.StaffCustomerNew
	}
	return routes.CustomerEditPath(f.CustomerID)
}

func formatOptional[T int | float64](v *T) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

func customerFormFrom(c *apiclient.Customer) customerForm {
	return customerForm{
		CustomerID:        c.CustomerID,
		FullName:          c.FullName,
		Email:             c.Email,
		Age:               formatOptional(c.Age),
		Experience:        formatOptional(c.Experience),
		Income:            formatOptional(c.Income),
		Family:            formatOptional(c.Family),
		CCAvg:             formatOptional(c.CCAvg),
		Education:         formatOptional(c.Education),
		Mortgage:          formatOptional(c.Mortgage),
		PersonalLoan:      c.PersonalLoan,
		SecuritiesAccount: c.SecuritiesAccount,
		CDAccount:         c.CDAccount,
		Online:            c.Online,
		CreditCard:        c.CreditCard,
	}
}

func customerFormFromRequest(customerID string, values url.Values) customerForm {
	field := func(name string) string { return strings.TrimSpace(values.Get(name)) }
	return customerForm{
		CustomerID:        customerID,
		FullName:          field("fullName"),
		Email:             field("email"),
		Age:               field("age"),
		Experience:        field("experience"),
		Income:            field("income"),
		Family:            field("family"),
		CCAvg:             field("ccAvg"),
		Education:         field("education"),
		Mortgage:          field("mortgage"),
		PersonalLoan:      values.Get("personalLoan") != "",
		SecuritiesAccount: values.Get("securitiesAccount") != "",
		CDAccount:         values.Get("cdAccount") != "",
		Online:            values.Get("online") != "",
		CreditCard:        values.Get("creditCard") != "",
	}
}

// customer converts the form. The returned problem names the first invalid field.
// Empty numeric fields are sent as null.
func (f customerForm) customer() (c apiclient.Customer, problem string) {
	c = apiclient.Customer{
		CustomerID:        f.CustomerID,
		FullName:          f.FullName,
		Email:             f.Email,
		PersonalLoan:      f.PersonalLoan,
		SecuritiesAccount: f.SecuritiesAccount,
		CDAccount:         f.CDAccount,
		Online:            f.Online,
		CreditCard:        f.CreditCard,
	}
	if c.FullName == "" || c.Email == "" {
		return c, "Full name and email are required"
	}

	ints := []struct {
		label string
		raw   string
		dst   **int
	}{
		{"Age", f.Age, &c.Age},
		{"Experience", f.Experience, &c.Experience},
		{"Family", f.Family, &c.Family},
		{"Education", f.Education, &c.Education},
	}
	for _, in := range ints {
		if in.raw == "" {
			continue
		}
		n, err := strconv.Atoi(in.raw)
		if err != nil || n < 0 {
			return c, in.label + " must be a whole number"
		}
		*in.dst = &n
	}

	floats := []struct {
		label string
		raw   string
		dst   **float64
	}{
		{"Income", f.Income, &c.Income},
		{"Card average", f.CCAvg, &c.CCAvg},
		{"Mortgage", f.Mortgage, &c.Mortgage},
	}
	for _, in := range floats {
		if in.raw == "" {
			continue
		}
		n, err := strconv.ParseFloat(in.raw, 64)
		if err != nil || n < 0 {
			return c, in.label + " must be a number"
		}
		*in.dst = &n
	}
	return c, ""
}

// CustomerFormHandler shows an empty form for a new customer, or the stored values when editing.
func (s *Server) CustomerFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID := r.PathValue("customerId")
		if customerID == "" {
			s.render(w, http.StatusOK, "customer_edit.html", s.newPage(r, "New customer", customerForm{}))
			return
		}
		customer, err := s.backend.GetCustomer(r.Context(), customerID)
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		s.render(w, http.StatusOK, "customer_edit.html", s.newPage(r, "Edit customer", customerFormFrom(customer)))
	}
}

// CustomerSaveHandler creates or updates a customer and returns to the customer list.
// The backend attributes new customers to the employee in X-User-Id.
func (s *Server) CustomerSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
			return
		}
		customerID := r.PathValue("customerId")
		title := "New customer"
		if customerID != "" {
			title = "Edit customer"
		}

		form := customerFormFromRequest(customerID, r.PostForm)
		customer, problem := form.customer()
		if problem != "" {
			page := s.newPage(r, title, form)
			page.Error = problem
			s.render(w, http.StatusBadRequest, "customer_edit.html", page)
			return
		}

		var err error
		if customerID == "" {
			_, err = s.backend.CreateCustomer(r.Context(), customer)
		} else {
			_, err = s.backend.UpdateCustomer(r.Context(), customerID, customer)
		}
		if err != nil {
			s.handleBackendError(w, r, err)
			return
		}
		http.Redirect(w, r, routes.StaffCustomers, http.StatusSeeOther)
	}
}
