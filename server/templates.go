package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/jrsteele09/riskdesk/predictions"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pageNames = []string{
	"home.html",
	"loading.html",
	"login.html",
	"signup.html",
	"profile.html",
	"employees.html",
	"employee_edit.html",
	"users.html",
	"customers.html",
	"customer.html",
	"customer_edit.html",
	"prediction.html",
	"risk_dashboard.html",
	"error.html",
}

type pageTemplates struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"customerPath":   routes.CustomerPath,
	"customerEdit":   routes.CustomerEditPath,
	"predictionPath": routes.PredictionPath,
	"employeePath":   routes.EmployeePath,
	"feedPath":       routes.PredictionFeedPath,
	"verdict":        func(j predictions.Job) string { return predictions.Verdict(&j) },
	"lower":          strings.ToLower,
	"deref": func(v any) any {
		switch p := v.(type) {
		case *int:
			if p != nil {
				return *p
			}
		case *float64:
			if p != nil {
				return *p
			}
		}
		return ""
	},
}

func parseTemplates() (*pageTemplates, error) {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}
	pt := &pageTemplates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(sub, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pt.pages[name] = tmpl
	}
	return pt, nil
}

type navLink struct {
	Label string
	Path  string
}

// pageData is the model every page template receives.
type pageData struct {
	AppName     string
	Title       string
	Email       string
	Role        string
	Nav         []navLink
	Error       string
	Flash       string
	Data        any
	RefreshSecs int
}

func navFor(role rbac.Role) []navLink {
	var links []navLink
	switch role {
	case rbac.RoleAdmin:
		links = append(links, navLink{"Employees", routes.AdminEmployees}, navLink{"Create user", routes.AdminUsers})
	case rbac.RoleStaff:
		links = append(links, navLink{"Customers", routes.StaffCustomers})
	case rbac.RoleRiskAnalyst:
		links = append(links, navLink{"Dashboard", routes.RiskDashboard})
	default:
	}
	return append(links, navLink{"Profile", routes.Profile})
}

// newPage fills in the header for the client making r. Other clients never see the session.
func (s *Server) newPage(r *http.Request, title string, data any) pageData {
	p := pageData{AppName: s.appName, Title: title, Data: data}
	if !s.ownsSession(r) {
		return p
	}
	if session := s.manager.Session(); session != nil {
		p.Email = session.Email
		p.Role = session.ParsedRole().String()
		p.Nav = navFor(session.ParsedRole())
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, status int, name string, page pageData) {
	tmpl, ok := s.templates.pages[name]
	if !ok {
		s.logger.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		s.logger.Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderLoading is the neutral view shown while the session is being restored.
func (s *Server) renderLoading(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	page := pageData{AppName: s.appName, Title: "Loading", RefreshSecs: 1}
	s.render(w, http.StatusServiceUnavailable, "loading.html", page)
}
