package approvaltoken

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"
	"time"

	"go-leaves/internal/leave"
)

const displayTimeLayout = "January 2, 2006 3:04 PM MST"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="robots" content="noindex">
<title>{{.Title}}</title>
<style>
body{font-family:-apple-system,Segoe UI,Roboto,sans-serif;background:#f4f5f7;margin:0;padding:40px 16px;color:#1f2933}
.card{max-width:560px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;box-shadow:0 1px 3px rgba(0,0,0,.1)}
.card.success{border-top:4px solid #2f9e44}.card.gone{border-top:4px solid #e8590c}.card.error{border-top:4px solid #c92a2a}
h1{font-size:22px;margin-top:0}dl{margin:16px 0}dt{font-weight:600;margin-top:8px}dd{margin:0}
a.button{display:inline-block;margin-top:16px;padding:10px 16px;background:#1c7ed6;color:#fff;border-radius:4px;text-decoration:none}
</style>
</head>
<body>
<div class="card {{.Kind}}">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{if .Details}}<dl>{{range .Details}}<dt>{{.Label}}</dt><dd>{{.Value}}</dd>{{end}}</dl>{{end}}
{{if .DashboardURL}}<a class="button" href="{{.DashboardURL}}">Open the admin dashboard</a>{{end}}
</div>
</body>
</html>
`))

type pageDetail struct {
	Label string
	Value string
}

type page struct {
	Status       int
	Kind         string
	Title        string
	Message      string
	Details      []pageDetail
	DashboardURL string
}

func formatDisplayTime(t time.Time) string {
	return t.UTC().Format(displayTimeLayout)
}

func pastTense(action leave.Action) string {
	if action == leave.ActionApprove {
		return "approved"
	}
	return "rejected"
}

func resultPage(res Result, dashboardURL string) page {
	p := page{Status: http.StatusGone, Kind: "gone", DashboardURL: dashboardURL}
	v := res.Validation

	switch v.Outcome {
	case OutcomeValid:
		if !res.Succeeded() {
			return errorPage(dashboardURL)
		}
		verb := pastTense(res.Action)
		p.Status = http.StatusOK
		p.Kind = "success"
		p.Title = "Leave Request " + strings.ToUpper(verb[:1]) + verb[1:]
		p.Message = "The leave request has been " + verb + " successfully. The employee and their contacts are being notified."
		r := res.Request
		name := r.EmployeeName
		if name == "" {
			name = r.EmployeeCode
		}
		dates := make([]string, 0, len(r.Dates))
		for _, d := range r.Dates {
			dates = append(dates, d.Date)
		}
		p.Details = []pageDetail{
			{Label: "Employee", Value: name},
			{Label: "Leave dates", Value: strings.Join(dates, ", ")},
			{Label: "Status", Value: r.Status},
		}
	case OutcomeAlreadyUsed:
		p.Title = "Link Already Used"
		p.Message = "This approval link has already been used and cannot be used again."
		if v.UsedAt != nil {
			p.Details = []pageDetail{{Label: "Used on", Value: formatDisplayTime(*v.UsedAt)}}
		}
	case OutcomeExpired:
		p.Title = "Link Expired"
		p.Message = "This approval link has expired. Please process the request from the admin dashboard."
		p.Details = []pageDetail{{Label: "Expired on", Value: formatDisplayTime(v.ExpiresAt)}}
	case OutcomeRequestNotPending:
		p.Title = "Request Already Processed"
		p.Message = "This leave request is no longer pending, so this link can no longer change it."
		p.Details = []pageDetail{{Label: "Current status", Value: v.RequestStatus}}
	default:
		p.Title = "Invalid Link"
		p.Message = "This approval link is not valid. It may have been mistyped or removed."
	}
	return p
}

func errorPage(dashboardURL string) page {
	return page{
		Status:       http.StatusInternalServerError,
		Kind:         "error",
		Title:        "Something Went Wrong",
		Message:      "We could not process this link right now. Please try again later or use the admin dashboard.",
		DashboardURL: dashboardURL,
	}
}

func (p page) render() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
