package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	welcomeSubject       = "Welcome to ChoosePure Community!"
	adminAlertSubject    = "New Waitlist Signup - ChoosePure"
	passwordResetSubject = "Reset your ChoosePure admin password"

	signupTimeLayout = "02 Jan 2006, 03:04 PM MST"
)

type welcomeData struct {
	AppName       string
	FirstName     string
	CommunityLink string
}

type adminAlertData struct {
	Name       string
	Email      string
	Phone      string
	ChatLink   string
	Pincode    string
	SignedUpAt string
}

type passwordResetData struct {
	AppName   string
	ResetLink string
	ValidFor  string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// firstName returns the first word of name in title case ("aSHA rao" -> "Asha").
// cases.Caser is stateful, so a fresh one is built per call.
func firstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(parts[0])
}

// chatLink builds a wa.me link from a local number. Numbers that do not parse
// for region yield "".
func chatLink(phone, region string) string {
	num, err := phonenumbers.Parse(phone, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return ""
	}
	e164 := phonenumbers.Format(num, phonenumbers.E164)
	return "https://wa.me/" + strings.TrimPrefix(e164, "+")
}

func formatSignupTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		t = time.Now()
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(signupTimeLayout)
}

func formatValidity(d time.Duration) string {
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
