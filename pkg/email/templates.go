package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	WelcomeTmpl *template.Template
	ReceiptTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	welcomeTmpl, err := template.New("welcome").Parse(welcomeTemplate)
	if err != nil {
		return nil, err
	}

	receiptTmpl, err := template.New("receipt").Parse(receiptTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{
		WelcomeTmpl: welcomeTmpl,
		ReceiptTmpl: receiptTmpl,
	}, nil
}

// WelcomeData holds the dynamic data for the signup welcome email.
type WelcomeData struct {
	Name string
}

// ReceiptData holds the dynamic data for the completed-order receipt.
type ReceiptData struct {
	Name           string
	OrderID        int
	PickupAddress  string
	DropoffAddress string
	Price          int
}

// GenerateWelcomeEmailHTML executes the welcome template with the provided data.
func (tm *TemplateManager) GenerateWelcomeEmailHTML(data WelcomeData) (string, error) {
	var body bytes.Buffer
	if err := tm.WelcomeTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// GenerateReceiptEmailHTML executes the receipt template.
func (tm *TemplateManager) GenerateReceiptEmailHTML(data ReceiptData) (string, error) {
	var body bytes.Buffer
	if err := tm.ReceiptTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Welcome to MotoGo</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Welcome to MotoGo, {{.Name}}!</h2>
	<p>Your account is ready. Book your first ride or delivery from the app.</p>
	<p>If you did not sign up for this account, please ignore this email.</p>
</body>
</html>
`

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Your MotoGo Receipt</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Thanks for riding with MotoGo, {{.Name}}!</h2>
	<p>Your order #{{.OrderID}} is complete.</p>
	<ul>
		<li>From: {{.PickupAddress}}</li>
		<li>To: {{.DropoffAddress}}</li>
		<li>Total: RD${{.Price}}</li>
	</ul>
</body>
</html>
`
