// internal/domain/payment/form.go
package payment

import (
	"html/template"
	"io"
)

// Targets for the redirect form. PayFast refuses to render inside frames, so an
// embedded storefront must open the payment page in a new top-level context.
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

var redirectTemplate = template.Must(template.New("payfast-redirect").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to PayFast</title></head>
<body onload="document.forms[0].submit()">
<form method="POST" action="{{.URL}}" target="{{.Target}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to PayFast</button></noscript>
</form>
</body>
</html>
`))

// RenderRedirectForm writes an auto-submitting HTML form for req.
func RenderRedirectForm(w io.Writer, req *PaymentRequest, target string) error {
	if target != TargetBlank {
		target = TargetSelf
	}
	return redirectTemplate.Execute(w, struct {
		URL    string
		Target string
		Fields []Field
	}{req.URL, target, req.Fields})
}
