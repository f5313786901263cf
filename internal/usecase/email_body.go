package usecase

import (
	"bytes"
	"fmt"
	"html/template"

	"telegram-docs-bank/internal/domain/model"
	"telegram-docs-bank/internal/domain/ports/adapter"
)

var emailBodyTmpl = template.Must(template.New("docEmail").Parse(`<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 20px; text-align: center; }
  .content { padding: 20px; }
  .info-box { background: #f8f9fa; border-left: 4px solid #007bff; padding: 15px; margin: 15px 0; }
  .footer { background: #f8f9fa; padding: 15px; text-align: center; font-size: 12px; color: #666; }
</style>
</head>
<body>
  <div class="header">
    <h2>{{.Asset.Icon}} Collateral service documents</h2>
    <p>Asset category: {{.Asset.Title}}</p>
  </div>
  <div class="content">
    <p>Hello, {{.Name}}!</p>
    <p>Attached you will find the full document checklist for collateral of type <strong>"{{.Asset.Title}}"</strong>.</p>
    <div class="info-box">
      <h4>About this asset:</h4>
      <ul>
        <li><strong>Category:</strong> {{.Asset.Description}}</li>
        <li><strong>Documents:</strong> {{.Asset.Documents}}</li>
        <li><strong>Processing time:</strong> {{.Asset.Processing}}</li>
      </ul>
    </div>
    <p><strong>Before submitting:</strong></p>
    <ul>
      <li>Check that every document is current</li>
      <li>Make sure all forms are filled in correctly</li>
      <li>Contact our specialists if anything is unclear</li>
    </ul>
  </div>
  <div class="footer">
    <p>This message was sent automatically by the collateral documents bot.</p>
    {{if .SupportEmail}}<p>Questions: {{.SupportEmail}}</p>{{end}}
  </div>
</body>
</html>`))

type emailBodyData struct {
	Asset        model.AssetDescriptor
	Name         string
	SupportEmail string
}

// ComposeDocumentEmail builds the subject and both body parts for an asset
// delivery email. The attachment, when available, is added by the caller.
func ComposeDocumentEmail(asset model.AssetDescriptor, req model.DeliveryRequest, supportEmail string) (adapter.EmailMessage, error) {
	name := req.RequesterName
	if name == "" {
		name = "client"
	}

	var html bytes.Buffer
	if err := emailBodyTmpl.Execute(&html, emailBodyData{Asset: asset, Name: name, SupportEmail: supportEmail}); err != nil {
		return adapter.EmailMessage{}, fmt.Errorf("render email body: %w", err)
	}

	text := fmt.Sprintf(
		"Hello, %s!\n\nAttached is the document checklist for collateral of type %q.\n\nCategory: %s\nDocuments: %d\nProcessing time: %s\n",
		name, asset.Title, asset.Description, asset.Documents, asset.Processing,
	)
	if supportEmail != "" {
		text += "\nQuestions: " + supportEmail + "\n"
	}

	return adapter.EmailMessage{
		To:       req.Email,
		Subject:  fmt.Sprintf("%s Documents for %s", asset.Icon, asset.Title),
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
