package mail

import "strings"

// Plain-text bodies mirror the fixed copy of the HTML templates; clients
// that cannot render HTML still get a readable email.
const (
	welcomeSubject = "Welcome to FinSight!"
	welcomeText    = "Thanks for joining FinSight! Your dashboard is now ready. Start exploring market insights, automated summaries, and real time financial data, all in one place."

	digestSubjectPrefix = "Market News Summary Today "
)

const welcomeHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#0b0e11;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:32px 16px;">
      <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#14181d;border-radius:8px;">
        <tr><td style="padding:32px;">
          <h1 style="color:#e8eaed;font-size:24px;margin:0 0 16px;">Welcome to FinSight, {{name}}</h1>
          <p style="color:#9aa0a6;font-size:15px;line-height:1.6;margin:0 0 24px;">{{intro}}</p>
          <p style="color:#9aa0a6;font-size:15px;line-height:1.6;margin:0 0 24px;">
            Your dashboard is ready. Track your watchlist, read automated market
            summaries, and get a personalized news digest every day.
          </p>
          <p style="color:#5f6368;font-size:12px;margin:24px 0 0;">FinSight &middot; Market insights, delivered.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`

const digestHTMLTemplate = `<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#0b0e11;font-family:Arial,Helvetica,sans-serif;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
    <tr><td align="center" style="padding:32px 16px;">
      <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#14181d;border-radius:8px;">
        <tr><td style="padding:32px;">
          <h1 style="color:#e8eaed;font-size:20px;margin:0 0 8px;">Market News Summary</h1>
          <p style="color:#5f6368;font-size:13px;margin:0 0 24px;">{{date}}</p>
          <div style="color:#9aa0a6;font-size:15px;line-height:1.6;">{{newsContent}}</div>
          <p style="color:#5f6368;font-size:12px;margin:24px 0 0;">FinSight &middot; Market insights, delivered.</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`

// renderWelcomeHTML fills the welcome template placeholders.
func renderWelcomeHTML(name, intro string) string {
	return strings.NewReplacer("{{name}}", name, "{{intro}}", intro).Replace(welcomeHTMLTemplate)
}

// renderDigestHTML fills the digest template placeholders. The news content
// is AI-generated markup-ish text; paragraphs are preserved as line breaks.
func renderDigestHTML(date, newsContent string) string {
	content := strings.ReplaceAll(newsContent, "\n", "<br>")
	return strings.NewReplacer("{{date}}", date, "{{newsContent}}", content).Replace(digestHTMLTemplate)
}
