package setup

import "github.com/charmbracelet/glamour"

const nextSteps = `
## Next steps

1. Apply the schema: ` + "`go run ./cmd/migrate`" + `
2. Start the API: ` + "`go run ./cmd/server`" + `
3. Check it: ` + "`curl http://localhost:8080/health`" + `

Replace the placeholder OAuth, Stripe, Google Pay and UPI keys in ` + "`.env`" + ` before taking payments.
Forward Stripe webhooks with ` + "`stripe listen --forward-to localhost:8080/api/payments/webhook`" + `.
`

// renders the post-setup instructions; style is a glamour standard style such as "dark"
func RenderNextSteps(style string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)

	if err != nil {
		return "", err
	}

	return renderer.Render(nextSteps)
}
