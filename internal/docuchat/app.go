package docuchat

import (
	"github.com/kart-io/docuchat/pkg/app"
)

const (
	appName        = "docuchat"
	appDescription = `DocuChat document QA service.

Upload pdf, docx, txt, or md documents; they are chunked, embedded, and
indexed in a vector store. Questions are answered by retrieving the most
similar chunks and asking a chat model, with the source documents cited.`
)

// NewApp creates the docuchat application.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}
