package model

import "telegram-docs-bank/internal/domain"

// AssetDescriptor describes one collateral-document category: how it is shown
// to the user and where its document package lives.
type AssetDescriptor struct {
	Key         string // stable identifier, unique across the catalog
	Icon        string
	Title       string
	Description string
	Documents   int    // number of documents in the package
	Processing  string // human-readable processing window, e.g. "7-10 days"
	Filename    string // attachment filename presented to the user
	SourceURL   string // where the package is fetched from at delivery time
}

func (a *AssetDescriptor) Validate() error {
	if a.Key == "" || a.Title == "" || a.Filename == "" {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (a *AssetDescriptor) IsZero() bool { return a == nil || a.Key == "" }

// Label is the icon+title pair used in lists and replies.
func (a *AssetDescriptor) Label() string {
	if a.Icon == "" {
		return a.Title
	}
	return a.Icon + " " + a.Title
}
