package table

import (
	"context"
	"errors"

	"github.com/cofre-app/cofre/internal/platform/httpx"
)

// Notifier shows transient user-facing confirmations.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
}

// Clipboard receives the copied row identifier.
type Clipboard interface {
	Write(text string) error
}

// Deleter removes a resource row, normally backed by the upstream client.
type Deleter interface {
	Delete(ctx context.Context, resource, id string) error
}

// Action is one entry of a row's contextual menu. Nav-only entries carry an
// Href and no Run.
type Action struct {
	Label  string
	Danger bool
	Href   string
	Run    func(ctx context.Context)
}

// ActionConfig collects everything the row menu needs.
type ActionConfig struct {
	Resource string // API path segment, e.g. "debts"
	ID       string

	Clipboard Clipboard
	Notifier  Notifier
	Deleter   Deleter

	// ShowDetails opens the caller's detail/edit view for this row.
	ShowDetails func()
	// Refresh reloads the table after a successful mutation.
	Refresh func()

	// Optional resource-specific navigation, e.g. an invoice's transactions.
	NavLabel string
	NavHref  string

	DeleteSuccess string
	DeleteFailure string
}

// RowActions builds the contextual menu for one row: copy id, view/edit,
// optional navigation, delete.
func RowActions(cfg ActionConfig) []Action {
	actions := []Action{
		{
			Label: "Copiar ID",
			Run: func(ctx context.Context) {
				if cfg.Clipboard == nil {
					return
				}
				if err := cfg.Clipboard.Write(cfg.ID); err != nil {
					return
				}
				cfg.Notifier.Success("Copiado para a área de transferência", "ID: "+cfg.ID)
			},
		},
		{
			Label: "Editar",
			Run: func(ctx context.Context) {
				if cfg.ShowDetails != nil {
					cfg.ShowDetails()
				}
			},
		},
	}

	if cfg.NavLabel != "" {
		actions = append(actions, Action{Label: cfg.NavLabel, Href: cfg.NavHref})
	}

	actions = append(actions, Action{
		Label:  "Excluir",
		Danger: true,
		Run: func(ctx context.Context) {
			if err := cfg.Deleter.Delete(ctx, cfg.Resource, cfg.ID); err != nil {
				cfg.Notifier.Error(cfg.DeleteFailure, deleteErrorDescription(err))
				return
			}
			if cfg.Refresh != nil {
				cfg.Refresh()
			}
			cfg.Notifier.Success(cfg.DeleteSuccess, "ID: "+cfg.ID)
		},
	})

	return actions
}

// deleteErrorDescription surfaces the upstream message, not the wrapped
// error string.
func deleteErrorDescription(err error) string {
	var e *httpx.Error
	if errors.As(err, &e) {
		return e.StatusMessage
	}
	return err.Error()
}
