// Package application provides the application interface for catalogsync commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Client()
//	            if err != nil {
//	                return err
//	            }
//	            summary, err := client.Sync(cmd.Context())
//	            // ... render summary
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...catalogsync.Option) (catalogsync.Client, error) {
//	        return fakeClient, nil
//	    },
//	}
//	cmd := sync.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/maryline/catalogsync"
	"github.com/maryline/catalogsync/internal/history"
)

// Application provides the application interface that commands need.
// The App struct from cmd/catalogsync/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns a sync client built from the loaded configuration.
	// Without options the default cached instance is returned. With options
	// a new instance is created and the caller owns closing it.
	Client(opts ...catalogsync.Option) (catalogsync.Client, error)

	// History opens the run history database. The caller closes it.
	History() (History, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// History is the read side of the run history store.
type History interface {
	List(ctx context.Context, limit int) ([]history.Run, error)
	Close() error
}
