package docstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"github.com/vneid/admin-dashboard/database"
)

const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverSQLite    = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Driver string

	ProjectID       string
	CredentialsFile string
	CredentialsJSON string

	MongoURI      string
	MongoDatabase string

	SQLitePath string
}

// Open connects to the configured backend and wraps it with tracing.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)

	switch opts.Driver {
	case DriverFirestore:
		var clientOpts []option.ClientOption
		switch {
		case opts.CredentialsJSON != "":
			clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
		case opts.CredentialsFile != "":
			clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
		}
		store, err = NewFirestore(ctx, opts.ProjectID, clientOpts...)
	case DriverMongo:
		store, err = NewMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case DriverSQLite, "":
		db, openErr := database.Open(opts.SQLitePath)
		if openErr != nil {
			return nil, openErr
		}
		store = NewSQLite(db)
	default:
		return nil, fmt.Errorf("unknown document store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	return Traced(store), nil
}
