package repo

import (
	"github.com/go-concord/concord/pkg/database"
	"github.com/google/wire"
)

// ProviderSet provides the repository layer.
var ProviderSet = wire.NewSet(
	ProvideDatabase,
	NewSettingRepo,
)

func ProvideDatabase(cfg database.Database) (database.IDatabase, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return database.NewGormDB(db), nil
}
