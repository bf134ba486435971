package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	migrationsDir = "migrations"
	migrationExt  = ".sql"

	errUserNotFound = "user not found"

	msgEmailTaken                = "This email is already associated with an account."
	msgRecipeNotFoundFmt         = "No recipe found with id: %s"
	msgShoppingListNotFoundFmt   = "No shopping list found with id: %s"
	msgShoppingListRecipeInvalid = "Shopping list refers to an unknown recipe"
	msgAssetNotFoundFmt          = "No asset found with id: %s"
	msgAssetExistsFmt            = "%s %q already exists"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateMigrationsTableFmt = "failed to create schema_migrations table: %w"
	errFailedReadMigrationsFmt        = "failed to read migrations: %w"
	errFailedCheckMigrationFmt        = "failed to check migration %s: %w"
	errFailedReadMigrationFmt         = "failed to read migration %s: %w"
	errFailedApplyMigrationFmt        = "failed to apply migration %s: %w"
	errFailedRecordMigrationFmt       = "failed to record migration %s: %w"

	errFailedCreateUserFmt     = "failed to create user: %w"
	errFailedGetUserFmt        = "failed to get user: %w"
	errFailedUpdateUserFmt     = "failed to update user: %w"
	errFailedDeleteUserFmt     = "failed to delete user: %w"
	errFailedListFavoritesFmt  = "failed to list favorites: %w"
	errFailedToggleFavoriteFmt = "failed to toggle favorite: %w"

	errFailedCreateRecipeFmt  = "failed to create recipe: %w"
	errFailedGetRecipeFmt     = "failed to get recipe: %w"
	errFailedListRecipesFmt   = "failed to list recipes: %w"
	errFailedCountRecipesFmt  = "failed to count recipes: %w"
	errFailedSearchRecipesFmt = "failed to search recipes: %w"
	errFailedScanRecipeFmt    = "failed to scan recipe: %w"
	errIterateRecipesFmt      = "error iterating recipes: %w"
	errFailedUpdateRecipeFmt  = "failed to update recipe: %w"
	errFailedDeleteRecipeFmt  = "failed to delete recipe: %w"

	errFailedCreateShoppingListFmt = "failed to create shopping list: %w"
	errFailedGetShoppingListFmt    = "failed to get shopping list: %w"
	errFailedListShoppingListsFmt  = "failed to list shopping lists: %w"
	errFailedScanShoppingListFmt   = "failed to scan shopping list: %w"
	errFailedUpdateShoppingListFmt = "failed to update shopping list: %w"
	errFailedDeleteShoppingListFmt = "failed to delete shopping list: %w"

	errFailedListAssetsFmt  = "failed to list assets: %w"
	errFailedScanAssetFmt   = "failed to scan asset: %w"
	errFailedCreateAssetFmt = "failed to create asset: %w"
	errFailedUpdateAssetFmt = "failed to update asset: %w"
	errFailedDeleteAssetFmt = "failed to delete asset: %w"
	errFailedSeedAssetsFmt  = "failed to seed assets: %w"

	errFailedInsertAuditEventFmt = "failed to insert audit event: %w"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }

	errFailedCreateMigrationsTable = func(err error) error { return fmt.Errorf(errFailedCreateMigrationsTableFmt, err) }
	errFailedReadMigrations        = func(err error) error { return fmt.Errorf(errFailedReadMigrationsFmt, err) }
	errFailedCheckMigration        = func(f string, err error) error { return fmt.Errorf(errFailedCheckMigrationFmt, f, err) }
	errFailedReadMigration         = func(f string, err error) error { return fmt.Errorf(errFailedReadMigrationFmt, f, err) }
	errFailedApplyMigration        = func(f string, err error) error { return fmt.Errorf(errFailedApplyMigrationFmt, f, err) }
	errFailedRecordMigration       = func(f string, err error) error { return fmt.Errorf(errFailedRecordMigrationFmt, f, err) }

	errFailedCreateUser     = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedGetUser        = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedUpdateUser     = func(err error) error { return fmt.Errorf(errFailedUpdateUserFmt, err) }
	errFailedDeleteUser     = func(err error) error { return fmt.Errorf(errFailedDeleteUserFmt, err) }
	errFailedListFavorites  = func(err error) error { return fmt.Errorf(errFailedListFavoritesFmt, err) }
	errFailedToggleFavorite = func(err error) error { return fmt.Errorf(errFailedToggleFavoriteFmt, err) }

	errFailedCreateRecipe  = func(err error) error { return fmt.Errorf(errFailedCreateRecipeFmt, err) }
	errFailedGetRecipe     = func(err error) error { return fmt.Errorf(errFailedGetRecipeFmt, err) }
	errFailedListRecipes   = func(err error) error { return fmt.Errorf(errFailedListRecipesFmt, err) }
	errFailedCountRecipes  = func(err error) error { return fmt.Errorf(errFailedCountRecipesFmt, err) }
	errFailedSearchRecipes = func(err error) error { return fmt.Errorf(errFailedSearchRecipesFmt, err) }
	errFailedScanRecipe    = func(err error) error { return fmt.Errorf(errFailedScanRecipeFmt, err) }
	errIterateRecipes      = func(err error) error { return fmt.Errorf(errIterateRecipesFmt, err) }
	errFailedUpdateRecipe  = func(err error) error { return fmt.Errorf(errFailedUpdateRecipeFmt, err) }
	errFailedDeleteRecipe  = func(err error) error { return fmt.Errorf(errFailedDeleteRecipeFmt, err) }

	errFailedCreateShoppingList = func(err error) error { return fmt.Errorf(errFailedCreateShoppingListFmt, err) }
	errFailedGetShoppingList    = func(err error) error { return fmt.Errorf(errFailedGetShoppingListFmt, err) }
	errFailedListShoppingLists  = func(err error) error { return fmt.Errorf(errFailedListShoppingListsFmt, err) }
	errFailedScanShoppingList   = func(err error) error { return fmt.Errorf(errFailedScanShoppingListFmt, err) }
	errFailedUpdateShoppingList = func(err error) error { return fmt.Errorf(errFailedUpdateShoppingListFmt, err) }
	errFailedDeleteShoppingList = func(err error) error { return fmt.Errorf(errFailedDeleteShoppingListFmt, err) }

	errFailedListAssets  = func(err error) error { return fmt.Errorf(errFailedListAssetsFmt, err) }
	errFailedScanAsset   = func(err error) error { return fmt.Errorf(errFailedScanAssetFmt, err) }
	errFailedCreateAsset = func(err error) error { return fmt.Errorf(errFailedCreateAssetFmt, err) }
	errFailedUpdateAsset = func(err error) error { return fmt.Errorf(errFailedUpdateAssetFmt, err) }
	errFailedDeleteAsset = func(err error) error { return fmt.Errorf(errFailedDeleteAssetFmt, err) }
	errFailedSeedAssets  = func(err error) error { return fmt.Errorf(errFailedSeedAssetsFmt, err) }

	errFailedInsertAuditEvent = func(err error) error { return fmt.Errorf(errFailedInsertAuditEventFmt, err) }
)
