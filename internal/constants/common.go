package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"
	TestEnvironment  = "test"

	// ServiceName is attached to every structured log line
	ServiceName = "gator-permissions"

	// GatorPermissionsNamespace is the storage namespace holding granted permissions
	GatorPermissionsNamespace = "gator_7715_permissions"

	// Storage backends
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageLevelDB  = "leveldb"

	// Currencies
	USDCurrency = "usd"
)
