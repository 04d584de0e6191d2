package main

import "os"

// migrationsDir resolves the goose directory, relative to the working dir
// unless MIGRATIONS_DIR says otherwise.
func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "db/migrations"
}
