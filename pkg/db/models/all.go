package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&RegistrationRequest{},
		&User{},
		&OneTimePasscode{},
		&LoginActivity{},
		&Material{},
		&ArchivedMaterial{},
		&MaterialCodeCounter{},
		&StockEntry{},
	}
}
