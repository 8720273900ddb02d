package models

// ModelRegistry lists every model subject to gorm auto-migration.
var ModelRegistry = []interface{}{
	&WaitlistEntry{},
}
