package models

// ModelTypeRegistry lists every persisted model by name. The migrate
// validate command checks each of them against the live schema.
var ModelTypeRegistry = map[string]interface{}{
	"Tenant":             Tenant{},
	"MaintenanceRequest": MaintenanceRequest{},
}
