package models

// Row-store table names
const (
	TableDeliveries   = "deliveries"
	TableBranches     = "branches"
	TableReasons      = "return_reasons"
	TableDrivers      = "drivers"
	TableVehicles     = "vehicles"
	TableReputations  = "customer_reputation"
	TableMappings     = "client_mappings"
	TableUsers        = "users"
	FieldID           = "id"
	FieldCustomerID   = "customer_id"
	FieldManualStatus = "manual_status"
)

// Tables lists every table the dashboard reads at startup
var Tables = []string{
	TableDeliveries,
	TableBranches,
	TableReasons,
	TableDrivers,
	TableVehicles,
	TableReputations,
	TableMappings,
	TableUsers,
}

// All returns one zero value per table for schema migration
func All() []interface{} {
	return []interface{}{
		&Delivery{},
		&Branch{},
		&ReturnReason{},
		&Driver{},
		&Vehicle{},
		&CustomerReputation{},
		&ClientMapping{},
		&User{},
	}
}
