package models

// ReputationStatus is the category of a critical customer record
type ReputationStatus string

const (
	ReputationReturn          ReputationStatus = "Retorno"
	ReputationPendingIssue    ReputationStatus = "Pendência"
	ReputationComplaint       ReputationStatus = "Reclamação"
	ReputationTimeRestriction ReputationStatus = "Restrição de Horário"
)

// Risk levels
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Resolution states
const (
	ResolutionPending  = "Pendente"
	ResolutionResolved = "Resolvido"
)

// CustomerReputation is an entry of the critical-customer registry
type CustomerReputation struct {
	CustomerID       string           `gorm:"column:customer_id;primaryKey;type:text" json:"customerId"`
	ReturnCount      int              `gorm:"default:0" json:"returnCount"`
	ComplaintCount   int              `gorm:"default:0" json:"complaintCount"`
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`
	ComplaintReason  string           `json:"complaintReason,omitempty"`
	Status           ReputationStatus `json:"status"`
	RiskLevel        string           `json:"riskLevel"`
	ResolutionStatus string           `gorm:"default:'Pendente'" json:"resolutionStatus"`
	RegistrationDate string           `json:"registrationDate"`
}

func (CustomerReputation) TableName() string { return TableReputations }

// ClientMapping assigns a customer to the seller responsible for it
type ClientMapping struct {
	CustomerID   string `gorm:"column:customer_id;primaryKey;type:text" json:"customerId"`
	CustomerName string `json:"customerName"`
	SellerCode   string `json:"sellerCode"`
	SellerName   string `json:"sellerName"`
	SellerPhone  string `json:"sellerPhone,omitempty"`
}

func (ClientMapping) TableName() string { return TableMappings }
