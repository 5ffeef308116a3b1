package models

// BranchAll selects every branch in scoped queries
const BranchAll = "all"

// Branch is a logistics unit
type Branch struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (Branch) TableName() string { return TableBranches }

// ReturnReason is an operator-selectable cause for a returned delivery
type ReturnReason struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	Label    string `gorm:"not null" json:"label"`
	Color    string `json:"color"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (ReturnReason) TableName() string { return TableReasons }
