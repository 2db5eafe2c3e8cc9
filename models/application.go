package models

import "time"

// Application represents the scholarship_applications table. The aggregate
// review status is not stored here: it is derived from the application's
// stage decisions, so the row can never disagree with the decision log.
type Application struct {
	ApplicationID     int        `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicationNumber string     `gorm:"column:application_number;unique" json:"application_number"`
	UserID            int        `gorm:"column:user_id" json:"user_id"`
	CategoryID        *int       `gorm:"column:category_id" json:"category_id"`
	SubcategoryID     *int       `gorm:"column:subcategory_id" json:"subcategory_id"`
	RequestedAmount   float64    `gorm:"column:requested_amount" json:"requested_amount"`
	ApprovedAmount    *float64   `gorm:"column:approved_amount" json:"approved_amount"`
	SubmittedAt       time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
	CreateAt          time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt          *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt          *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Applicant   User                    `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
	Category    *ScholarshipCategory    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory *ScholarshipSubcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	Decisions   []StageDecision         `gorm:"foreignKey:ApplicationID" json:"decisions,omitempty"`
}

// ScholarshipCategory represents the scholarship_categories table.
type ScholarshipCategory struct {
	CategoryID   int        `gorm:"primaryKey;column:category_id" json:"category_id"`
	CategoryName string     `gorm:"column:category_name" json:"category_name"`
	YearTH       string     `gorm:"column:year_th" json:"year_th"`
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// ScholarshipSubcategory represents the scholarship_subcategories table.
type ScholarshipSubcategory struct {
	SubcategoryID   int        `gorm:"primaryKey;column:subcategory_id" json:"subcategory_id"`
	CategoryID      int        `gorm:"column:category_id" json:"category_id"`
	SubcategoryName string     `gorm:"column:subcategory_name" json:"subcategory_name"`
	BudgetCeiling   *float64   `gorm:"column:budget_ceiling" json:"budget_ceiling"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (Application) TableName() string {
	return "scholarship_applications"
}

func (ScholarshipCategory) TableName() string {
	return "scholarship_categories"
}

func (ScholarshipSubcategory) TableName() string {
	return "scholarship_subcategories"
}
