package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents the role of an account
type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// UserType distinguishes individual filers from business filers
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeBusiness   UserType = "business"
)

// UserStatus is the lifecycle state of a client record, independent
// of the onboarding stepper
type UserStatus string

const (
	StatusPending         UserStatus = "pending"
	StatusInProgress      UserStatus = "in_progress"
	StatusCompleted       UserStatus = "completed"
	StatusBlocked         UserStatus = "blocked"
	StatusPendingOnClient UserStatus = "pending_on_client"
	StatusPaymentPending  UserStatus = "payment_pending"
)

// ItrType is the tax-form category derived from declared income sources
type ItrType string

const (
	ITR1 ItrType = "ITR1"
	ITR2 ItrType = "ITR2"
	ITR3 ItrType = "ITR3"
	ITR4 ItrType = "ITR4"
)

// IncomeSources holds the six declared income-source facts. Absent
// fields are treated as false.
type IncomeSources struct {
	SalaryIncome  bool `json:"salaryIncome"`
	RentalIncome  bool `json:"rentalIncome"`
	Business      bool `json:"business"`
	CapitalGains  bool `json:"capitalGains"`
	OtherSources  bool `json:"otherSources"`
	ForeignSource bool `json:"foreignSource"`
}

// StepperStatus tracks progress through the five-step onboarding funnel.
// CurrentStep only moves forward; IsCompleted flips once payment lands.
type StepperStatus struct {
	CurrentStep int  `gorm:"default:1" json:"currentStep"`
	IsCompleted bool `gorm:"default:false" json:"isCompleted"`
}

// User represents a portal account: clients going through the filing
// funnel as well as staff accounts managing them
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PhoneNumber  string     `gorm:"type:varchar(20);uniqueIndex" json:"phone_number"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Name         string     `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string     `gorm:"type:varchar(255)" json:"-"`
	Role         Role       `gorm:"type:varchar(20);default:'client'" json:"role"`
	UserType     UserType   `gorm:"type:varchar(20);default:'individual'" json:"user_type"`
	Status       UserStatus `gorm:"type:varchar(30);default:'pending'" json:"status"`

	Address           string     `gorm:"type:varchar(500)" json:"address"`
	Pincode           string     `gorm:"type:varchar(6)" json:"pincode"`
	PAN               string     `gorm:"type:varchar(10);column:pan" json:"pan"`
	DOB               *time.Time `gorm:"column:dob" json:"dob,omitempty"`
	BankAccountNumber string     `gorm:"type:varchar(30)" json:"bank_account_number"`
	IFSCCode          string     `gorm:"type:varchar(11);column:ifsc_code" json:"ifsc_code"`
	TermsAccepted     bool       `gorm:"default:false" json:"terms_accepted"`

	IncomeSources IncomeSources `gorm:"embedded;embeddedPrefix:income_" json:"income_sources"`

	// Derived from IncomeSources on every income-source update; never
	// accepted as client input.
	ItrType  ItrType `gorm:"type:varchar(10)" json:"itr_type"`
	ItrPrice int     `json:"itr_price"`

	TaxPortalPassword string `gorm:"type:varchar(255)" json:"-"`

	StepperStatus StepperStatus `gorm:"embedded;embeddedPrefix:stepper_" json:"stepper_status"`

	AssignedToID *uint  `gorm:"index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Remarks      string `gorm:"type:text" json:"remarks"`

	// Relationships
	Documents []Document `gorm:"foreignKey:UserID" json:"documents,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:UserID" json:"payments,omitempty"`
}

// Document is a supporting file uploaded during onboarding step 3
type Document struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID      uint      `gorm:"index" json:"user_id"`
	Name        string    `gorm:"type:varchar(255)" json:"name"`
	URL         string    `gorm:"type:varchar(1000)" json:"url"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
