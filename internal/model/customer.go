package model

import "time"

// Customer is a customer record of an advisory firm (company).
type Customer struct {
	ID           string `json:"id"`
	CompanyID    string `json:"companyId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PortalAccess bool   `json:"portalAccess"` // email is the portal login once access is granted
}

// DisplayName returns "First Last".
func (c Customer) DisplayName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CustomerUpdate carries the editable identity fields of a customer.
type CustomerUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

// RelatedEntity is an entity eligible to hold a share of a customer's
// assets, typically a family member linked to the customer record.
type RelatedEntity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// Session is the authenticated manager as returned by the backend.
type Session struct {
	ManagerID        string   `json:"managerId"`
	Email            string   `json:"email"`
	DisabledFeatures []string `json:"disabledFeatures"`
}

// FeatureEnabled reports whether the feature is absent from the disabled list.
func (s Session) FeatureEnabled(feature string) bool {
	for _, f := range s.DisabledFeatures {
		if f == feature {
			return false
		}
	}
	return true
}

// Features gated per manager.
const (
	FeatureWealth     = "wealth"
	FeatureConformity = "conformity"
	FeatureSearch     = "search"
)

// LCBForm holds the anti-money-laundering (LCB-FT) questionnaire answers of
// a customer.
type LCBForm struct {
	CustomerID string            `json:"customerId"`
	Answers    map[string]string `json:"answers"`
	UpdatedAt  *time.Time        `json:"updatedAt,omitempty"`
}

// LCB questionnaire keys.
const (
	LCBProfessionalSituation = "professionalSituation"
	LCBFundsOrigin           = "fundsOrigin"
	LCBFundsDestination      = "fundsDestination"
	LCBPoliticallyExposed    = "politicallyExposed"
	LCBIncomeBracket         = "incomeBracket"
	LCBWealthBracket         = "wealthBracket"
	LCBOperationsAbroad      = "operationsAbroad"
)

// LCBQuestions lists the accepted questionnaire keys.
var LCBQuestions = []string{
	LCBProfessionalSituation,
	LCBFundsOrigin,
	LCBFundsDestination,
	LCBPoliticallyExposed,
	LCBIncomeBracket,
	LCBWealthBracket,
	LCBOperationsAbroad,
}
