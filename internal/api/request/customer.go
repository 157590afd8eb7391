package request

// UpdateCustomerRequest is the body of PUT /api/company/{companyId}/customer/{customerId}.
type UpdateCustomerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
}

// UpdateLCBRequest is the body of the LCB-FT questionnaire save. Keys must
// be known questions.
type UpdateLCBRequest struct {
	Answers map[string]string `json:"answers" validate:"required,dive,keys,lcb_key,endkeys,max=500"`
}
