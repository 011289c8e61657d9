package models

type Account struct {
	Name   string `json:"name"`
	Tenant string `json:"tenant"`
	Role   string `json:"role"`
	// Manager accounts can create, edit and delete QA documents.
	Manager bool `json:"manager"`
}
