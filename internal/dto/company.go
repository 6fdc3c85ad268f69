package dto

import "github.com/finbooks/ledger_backend/internal/core/domain"

// CreateCompanyRequest defines the payload for creating a company.
type CreateCompanyRequest struct {
	Name             string `json:"name" binding:"required"`
	RequiresApproval bool   `json:"requiresApproval"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID        string `json:"companyID"`
	Name             string `json:"name"`
	RequiresApproval bool   `json:"requiresApproval"`
}

// ToCompanyResponse converts a domain.Company to a CompanyResponse DTO.
func ToCompanyResponse(company *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:        company.CompanyID,
		Name:             company.Name,
		RequiresApproval: company.RequiresApproval,
	}
}
