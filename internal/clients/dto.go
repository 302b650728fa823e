package clients

// CreateClientRequest is the payload for registering a customer.
type CreateClientRequest struct {
	Nome        string `json:"nome" validate:"required"`
	Telefone    string `json:"telefone" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Observacoes string `json:"observacoes"`
}

// UpdateClientRequest carries a partial patch; nil fields stay untouched.
type UpdateClientRequest struct {
	Nome        *string `json:"nome"`
	Telefone    *string `json:"telefone"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Observacoes *string `json:"observacoes"`
}
